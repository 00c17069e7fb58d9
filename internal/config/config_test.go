package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "movie_booking", cfg.Database.DBName)
	assert.Equal(t, 5*time.Minute, cfg.Booking.HoldDuration)
	assert.Equal(t, 30*time.Second, cfg.Booking.SweepInterval)
	assert.Equal(t, "postgres", cfg.Booking.Store)
	assert.Equal(t, "ticket.issued", cfg.RabbitMQ.Queue)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.example.com")
	t.Setenv("BOOKING_HOLD_DURATION", "60s")
	t.Setenv("BOOKING_SWEEP_INTERVAL", "5s")
	t.Setenv("BOOKING_STORE", "memory")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 60*time.Second, cfg.Booking.HoldDuration)
	assert.Equal(t, 5*time.Second, cfg.Booking.SweepInterval)
	assert.Equal(t, "memory", cfg.Booking.Store)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BOOKING_HOLD_DURATION", "not-a-duration")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, 5*time.Minute, cfg.Booking.HoldDuration)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "secret", DBName: "movie_booking", SSLMode: "disable",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=movie_booking")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "localhost", Port: "6379"}

	assert.Equal(t, "localhost:6379", cfg.Addr())
}
