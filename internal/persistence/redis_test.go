package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/parcel-service/internal/config"
)

func TestNewRedisDisabledWithoutAddr(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	if r.Enabled() {
		t.Fatal("expected redis to be disabled")
	}
	if err := r.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error on disabled client")
	}
	r.Close()
}

func TestNewRedisPing(t *testing.T) {
	srv := miniredis.RunT(t)

	r := NewRedis(config.RedisConfig{Addr: srv.Addr()}, zap.NewNop())
	defer r.Close()

	if !r.Enabled() {
		t.Fatal("expected redis to be enabled")
	}
	if err := r.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPostgresDisabledWithoutDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pg.Enabled() {
		t.Fatal("expected postgres to be disabled")
	}
	if err := pg.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error without pool")
	}
	pg.Close()
}
