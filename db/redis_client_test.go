package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cw-forecast/db"
)

func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient()},
		// Replace with a real Redis client configuration for integration testing
		// {"GoRedisClient", db.NewGoRedisClientFromOptions("localhost:6379", "", 0, time.Second)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()
			key := "test-key"
			value := "test-value"

			if err := test.client.Set(ctx, key, value, 0); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			retrieved, err := test.client.Get(ctx, key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if retrieved != value {
				t.Errorf("Expected %s, got %s", value, retrieved)
			}

			if err := test.client.Del(ctx, key); err != nil {
				t.Fatalf("Del failed: %v", err)
			}
			if _, err := test.client.Get(ctx, key); !errors.Is(err, db.ErrKeyNotFound) {
				t.Errorf("Expected ErrKeyNotFound after Del, got %v", err)
			}
		})
	}
}

func TestMockRedisClient_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	client := db.NewMockRedisClient()
	client.SetClock(func() time.Time { return now })

	if err := client.Set(ctx, "short", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := client.Get(ctx, "short"); err != nil {
		t.Fatalf("Expected key before expiry, got %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := client.Get(ctx, "short"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("Expected key to expire, got %v", err)
	}
}

func TestMockRedisClient_Keys(t *testing.T) {
	ctx := context.Background()
	client := db.NewMockRedisClient()
	for _, k := range []string{"forecast_v1:riyadh_2025-03-01", "forecast_v1:jeddah_2025-03-01", "other"} {
		if err := client.Set(ctx, k, "x", 0); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	keys, err := client.Keys(ctx, "forecast_v1:*")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "forecast_v1:jeddah_2025-03-01" {
		t.Errorf("Unexpected keys %v", keys)
	}
}
