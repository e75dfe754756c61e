package common

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisCache(t *testing.T) (*RedisCacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheService(client, "dispatch:"), mr
}

func TestRedisCacheService_SetGetDelete(t *testing.T) {
	c, mr := setupRedisCache(t)

	c.Set("DRONE_1", cachedDrone{ID: 1, Name: "Falcon"}, time.Minute)

	if !mr.Exists("dispatch:DRONE_1") {
		t.Fatal("Expected key to be stored under the prefix")
	}
	if ttl := mr.TTL("dispatch:DRONE_1"); ttl != time.Minute {
		t.Errorf("Expected TTL of 1m, got %v", ttl)
	}

	var got cachedDrone
	if !c.Get("DRONE_1", &got) {
		t.Fatal("Expected cache hit")
	}
	if got != (cachedDrone{ID: 1, Name: "Falcon"}) {
		t.Errorf("Unexpected value: %+v", got)
	}

	c.Delete("DRONE_1")
	if c.Get("DRONE_1", &got) {
		t.Error("Expected miss after delete")
	}
}

func TestRedisCacheService_Expiry(t *testing.T) {
	c, mr := setupRedisCache(t)

	c.Set("STATS", map[string]int{"missions": 3}, time.Second)
	mr.FastForward(2 * time.Second)

	var got map[string]int
	if c.Get("STATS", &got) {
		t.Error("Expected miss after expiry")
	}
}

func TestRedisCacheService_UndecodableValueIsAMiss(t *testing.T) {
	c, mr := setupRedisCache(t)
	mr.Set("dispatch:DRONE_2", "{broken")

	var got cachedDrone
	if c.Get("DRONE_2", &got) {
		t.Error("Expected miss for a value that is not JSON")
	}
}

func TestRedisCacheService_ServerDown(t *testing.T) {
	c, mr := setupRedisCache(t)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	mr.Close()

	if err := c.Ping(context.Background()); err == nil {
		t.Error("Expected ping to fail once the server is gone")
	}

	// Failures degrade to misses.
	c.Set("DRONE_3", cachedDrone{ID: 3}, time.Minute)
	var got cachedDrone
	if c.Get("DRONE_3", &got) {
		t.Error("Expected miss while the server is down")
	}
}
