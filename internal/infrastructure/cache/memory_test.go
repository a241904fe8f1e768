package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/supptrack/backend/internal/domain"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)

		if err := c.Set(ctx, "products", []string{"whey protein"}); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		value, err := c.Get(ctx, "products")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		names, ok := value.([]string)
		if !ok || len(names) != 1 || names[0] != "whey protein" {
			t.Errorf("Get() = %v, want [whey protein]", value)
		}
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)

		_, err := c.Get(ctx, "missing")
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("error = %v, want ErrCacheMiss", err)
		}
	})

	t.Run("expired entries miss", func(t *testing.T) {
		c := NewMemoryCache(time.Millisecond)

		if err := c.Set(ctx, "products", "stale"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "products")
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("error = %v, want ErrCacheMiss after expiry", err)
		}
	})

	t.Run("delete removes key", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)

		_ = c.Set(ctx, "products", 1)
		if err := c.Delete(ctx, "products"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := c.Get(ctx, "products"); !errors.Is(err, domain.ErrCacheMiss) {
			t.Errorf("error = %v, want ErrCacheMiss after delete", err)
		}
	})

	t.Run("clear empties the cache", func(t *testing.T) {
		c := NewMemoryCache(time.Minute)

		_ = c.Set(ctx, "a", 1)
		_ = c.Set(ctx, "b", 2)
		c.Clear()
		if c.Size() != 0 {
			t.Errorf("Size() = %d, want 0 after Clear", c.Size())
		}
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		c := NewMemoryCache(0)

		_ = c.Set(ctx, "products", 1)
		if _, err := c.Get(ctx, "products"); err != nil {
			t.Errorf("Get() error = %v, want entry to survive with default TTL", err)
		}
	})
}
