package cache

import "testing"

func TestQueryCache(t *testing.T) {
	t.Run("Set and Get", func(t *testing.T) {
		c := New()
		c.Set(KeyUser, "alice")

		value, ok := c.Get(KeyUser)
		if !ok {
			t.Fatal("expected key to be set")
		}
		if value != "alice" {
			t.Errorf("expected alice, got %v", value)
		}
	})

	t.Run("Nil Value Is Set", func(t *testing.T) {
		c := New()
		c.Set(KeyUser, nil)

		value, ok := c.Get(KeyUser)
		if !ok {
			t.Fatal("nil value should still count as set")
		}
		if value != nil {
			t.Errorf("expected nil, got %v", value)
		}
	})

	t.Run("Evict", func(t *testing.T) {
		c := New()
		c.Set(KeyUser, "alice")
		c.Evict(KeyUser)

		if _, ok := c.Get(KeyUser); ok {
			t.Error("expected key to be evicted")
		}
	})

	t.Run("EvictAll", func(t *testing.T) {
		c := New()
		c.Set(KeyUser, "alice")
		c.Set(KeyPlaylists, []string{"a", "b"})
		c.Set(KeyTopTracks, []string{"t"})

		c.EvictAll()

		if len(c.Keys()) != 0 {
			t.Errorf("expected empty cache, got keys %v", c.Keys())
		}
	})
}
