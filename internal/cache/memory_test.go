package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("k", "answer", time.Minute)
	v, ok := c.Get("k")
	if !ok || v != "answer" {
		t.Errorf("Expected cached answer, got %q/%v", v, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("k", "answer", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	c.Set("k", "answer", time.Minute)
	c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("Expected empty cache after Clear")
	}
}

func TestKey_Deterministic(t *testing.T) {
	if Key("trend for Block A") != Key("trend for Block A") {
		t.Error("Expected identical keys for identical queries")
	}
	if Key("a") == Key("b") {
		t.Error("Expected different keys for different queries")
	}
}
