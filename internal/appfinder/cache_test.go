package appfinder

import "testing"

func TestCache(t *testing.T) {
	cache := NewCache()

	if _, ok := cache.Get("https://example.org"); ok {
		t.Fatalf("expected a miss on an empty cache")
	}

	result := &Result{ApplicationURL: "https://example.org/apply", Confidence: 0.85}
	cache.Put("https://example.org", result)

	got, ok := cache.Get("https://example.org")
	if !ok || got.ApplicationURL != result.ApplicationURL {
		t.Fatalf("expected cached result, got %+v (hit=%v)", got, ok)
	}

	cache.Invalidate("https://example.org")
	if _, ok := cache.Get("https://example.org"); ok {
		t.Fatalf("expected entry to be gone after Invalidate")
	}

	cache.Put("https://a.example.org", result)
	cache.Put("https://b.example.org", result)
	if cache.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", cache.Len())
	}
}
