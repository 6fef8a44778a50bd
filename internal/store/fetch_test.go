package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestFetchOneCachesAndRevalidates(t *testing.T) {
	t.Parallel()

	var hits, notModified atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			notModified.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(eventsJSON))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	url := srv.URL + "/events.json"

	first, err := f.FetchOne(context.Background(), url)
	if err != nil {
		t.Fatalf("first FetchOne() error = %v", err)
	}
	if first.FromCache {
		t.Fatal("first fetch should not come from cache")
	}

	second, err := f.FetchOne(context.Background(), url)
	if err != nil {
		t.Fatalf("second FetchOne() error = %v", err)
	}
	if !second.FromCache {
		t.Fatal("second fetch should reuse cache")
	}
	if string(second.Body) != eventsJSON {
		t.Fatalf("cached body mismatch")
	}
	if notModified.Load() != 1 {
		t.Fatalf("304 responses = %d, want 1", notModified.Load())
	}
}

func TestFetchOneFallsBackToCacheOnServerError(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(eventsJSON))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	url := srv.URL + "/events.json"
	if _, err := f.FetchOne(context.Background(), url); err != nil {
		t.Fatalf("warm FetchOne() error = %v", err)
	}

	fail.Store(true)
	res, err := f.FetchOne(context.Background(), url)
	if err != nil {
		t.Fatalf("FetchOne() error = %v", err)
	}
	if !res.FromCache || len(res.Body) == 0 {
		t.Fatalf("FetchOne() = %+v, want cached body", res)
	}
}

func TestFetchOneErrorWithoutCache(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewFetcher(t.TempDir()).FetchOne(context.Background(), srv.URL+"/x.json"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRemoteJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(eventsJSON))
	}))
	defer srv.Close()

	st, err := Load(context.Background(), srv.URL+"/data/events.json", Options{CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", st.Len())
	}
}

func TestRedactURL(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://example.com/private.ics?token=abc": "https://example.com/...(redacted)",
		"data/events.json":                          "data/events.json",
	}
	for in, want := range tests {
		if got := redactURL(in); got != want {
			t.Fatalf("redactURL(%q) = %q, want %q", in, got, want)
		}
	}
}
