package blocks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"goblocks/config"
)

func newTestHTTP(url string) *HTTPBlock {
	h := NewHTTP(config.HTTPModule{
		URL:         url,
		IntervalSec: 300,
		TimeoutSec:  5,
		FormatError: "ERROR",
	})
	h.Setup(Sink{})
	return h
}

func TestHTTPBlockShowsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("21.5°C\n"))
	}))
	defer srv.Close()

	h := newTestHTTP(srv.URL)
	if err := h.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if got := h.Result().FullText; got != "21.5°C" {
		t.Errorf("FullText = %q", got)
	}
}

func TestHTTPBlockErrorKeepsPolling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := newTestHTTP(srv.URL)
	// An HTTP failure is shown, not propagated, so the runner never
	// freezes the block.
	if err := h.poll(context.Background()); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if got := h.Result().FullText; got != "ERROR" {
		t.Errorf("FullText = %q, want ERROR", got)
	}
	if h.Frozen() {
		t.Error("block must stay live through request failures")
	}
}

func TestHTTPBlockRecoversAfterError(t *testing.T) {
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "nope", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	h := newTestHTTP(srv.URL)
	if err := h.poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	fail = false
	if err := h.poll(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := h.Result().FullText; got != "ok" {
		t.Errorf("FullText = %q, want ok", got)
	}
}
