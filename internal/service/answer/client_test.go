package answer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"parley/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIURL:  url,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, testLogger()).(*Client)
}

func TestAnswer_Success(t *testing.T) {
	var gotKey string
	var gotBody smartRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "spring is best"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	history := []models.Exchange{
		{Role: models.RoleUser, Content: "best time to visit Japan?"},
	}

	got, err := client.Answer(context.Background(), history)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got != "spring is best" {
		t.Errorf("unexpected answer: %q", got)
	}
	if gotKey != "test-key" {
		t.Errorf("expected API key header, got %q", gotKey)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "best time to visit Japan?" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestAnswer_EmptyAnswerFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Answer(context.Background(), nil)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got != fallbackAnswer {
		t.Errorf("expected fallback answer, got %q", got)
	}
}

func TestAnswer_MissingKeyFailsBeforeAnyRequest(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	client := NewClient(Config{APIURL: server.URL, Timeout: time.Second}, testLogger())

	_, err := client.Answer(context.Background(), nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if requested {
		t.Error("no request should be sent without a credential")
	}
}

func TestAnswer_UpstreamErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Answer(context.Background(), nil)

	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", upstreamErr.Status)
	}
	if upstreamErr.Body != "rate limited" {
		t.Errorf("expected body preserved, got %q", upstreamErr.Body)
	}
}

func TestAnswer_TimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(Config{
		APIURL:  server.URL,
		APIKey:  "test-key",
		Timeout: 20 * time.Millisecond,
	}, testLogger())

	_, err := client.Answer(context.Background(), nil)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError on timeout, got %v", err)
	}
}

func TestAnswer_ConnectionRefusedIsTransportError(t *testing.T) {
	// Grab a port with nothing listening on it
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Answer(context.Background(), nil)

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
