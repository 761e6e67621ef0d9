package ipinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ip":"203.0.113.7"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if got := c.PublicIP(context.Background()); got != "203.0.113.7" {
		t.Errorf("Expected 203.0.113.7, got %s", got)
	}
}

func TestPublicIPFallsBackToUnknown(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("not json")) }},
		{"empty ip", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"ip":""}`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"ip":"203.0.113.7"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c, err := NewClient(srv.URL, 50*time.Millisecond)
			if err != nil {
				t.Fatalf("NewClient failed: %v", err)
			}
			if got := c.PublicIP(context.Background()); got != Unknown {
				t.Errorf("Expected %s, got %s", Unknown, got)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	if got := Static("").PublicIP(context.Background()); got != Unknown {
		t.Errorf("Expected Unknown, got %s", got)
	}
	if got := Static("10.0.0.1").PublicIP(context.Background()); got != "10.0.0.1" {
		t.Errorf("Expected 10.0.0.1, got %s", got)
	}
}
