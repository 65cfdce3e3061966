package server

import (
	"net/http/httptest"
	"testing"

	"backend-nexus/internal/config"
)

func TestHealthRoute(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/posts/", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPublisherRoutesRequirePublisherToken(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", PublisherToken: "pub-secret", ServerPort: ":0"}, nil, nil)

	for _, target := range []string{"/queue/due", "/posts/post-1/published"} {
		method := "GET"
		if target != "/queue/due" {
			method = "POST"
		}
		req := httptest.NewRequest(method, target, nil)
		resp, err := s.App.Test(req)
		if err != nil {
			t.Fatalf("test request: %v", err)
		}
		if resp.StatusCode != 401 {
			t.Fatalf("expected 401 for %s without publisher token, got %d", target, resp.StatusCode)
		}
	}
}

func TestQueueDueWithPublisherToken(t *testing.T) {
	s := NewServer(config.Config{JWTSecret: "secret", PublisherToken: "pub-secret", ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest("GET", "/queue/due", nil)
	req.Header.Set("Authorization", "Bearer pub-secret")
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for publisher token, got %d", resp.StatusCode)
	}
}
