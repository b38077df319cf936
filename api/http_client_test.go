package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestHTTPClient_Request_Success(t *testing.T) {
	mockResponse := map[string]string{"message": "success"}
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-endpoint" {
			t.Errorf("Expected endpoint '/test-endpoint', got '%s'", r.URL.Path)
		}
		if got := r.URL.Query().Get("latitude"); got != "24.7136" {
			t.Errorf("Expected latitude query '24.7136', got '%s'", got)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(mockResponse)
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	var response map[string]string

	query := url.Values{"latitude": {"24.7136"}}
	err := client.Request(context.Background(), http.MethodGet, "/test-endpoint", query, nil, nil, &response)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if response["message"] != "success" {
		t.Errorf("Expected response message to be 'success', got '%s'", response["message"])
	}
}

func TestHTTPClient_Request_SendsJSONBody(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got '%s'", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["key"] != "value" {
			t.Errorf("Unexpected body %v (%v)", body, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	err := client.Request(context.Background(), http.MethodPost, "/", nil, map[string]string{"X-Trace": "1"}, map[string]string{"key": "value"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestHTTPClient_Request_Failure(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": true, "reason": "bad request"}`))
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL)
	var response map[string]string

	err := client.Request(context.Background(), http.MethodGet, "/test-endpoint", nil, nil, nil, &response)
	if err == nil {
		t.Fatalf("Expected an error, got nil")
	}

	expectedError := "unexpected status code: 400 Bad Request"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected a *StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || len(statusErr.Body) == 0 {
		t.Errorf("Unexpected status error %+v", statusErr)
	}
}

func TestHTTPClient_Request_ContextCancelled(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer mockServer.Close()

	client := NewHTTPClient(mockServer.URL).WithRateLimit(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// The first request consumes the only token; the second must wait far past the deadline.
	if err := client.Request(ctx, http.MethodGet, "/", nil, nil, nil, nil); err != nil {
		t.Fatalf("Expected first request to pass, got %v", err)
	}
	if err := client.Request(ctx, http.MethodGet, "/", nil, nil, nil, nil); err == nil {
		t.Fatalf("Expected the rate limiter to give up on the deadline")
	}
}
