package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoTrueClient_Resolve(t *testing.T) {
	var gotAuth, gotKey, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("apikey")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"9a8b7c6d-5e4f-3a2b-1c0d-e9f8a7b6c5d4","email":"jane@example.com","role":"authenticated"}`))
	}))
	defer server.Close()

	client := NewGoTrueClient(server.URL+"/", "anon-key", time.Second)
	id, err := client.Resolve(context.Background(), "token-123")
	require.NoError(t, err)

	assert.Equal(t, "9a8b7c6d-5e4f-3a2b-1c0d-e9f8a7b6c5d4", id.UserID)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, "/auth/v1/user", gotPath)
}

func TestGoTrueClient_Resolve_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantInvalid bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"msg":"invalid JWT"}`, true},
		{"forbidden", http.StatusForbidden, `{}`, true},
		{"missing id", http.StatusOK, `{"email":"jane@example.com"}`, true},
		{"server error", http.StatusInternalServerError, `oops`, false},
		{"malformed body", http.StatusOK, `{"id":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewGoTrueClient(server.URL, "", time.Second)
			_, err := client.Resolve(context.Background(), "token")
			require.Error(t, err)
			if tt.wantInvalid {
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

func TestGoTrueClient_Resolve_EmptyToken(t *testing.T) {
	client := NewGoTrueClient("http://127.0.0.1:1", "", time.Second)
	_, err := client.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoTrueClient_Resolve_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewGoTrueClient(server.URL, "", 20*time.Millisecond)
	_, err := client.Resolve(context.Background(), "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestGoTrueClient_WithHTTPClient(t *testing.T) {
	custom := &http.Client{Timeout: time.Minute}
	client := NewGoTrueClient("http://auth.local", "", time.Second, WithHTTPClient(custom))
	assert.Same(t, custom, client.httpClient)
}
