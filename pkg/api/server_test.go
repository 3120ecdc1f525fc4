/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/NVIDIA/gbpctl/pkg/resource"
	"github.com/NVIDIA/gbpctl/pkg/server"
)

func TestRoutes(t *testing.T) {
	r, store, err := Routes(Config{})
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}
	if _, exists := r["/v2.0/"]; !exists {
		t.Error("expected /v2.0/ route to exist")
	}
	if store.Len(resource.TypeL3Policy) != 0 {
		t.Error("expected an empty store")
	}
}

func TestRoutesSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("network:\n  - name: net-a\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, store, err := Routes(Config{SeedFile: path})
	if err != nil {
		t.Fatalf("Routes() error = %v", err)
	}
	if got := store.Len(resource.TypeNetwork); got != 1 {
		t.Errorf("expected 1 seeded network, got %d", got)
	}
}

func TestRoutesMissingSeedFile(t *testing.T) {
	if _, _, err := Routes(Config{SeedFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("expected error for missing seed file")
	}
}

func TestSandboxEndpoint(t *testing.T) {
	r, _, err := Routes(Config{Token: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	s := server.New(server.WithHandler(r))
	h := s.Handler()

	tests := []struct {
		name       string
		token      string
		expectCode int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "nope", http.StatusUnauthorized},
		{"valid token", "secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v2.0/grouppolicy/l3_policies", nil)
			if tt.token != "" {
				req.Header.Set("X-Auth-Token", tt.token)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.expectCode {
				t.Errorf("expected status %d, got %d", tt.expectCode, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", ct)
			}
		})
	}
}

func TestSandboxEndpointListEnvelope(t *testing.T) {
	r, _, err := Routes(Config{})
	if err != nil {
		t.Fatal(err)
	}
	h := server.New(server.WithHandler(r)).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v2.0/servicechain/servicechain_specs", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var body map[string][]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if _, ok := body["servicechain_specs"]; !ok {
		t.Errorf("expected servicechain_specs key, got %v", body)
	}
}
