/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package sandbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gbpctl/pkg/client"
	gbperrors "github.com/NVIDIA/gbpctl/pkg/errors"
	"github.com/NVIDIA/gbpctl/pkg/resource"
)

func newSandbox(t *testing.T, opts ...HandlerOption) (*Store, *httptest.Server) {
	t.Helper()
	store := NewStore(nil)
	h := NewHandler(store, opts...)
	mux := http.NewServeMux()
	mux.Handle(h.Pattern(), h)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return store, ts
}

func newClient(t *testing.T, url string, opts ...client.Option) *client.Client {
	t.Helper()
	c, err := client.New(url, append([]client.Option{client.WithRateLimit(0, 0)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestHandlerRoundTrip(t *testing.T) {
	_, ts := newSandbox(t)
	c := newClient(t, ts.URL)
	ctx := context.Background()

	l3, err := c.Create(ctx, resource.TypeL3Policy, map[string]any{"l3_policy": map[string]any{
		"name": "default", "ip_version": 4, "ip_pool": "10.0.0.0/8", "subnet_prefix_length": 24,
	}})
	require.NoError(t, err)
	assert.Equal(t, "default", l3.Name())
	assert.EqualValues(t, 24, l3["subnet_prefix_length"])

	l2, err := c.Create(ctx, resource.TypeL2Policy, map[string]any{"l2_policy": map[string]any{
		"name": "web", "l3_policy_id": l3.ID(),
	}})
	require.NoError(t, err)

	got, err := c.Get(ctx, resource.TypeL2Policy, l2.ID())
	require.NoError(t, err)
	assert.Equal(t, l3.ID(), got["l3_policy_id"])

	list, err := c.List(ctx, resource.TypeL2Policy, client.Query{Filters: map[string]string{"name": "web"}, Fields: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, []client.Record{{"id": l2.ID()}}, list)

	updated, err := c.Update(ctx, resource.TypeL2Policy, l2.ID(), map[string]any{"l2_policy": map[string]any{"description": "front"}})
	require.NoError(t, err)
	assert.Equal(t, "front", updated["description"])

	require.NoError(t, c.Delete(ctx, resource.TypeL2Policy, l2.ID()))

	_, err = c.Get(ctx, resource.TypeL2Policy, l2.ID())
	require.Error(t, err)
	assert.Equal(t, gbperrors.ErrCodeNotFound, gbperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "could not be found")
	assert.Equal(t, "L2PolicyNotFound", gbperrors.Details(err)["type"])
}

func TestHandlerEmptyList(t *testing.T) {
	_, ts := newSandbox(t)

	resp, err := http.Get(ts.URL + "/v2.0/grouppolicy/endpoints.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string][]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	list, ok := body["endpoints"]
	require.True(t, ok)
	assert.Empty(t, list)
}

func TestHandlerErrors(t *testing.T) {
	store, ts := newSandbox(t)
	l3, err := store.Create(resource.TypeL3Policy, map[string]any{"name": "l3"})
	require.NoError(t, err)
	_, err = store.Create(resource.TypeL2Policy, map[string]any{"name": "l2", "l3_policy_id": l3.ID()})
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		status   int
		errType  string
		contains string
	}{
		{"unknown collection", http.MethodGet, "/v2.0/routers", "", http.StatusNotFound, "NotFound", "could not be found"},
		{"unknown item", http.MethodGet, "/v2.0/grouppolicy/l3_policies/nope", "", http.StatusNotFound, "L3PolicyNotFound", "nope"},
		{"bad json", http.MethodPost, "/v2.0/grouppolicy/l3_policies", "{", http.StatusBadRequest, "HTTPBadRequest", "not valid JSON"},
		{"wrong envelope", http.MethodPost, "/v2.0/grouppolicy/l3_policies", `{"l2_policy":{}}`, http.StatusBadRequest, "HTTPBadRequest", "l3_policy"},
		{"unknown attribute", http.MethodPost, "/v2.0/grouppolicy/l3_policies", `{"l3_policy":{"colour":"red"}}`, http.StatusBadRequest, "HTTPBadRequest", "colour"},
		{"in use", http.MethodDelete, "/v2.0/grouppolicy/l3_policies/" + l3.ID(), "", http.StatusConflict, "Conflict", "in use"},
		{"collection method", http.MethodDelete, "/v2.0/grouppolicy/l3_policies", "", http.StatusMethodNotAllowed, "HTTPMethodNotAllowed", "DELETE"},
		{"item method", http.MethodPost, "/v2.0/grouppolicy/l3_policies/" + l3.ID(), "{}", http.StatusMethodNotAllowed, "HTTPMethodNotAllowed", "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body map[string]NeutronError
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.errType, body["NeutronError"].Type)
			assert.Contains(t, body["NeutronError"].Message, tt.contains)
		})
	}
}

func TestHandlerToken(t *testing.T) {
	_, ts := newSandbox(t, WithToken("secret"))

	_, err := newClient(t, ts.URL).List(context.Background(), resource.TypeL3Policy, client.Query{})
	require.Error(t, err)
	assert.Equal(t, gbperrors.ErrCodeUnauthorized, gbperrors.CodeOf(err))

	list, err := newClient(t, ts.URL, client.WithToken("secret")).List(context.Background(), resource.TypeL3Policy, client.Query{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHandlerRoute(t *testing.T) {
	h := NewHandler(NewStore(nil))

	tests := []struct {
		path string
		typ  resource.Type
		id   string
		ok   bool
	}{
		{"/v2.0/grouppolicy/l2_policies", resource.TypeL2Policy, "", true},
		{"/v2.0/grouppolicy/l2_policies.json", resource.TypeL2Policy, "", true},
		{"/v2.0/grouppolicy/l2_policies/abc", resource.TypeL2Policy, "abc", true},
		{"/v2.0/grouppolicy/l2_policies/abc.json", resource.TypeL2Policy, "abc", true},
		{"/v2.0/servicechain/servicechain_specs/x", resource.TypeServiceChainSpec, "x", true},
		{"/v2.0/networks", resource.TypeNetwork, "", true},
		{"/v2.0/grouppolicy", "", "", false},
		{"/v1/networks", "", "", false},
		{"/v2.0/grouppolicy/l2_policies/a/b", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			d, id, ok := h.route(tt.path)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.typ, d.Type)
			assert.Equal(t, tt.id, id)
		})
	}
}
