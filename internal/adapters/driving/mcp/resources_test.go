package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUserID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{name: "valid scope URI", uri: "askwork://users/u-1/scope", suffix: "scope", expected: "u-1"},
		{name: "valid sync URI", uri: "askwork://users/a@b.com/sync", suffix: "sync", expected: "a@b.com"},
		{name: "wrong suffix", uri: "askwork://users/u-1/sync", suffix: "scope", expected: ""},
		{name: "invalid prefix", uri: "file://users/u-1/scope", suffix: "scope", expected: ""},
		{name: "empty URI", uri: "", suffix: "scope", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractUserID(tt.uri, tt.suffix))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleScopeResource(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, &Ports{Scope: &mockScopeService{}})

	t.Run("returns scope as JSON", func(t *testing.T) {
		result, err := server.handleScopeResource(ctx, readRequest("askwork://users/u-alice/scope"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var scope ScopeOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &scope))
		assert.Equal(t, "scope of u-alice", scope.Description)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		_, err := server.handleScopeResource(ctx, readRequest("askwork://users/u-mallory/scope"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleScopeResource(ctx, readRequest("askwork://users/u-alice"))
		assert.Error(t, err)
	})
}

func TestServer_handleSyncResource(t *testing.T) {
	sync := &mockSyncService{result: testSyncResult()}
	server := newTestServer(t, &Ports{Sync: sync})

	result, err := server.handleSyncResource(context.Background(), readRequest("askwork://users/u-alice/sync"))

	require.NoError(t, err)
	var output SyncOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &output))
	assert.Equal(t, 4, output.Total)
	assert.Equal(t, 1, sync.calls)
}
