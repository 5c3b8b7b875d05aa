package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_WithNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_LoadCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not [valid toml"), 0o600))

	_, err := NewConfigStore(tmpDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", val)
	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
}

func TestConfigStore_Get_NotFound(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("missing")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("count", int64(3)))

	assert.Empty(t, store.GetString("count"))
	assert.Nil(t, store.GetStringSlice("count"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("company.domains", []string{"acme.com", "acme.io"}))
	require.NoError(t, store.Set("single", "acme/api"))

	assert.Equal(t, []string{"acme.com", "acme.io"}, store.GetStringSlice("company.domains"))
	assert.Equal(t, []string{"acme/api"}, store.GetStringSlice("single"))
}

func TestConfigStore_SaveReload_WritesNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("llm.model", "claude-3-5-sonnet-latest"))
	require.NoError(t, store.Set("issues.repositories", []string{"acme/api"}))
	require.NoError(t, store.Set("classifier.urgency_keywords", []string{"p0", "sev1"}))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[classifier]")

	reloaded, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", reloaded.GetString("llm.provider"))
	assert.Equal(t, "claude-3-5-sonnet-latest", reloaded.GetString("llm.model"))
	assert.Equal(t, []string{"acme/api"}, reloaded.GetStringSlice("issues.repositories"))
	assert.Equal(t, []string{"p0", "sev1"}, reloaded.GetStringSlice("classifier.urgency_keywords"))
}

func TestConfigStore_Load_ReadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[embedding]
provider = "openai"

[company]
domains = ["acme.com"]

[knowledge]
file = "/srv/knowledge.toml"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0o600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, []string{"acme.com"}, store.GetStringSlice("company.domains"))
	assert.Equal(t, "/srv/knowledge.toml", store.GetString("knowledge.file"))
}

func TestConfigStore_Load_NonExistent(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Load())
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), nil, 0o600))

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NoError(t, store.Set("llm.model", "x"))
	assert.Equal(t, "x", store.GetString("llm.model"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("llm.model", "m")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("llm.model")
		}()
	}
	wg.Wait()

	assert.Equal(t, "m", store.GetString("llm.model"))
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"llm":  map[string]any{"model": "m", "opts": map[string]any{"t": 0.3}},
		"name": "x",
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{"llm.model": "m", "llm.opts.t": 0.3, "name": "x"}, flat)
}

func TestNestMap(t *testing.T) {
	tests := []struct {
		name string
		flat map[string]any
		want map[string]any
	}{
		{
			name: "round trips flattenMap",
			flat: map[string]any{"llm.model": "m", "llm.opts.t": 0.3, "name": "x"},
			want: map[string]any{
				"llm":  map[string]any{"model": "m", "opts": map[string]any{"t": 0.3}},
				"name": "x",
			},
		},
		{
			name: "table wins over value",
			flat: map[string]any{"llm": "flat", "llm.model": "m"},
			want: map[string]any{"llm": map[string]any{"model": "m"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nestMap(tt.flat))
		})
	}
}
