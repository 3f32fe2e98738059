package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"lifecycles.yaml", FormatYAML},
		{"lifecycles.yml", FormatYAML},
		{"lifecycles.json", FormatJSON},
		{"LIFECYCLES.JSONC", FormatJSON},
		{"lifecycles", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	for _, name := range []string{"lifecycles.yaml", "lifecycles.json"} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewFileStore(filepath.Join(t.TempDir(), "nested", name))

			require.NoError(t, store.Persist(ctx, sampleConfig()))
			got, err := store.Load(ctx)
			require.NoError(t, err)

			assert.Equal(t, []string{"support", "approvals"}, got.Names())
			want, _ := sampleConfig().Get("support")
			def, ok := got.Get("support")
			require.True(t, ok)
			if diff := cmp.Diff(want, def); diff != "" {
				t.Errorf("definition mismatch (-want +got):\n%s", diff)
			}
			mapping, ok := got.Map("support", "approvals")
			require.True(t, ok)
			assert.Equal(t, map[string]string{"new": "pending"}, mapping)
		})
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Len())
	assert.NoError(t, store.Ping(context.Background()))
}

func TestFileStore_JSONWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycles.jsonc")
	doc := `{
	// support desk
	"support": {
		"initial": ["new"],
		"active": ["open"],
		"inactive": ["closed"],
	},
	"__maps__": {"support -> support": {"New": "new"}},
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	def, ok := cfg.Get("support")
	require.True(t, ok)
	assert.Equal(t, []string{"closed"}, def.Inactive)
	mapping, ok := cfg.Map("support", "support")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"new": "new"}, mapping)
}

func TestFileStore_YAMLKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycles.yaml")
	doc := `
zeta:
  initial: [new]
alpha:
  initial: [new]
  actions:
    "new -> open":
      label: Open
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha"}, cfg.Names())
	def, _ := cfg.Get("alpha")
	assert.Equal(t, domain.Actions{{From: "new", To: "open", Label: "Open"}}, def.Actions)
}

func TestFileStore_DecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifecycles.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"support": [`), 0o644))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}
