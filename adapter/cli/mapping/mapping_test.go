package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lifecycles/adapter/cli"
	internalApp "github.com/felixgeelhaar/lifecycles/internal/app"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/application/queries"
	"github.com/felixgeelhaar/lifecycles/internal/lifecycle/domain"
	mcpinternal "github.com/felixgeelhaar/lifecycles/internal/mcp"
)

func setupTestApp(t *testing.T) {
	t.Helper()

	cfg := domain.NewConfig()
	cfg.Put("default", domain.Definition{
		Initial:  []string{"new"},
		Active:   []string{"open"},
		Inactive: []string{"resolved"},
	})
	cfg.Put("support", domain.Definition{
		Initial:  []string{"reported"},
		Active:   []string{"working"},
		Inactive: []string{"closed"},
	})
	cfg.Put("approvals", domain.Definition{
		Type:     "approval",
		Initial:  []string{"pending"},
		Inactive: []string{"approved"},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	container := internalApp.NewMemoryContainer(cfg, logger)
	t.Cleanup(container.Close)

	cli.SetApp(mcpinternal.NewCLIApp(container))
	t.Cleanup(func() { cli.SetApp(nil) })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	jsonOutput = false
	entries = map[string]string{}
	reset := func(f *pflag.Flag) { f.Changed = false }
	Cmd.PersistentFlags().VisitAll(reset)
	for _, c := range Cmd.Commands() {
		c.Flags().VisitAll(reset)
	}

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetErr(io.Discard)
	Cmd.SetArgs(args)
	err := Cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMissing(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "missing", "--json")
	require.NoError(t, err)

	var pairs []domain.MapPair
	require.NoError(t, json.Unmarshal([]byte(out), &pairs))
	assert.Equal(t, []domain.MapPair{
		{From: "default", To: "support"},
		{From: "support", To: "default"},
	}, pairs)
}

func TestSetAndShow(t *testing.T) {
	setupTestApp(t)

	out, err := run(t, "set", "default", "support", "--status", "New=reported", "--status", "open=working")
	require.NoError(t, err)
	assert.Contains(t, out, "Map default -> support updated (2 statuses).")

	out, err = run(t, "show", "default", "support", "NEW", "--json")
	require.NoError(t, err)
	var result queries.MapStatusDTO
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.HasMap)
	assert.True(t, result.Mapped)
	assert.Equal(t, "reported", result.Target)

	out, err = run(t, "show", "default", "support", "resolved")
	require.NoError(t, err)
	assert.Contains(t, out, "resolved is not mapped from default to support.")

	out, err = run(t, "show", "support", "default", "working")
	require.NoError(t, err)
	assert.Contains(t, out, "No map from support to default.")

	out, err = run(t, "missing")
	require.NoError(t, err)
	assert.Equal(t, "support -> default\n", out)
}

func TestSet_UnknownLifecycle(t *testing.T) {
	setupTestApp(t)

	_, err := run(t, "set", "default", "missing", "--status", "new=x")
	assert.ErrorIs(t, err, domain.ErrNotLoaded)

	_, err = run(t, "show", "missing", "default", "new")
	assert.ErrorIs(t, err, domain.ErrNotLoaded)
}

func TestRequiresApp(t *testing.T) {
	cli.SetApp(nil)
	_, err := run(t, "missing")
	assert.ErrorIs(t, err, errNotInitialized)
}
