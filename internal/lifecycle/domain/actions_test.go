package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidateUpdate(t *testing.T) {
	assert.NoError(t, ValidateUpdate(""))
	assert.NoError(t, ValidateUpdate("Respond"))
	assert.NoError(t, ValidateUpdate("Comment"))
	assert.ErrorIs(t, ValidateUpdate("respond"), ErrInvalidActionUpdate)
	assert.ErrorIs(t, ValidateUpdate("Reply"), ErrInvalidActionUpdate)
}

func TestActionsFromMap_SortsKeys(t *testing.T) {
	actions := ActionsFromMap(map[string]ActionInfo{
		"open -> resolved": {Label: "Resolve", Update: "Comment"},
		"* -> deleted":     {Label: "Delete"},
		"new -> open":      {Label: "Open It", Update: "Respond"},
	})

	assert.Equal(t, Actions{
		{From: "*", To: "deleted", Label: "Delete"},
		{From: "new", To: "open", Label: "Open It", Update: "Respond"},
		{From: "open", To: "resolved", Label: "Resolve", Update: "Comment"},
	}, actions)
}

func TestActions_UnmarshalYAML(t *testing.T) {
	t.Run("mapping form", func(t *testing.T) {
		var def Definition
		err := yaml.Unmarshal([]byte(`
actions:
  "new -> open": {label: Open It, update: Respond}
  "* -> rejected": {label: Reject}
`), &def)
		require.NoError(t, err)
		assert.Equal(t, Actions{
			{From: "*", To: "rejected", Label: "Reject"},
			{From: "new", To: "open", Label: "Open It", Update: "Respond"},
		}, def.Actions)
	})

	t.Run("list form keeps order", func(t *testing.T) {
		var def Definition
		err := yaml.Unmarshal([]byte(`
actions:
  - {from: open, to: resolved, label: Resolve}
  - {from: "*", to: deleted, label: Delete}
`), &def)
		require.NoError(t, err)
		assert.Equal(t, Actions{
			{From: "open", To: "resolved", Label: "Resolve"},
			{From: "*", To: "deleted", Label: "Delete"},
		}, def.Actions)
	})

	t.Run("scalar is rejected", func(t *testing.T) {
		var def Definition
		err := yaml.Unmarshal([]byte("actions: nope\n"), &def)
		assert.Error(t, err)
	})
}

func TestActions_UnmarshalJSON(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		var a Actions
		err := json.Unmarshal([]byte(`{"b -> c": {"label": "C"}, "a -> b": {"label": "B", "update": "Comment"}}`), &a)
		require.NoError(t, err)
		assert.Equal(t, Actions{
			{From: "a", To: "b", Label: "B", Update: "Comment"},
			{From: "b", To: "c", Label: "C"},
		}, a)
	})

	t.Run("array form", func(t *testing.T) {
		var a Actions
		err := json.Unmarshal([]byte(`[{"from": "*", "to": "open", "label": "Reopen"}]`), &a)
		require.NoError(t, err)
		assert.Equal(t, Actions{{From: "*", To: "open", Label: "Reopen"}}, a)
	})

	t.Run("null", func(t *testing.T) {
		a := Actions{{From: "x", To: "y"}}
		require.NoError(t, json.Unmarshal([]byte(`null`), &a))
		assert.Nil(t, a)
	})

	t.Run("string is rejected", func(t *testing.T) {
		var a Actions
		assert.Error(t, json.Unmarshal([]byte(`"x"`), &a))
	})
}

func TestActionTable_From(t *testing.T) {
	table := NewActionTable(Actions{
		{From: "new", To: "open", Label: "Open It", Update: UpdateRespond},
		{From: "*", To: "open", Label: "Reopen"},
		{From: "*", To: "resolved", Label: "Resolve", Update: UpdateComment},
		{From: "open", To: "stalled", Label: "Stall"},
		{From: "*", To: "deleted", Label: "Delete"},
	})

	t.Run("concrete entry shadows wildcard with same target", func(t *testing.T) {
		assert.Equal(t, Actions{
			{From: "new", To: "open", Label: "Open It", Update: UpdateRespond},
			{From: "*", To: "resolved", Label: "Resolve", Update: UpdateComment},
			{From: "*", To: "deleted", Label: "Delete"},
		}, table.From("new"))
	})

	t.Run("shadowing applies even when the concrete entry starts elsewhere", func(t *testing.T) {
		assert.Equal(t, Actions{
			{From: "*", To: "resolved", Label: "Resolve", Update: UpdateComment},
			{From: "open", To: "stalled", Label: "Stall"},
			{From: "*", To: "deleted", Label: "Delete"},
		}, table.From("Open"))
	})

	t.Run("wildcard leading back to the status is excluded", func(t *testing.T) {
		got := table.From("resolved")
		for _, a := range got {
			assert.NotEqual(t, "resolved", a.To)
		}
		assert.Equal(t, Actions{{From: "*", To: "deleted", Label: "Delete"}}, got)
	})

	t.Run("empty status yields nothing", func(t *testing.T) {
		got := table.From("")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestActionTable_Labels(t *testing.T) {
	table := NewActionTable(Actions{
		{From: "a", To: "b", Label: "Go"},
		{From: "b", To: "c"},
	})
	assert.Equal(t, []string{"Go"}, table.Labels())
}
