package mods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEdit(t *testing.T, args ...string) error {
	t.Helper()

	cmd := NewEditCommand()
	require.NoError(t, cmd.ParseFlags(args))
	_, err := updateFromFlags(cmd)
	return err
}

func TestUpdateFromFlags(t *testing.T) {
	cmd := NewEditCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--id", "3", "--mod-version", "2.0", "--tags", "Hair,Body"}))

	update, err := updateFromFlags(cmd)
	require.NoError(t, err)
	assert.Nil(t, update.Name)
	require.NotNil(t, update.Version)
	assert.Equal(t, "2.0", *update.Version)
	assert.True(t, update.SetTags)
	assert.Equal(t, []string{"Hair", "Body"}, update.Tags)
}

func TestUpdateFromFlagsRequiresField(t *testing.T) {
	assert.EqualError(t, parseEdit(t, "--id", "3"), "at least one field to edit must be provided")
}

func TestUpdateFromFlagsValidatesSource(t *testing.T) {
	assert.Error(t, parseEdit(t, "--id", "3", "--source-url", "nowhere"))
	assert.NoError(t, parseEdit(t, "--id", "3", "--source-url", "https://example.com/mod"))
}
