package setup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/modkeep/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMarshalDefaults(t *testing.T) {
	defaults := config.GetDefault()

	data, ext, err := marshalDefaults("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", ext)

	var fromYAML config.BaseConfig
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, defaults, fromYAML)

	data, ext, err = marshalDefaults("toml")
	require.NoError(t, err)
	assert.Equal(t, "toml", ext)

	var fromTOML config.BaseConfig
	require.NoError(t, toml.Unmarshal(data, &fromTOML))
	assert.Equal(t, defaults.Scan, fromTOML.Scan)
	assert.Equal(t, defaults.Log.Rotation, fromTOML.Log.Rotation)

	_, _, err = marshalDefaults("ini")
	assert.Error(t, err)
}

func TestConfigGenerateRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	cmd := newConfigGenerateCommand()
	cmd.SetArgs([]string{"--output", dir})
	cmd.SetOut(&nopWriter{})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	cmd = newConfigGenerateCommand()
	cmd.SetArgs([]string{"--output", dir})
	cmd.SetOut(&nopWriter{})
	assert.Error(t, cmd.Execute())
}

func TestRemoveDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mods.sqlite")

	require.NoError(t, removeDatabase(path, false))

	require.NoError(t, os.WriteFile(path, []byte("db"), 0644))
	assert.Error(t, removeDatabase(path, false))
	require.NoError(t, removeDatabase(path, true))
	assert.NoFileExists(t, path)

	assert.Error(t, removeDatabase(dir, true))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
