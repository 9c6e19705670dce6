package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsdl-go/internal/instance"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, instance.ModeEager, cfg.Mode)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 512, cfg.CacheSize)
	assert.Empty(t, cfg.ImportPaths)
	assert.Empty(t, cfg.File)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "dsdl.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
import_paths: [schemas, shared]
mode: lazy
workers: 3
media_root: /data/media
`), 0o644))

	t.Setenv("DSDL_MODE", "strict")

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, []string{"schemas", "shared"}, cfg.ImportPaths)
	assert.Equal(t, instance.ModeStrict, cfg.Mode)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/data/media", cfg.MediaRoot)
	assert.Equal(t, file, cfg.File)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	v := New()
	v.Set(KeyMode, "paranoid")
	_, err = Resolve(v)
	require.Error(t, err)

	v = New()
	v.Set(KeyWorkers, -1)
	_, err = Resolve(v)
	require.Error(t, err)
}

func TestImportPathsFromEnv(t *testing.T) {
	t.Setenv("DSDL_IMPORT_PATHS", "a, b,,c")

	cfg, err := Resolve(New())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.ImportPaths)
}
