package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTOC(t *testing.T) {
	md := "# Intro\n## Setup\n#nospace\n```\n# not a heading\n```\n## Setup\n"

	var buf bytes.Buffer
	printTOC(&buf, md, false)
	assert.Equal(t, "- Intro\n     - Setup\n     - Setup (#Setup-2)\n", buf.String())

	buf.Reset()
	printTOC(&buf, md, true)
	assert.Contains(t, buf.String(), "line 3: skipped (missing space)\n")
}

func TestPrintTOCListsRenderedHeadings(t *testing.T) {
	var buf bytes.Buffer
	printTOC(&buf, "Intro\n=====\n\n# Intro\n", false)
	assert.Equal(t, "- Intro\n- Intro (#Intro-2)\n", buf.String())
}

func TestLoadConfigDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
	assert.Equal(t, 120, cfg.EventLimit)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: Notes\nreader_ttl: 10m\ncontent_dir: posts\n"), 0o644))
	t.Setenv("POSTLINE_ADDR", ":8080")

	cfg, err := loadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, "Notes", cfg.Name)
	assert.Equal(t, 10*time.Minute, cfg.ReaderTTL)
	assert.Equal(t, "posts", cfg.ContentDir)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
