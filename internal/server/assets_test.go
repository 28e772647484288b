package server

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSAssets(t *testing.T) {
	root := fstest.MapFS{
		"public/css/main.css":     {Data: []byte("embedded")},
		"public/css/only.css":     {Data: []byte("only embedded")},
		"templates/layout.html":   {Data: []byte(`{{define "layout"}}x{{end}}`)},
		"templates/nested/a.html": {Data: []byte("a")},
	}
	override := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(override, "css"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(override, "css", "main.css"), []byte("override"), 0644))

	a, err := NewFSAssets(root, override)
	require.NoError(t, err)

	s, err := a.ReadText("css/main.css")
	require.NoError(t, err)
	assert.Equal(t, "override", s)

	s, err = a.ReadText("css/only.css")
	require.NoError(t, err)
	assert.Equal(t, "only embedded", s)

	b, err := a.ReadBinary("css/missing.css")
	require.NoError(t, err)
	assert.Empty(t, b)

	b, err = a.ReadBinary("css")
	require.NoError(t, err)
	assert.Empty(t, b, "directories read as missing")

	b, err = a.ReadBinary("../secret.css")
	require.NoError(t, err)
	assert.Empty(t, b)

	tpl, err := a.ReadTemplate("layout")
	require.NoError(t, err)
	assert.Contains(t, tpl, `define "layout"`)

	_, err = a.ReadTemplate("nope")
	assert.Error(t, err)
}

func TestFSAssetsWithoutOverride(t *testing.T) {
	a, err := NewFSAssets(fstest.MapFS{"public/a.js": {Data: []byte("js")}}, "")
	require.NoError(t, err)
	assert.Nil(t, a.Override)

	s, err := a.ReadText("a.js")
	require.NoError(t, err)
	assert.Equal(t, "js", s)
}
