package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
	"type": "class",
	"name": "Widget",
	"children": [
		{"type": "method", "name": "Render"}
	]
}`

func TestEvalCommandPrintsStablePaths(t *testing.T) {
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixtureJSON), 0o644))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"eval", "//method", fixturePath})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/Widget/Render\n", out.String())
}

func TestEvalCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	fixturePath := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(fixturePath, []byte(fixtureJSON), 0o644))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"eval", "--json", "//method", fixturePath})

	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `["/Widget/Render"]`, out.String())
}

func TestEvalCommandRejectsMissingFixture(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"eval", "//method", filepath.Join(t.TempDir(), "missing.json")})

	require.Error(t, cmd.Execute())
}

func TestStablePathCommandPrintsSegments(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"stablepath", "/Widget/Render/block[1]"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Widget\nRender\nblock[1]\n", out.String())
}
