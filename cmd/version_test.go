package cmd

import (
	"bytes"
	"strings"
	"testing"

	"commentgraft/internal/version"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand_FullOutput(t *testing.T) {
	version.ResetBuildVars()
	defer version.ResetBuildVars()

	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, version.ApplicationName)
	assert.Contains(t, output, "Version: ")
	assert.Contains(t, output, "Commit: ")
}

func TestVersionCommand_ShortOutput(t *testing.T) {
	version.SetBuildVars("v1.2.3", "abc123", "2025-01-01T00:00:00Z")
	defer version.ResetBuildVars()

	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--short"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "v1.2.3", strings.TrimSpace(buf.String()))
}
