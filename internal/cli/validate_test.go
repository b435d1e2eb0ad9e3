package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_CleanProject(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	stdout, _, err := executeCommand("validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK: 2 instant(s) compiled clean")
}

func TestValidateCommand_JSON(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	stdout, _, err := executeCommand("--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	var result ValidationResult
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.Instants, "t=0 plus one clip midpoint")
	assert.Empty(t, result.Diagnostics)
}

func TestValidateCommand_MissingProject(t *testing.T) {
	_, _, err := executeCommand("validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidateCommand_StrictOnCleanProject(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	_, _, err := executeCommand("validate", dir, "--strict")
	assert.NoError(t, err, "strict mode passes when there are no diagnostics")
}

func TestProbeInstants(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})
	p, err := LoadProject(dir)
	require.NoError(t, err)

	instants := probeInstants(p)
	assert.Equal(t, []float64{0, 1}, instants, "t=0 plus the clip midpoint")
}
