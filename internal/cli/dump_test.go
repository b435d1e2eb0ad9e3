package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlane/renderplan/internal/graph"
)

func TestDumpCommand_CanonicalGraph(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	stdout, _, err := executeCommand("dump", dir, "--at", "1")
	require.NoError(t, err)

	// The output is a parseable canonical graph document.
	data := strings.TrimSuffix(stdout, "\n")
	g, err := graph.ParseDocument([]byte(data))
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 5)
	assert.NotNil(t, g.MainOutput)

	// Round-trip reproduces the dump byte for byte.
	again, err := g.MarshalDocument()
	require.NoError(t, err)
	assert.Equal(t, data, string(again))
}

func TestDumpCommand_Deterministic(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	first, _, err := executeCommand("dump", dir, "--at", "1")
	require.NoError(t, err)
	second, _, err := executeCommand("dump", dir, "--at", "1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDumpCommand_WithPlan(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	stdout, _, err := executeCommand("dump", dir, "--at", "1", "--plan", "--quality", "draft")
	require.NoError(t, err)

	var doc struct {
		Graph json.RawMessage `json:"graph"`
		Plan  struct {
			Quality      string `json:"quality"`
			StableHash64 string `json:"stable_hash64"`
		} `json:"plan"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.NotEmpty(t, doc.Graph)
	assert.Equal(t, "draft", doc.Plan.Quality)
	assert.Len(t, doc.Plan.StableHash64, 16)

	_, err = graph.ParseDocument(doc.Graph)
	require.NoError(t, err)
}

func TestDumpCommand_SilentInstant(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	stdout, _, err := executeCommand("dump", dir, "--at", "30")
	require.NoError(t, err)
	g, err := graph.ParseDocument([]byte(strings.TrimSuffix(stdout, "\n")))
	require.NoError(t, err)
	assert.Empty(t, g.Nodes)
	assert.Nil(t, g.MainOutput)
}

func TestDumpCommand_BadQuality(t *testing.T) {
	dir := writeProjectDir(t, map[string]string{"project.cue": projectCUE})

	_, _, err := executeCommand("dump", dir, "--plan", "--quality", "mega")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
