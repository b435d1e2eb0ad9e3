package binder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlane/renderplan/internal/compiler"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/testutil"
	"github.com/soundlane/renderplan/internal/timeline"
	"github.com/soundlane/renderplan/internal/timemap"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalog_PutGet(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	asset := Asset{
		ID:              testutil.ID("asset/vocals"),
		Path:            "/media/vocals.wav",
		SampleRate:      48000,
		Channels:        2,
		DurationSamples: 480000,
	}
	require.NoError(t, c.Put(ctx, asset))

	got, err := c.Get(ctx, asset.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, asset, *got)
}

func TestCatalog_GetAbsent(t *testing.T) {
	c := openTestCatalog(t)

	got, err := c.Get(context.Background(), testutil.ID("asset/ghost"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalog_PutUpserts(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()
	id := testutil.ID("asset/vocals")

	require.NoError(t, c.Put(ctx, Asset{ID: id, Path: "/old.wav", SampleRate: 44100, Channels: 1, DurationSamples: 1}))
	require.NoError(t, c.Put(ctx, Asset{ID: id, Path: "/new.wav", SampleRate: 48000, Channels: 2, DurationSamples: 2}))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/new.wav", got.Path)
	assert.Equal(t, 48000, got.SampleRate)
}

func TestCatalog_OpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(context.Background(), Asset{ID: testutil.ID("asset/a"), Path: "/a.wav"}))
	require.NoError(t, first.Close())

	// Reopening reapplies the schema without clobbering data.
	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(context.Background(), testutil.ID("asset/a"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "/a.wav", got.Path)
}

func TestCatalog_Bind(t *testing.T) {
	c := openTestCatalog(t)
	assetID := testutil.ID("asset/vocals")
	require.NoError(t, c.Put(context.Background(), Asset{
		ID:              assetID,
		Path:            "/media/vocals.wav",
		SampleRate:      48000,
		Channels:        2,
		DurationSamples: 480000,
	}))

	handle, ok := c.Bind(testutil.ID("clip/vocals"), assetID, nil, graph.QualityStandard)
	require.True(t, ok)
	assert.Equal(t, &compiler.SourceHandle{
		AssetID:         assetID,
		Path:            "/media/vocals.wav",
		SampleRate:      48000,
		Channels:        2,
		DurationSamples: 480000,
	}, handle)
}

func TestCatalog_BindUnknownAsset(t *testing.T) {
	c := openTestCatalog(t)

	handle, ok := c.Bind(testutil.ID("clip/x"), testutil.ID("asset/ghost"), nil, graph.QualityStandard)
	assert.False(t, ok)
	assert.Nil(t, handle)
}

func TestCatalog_CompileIntegration(t *testing.T) {
	c := openTestCatalog(t)
	ctx := context.Background()

	bound := testutil.NewClip("vocals", 0, 2)
	unbound := testutil.NewClip("drums", 0, 2)
	require.NoError(t, c.Put(ctx, Asset{
		ID:              bound.AssetID,
		Path:            "/media/vocals.wav",
		SampleRate:      48000,
		Channels:        2,
		DurationSamples: 96000,
	}))

	p := testutil.NewProject(testutil.NewTrack("lead", bound, unbound))
	g := timeline.Evaluate(p, 1, timemap.NewClock(timemap.DefaultSampleRate))
	plan := compiler.Compile(g, graph.QualityStandard, c)

	require.Len(t, plan.Diagnostics, 1)
	assert.Equal(t, compiler.IssueUnboundSource, plan.Diagnostics[0].Kind)
	assert.Equal(t, unbound.AssetID, plan.Diagnostics[0].AssetID)

	var boundCount int
	for _, n := range plan.Ordered {
		if n.Bound != nil {
			boundCount++
			assert.Equal(t, "/media/vocals.wav", n.Bound.Path)
		}
	}
	assert.Equal(t, 1, boundCount)
}
