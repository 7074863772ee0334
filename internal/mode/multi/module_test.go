package multi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghraw-proxy/ghraw-proxy/internal/githubpath"
	"github.com/ghraw-proxy/ghraw-proxy/internal/mode"
)

func TestMultiModeRegistered(t *testing.T) {
	meta, ok := mode.Resolve(mode.DefaultModeKey())
	require.True(t, ok)
	assert.Equal(t, "multi", meta.Key)
	assert.Equal(t, 3, meta.MinSegments)
	assert.True(t, meta.RequiresAllowlist)
	assert.True(t, meta.DistinguishNotFound)
	assert.True(t, meta.SetCacheControl)
	assert.False(t, meta.Configured(mode.Settings{}))

	target, err := meta.Resolve(mode.Settings{Bases: githubpath.DefaultBases()}, githubpath.SplitEscaped("/alice/repo/release/a.zip"))
	require.NoError(t, err)
	assert.Equal(t, githubpath.ShapeLatestRelease, target.Shape)
}
