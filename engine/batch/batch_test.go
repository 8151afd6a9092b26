package batch

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/engine/build"
	"github.com/npillmayer/ejfont/engine/ejf"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configs(dir string) []build.Config {
	return []build.Config{
		{Input: "Go Sans", Output: filepath.Join(dir, "small.ejf"), Size: 10, CharRange: "0x21-0x7f", SkipControlCharacters: true},
		{Input: "Go Sans", Output: filepath.Join(dir, "broken.ejf"), Size: 10, CharRange: "0x21-zz"},
		{Input: "Go Sans", Output: filepath.Join(dir, "large.ejf"), Size: 24, CharRange: "0x41-0x5b", Engine: "freetype"},
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.build")
	defer teardown()
	//
	dir := t.TempDir()
	var mu sync.Mutex
	processed := make(map[int]int)
	outcomes, err := Run(configs(dir), func(i int, cfg build.Config) build.Progress {
		return func(n, total int) {
			mu.Lock()
			defer mu.Unlock()
			processed[i] = n
		}
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, 1, Failed(outcomes))
	//
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, "small", outcomes[0].Result.Name)
	assert.Equal(t, 94, processed[0])
	//
	failed := outcomes[1]
	require.Error(t, failed.Err)
	assert.True(t, core.Is(failed.Err, core.ERANGE))
	var be *build.Error
	require.True(t, errors.As(failed.Err, &be))
	assert.Equal(t, filepath.Join(dir, "broken.ejf"), be.Output)
	assert.Equal(t, failed.Config.Output, be.Output)
	assert.Zero(t, processed[1])
	//
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, 26, processed[2])
	assert.Greater(t, outcomes[2].Result.Height, outcomes[0].Result.Height)
	for _, i := range []int{0, 2} {
		c, err := ejf.Open(outcomes[i].Config.Output)
		require.NoError(t, err)
		assert.NoError(t, c.Verify())
	}
}

func TestRunRejectsDuplicateOutputs(t *testing.T) {
	dir := t.TempDir()
	cfgs := configs(dir)
	cfgs[2].Output = filepath.Join(dir, "sub", "..", "small.ejf")
	outcomes, err := Run(cfgs, nil)
	assert.Nil(t, outcomes)
	assert.True(t, core.Is(err, core.EINVALID), "expected EINVALID, got %v", err)
	assert.NoFileExists(t, filepath.Join(dir, "small.ejf"))
}

func TestPromise(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ejf.build")
	defer teardown()
	//
	dir := t.TempDir()
	p := Start(configs(dir)[0], nil)
	o := p.Outcome()
	require.NoError(t, o.Err)
	assert.Equal(t, o, p.Outcome(), "a promise expected to deliver its outcome repeatedly")
}

func TestEmptyBatch(t *testing.T) {
	outcomes, err := Run(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
	assert.Zero(t, Failed(outcomes))
}
