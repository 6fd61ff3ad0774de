package seed

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/catalog"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

var anchor = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func defaultRef(t *testing.T) *catalog.Reference {
	t.Helper()
	ref, err := catalog.Default()
	require.NoError(t, err)
	return ref
}

func TestGenerator_Deterministic(t *testing.T) {
	ref := defaultRef(t)
	opts := Options{Seed: 42, AssetsPerType: 5, Now: anchor}

	a := NewGenerator(opts).Dataset(ref)
	b := NewGenerator(opts).Dataset(ref)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different datasets (-a +b):\n%s", diff)
	}

	c := NewGenerator(Options{Seed: 43, AssetsPerType: 5, Now: anchor}).Dataset(ref)
	assert.NotEqual(t, a.Assets, c.Assets)
}

func TestGenerator_Shape(t *testing.T) {
	ref := defaultRef(t)
	ds := NewGenerator(Options{Seed: 7, AssetsPerType: 4, Now: anchor}).Dataset(ref)

	require.Len(t, ds.Assets, 4*len(model.AllAssetTypes))
	known := make(map[string]bool)
	for _, n := range ref.AvatarNames() {
		known[n] = true
	}

	counts := make(map[model.AssetType]int)
	for _, a := range ds.Assets {
		counts[a.Type]++
		assert.NotEmpty(t, a.Name)
		assert.Positive(t, a.FileSize)
		assert.False(t, a.DateAdded.After(anchor))
		if a.LastUsed != nil {
			assert.False(t, a.LastUsed.Before(a.DateAdded), a.Name)
			assert.False(t, a.LastUsed.After(anchor), a.Name)
		}
		for _, n := range a.CompatibleWith {
			assert.True(t, known[n], "unknown avatar base %q", n)
		}
	}
	for _, typ := range model.AllAssetTypes {
		assert.Equal(t, 4, counts[typ], typ)
	}

	require.Len(t, ds.Collections, len(collectionNames))
	for _, c := range ds.Collections {
		seen := make(map[int]bool)
		for _, idx := range c.AssetIndexes {
			assert.False(t, seen[idx], "duplicate index in %s", c.Name)
			seen[idx] = true
			assert.Less(t, idx, len(ds.Assets))
		}
	}
}

func TestGenerator_NoAssets(t *testing.T) {
	ds := NewGenerator(Options{Seed: 1, Now: anchor}).Dataset(defaultRef(t))
	assert.Empty(t, ds.Assets)
	assert.Empty(t, ds.Collections)
}

func TestRun(t *testing.T) {
	st, err := store.NewMemory()
	require.NoError(t, err)
	defer st.Close()

	ref := defaultRef(t)
	ds, err := Run(st, ref, Options{Seed: 99, AssetsPerType: 3, Now: anchor}, zaptest.NewLogger(t))
	require.NoError(t, err)

	n, err := st.CountAssets(store.AssetQueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, len(ds.Assets), n)

	cols, err := st.CountCollections()
	require.NoError(t, err)
	assert.Equal(t, len(ds.Collections), cols)

	run, err := st.LastSeedRun()
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, uint64(99), run.Seed)
	assert.Equal(t, ref.Version, run.CatalogVersion)
	active, err := st.CatalogVersion()
	require.NoError(t, err)
	assert.Equal(t, ref.Version, active)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, len(ds.Assets), run.AssetCount)
}

func TestRun_RejectsNegativeCount(t *testing.T) {
	st, err := store.NewMemory()
	require.NoError(t, err)
	defer st.Close()

	_, err = Run(st, defaultRef(t), Options{AssetsPerType: -1}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
