package compat

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var allStatuses = []model.Status{model.StatusNo, model.StatusPartial, model.StatusMostly, model.StatusYes}

func fixtureTables() *Tables {
	avatars := []model.AvatarBase{
		{ID: "feline", Name: "Feline3.0"},
		{ID: "fantasy", Name: "Fantasy2.0"},
		{ID: "human-male", Name: "HumanMale4.2"},
		{ID: "leporidae", Name: "Leporidae2.5"},
	}
	assets := []model.Asset{
		{ID: 1, Name: "Cyber Hoodie", Type: model.AssetTypeClothing, CompatibleWith: []string{"Feline3.0", "Fantasy2.0"}},
		{ID: 2, Name: "Bunny Boots", Type: model.AssetTypeClothing, CompatibleWith: []string{"Leporidae2.5"}},
		{ID: 3, Name: "Loose Prop", Type: model.AssetTypeProp},
	}
	entries := []model.CompatibilityEntry{
		{Source: "Feline3.0", Target: "HumanMale4.2", BoneStructure: model.StatusPartial, Materials: model.StatusYes, Animations: model.StatusMostly, Notes: "Tail bones need removal"},
		{Source: "Feline3.0", Target: "Fantasy2.0", BoneStructure: model.StatusYes, Materials: model.StatusYes, Animations: model.StatusYes, Notes: "Shared rig"},
	}
	return NewTables(avatars, assets, entries)
}

func TestResolveAsset_Compatible(t *testing.T) {
	r := NewResolver(fixtureTables())

	got, err := r.ResolveAsset("feline", 1)
	require.NoError(t, err)

	want := Result{
		Overall: model.MarkYes,
		Details: []Detail{
			{Aspect: AspectAvatarBase, Status: model.MarkYes, Message: "This asset is designed for Feline3.0"},
			{Aspect: AspectFileFormat, Status: model.MarkYes, Message: msgFileFormat},
			{Aspect: AspectAnimationRigging, Status: model.MarkYes, Message: msgRiggingOK},
			{Aspect: AspectMaterialSystem, Status: model.MarkYes, Message: msgMaterialSystem},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ResolveAsset mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAsset_NotDeclaredIsPartial(t *testing.T) {
	r := NewResolver(fixtureTables())

	for _, assetID := range []int64{2, 3} {
		got, err := r.ResolveAsset("feline", assetID)
		require.NoError(t, err)
		assert.Equal(t, model.MarkPartial, got.Overall, "asset %d", assetID)
		require.Len(t, got.Details, 4)
		assert.Equal(t, model.MarkPartial, got.Details[0].Status)
		assert.Equal(t, model.MarkYes, got.Details[1].Status, "file format is always yes")
		assert.Equal(t, model.MarkPartial, got.Details[2].Status)
		assert.Equal(t, model.MarkYes, got.Details[3].Status, "material system is always yes")
	}
}

func TestResolveAsset_NotFound(t *testing.T) {
	r := NewResolver(fixtureTables())

	_, err := r.ResolveAsset("missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.ResolveAsset("feline", 999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.ResolveAsset("", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAvatars_Entry(t *testing.T) {
	r := NewResolver(fixtureTables())

	got, err := r.ResolveAvatars("feline", "human-male")
	require.NoError(t, err)

	want := Result{
		Overall: model.MarkPartial,
		Details: []Detail{
			{Aspect: AspectBoneStructure, Status: model.MarkPartial, Message: boneStructureMessages[model.StatusPartial]},
			{Aspect: AspectMaterials, Status: model.MarkYes, Message: materialsMessages[model.StatusYes]},
			{Aspect: AspectAnimations, Status: model.MarkMostly, Message: animationsMessages[model.StatusMostly]},
			{Aspect: AspectNotes, Status: model.MarkInfo, Message: "Tail bones need removal"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ResolveAvatars mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveAvatars_MissingEntryIsUnknown(t *testing.T) {
	r := NewResolver(fixtureTables())

	got, err := r.ResolveAvatars("fantasy", "leporidae")
	require.NoError(t, err)
	assert.Equal(t, model.MarkUnknown, got.Overall)
	require.Len(t, got.Details, 2)
	assert.Equal(t, model.MarkUnknown, got.Details[0].Status)
	assert.Equal(t, model.MarkInfo, got.Details[1].Status)
}

func TestResolveAvatars_Asymmetric(t *testing.T) {
	tables := NewTables(
		[]model.AvatarBase{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		nil,
		[]model.CompatibilityEntry{{Source: "A", Target: "B", BoneStructure: model.StatusYes, Materials: model.StatusYes, Animations: model.StatusYes}},
	)
	r := NewResolver(tables)

	forward, err := r.ResolveAvatars("a", "b")
	require.NoError(t, err)
	assert.Equal(t, model.MarkYes, forward.Overall)

	reverse, err := r.ResolveAvatars("b", "a")
	require.NoError(t, err)
	assert.Equal(t, model.MarkUnknown, reverse.Overall)
	assert.Len(t, reverse.Details, 2)
}

func TestResolveAvatars_SamePair(t *testing.T) {
	r := NewResolver(fixtureTables())

	got, err := r.ResolveAvatars("fantasy", "fantasy")
	require.NoError(t, err)
	assert.Equal(t, model.MarkYes, got.Overall)
	require.Len(t, got.Details, 4)
	for _, d := range got.Details[:3] {
		assert.Equal(t, model.MarkYes, d.Status, d.Aspect)
	}
	assert.Equal(t, model.MarkInfo, got.Details[3].Status)
}

func TestResolveAvatars_NotFound(t *testing.T) {
	r := NewResolver(fixtureTables())

	_, err := r.ResolveAvatars("feline", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.ResolveAvatars("nope", "feline")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAvatars_OverallIsWorstAspect(t *testing.T) {
	avatars := []model.AvatarBase{{ID: "s", Name: "S"}, {ID: "t", Name: "T"}}

	for _, bone := range allStatuses {
		for _, mat := range allStatuses {
			for _, anim := range allStatuses {
				entry := model.CompatibilityEntry{Source: "S", Target: "T", BoneStructure: bone, Materials: mat, Animations: anim}
				r := NewResolver(NewTables(avatars, nil, []model.CompatibilityEntry{entry}))

				got, err := r.ResolveAvatars("s", "t")
				require.NoError(t, err)

				want := bone
				for _, s := range []model.Status{mat, anim} {
					if s < want {
						want = s
					}
				}
				assert.Equal(t, want.Mark(), got.Overall, "bone=%s mat=%s anim=%s", bone, mat, anim)
			}
		}
	}
}

func TestResolveAvatars_AggregationIsMonotonic(t *testing.T) {
	avatars := []model.AvatarBase{{ID: "s", Name: "S"}, {ID: "t", Name: "T"}}
	resolve := func(e model.CompatibilityEntry) model.Status {
		r := NewResolver(NewTables(avatars, nil, []model.CompatibilityEntry{e}))
		got, err := r.ResolveAvatars("s", "t")
		require.NoError(t, err)
		st, err := model.ParseStatus(string(got.Overall))
		require.NoError(t, err)
		return st
	}

	base := model.CompatibilityEntry{Source: "S", Target: "T", BoneStructure: model.StatusYes, Materials: model.StatusMostly, Animations: model.StatusYes}
	before := resolve(base)
	for _, worse := range allStatuses {
		if worse >= base.Materials {
			continue
		}
		e := base
		e.Materials = worse
		assert.LessOrEqual(t, resolve(e), before, "materials=%s", worse)
	}
}

func TestResolve_Query(t *testing.T) {
	r := NewResolver(fixtureTables())

	got, err := r.Resolve(Query{Mode: ModeAsset, AvatarID: "feline", AssetID: 1})
	require.NoError(t, err)
	assert.Equal(t, model.MarkYes, got.Overall)

	_, err = r.Resolve(Query{Mode: ModeAsset, AvatarID: "feline"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = r.Resolve(Query{Mode: ModeAvatars, SourceID: "feline"})
	assert.ErrorIs(t, err, ErrInvalidQuery)

	_, err = r.Resolve(Query{Mode: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestCheck_DelayAndCancel(t *testing.T) {
	r := NewResolver(fixtureTables())
	q := Query{Mode: ModeAvatars, SourceID: "fantasy", TargetID: "leporidae"}

	got, err := r.Check(context.Background(), q, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, model.MarkUnknown, got.Overall)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Check(ctx, q, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = r.Check(ctx, q, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
