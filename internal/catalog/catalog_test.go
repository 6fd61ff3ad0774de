package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const smallCatalog = `
version: test
avatar_bases:
  - {id: a, name: A}
  - {id: b, name: B}
compatibility:
  - {source: A, target: B, bone_structure: partial, materials: yes, animations: mostly, notes: n}
`

func TestDefaultCatalog(t *testing.T) {
	ref, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, ref.AvatarBases)
	assert.Contains(t, ref.AvatarNames(), "Feline3.0")

	r := compat.NewResolver(ref.Tables(nil))
	res, err := r.ResolveAvatars("feline-3.0", "human-male-4.2")
	require.NoError(t, err)
	assert.Equal(t, model.MarkPartial, res.Overall)

	res, err = r.ResolveAvatars("fantasy-2.0", "leporidae-2.5")
	require.NoError(t, err)
	assert.Equal(t, model.MarkUnknown, res.Overall)
	assert.Len(t, res.Details, 2)
}

func TestParse(t *testing.T) {
	ref, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)
	require.Len(t, ref.Compatibility, 1)
	assert.Equal(t, model.StatusPartial, ref.Compatibility[0].BoneStructure)
}

func TestValidate_CollectsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "version: x\n", "avatar_bases must not be empty"},
		{"duplicate id", "avatar_bases: [{id: a, name: A}, {id: a, name: B}]\n", `id "a" is duplicated`},
		{"unknown source", "avatar_bases: [{id: a, name: A}]\ncompatibility: [{source: Z, target: A, bone_structure: yes, materials: yes, animations: yes}]\n", `source "Z" is not a known avatar base`},
		{"self pair", "avatar_bases: [{id: a, name: A}]\ncompatibility: [{source: A, target: A, bone_structure: yes, materials: yes, animations: yes}]\n", "onto itself"},
		{"missing status", "avatar_bases: [{id: a, name: A}, {id: b, name: B}]\ncompatibility: [{source: A, target: B, materials: yes, animations: yes}]\n", "needs bone_structure"},
		{"bad status", "avatar_bases: [{id: a, name: A}, {id: b, name: B}]\ncompatibility: [{source: A, target: B, bone_structure: maybe, materials: yes, animations: yes}]\n", "unknown compatibility status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	ref, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, ref.AvatarBases)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0644))
	ref, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test", ref.Version)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0644))

	var version atomic.Value
	w := NewWatcher(path, zaptest.NewLogger(t), func(ref *Reference) {
		version.Store(ref.Version)
	})
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// 等待监听就绪后再写入
	time.Sleep(100 * time.Millisecond)
	updated := []byte("version: v2\navatar_bases: [{id: a, name: A}]\n")
	require.NoError(t, os.WriteFile(path, updated, 0644))

	assert.Eventually(t, func() bool {
		v, _ := version.Load().(string)
		return v == "v2"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
