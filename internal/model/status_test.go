package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStatusOrder(t *testing.T) {
	assert.Less(t, StatusNo, StatusPartial)
	assert.Less(t, StatusPartial, StatusMostly)
	assert.Less(t, StatusMostly, StatusYes)
	assert.False(t, Status(0).Valid())
}

func TestWorst(t *testing.T) {
	assert.Equal(t, StatusYes, Worst())
	assert.Equal(t, StatusPartial, Worst(StatusYes, StatusPartial, StatusMostly))
	assert.Equal(t, StatusNo, Worst(StatusNo, StatusYes))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("mostly")
	require.NoError(t, err)
	assert.Equal(t, StatusMostly, st)

	_, err = ParseStatus("info")
	assert.Error(t, err, "info is a presentation mark, not a status")
}

func TestStatusEncoding(t *testing.T) {
	entry := CompatibilityEntry{Source: "A", Target: "B", BoneStructure: StatusPartial, Materials: StatusYes, Animations: StatusNo}

	b, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"boneStructure":"partial"`)

	var decoded CompatibilityEntry
	require.NoError(t, yaml.Unmarshal([]byte("source: A\ntarget: B\nbone_structure: mostly\nmaterials: yes\nanimations: no\n"), &decoded))
	assert.Equal(t, StatusMostly, decoded.BoneStructure)
	assert.Equal(t, StatusYes, decoded.Materials)
	assert.Equal(t, StatusNo, decoded.Animations)
	assert.Equal(t, StatusNo, decoded.Overall())
}
