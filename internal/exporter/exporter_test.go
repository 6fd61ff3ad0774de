package exporter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

func sampleAssets() []model.Asset {
	used := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)
	return []model.Asset{
		{
			ID: 1, Name: "Neon Jacket", Type: model.AssetTypeClothing, Creator: "Kiri", Version: "1.2.0",
			FileSize: 3 << 20, FilePath: "Assets/clothing/neon_jacket.unitypackage",
			CompatibleWith: []string{"Feline3.0", "Canine2.1"}, Tags: []string{"neon", "outfit"},
			Favorite: true, DateAdded: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC), LastUsed: &used,
		},
		{
			ID: 2, Name: "Katana", Type: model.AssetTypeProp, Creator: "Ren", FileSize: 512,
			DateAdded: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportAssets(t *testing.T) {
	var events []ProgressEvent
	f, err := ExportAssets(sampleAssets(), func(e ProgressEvent) { events = append(events, e) })
	require.NoError(t, err)
	defer f.Close()

	// 写出再读回，确认生成的是合法的 xlsx
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{AssetsSheet, SummarySheet}, wb.GetSheetList())

	rows, err := wb.GetRows(AssetsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, assetHeaders, rows[0])
	assert.Equal(t, []string{
		"1", "Neon Jacket", "clothing", "Kiri", "1.2.0", "3.0 MB", "3145728",
		"Assets/clothing/neon_jacket.unitypackage", "Feline3.0, Canine2.1", "neon, outfit",
		"Yes", "2025-01-05 08:00", "2025-03-02 10:30",
	}, rows[1])
	assert.Equal(t, "512 B", rows[2][5])
	assert.Equal(t, "No", rows[2][10])

	summary, err := wb.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, len(model.AllAssetTypes)+2)
	assert.Equal(t, []string{"clothing", "1", "1", "3.0 MB"}, summary[2])
	assert.Equal(t, []string{"total", "2", "1", "3.0 MB"}, summary[len(summary)-1])

	require.NotEmpty(t, events)
	assert.Equal(t, 0, events[0].Percent)
	assert.Equal(t, 100, events[len(events)-1].Percent)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Percent, events[i-1].Percent)
	}
}

func TestExportAssets_Empty(t *testing.T) {
	f, err := ExportAssets(nil, nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(AssetsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
