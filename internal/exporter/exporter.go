// Package exporter 把资源列表导出为 Excel 工作簿
package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/util"
)

const (
	AssetsSheet  = "Assets"
	SummarySheet = "Summary"

	dateLayout = "2006-01-02 15:04"
)

var assetHeaders = []string{
	"ID", "Name", "Type", "Creator", "Version", "File Size", "Size (bytes)",
	"File Path", "Compatible With", "Tags", "Favorite", "Date Added", "Last Used", "Notes",
}

// ExportAssets 导出资源列表：Assets 每行一个资源，Summary 按类型汇总
//
// progress 可为 nil。
func ExportAssets(assets []model.Asset, progress func(ProgressEvent)) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", AssetsSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	reportProgress(progress, 0, "准备工作簿")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeAssetsSheet(f, assets, headerStyle, progress); err != nil {
		_ = f.Close()
		return nil, err
	}
	reportProgress(progress, 90, "写入汇总")

	if err := writeSummarySheet(f, assets, headerStyle); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	reportProgress(progress, 100, "导出完成")
	return f, nil
}

func writeAssetsSheet(f *excelize.File, assets []model.Asset, headerStyle int, progress func(ProgressEvent)) error {
	header := make([]any, len(assetHeaders))
	for i, h := range assetHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(AssetsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetRowStyle(AssetsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, a := range assets {
		row := assetRow(a)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(AssetsSheet, cell, &row); err != nil {
			return fmt.Errorf("write asset %d: %w", a.ID, err)
		}
		// 数据行占 5%~90% 的进度
		reportProgress(progress, 5+85*(i+1)/len(assets), "写入资源")
	}

	if err := f.SetPanes(AssetsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 8},
		{"B", "B", 30},
		{"C", "E", 14},
		{"F", "G", 14},
		{"H", "H", 50},
		{"I", "J", 36},
		{"K", "K", 10},
		{"L", "M", 18},
		{"N", "N", 40},
	}
	for _, w := range widths {
		if err := f.SetColWidth(AssetsSheet, w.from, w.to, w.width); err != nil {
			return err
		}
	}
	return nil
}

func assetRow(a model.Asset) []any {
	favorite := "No"
	if a.Favorite {
		favorite = "Yes"
	}
	lastUsed := ""
	if a.LastUsed != nil {
		lastUsed = a.LastUsed.UTC().Format(dateLayout)
	}
	return []any{
		a.ID,
		a.Name,
		string(a.Type),
		a.Creator,
		a.Version,
		util.FormatFileSize(a.FileSize),
		a.FileSize,
		a.FilePath,
		strings.Join(a.CompatibleWith, ", "),
		strings.Join(a.Tags, ", "),
		favorite,
		formatDate(a.DateAdded),
		lastUsed,
		a.Notes,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func writeSummarySheet(f *excelize.File, assets []model.Asset, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	type agg struct {
		count, favorites int
		bytes            int64
	}
	byType := make(map[model.AssetType]*agg, len(model.AllAssetTypes))
	for _, t := range model.AllAssetTypes {
		byType[t] = &agg{}
	}
	total := &agg{}
	for _, a := range assets {
		g, ok := byType[a.Type]
		if !ok {
			g = &agg{}
			byType[a.Type] = g
		}
		for _, x := range []*agg{g, total} {
			x.count++
			x.bytes += a.FileSize
			if a.Favorite {
				x.favorites++
			}
		}
	}

	rows := [][]any{{"Type", "Assets", "Favorites", "Total Size"}}
	for _, t := range model.AllAssetTypes {
		g := byType[t]
		rows = append(rows, []any{string(t), g.count, g.favorites, util.FormatFileSize(g.bytes)})
	}
	rows = append(rows, []any{"total", total.count, total.favorites, util.FormatFileSize(total.bytes)})

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "D", 16)
}
