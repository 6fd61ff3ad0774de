package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/exporter"
)

const (
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportDownloadTTL = 10 * time.Minute
)

type exportProgressEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

func exportFilename(now time.Time) string {
	return fmt.Sprintf("vrchat-assets-%s.xlsx", now.Format("20060102-150405"))
}

func buildExportContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}

// ExportAssets 按当前过滤条件导出 Excel
// GET /api/assets/export
func (h *Handler) ExportAssets(c *gin.Context) {
	opts, ok := h.assetFilter(c)
	if !ok {
		return
	}
	assets, err := h.store.ListAssets(opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	file, err := exporter.ExportAssets(assets, nil)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer file.Close()

	c.Header("Content-Disposition", buildExportContentDisposition(exportFilename(time.Now())))
	c.Header("Content-Type", xlsxContentType)
	if err := file.Write(c.Writer); err != nil {
		h.logger.Warn("write export failed", zap.Error(err))
	}
}

// ExportAssetsStream 导出 Excel（SSE 进度，完成后返回一次性下载地址）
// POST /api/assets/export/stream
func (h *Handler) ExportAssetsStream(c *gin.Context) {
	opts, ok := h.assetFilter(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event exportProgressEvent) {
		event.Timestamp = time.Now()
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	fail := func(msg string, err error) {
		send(exportProgressEvent{Type: "error", Message: msg + ": " + err.Error(), Data: map[string]any{}})
	}

	assets, err := h.store.ListAssets(opts)
	if err != nil {
		fail("query assets failed", err)
		return
	}
	send(exportProgressEvent{Type: "start", Message: "export started", Data: map[string]any{"total": len(assets)}})

	lastPercent := -1
	file, err := exporter.ExportAssets(assets, func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{Type: "progress", Message: p.Stage, Data: p})
	})
	if err != nil {
		fail("export failed", err)
		return
	}
	defer file.Close()

	now := time.Now()
	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("vrcassets_export_%d_%d.xlsx", now.UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		_ = os.Remove(tempPath)
		fail("write export file failed", err)
		return
	}

	token := h.downloads.put(tempPath, exportFilename(now), exportDownloadTTL)
	send(exportProgressEvent{
		Type:    "done",
		Message: "export finished",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": "/api/assets/export/download/" + token,
		},
	})
}

// DownloadExport 下载导出文件（一次性）
// GET /api/assets/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	item, ok := h.downloads.take(c.Param("token"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download link expired"})
		return
	}
	defer os.Remove(item.filePath)

	if _, err := os.Stat(item.filePath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "export file missing"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(item.filename))
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)
}
