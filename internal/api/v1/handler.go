// Package v1 资源仪表盘的 HTTP JSON 接口
package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

// 客户端提前断开（nginx 约定）
const statusClientClosedRequest = 499

// Options 处理器可选参数
type Options struct {
	// CheckDelay 兼容性检查的模拟耗时
	CheckDelay time.Duration
	Logger     *zap.Logger
}

// Handler V1 API 处理器
type Handler struct {
	store      *store.Store
	resolver   *compat.Resolver
	checkDelay time.Duration
	downloads  *exportDownloadStore
	logger     *zap.Logger
}

// NewHandler 创建 V1 API 处理器
func NewHandler(st *store.Store, resolver *compat.Resolver, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:      st,
		resolver:   resolver,
		checkDelay: opts.CheckDelay,
		downloads:  newExportDownloadStore(),
		logger:     logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态与首页
	router.GET("/status", h.GetStatus)
	router.GET("/dashboard", h.GetDashboard)

	// 模型基底
	router.GET("/avatars", h.ListAvatars)

	// 资源
	router.GET("/assets", h.ListAssets)
	router.GET("/assets/export", h.ExportAssets)
	router.POST("/assets/export/stream", h.ExportAssetsStream)
	router.GET("/assets/export/download/:token", h.DownloadExport)
	router.GET("/assets/:id", h.GetAsset)
	router.PATCH("/assets/:id", h.UpdateAsset)
	router.POST("/assets/:id/use", h.UseAsset)

	// 合集
	router.GET("/collections", h.ListCollections)
	router.POST("/collections", h.CreateCollection)
	router.GET("/collections/:id", h.GetCollection)
	router.PATCH("/collections/:id", h.UpdateCollection)
	router.DELETE("/collections/:id", h.DeleteCollection)
	router.POST("/collections/:id/assets", h.AddCollectionAsset)
	router.DELETE("/collections/:id/assets/:assetId", h.RemoveCollectionAsset)

	// 兼容性检查
	router.GET("/compatibility/matrix", h.GetMatrix)
	router.POST("/compatibility/asset", h.CheckAsset)
	router.POST("/compatibility/avatars", h.CheckAvatars)

	// 界面偏好
	router.GET("/settings", h.GetSettings)
	router.PATCH("/settings", h.UpdateSettings)
}

// writeError 按错误类型选择状态码
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, compat.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, compat.ErrInvalidQuery):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = statusClientClosedRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func parseIntWithDefault(v string, d int) int {
	if v == "" {
		return d
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return i
}

// parseID 解析路径中的正整数 id
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
