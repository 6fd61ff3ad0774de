package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

const (
	defaultPageSize  = 24
	maxPageSize      = 500
	defaultSortField = "dateAdded"
)

type listAssetsResponse struct {
	Items    []model.Asset `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// preferredSort 未指定 sortBy 时使用的排序字段（default_sort 偏好）
func (h *Handler) preferredSort() string {
	v, err := h.store.GetSetting(store.SettingDefaultSort)
	if err != nil {
		h.warnPreference(store.SettingDefaultSort, err)
		return defaultSortField
	}
	if !store.ValidAssetSort(v) {
		return defaultSortField
	}
	return v
}

// preferredPageSize 未指定 pageSize 时的分页大小（page_size 偏好）
func (h *Handler) preferredPageSize() int {
	n, err := h.store.GetSettingInt(store.SettingPageSize)
	if err != nil {
		h.warnPreference(store.SettingPageSize, err)
		return defaultPageSize
	}
	if n <= 0 || n > maxPageSize {
		return defaultPageSize
	}
	return n
}

func (h *Handler) warnPreference(key string, err error) {
	if !errors.Is(err, store.ErrNotFound) {
		h.logger.Warn("read preference failed, using default", zap.String("key", key), zap.Error(err))
	}
}

// assetFilter 从查询参数解析过滤与排序条件（不含分页）
//
// 支持 type、keyword、avatar、collection、favorites=true、sortBy、order=asc|desc。
func (h *Handler) assetFilter(c *gin.Context) (store.AssetQueryOptions, bool) {
	opts := store.AssetQueryOptions{
		Keyword:       strings.TrimSpace(c.Query("keyword")),
		AvatarBase:    strings.TrimSpace(c.Query("avatar")),
		CollectionID:  strings.TrimSpace(c.Query("collection")),
		FavoritesOnly: c.Query("favorites") == "true",
		SortBy:        c.Query("sortBy"),
		SortDesc:      true,
	}
	if opts.SortBy == "" {
		opts.SortBy = h.preferredSort()
	}

	if v := strings.TrimSpace(c.Query("type")); v != "" && v != "all" {
		t := model.AssetType(v)
		if !t.Valid() {
			badRequest(c, "invalid type: "+v)
			return opts, false
		}
		opts.Type = &t
	}
	if !store.ValidAssetSort(opts.SortBy) {
		badRequest(c, "invalid sortBy: "+opts.SortBy)
		return opts, false
	}
	switch strings.ToLower(c.Query("order")) {
	case "", "desc":
	case "asc":
		opts.SortDesc = false
	default:
		badRequest(c, "invalid order: "+c.Query("order"))
		return opts, false
	}
	return opts, true
}

// ListAssets 查询资源列表
// GET /api/assets
func (h *Handler) ListAssets(c *gin.Context) {
	opts, ok := h.assetFilter(c)
	if !ok {
		return
	}

	page := parseIntWithDefault(c.Query("page"), 1)
	fallback := h.preferredPageSize()
	pageSize := parseIntWithDefault(c.Query("pageSize"), fallback)
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = fallback
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	total, err := h.store.CountAssets(opts)
	if err != nil {
		h.writeError(c, err)
		return
	}
	opts.Limit = pageSize
	opts.Offset = (page - 1) * pageSize
	items, err := h.store.ListAssets(opts)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, listAssetsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetAsset 资源详情
// GET /api/assets/:id
func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.store.Asset(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type updateAssetRequest struct {
	Favorite *bool   `json:"favorite"`
	Notes    *string `json:"notes"`
}

// UpdateAsset 修改收藏状态或备注
// PATCH /api/assets/:id
func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.Favorite == nil && req.Notes == nil {
		badRequest(c, "nothing to update")
		return
	}

	if req.Favorite != nil {
		if err := h.store.SetFavorite(id, *req.Favorite); err != nil {
			h.writeError(c, err)
			return
		}
	}
	if req.Notes != nil {
		if err := h.store.SetNotes(id, *req.Notes); err != nil {
			h.writeError(c, err)
			return
		}
	}

	a, err := h.store.Asset(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// UseAsset 记录一次使用
// POST /api/assets/:id/use
func (h *Handler) UseAsset(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.store.MarkUsed(id, time.Now()); err != nil {
		h.writeError(c, err)
		return
	}
	a, err := h.store.Asset(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
