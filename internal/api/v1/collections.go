package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

type collectionResponse struct {
	model.Collection
	Assets []model.Asset `json:"assets"`
}

// ListCollections 合集列表
// GET /api/collections
func (h *Handler) ListCollections(c *gin.Context) {
	cols, err := h.store.ListCollections()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cols})
}

type createCollectionRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	AssetIDs    []int64 `json:"assetIds"`
}

// CreateCollection 新建合集
// POST /api/collections
func (h *Handler) CreateCollection(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, "name is required")
		return
	}
	for _, id := range req.AssetIDs {
		if _, err := h.store.Asset(id); err != nil {
			h.writeError(c, err)
			return
		}
	}

	col, err := h.store.CreateCollection(req.Name, req.Description, req.AssetIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, col)
}

// GetCollection 合集详情（含资源）
// GET /api/collections/:id
func (h *Handler) GetCollection(c *gin.Context) {
	col, err := h.store.GetCollection(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCollection(c, http.StatusOK, col)
}

func (h *Handler) writeCollection(c *gin.Context, status int, col model.Collection) {
	assets, err := h.store.ListAssets(store.AssetQueryOptions{CollectionID: col.ID, SortBy: "name"})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, collectionResponse{Collection: col, Assets: assets})
}

type updateCollectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UpdateCollection 修改名称或描述
// PATCH /api/collections/:id
func (h *Handler) UpdateCollection(c *gin.Context) {
	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		badRequest(c, "name must not be empty")
		return
	}
	col, err := h.store.UpdateCollection(c.Param("id"), req.Name, req.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCollection(c, http.StatusOK, col)
}

// DeleteCollection 删除合集
// DELETE /api/collections/:id
func (h *Handler) DeleteCollection(c *gin.Context) {
	if err := h.store.DeleteCollection(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addCollectionAssetRequest struct {
	AssetID int64 `json:"assetId"`
}

// AddCollectionAsset 向合集加入资源
// POST /api/collections/:id/assets
func (h *Handler) AddCollectionAsset(c *gin.Context) {
	var req addCollectionAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AssetID <= 0 {
		badRequest(c, "assetId is required")
		return
	}
	id := c.Param("id")
	if err := h.store.AddToCollection(id, req.AssetID); err != nil {
		h.writeError(c, err)
		return
	}
	col, err := h.store.GetCollection(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.writeCollection(c, http.StatusOK, col)
}

// RemoveCollectionAsset 从合集移除资源
// DELETE /api/collections/:id/assets/:assetId
func (h *Handler) RemoveCollectionAsset(c *gin.Context) {
	assetID, ok := parseID(c, "assetId")
	if !ok {
		return
	}
	if err := h.store.RemoveFromCollection(c.Param("id"), assetID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
