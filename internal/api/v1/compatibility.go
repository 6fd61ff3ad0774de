package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/compat"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
)

type matrixEntry struct {
	model.CompatibilityEntry
	Overall model.Mark `json:"overall"`
}

type matrixResponse struct {
	AvatarBases []model.AvatarBase `json:"avatarBases"`
	Entries     []matrixEntry      `json:"entries"`
}

// GetMatrix 完整兼容矩阵（有向）
// GET /api/compatibility/matrix
func (h *Handler) GetMatrix(c *gin.Context) {
	avatars, err := h.store.ListAvatarBases()
	if err != nil {
		h.writeError(c, err)
		return
	}
	entries, err := h.store.ListCompatibilityEntries()
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]matrixEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, matrixEntry{CompatibilityEntry: e, Overall: e.Overall().Mark()})
	}
	c.JSON(http.StatusOK, matrixResponse{AvatarBases: avatars, Entries: out})
}

type checkAssetRequest struct {
	AvatarID string `json:"avatarId"`
	AssetID  int64  `json:"assetId"`
}

// CheckAsset 资源与模型基底的兼容性
// POST /api/compatibility/asset
func (h *Handler) CheckAsset(c *gin.Context) {
	var req checkAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	h.check(c, compat.Query{Mode: compat.ModeAsset, AvatarID: req.AvatarID, AssetID: req.AssetID})
}

type checkAvatarsRequest struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

// CheckAvatars 两个模型基底之间的兼容性（source -> target）
// POST /api/compatibility/avatars
func (h *Handler) CheckAvatars(c *gin.Context) {
	var req checkAvatarsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid json")
		return
	}
	h.check(c, compat.Query{Mode: compat.ModeAvatars, SourceID: req.SourceID, TargetID: req.TargetID})
}

func (h *Handler) check(c *gin.Context, q compat.Query) {
	// 参数不完整时直接拒绝，不进入模拟等待
	if err := q.Validate(); err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.resolver.Check(c.Request.Context(), q, h.checkDelay)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
