package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/model"
	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized     bool           `json:"initialized"`     // 是否已生成数据
	TotalAssets     int            `json:"totalAssets"`     // 资源总数
	TotalAvatars    int            `json:"totalAvatars"`    // 模型基底数
	CollectionCount int            `json:"collectionCount"` // 合集数
	CatalogVersion  string         `json:"catalogVersion"`  // 参考数据版本
	LastSeed        *store.SeedRun `json:"lastSeed"`        // 最近一次生成记录
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	total, err := h.store.CountAssets(store.AssetQueryOptions{})
	if err != nil {
		h.writeError(c, err)
		return
	}
	avatars, err := h.store.ListAvatarBases()
	if err != nil {
		h.writeError(c, err)
		return
	}
	collections, err := h.store.CountCollections()
	if err != nil {
		h.writeError(c, err)
		return
	}
	run, err := h.store.LastSeedRun()
	if err != nil {
		h.writeError(c, err)
		return
	}
	version, err := h.store.CatalogVersion()
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := StatusResponse{
		Initialized:     run != nil && run.Status == "completed",
		TotalAssets:     total,
		TotalAvatars:    len(avatars),
		CollectionCount: collections,
		CatalogVersion:  version,
		LastSeed:        run,
	}
	c.JSON(http.StatusOK, resp)
}

// DashboardResponse 首页数据
type DashboardResponse struct {
	Stats           model.AssetStats `json:"stats"`
	CollectionCount int              `json:"collectionCount"`
	Recent          []model.Asset    `json:"recent"`
	RecentlyUsed    []model.Asset    `json:"recentlyUsed"`
	Favorites       []model.Asset    `json:"favorites"`
}

const dashboardListSize = 6

// GetDashboard 首页统计与最近资源
// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.store.AssetStats()
	if err != nil {
		h.writeError(c, err)
		return
	}
	collections, err := h.store.CountCollections()
	if err != nil {
		h.writeError(c, err)
		return
	}
	recent, err := h.store.RecentAssets(dashboardListSize)
	if err != nil {
		h.writeError(c, err)
		return
	}
	used, err := h.store.ListAssets(store.AssetQueryOptions{
		UsedOnly: true,
		SortBy:   "lastUsed",
		SortDesc: true,
		Limit:    dashboardListSize,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	favorites, err := h.store.ListAssets(store.AssetQueryOptions{
		FavoritesOnly: true,
		SortBy:        "name",
		Limit:         dashboardListSize,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Stats:           stats,
		CollectionCount: collections,
		Recent:          recent,
		RecentlyUsed:    used,
		Favorites:       favorites,
	})
}
