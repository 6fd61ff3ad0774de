package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Eidenz/VRChat-Asset-Manager-sub001/internal/store"
)

// 各偏好项允许的取值；nil 表示由 validate 单独检查
var settingChoices = map[string][]string{
	store.SettingTheme:       {"light", "dark"},
	store.SettingViewMode:    {"grid", "list"},
	store.SettingDefaultSort: nil,
	store.SettingPageSize:    nil,
}

func validateSetting(key, value string) bool {
	choices, ok := settingChoices[key]
	if !ok {
		return false
	}
	switch key {
	case store.SettingDefaultSort:
		return store.ValidAssetSort(value)
	case store.SettingPageSize:
		n, err := strconv.Atoi(value)
		return err == nil && n > 0 && n <= maxPageSize
	}
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}

// GetSettings 获取界面偏好
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.store.GetAllSettings()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 部分更新界面偏好，任一项不合法时整体拒绝
// PATCH /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch map[string]string
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid json")
		return
	}
	for k, v := range patch {
		if !validateSetting(k, v) {
			badRequest(c, "invalid setting "+k+": "+v)
			return
		}
	}
	if err := h.store.SetSettings(patch); err != nil {
		h.writeError(c, err)
		return
	}
	h.GetSettings(c)
}
