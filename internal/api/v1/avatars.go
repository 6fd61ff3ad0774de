package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListAvatars 模型基底列表
// GET /api/avatars
func (h *Handler) ListAvatars(c *gin.Context) {
	avatars, err := h.store.ListAvatarBases()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": avatars})
}
