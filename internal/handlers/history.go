package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List the caller's interaction history
// @Description  Full history, most recent first. Empty list when nothing has been generated yet.
// @Tags         history
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, history"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/history [get]
// @Security     BearerAuth
func (h *Handler) getHistory(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	records, err := h.services.History.List(c.Request.Context(), username)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("history_list_failed", "err", err, "username", username)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"history": records,
	})
}
