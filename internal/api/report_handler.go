package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/backend"
)

// ReportHandler serves the debrief history for the stream view.
type ReportHandler struct {
	backend *backend.Context
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(be *backend.Context) *ReportHandler {
	return &ReportHandler{backend: be}
}

// ListReports returns the user's daily reports, newest first.
func (h *ReportHandler) ListReports(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	reports, err := h.backend.Logs.ListDailyReports(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}
