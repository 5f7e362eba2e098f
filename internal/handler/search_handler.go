package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-scheduler/internal/dto"
	"github.com/noah-isme/course-scheduler/pkg/response"
)

type searchService interface {
	Search(ctx context.Context, query string) ([]dto.SearchResult, error)
}

// SearchHandler exposes the combined course and assignment search.
type SearchHandler struct {
	service searchService
}

// NewSearchHandler builds a new handler.
func NewSearchHandler(service searchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search matches ?q= against courses and assignments. A blank query yields no results.
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, map[string]interface{}{"total": len(results)})
}
