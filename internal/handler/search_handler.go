package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/coursesched/internal/dto"
	appErrors "github.com/brightpath-edu/coursesched/pkg/errors"
	"github.com/brightpath-edu/coursesched/pkg/response"
)

type conflictSearcher interface {
	Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error)
	Summary(ctx context.Context, termID string) ([]dto.SummaryRowResponse, error)
}

// SearchHandler exposes the conflict analyzer's search and summary endpoints.
type SearchHandler struct {
	service conflictSearcher
}

// NewSearchHandler constructs the handler.
func NewSearchHandler(svc conflictSearcher) *SearchHandler {
	return &SearchHandler{service: svc}
}

// Search godoc
// @Summary Search a term's solved schedule for a course and its conflicts
// @Tags Scheduler
// @Produce json
// @Param termId query string true "Term ID"
// @Param q query string true "Course name or substring"
// @Param ignoreInstructorBusySlots query bool false "Ignore explicit instructor busy slots"
// @Param ignoreInstructorTeachingClashes query bool false "Ignore instructor teaching-schedule clashes"
// @Success 200 {object} response.Envelope
// @Router /api/v1/schedules/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	req := dto.SearchRequest{
		TermID:                          c.Query("termId"),
		Query:                           c.Query("q"),
		IgnoreInstructorBusySlots:       c.Query("ignoreInstructorBusySlots") == "true",
		IgnoreInstructorTeachingClashes: c.Query("ignoreInstructorTeachingClashes") == "true",
	}
	if req.TermID == "" || req.Query == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId and q are required"))
		return
	}

	result, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Summary godoc
// @Summary List every scheduled course's clash footprint for a term
// @Tags Scheduler
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /api/v1/schedules/summary [get]
func (h *SearchHandler) Summary(c *gin.Context) {
	termID := c.Query("termId")
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId is required"))
		return
	}

	rows, err := h.service.Summary(c.Request.Context(), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
