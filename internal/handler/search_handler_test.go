package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/coursesched/internal/dto"
	appErrors "github.com/brightpath-edu/coursesched/pkg/errors"
)

type fakeConflictSearcher struct {
	searchResp  *dto.SearchResponse
	searchErr   error
	summaryResp []dto.SummaryRowResponse
	summaryErr  error
}

func (f *fakeConflictSearcher) Search(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	return f.searchResp, f.searchErr
}

func (f *fakeConflictSearcher) Summary(ctx context.Context, termID string) ([]dto.SummaryRowResponse, error) {
	return f.summaryResp, f.summaryErr
}

func TestSearchHandlerRequiresTermIDAndQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeConflictSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/schedules/search?termId=fall-2026", nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Search(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHandlerReturnsResultOnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeConflictSearcher{searchResp: &dto.SearchResponse{Found: true}}
	h := NewSearchHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/schedules/search?termId=fall-2026&q=CS101", nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Search(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"found":true`)
}

func TestSearchHandlerPropagatesNotFoundError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeConflictSearcher{searchErr: appErrors.ErrQueryNotFound}
	h := NewSearchHandler(fake)

	req := httptest.NewRequest(http.MethodGet, "/schedules/search?termId=fall-2026&q=CS101", nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Search(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummaryHandlerRequiresTermID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSearchHandler(&fakeConflictSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/schedules/summary", nil)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Summary(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
