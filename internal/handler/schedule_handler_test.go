package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-edu/coursesched/internal/dto"
)

type fakeScheduleGenerator struct {
	resp *dto.GenerateScheduleResponse
	err  error
}

func (f *fakeScheduleGenerator) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	return f.resp, f.err
}

func TestScheduleHandlerGenerateReturns200OnSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := &fakeScheduleGenerator{resp: &dto.GenerateScheduleResponse{Feasible: true, LastPhase: 6}}
	h := NewScheduleHandler(fake)

	body, _ := json.Marshal(dto.GenerateScheduleRequest{
		TermID:  "fall-2026",
		Courses: []dto.CourseInputRequest{{CourseID: "CS101", Offerings: []dto.CandidateOfferingRequest{{Slots: []string{"Monday 9am-10am"}}}}},
	})
	req := httptest.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Generate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"feasible":true`)
}

func TestScheduleHandlerGenerateReturns400OnMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(&fakeScheduleGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req

	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
