package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReviewService struct {
	generateErr    error
	createTrackErr error
}

func (s *stubReviewService) Generate(ctx context.Context, req dto.GenerateChallengesDTO) (*dto.GenerateChallengesResponseDTO, error) {
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return &dto.GenerateChallengesResponseDTO{}, nil
}

func (s *stubReviewService) Save(ctx context.Context, req dto.SaveChallengeDTO) (*dto.SaveChallengeResponseDTO, error) {
	return &dto.SaveChallengeResponseDTO{}, nil
}

func (s *stubReviewService) ListChallenges() ([]dto.ChallengeResponse, error) { return nil, nil }

func (s *stubReviewService) CreateTrack(req dto.TrackCreateDTO) (*dto.TrackResponse, error) {
	if s.createTrackErr != nil {
		return nil, s.createTrackErr
	}
	return &dto.TrackResponse{Slug: req.Slug, Title: req.Title}, nil
}

func (s *stubReviewService) ListTracks() ([]dto.TrackResponse, error) { return nil, nil }

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, handler)

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateChallenges_GeneratorFailureIsServerError(t *testing.T) {
	stub := &stubReviewService{generateErr: fmt.Errorf("%w: upstream timeout", service.ErrGenerationFailed)}
	ctrl := NewAdminChallengeController(stub, nil)

	w := postJSON(t, ctrl.GenerateChallenges, "/admin/challenges/generate",
		dto.GenerateChallengesDTO{TrackID: 1, Difficulty: "beginner", Count: 3})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateTrack_DuplicateSlugConflicts(t *testing.T) {
	stub := &stubReviewService{createTrackErr: fmt.Errorf("%w: %q", service.ErrSlugTaken, "prompting")}
	ctrl := NewAdminChallengeController(stub, nil)

	w := postJSON(t, ctrl.CreateTrack, "/admin/tracks",
		dto.TrackCreateDTO{Slug: "prompting", Title: "Prompting"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateTrack_StoreErrorIsServerError(t *testing.T) {
	stub := &stubReviewService{createTrackErr: errors.New("connection refused")}
	ctrl := NewAdminChallengeController(stub, nil)

	w := postJSON(t, ctrl.CreateTrack, "/admin/tracks",
		dto.TrackCreateDTO{Slug: "prompting", Title: "Prompting"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
