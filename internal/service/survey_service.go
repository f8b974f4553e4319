package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"surveyhub/internal/auth"
	"surveyhub/internal/cache"
	apperrors "surveyhub/internal/errors"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

const (
	listCacheKey = "survey:responses:all"
	listCacheTTL = time.Minute
)

// SurveySubmission carries the client-supplied survey fields. The owning
// user is deliberately absent: it always comes from the caller's claims.
type SurveySubmission struct {
	FullName   string
	Age        int
	Gender     string
	Education  string
	Occupation string
	AIInterest string
	Hobbies    []string
	Feedback   string
}

// SurveyService handles survey submission and admin retrieval.
type SurveyService interface {
	// Submit persists a response owned by the caller identified in claims.
	// Admin tokens are rejected; admins are not survey subjects.
	Submit(ctx context.Context, claims *auth.Claims, submission SurveySubmission) (*model.SurveyResponse, error)
	// ListAll returns every response with the submitting user attached.
	ListAll(ctx context.Context) ([]model.SurveyResponse, error)
}

type surveyService struct {
	surveyRepo repository.SurveyResponseRepository
	cache      *cache.Client
}

// NewSurveyService creates a new survey service.
func NewSurveyService(surveyRepo repository.SurveyResponseRepository, cache *cache.Client) SurveyService {
	return &surveyService{
		surveyRepo: surveyRepo,
		cache:      cache,
	}
}

// Submit stores a new survey response and invalidates the listing cache.
func (s *surveyService) Submit(ctx context.Context, claims *auth.Claims, submission SurveySubmission) (*model.SurveyResponse, error) {
	if claims.Role == model.RoleAdmin {
		return nil, apperrors.ErrAdminSubmission
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse user id from claims: %w", err)
	}

	response := &model.SurveyResponse{
		UserID:     userID,
		FullName:   submission.FullName,
		Age:        submission.Age,
		Gender:     submission.Gender,
		Education:  submission.Education,
		Occupation: submission.Occupation,
		AIInterest: submission.AIInterest,
		Hobbies:    submission.Hobbies,
		Feedback:   submission.Feedback,
	}
	if err := s.surveyRepo.Create(ctx, response); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, listCacheKey)

	return response, nil
}

// ListAll retrieves every response with the submitter joined in, reading
// through the cache.
func (s *surveyService) ListAll(ctx context.Context) ([]model.SurveyResponse, error) {
	if data, _ := s.cache.Get(ctx, listCacheKey); data != nil {
		var cached []model.SurveyResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	responses, err := s.surveyRepo.ListWithSubmitters(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(responses); err == nil {
		_ = s.cache.Set(ctx, listCacheKey, payload, listCacheTTL)
	}

	return responses, nil
}
