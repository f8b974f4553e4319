package repository

import (
	"context"

	"gorm.io/gorm"

	"surveyhub/internal/model"
)

// SurveyResponseRepository defines survey response persistence operations.
// Responses are append-only; there are no update or delete operations.
type SurveyResponseRepository interface {
	Create(ctx context.Context, response *model.SurveyResponse) error
	ListWithSubmitters(ctx context.Context) ([]model.SurveyResponse, error)
}

type surveyResponseRepository struct {
	db *gorm.DB
}

// NewSurveyResponseRepository creates a new survey response repository.
func NewSurveyResponseRepository(db *gorm.DB) SurveyResponseRepository {
	return &surveyResponseRepository{db: db}
}

// Create persists a new survey response.
func (r *surveyResponseRepository) Create(ctx context.Context, response *model.SurveyResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

// ListWithSubmitters returns every stored response with the submitting user
// preloaded, in store-default order.
func (r *surveyResponseRepository) ListWithSubmitters(ctx context.Context) ([]model.SurveyResponse, error) {
	var responses []model.SurveyResponse
	if err := r.db.WithContext(ctx).Preload("User").Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}
