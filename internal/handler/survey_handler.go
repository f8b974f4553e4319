package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"surveyhub/internal/auth"
	apperrors "surveyhub/internal/errors"
	"surveyhub/internal/model"
	"surveyhub/internal/service"
)

// SurveyHandler handles survey submission and admin retrieval endpoints.
type SurveyHandler struct {
	surveyService service.SurveyService
}

// NewSurveyHandler creates a new survey handler.
func NewSurveyHandler(surveyService service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

// SubmitSurveyRequest is the survey form payload. Any client-supplied owner
// field is ignored; ownership comes from the token claims.
type SubmitSurveyRequest struct {
	FullName   string   `json:"fullName" validate:"required"`
	Age        int      `json:"age" validate:"required,gt=0"`
	Gender     string   `json:"gender"`
	Education  string   `json:"education"`
	Occupation string   `json:"occupation"`
	AIInterest string   `json:"aiInterest"`
	Hobbies    []string `json:"hobbies"`
	Feedback   string   `json:"feedback"`
}

// SubmitSurveyResponse wraps the stored record.
type SubmitSurveyResponse struct {
	Message string                `json:"message"`
	Data    *model.SurveyResponse `json:"data"`
}

// SubmitterRef is the expanded owning-user reference in listings.
type SubmitterRef struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// SurveyResponseView is a listed response with the submitter joined in.
type SurveyResponseView struct {
	ID          uuid.UUID    `json:"id"`
	User        SubmitterRef `json:"userId"`
	FullName    string       `json:"fullName"`
	Age         int          `json:"age"`
	Gender      string       `json:"gender,omitempty"`
	Education   string       `json:"education,omitempty"`
	Occupation  string       `json:"occupation,omitempty"`
	AIInterest  string       `json:"aiInterest,omitempty"`
	Hobbies     []string     `json:"hobbies,omitempty"`
	Feedback    string       `json:"feedback,omitempty"`
	SubmittedAt time.Time    `json:"timestamp"`
}

// Submit godoc
// @Summary Submit a survey response
// @Tags survey
// @Accept json
// @Produce json
// @Param request body SubmitSurveyRequest true "Survey form"
// @Success 201 {object} SubmitSurveyResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /survey-responses [post]
func (h *SurveyHandler) Submit(c echo.Context) error {
	claims, ok := auth.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication token required")
	}

	var req SubmitSurveyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Failed to save survey response.", err))
	}
	if err := c.Validate(&req); err != nil {
		// Schema-level failures surface as a save error, like the store
		// validation of the earlier iterations did.
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Failed to save survey response.", err))
	}

	response, err := h.surveyService.Submit(c.Request().Context(), claims, service.SurveySubmission{
		FullName:   req.FullName,
		Age:        req.Age,
		Gender:     req.Gender,
		Education:  req.Education,
		Occupation: req.Occupation,
		AIInterest: req.AIInterest,
		Hobbies:    req.Hobbies,
		Feedback:   req.Feedback,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminSubmission) {
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Failed to save survey response.", err))
	}

	return c.JSON(http.StatusCreated, SubmitSurveyResponse{
		Message: "Survey response saved successfully!",
		Data:    response,
	})
}

// ListAll godoc
// @Summary List every survey response with submitter emails
// @Tags survey
// @Produce json
// @Success 200 {array} SurveyResponseView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /survey-responses [get]
func (h *SurveyHandler) ListAll(c echo.Context) error {
	responses, err := h.surveyService.ListAll(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError,
			apperrors.Internal("Failed to fetch survey responses.", err))
	}

	views := make([]SurveyResponseView, 0, len(responses))
	for _, r := range responses {
		if r.User == nil {
			// Responses whose submitter no longer resolves are not shown.
			continue
		}
		views = append(views, SurveyResponseView{
			ID:          r.ID,
			User:        SubmitterRef{ID: r.User.ID, Email: r.User.Email},
			FullName:    r.FullName,
			Age:         r.Age,
			Gender:      r.Gender,
			Education:   r.Education,
			Occupation:  r.Occupation,
			AIInterest:  r.AIInterest,
			Hobbies:     r.Hobbies,
			Feedback:    r.Feedback,
			SubmittedAt: r.SubmittedAt,
		})
	}

	return c.JSON(http.StatusOK, views)
}
