package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"surveyhub/internal/auth"
	"surveyhub/internal/cache"
	"surveyhub/internal/config"
	"surveyhub/internal/handler"
	"surveyhub/internal/model"
	"surveyhub/internal/service"
)

// fakeUserRepo is an in-memory UserRepository enforcing email uniqueness
// the way the store does.
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[user.Email]; exists {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	stored := *user
	f.byEmail[user.Email] = &stored
	f.byID[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.byEmail[email]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindAdminByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.byEmail[email]; ok && user.Role == model.RoleAdmin {
		clone := *user
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeSurveyRepo stores responses in memory and joins submitters from the
// user repo on listing.
type fakeSurveyRepo struct {
	mu        sync.Mutex
	responses []model.SurveyResponse
	users     *fakeUserRepo
}

func (f *fakeSurveyRepo) Create(_ context.Context, response *model.SurveyResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	response.SubmittedAt = time.Now()
	f.responses = append(f.responses, *response)
	return nil
}

func (f *fakeSurveyRepo) ListWithSubmitters(_ context.Context) ([]model.SurveyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SurveyResponse, len(f.responses))
	copy(out, f.responses)
	for i := range out {
		if user, ok := f.users.byID[out[i].UserID]; ok {
			clone := *user
			out[i].User = &clone
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, enableAdmin bool) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:           "test-secret",
		EnableAdminEndpoint: enableAdmin,
	}

	users := newFakeUserRepo()
	surveys := &fakeSurveyRepo{users: users}
	srv := miniredis.RunT(t)
	cacheClient := cache.New(srv.Addr(), "", 0)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(users, jwtService)
	surveyService := service.NewSurveyService(surveys, cacheClient)

	e := echo.New()
	Register(e, cfg, handler.NewAuthHandler(authService), handler.NewSurveyHandler(surveyService))
	return e
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestUserFlow(t *testing.T) {
	e := newTestServer(t, false)

	// Signup succeeds with the default role.
	rec := doJSON(e, http.MethodPost, "/api/signup", "", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	signup := decode(t, rec)
	assert.Equal(t, "user", signup["role"])
	assert.NotEmpty(t, signup["token"])
	userID := signup["userId"].(string)
	require.NotEmpty(t, userID)

	// A second signup with the same email conflicts regardless of password.
	rec = doJSON(e, http.MethodPost, "/api/signup", "", `{"email":"a@x.com","password":"pw2"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered.", decode(t, rec)["message"])

	// Login returns the same identifier.
	rec = doJSON(e, http.MethodPost, "/api/login", "", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode(t, rec)
	assert.Equal(t, userID, login["userId"])
	token := login["token"].(string)

	// Submission is stored under the authenticated identity, ignoring any
	// client-supplied owner.
	rec = doJSON(e, http.MethodPost, "/api/survey-responses", token,
		`{"fullName":"A","age":30,"userId":"`+uuid.New().String()+`","hobbies":["chess"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	submit := decode(t, rec)
	data := submit["data"].(map[string]any)
	assert.Equal(t, userID, data["userId"])

	// A plain user cannot list submissions.
	rec = doJSON(e, http.MethodGet, "/api/survey-responses", token, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied: Admin role required.", decode(t, rec)["message"])
}

func TestAdminFlow(t *testing.T) {
	e := newTestServer(t, true)

	// Seed one user submission.
	rec := doJSON(e, http.MethodPost, "/api/signup", "", `{"email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	userToken := decode(t, rec)["token"].(string)
	rec = doJSON(e, http.MethodPost, "/api/survey-responses", userToken, `{"fullName":"A","age":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Provision and authenticate an admin.
	rec = doJSON(e, http.MethodPost, "/api/create-admin", "", `{"email":"admin@x.com","password":"adminpw"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/create-admin", "", `{"email":"admin@x.com","password":"other"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/login", "", `{"email":"admin@x.com","password":"adminpw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode(t, rec)
	assert.Equal(t, "admin", login["role"])
	adminToken := login["token"].(string)

	// Admins cannot submit survey data.
	rec = doJSON(e, http.MethodPost, "/api/survey-responses", adminToken, `{"fullName":"B","age":40}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Listing succeeds and every element resolves to a submitter email.
	rec = doJSON(e, http.MethodGet, "/api/survey-responses", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	owner := listed[0]["userId"].(map[string]any)
	assert.Equal(t, "a@x.com", owner["email"])
}

func TestAdminEndpointDisabledByDefault(t *testing.T) {
	e := newTestServer(t, false)
	rec := doJSON(e, http.MethodPost, "/api/create-admin", "", `{"email":"admin@x.com","password":"adminpw"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenGuard(t *testing.T) {
	e := newTestServer(t, false)

	// No token at all.
	rec := doJSON(e, http.MethodGet, "/api/survey-responses", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication token required", decode(t, rec)["message"])

	// Garbled token.
	rec = doJSON(e, http.MethodGet, "/api/survey-responses", "not-a-token", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid or expired token", decode(t, rec)["message"])

	// Token signed with a different secret.
	foreign, err := auth.NewJWTService("other-secret").Generate(uuid.New().String(), "a@x.com", "admin")
	require.NoError(t, err)
	rec = doJSON(e, http.MethodGet, "/api/survey-responses", foreign, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	e := newTestServer(t, false)

	for _, body := range []string{
		`{}`,
		`{"email":"a@x.com"}`,
		`{"password":"pw"}`,
	} {
		rec := doJSON(e, http.MethodPost, "/api/signup", "", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		assert.Equal(t, "Email and password are required", decode(t, rec)["message"])
	}
}
