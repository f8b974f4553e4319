package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"surveyhub/internal/auth"
	"surveyhub/internal/config"
	"surveyhub/internal/handler"
	"surveyhub/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	surveyHandler *handler.SurveyHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS allow-list from the environment. Requests without an Origin
	// header pass untouched; an empty list grants nothing cross-origin.
	if len(cfg.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/signup", authHandler.Signup)
	api.POST("/login", authHandler.Login)

	// Unauthenticated admin provisioning, registered only on explicit
	// opt-in. See cmd/bootstrap for the supported path.
	if cfg.EnableAdminEndpoint {
		api.POST("/create-admin", authHandler.CreateAdmin)
	}

	// Secured routes (require a bearer token)
	secured := api.Group("/survey-responses", RequireToken(cfg.JWTSecret))

	secured.POST("", surveyHandler.Submit)
	secured.GET("", surveyHandler.ListAll, RequireRole(model.RoleAdmin))
}

// RequireToken verifies the bearer token and injects its claims into the
// request context. A missing token yields 401; a malformed, expired or
// badly signed one yields 403, preserving the status split of the earlier
// iterations of this service.
func RequireToken(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		ContextKey: auth.ContextKey,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var tokenErr *echojwt.TokenError
			if errors.As(err, &tokenErr) {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication token required")
		},
	})
}

// RequireRole rejects callers whose token role differs from role. It trusts
// the claims RequireToken put on the context and must run after it.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := auth.ClaimsFrom(c)
			if !ok || claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied: Admin role required.")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
