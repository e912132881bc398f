package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"examauth/internal/auth"
	apperrors "examauth/internal/errors"
	"examauth/internal/handler"
	"examauth/internal/logging"
)

var errTokenRevoked = errors.New("access token has been revoked")

// Register wires middleware, error handling, rendering and routes.
func Register(
	e *echo.Echo,
	log logging.Logger,
	authHandler *handler.AuthHandler,
	jwtService *auth.JWTService,
	revoked auth.RevocationStore,
) error {
	renderer, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(requestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api/docs/*", echoSwagger.WrapHandler)

	// Public routes
	a := e.Group("/auth")
	a.POST("/register", authHandler.Register)
	a.GET("/verify-email/:token", authHandler.VerifyEmail)
	a.POST("/login", authHandler.Login)
	a.POST("/forgot-password", authHandler.ForgotPassword)
	a.GET("/reset-password/:token", authHandler.ResetPasswordForm)
	a.POST("/reset-password/:token", authHandler.ResetPassword)

	// Secured routes (require a bearer access token)
	secured := a.Group("", accessToken(jwtService, revoked))
	secured.GET("/me", authHandler.Me)
	secured.POST("/logout", authHandler.Logout)

	return nil
}

// accessToken validates the bearer token and stores *auth.AccessClaims under handler.ClaimsContextKey.
func accessToken(jwtService *auth.JWTService, revoked auth.RevocationStore) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			isRevoked, err := revoked.IsAccessTokenRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if isRevoked {
				return nil, errTokenRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid access token").SetInternal(err)
		},
	})
}

// requestID sets X-Request-Id and copies it into the request context for the logger.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logging.ContextWithRequestID(c.Request().Context(), id)))
		},
	})
}

func requestLogger(log logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info(c.Request().Context(), "request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
			)
			return nil
		},
	})
}

// NewHTTPErrorHandler writes every error as an errors.ErrorResponse.
// Domain errors are mapped with MapErrorToHTTP; unexpected ones are logged and hidden.
func NewHTTPErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var body apperrors.ErrorResponse

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			body = apperrors.ErrorResponse{
				Message: fmt.Sprint(he.Message),
				Code:    statusCode(he.Code),
			}
			if he.Internal != nil {
				err = he.Internal
			}
		} else {
			mapped := apperrors.MapErrorToHTTP(err)
			status = mapped.StatusCode
			body = mapped.ToErrorResponse()
		}

		if status >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			log.Error(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

// statusCode turns 401 into "UNAUTHORIZED".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their json names and understands notblank.
func NewValidator() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface. The first failing field becomes an InputError.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.NewInputError(verrs[0].Field())
	}
	return err
}
