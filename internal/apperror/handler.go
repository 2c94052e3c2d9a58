package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NewHTTPErrorHandler returns the centralized responder every handler
// funnels into. Ordering matters: domain errors first, then schema
// validation, then echo's own errors, then the opaque 500 fallback.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := logger.FromContext(c)

		var appErr *Error
		var validationErrs validator.ValidationErrors
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &appErr):
			payload := echo.Map{"message": appErr.Message}
			if appErr.Details != nil {
				payload["details"] = appErr.Details
			}
			if appErr.Status >= http.StatusInternalServerError {
				log.Error("Domain error", zap.Int("status", appErr.Status), zap.String("message", appErr.Message))
			}
			_ = c.JSON(appErr.Status, payload)

		case errors.As(err, &validationErrs):
			issues := make([]echo.Map, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				issues = append(issues, echo.Map{
					"field": fieldErr.Field(),
					"rule":  fieldErr.Tag(),
				})
			}
			_ = c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"message": "Validation failed",
				"issues":  issues,
			})

		case errors.As(err, &httpErr):
			_ = c.JSON(httpErr.Code, echo.Map{"message": fmt.Sprintf("%v", httpErr.Message)})

		default:
			log.Error("Unexpected error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			prometheus.RecordUnexpectedError()
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"message": "Unexpected server error"})
		}
	}
}
