package handler

import (
	"net/http"
	"strconv"

	"catalog-service/internal/apperror"
	"catalog-service/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// bindAndValidate decodes the request into v and runs struct
// validation. Validation failures surface as 422 via the centralized
// error handler.
func bindAndValidate(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return validate.Struct(v)
}

// hotelIDFromContext reads the hotel id fixed by the tenant middleware.
// Its absence means a route was wired without the middleware.
func hotelIDFromContext(c echo.Context) (uint, error) {
	id, ok := middleware.HotelID(c)
	if !ok {
		return 0, apperror.Internal("Hotel scope missing from request context")
	}
	return id, nil
}

func parseIDParam(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.New(http.StatusUnprocessableEntity, "Validation failed").
			WithDetails([]echo.Map{{"field": name, "rule": "numeric"}})
	}
	return uint(id), nil
}
