package handler

import (
	"net/http"

	"catalog-service/internal/service"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	user, err := h.auth.Register(in)
	if err != nil {
		return err
	}

	prometheus.RegisterCounter.Inc()
	logger.FromContext(c).Info("User registered",
		zap.Uint("userId", user.ID),
		zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var in service.LoginInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	result, err := h.auth.Login(in)
	if err != nil {
		return err
	}

	prometheus.LoginCounter.Inc()
	return c.JSON(http.StatusOK, result)
}
