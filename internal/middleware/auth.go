package middleware

import (
	"strings"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys set by the middleware in this package.
const (
	UserKey    = "user"
	HotelIDKey = "hotel_id"
)

// CurrentUser returns the authenticated user stored by Authenticate.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(UserKey).(*model.User)
	return user, ok
}

// HotelID returns the hotel id resolved for this request.
func HotelID(c echo.Context) (uint, bool) {
	id, ok := c.Get(HotelIDKey).(uint)
	return id, ok
}

// Authenticate validates the bearer token and re-validates it against
// the live user record: a token whose role no longer matches the user
// is rejected, and a manager token is pinned to the manager's current
// hotel. Managers with no hotel assignment fail closed.
func Authenticate(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				prometheus.RecordAuthError("missing_token")
				return apperror.Unauthorized("Authorization header missing")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				prometheus.RecordAuthError("invalid_auth_format")
				return apperror.Unauthorized("Authorization header missing")
			}

			claims, err := jwtutil.ValidateToken(strings.TrimSpace(parts[1]))
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return apperror.Unauthorized("Invalid or expired token")
			}

			var user model.User
			if err := db.First(&user, claims.UserID).Error; err != nil {
				prometheus.RecordAuthError("user_not_found")
				return apperror.Unauthorized("Unauthorized")
			}

			// A role change invalidates outstanding tokens.
			if string(user.Role) != claims.Role {
				prometheus.RecordAuthError("role_mismatch")
				return apperror.Unauthorized("Invalid token")
			}

			if user.Role == model.RoleManager {
				if claims.HotelID != nil && user.HotelID != nil && *claims.HotelID != *user.HotelID {
					prometheus.RecordAuthError("hotel_mismatch")
					return apperror.Unauthorized("Invalid token")
				}
				if user.HotelID == nil {
					prometheus.RecordTenantError("no_hotel_assigned")
					return apperror.Forbidden("Manager has no hotel assigned")
				}
				c.Set(HotelIDKey, *user.HotelID)
			}

			c.Set(UserKey, &user)
			return next(c)
		}
	}
}

// RequireRoles gates a route group to the given roles.
func RequireRoles(roles ...model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return apperror.Unauthorized("Unauthorized")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return apperror.Forbidden("Forbidden")
		}
	}
}
