package middleware

import (
	"strconv"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	hotelHeader     = "x-hotel-id"
	hotelQueryParam = "hotelId"
)

func hotelIdentifier(c echo.Context) string {
	if header := c.Request().Header.Get(hotelHeader); header != "" {
		return header
	}
	return c.QueryParam(hotelQueryParam)
}

// lookupHotelID resolves an identifier that may be a numeric id or a slug.
func lookupHotelID(db *gorm.DB, identifier string) (uint, bool) {
	var hotel model.Hotel
	query := db.Select("id")
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		query = query.Where("id = ? OR slug = ?", uint(id), identifier)
	} else {
		query = query.Where("slug = ?", identifier)
	}
	if err := query.First(&hotel).Error; err != nil {
		return 0, false
	}
	return hotel.ID, true
}

// HotelContext resolves the acting hotel for public routes from the
// x-hotel-id header or hotelId query parameter, no auth involved.
func HotelContext(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := hotelIdentifier(c)
			if identifier == "" {
				prometheus.RecordTenantError("missing_identifier")
				return apperror.BadRequest("Hotel identifier is required via `x-hotel-id` header or `hotelId` query parameter.")
			}

			hotelID, ok := lookupHotelID(db, identifier)
			if !ok {
				prometheus.RecordTenantError("unknown_hotel")
				return apperror.NotFound("Hotel not found")
			}

			c.Set(HotelIDKey, hotelID)
			return next(c)
		}
	}
}

// ResolveHotelAccess fixes the acting hotel for authenticated routes.
// A manager is hard-scoped to their assigned hotel no matter what the
// request carries; an admin must name a hotel explicitly per request.
func ResolveHotelAccess(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return apperror.Unauthorized("Unauthorized")
			}

			switch user.Role {
			case model.RoleManager:
				if user.HotelID == nil {
					prometheus.RecordTenantError("no_hotel_assigned")
					return apperror.Forbidden("Manager has no hotel assigned")
				}
				c.Set(HotelIDKey, *user.HotelID)
				return next(c)

			case model.RoleAdmin:
				identifier := hotelIdentifier(c)
				if identifier == "" {
					prometheus.RecordTenantError("missing_identifier")
					return apperror.BadRequest("Hotel identifier is required via x-hotel-id header or hotelId query")
				}
				hotelID, found := lookupHotelID(db, identifier)
				if !found {
					prometheus.RecordTenantError("unknown_hotel")
					return apperror.NotFound("Hotel not found")
				}
				c.Set(HotelIDKey, hotelID)
				return next(c)

			default:
				return apperror.Forbidden("Forbidden")
			}
		}
	}
}
