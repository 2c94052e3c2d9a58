package handler

import (
	"net/http"

	"catalog-service/internal/apperror"
	"catalog-service/internal/service"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type UploadHandler struct {
	images *service.ImageService
}

func NewUploadHandler(images *service.ImageService) *UploadHandler {
	return &UploadHandler{images: images}
}

func (h *UploadHandler) UploadImage(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return apperror.BadRequest("An image file is required")
	}

	uploadType := service.UploadType(c.FormValue("type"))
	in := service.SaveImageInput{
		Type:        uploadType,
		CategoryKey: c.FormValue("categoryKey"),
		ProductSlug: c.FormValue("productSlug"),
	}

	switch uploadType {
	case service.UploadQR:
	case service.UploadCategory:
		if in.CategoryKey == "" {
			return apperror.BadRequest("categoryKey is required for category uploads")
		}
	case service.UploadProduct:
		if in.ProductSlug == "" {
			return apperror.BadRequest("productSlug is required for product uploads")
		}
	default:
		return apperror.BadRequest("type must be one of qr, category, product")
	}

	saved, err := h.images.SaveImage(hotelID, file, in)
	if err != nil {
		return err
	}

	prometheus.UploadCounter.WithLabelValues(string(uploadType)).Inc()
	logger.FromContext(c).Info("Image stored",
		zap.String("path", saved.RelativePath),
		zap.Int64("bytes", saved.Size))
	return c.JSON(http.StatusCreated, saved)
}
