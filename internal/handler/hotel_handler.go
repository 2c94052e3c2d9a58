package handler

import (
	"net/http"

	"catalog-service/internal/service"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
)

type HotelHandler struct {
	hotels *service.HotelService
}

func NewHotelHandler(hotels *service.HotelService) *HotelHandler {
	return &HotelHandler{hotels: hotels}
}

func (h *HotelHandler) List(c echo.Context) error {
	var in service.ListHotelsInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	page, err := h.hotels.List(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *HotelHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	hotel, err := h.hotels.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hotel)
}

func (h *HotelHandler) Create(c echo.Context) error {
	var in service.CreateHotelInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	hotel, err := h.hotels.Create(in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("hotel", "create")
	return c.JSON(http.StatusCreated, hotel)
}

func (h *HotelHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var in service.UpdateHotelInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	hotel, err := h.hotels.Update(id, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("hotel", "update")
	return c.JSON(http.StatusOK, hotel)
}

func (h *HotelHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.hotels.Delete(id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("hotel", "delete")
	return c.NoContent(http.StatusNoContent)
}
