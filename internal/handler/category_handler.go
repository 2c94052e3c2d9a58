package handler

import (
	"net/http"

	"catalog-service/internal/service"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}

	var in service.ListCategoriesInput
	if err := c.Bind(&in); err != nil {
		return err
	}

	page, err := h.categories.List(hotelID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	includeChildren := c.QueryParam("includeChildren") == "true"
	includeAttributes := c.QueryParam("includeAttributes") != "false"

	category, err := h.categories.Get(hotelID, id, includeChildren, includeAttributes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Create(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}

	var in service.CreateCategoryInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	category, err := h.categories.Create(hotelID, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category", "create")
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var in service.UpdateCategoryInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	category, err := h.categories.Update(hotelID, id, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category", "update")
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.categories.Delete(hotelID, id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category", "delete")
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) CreateAttribute(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var in service.CategoryAttributeInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	attribute, err := h.categories.CreateAttribute(hotelID, categoryID, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category_attribute", "create")
	return c.JSON(http.StatusCreated, attribute)
}

func (h *CategoryHandler) UpdateAttribute(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	attributeID, err := parseIDParam(c, "attributeId")
	if err != nil {
		return err
	}

	var in service.UpdateCategoryAttributeInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	attribute, err := h.categories.UpdateAttribute(hotelID, categoryID, attributeID, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category_attribute", "update")
	return c.JSON(http.StatusOK, attribute)
}

func (h *CategoryHandler) DeleteAttribute(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	attributeID, err := parseIDParam(c, "attributeId")
	if err != nil {
		return err
	}

	if err := h.categories.DeleteAttribute(hotelID, categoryID, attributeID); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("category_attribute", "delete")
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) CreateOption(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	attributeID, err := parseIDParam(c, "attributeId")
	if err != nil {
		return err
	}

	var in service.AttributeOptionInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	option, err := h.categories.CreateOption(hotelID, categoryID, attributeID, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("attribute_option", "create")
	return c.JSON(http.StatusCreated, option)
}

func (h *CategoryHandler) UpdateOption(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	attributeID, err := parseIDParam(c, "attributeId")
	if err != nil {
		return err
	}
	optionID, err := parseIDParam(c, "optionId")
	if err != nil {
		return err
	}

	var in service.UpdateAttributeOptionInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	option, err := h.categories.UpdateOption(hotelID, categoryID, attributeID, optionID, in)
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("attribute_option", "update")
	return c.JSON(http.StatusOK, option)
}

func (h *CategoryHandler) DeleteOption(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	attributeID, err := parseIDParam(c, "attributeId")
	if err != nil {
		return err
	}
	optionID, err := parseIDParam(c, "optionId")
	if err != nil {
		return err
	}

	if err := h.categories.DeleteOption(hotelID, categoryID, attributeID, optionID); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("attribute_option", "delete")
	return c.NoContent(http.StatusNoContent)
}
