package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"catalog-service/internal/service"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func parseCategoryIDs(raw string) []uint {
	if raw == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// parseAttributeFilters decodes the `attributes` query parameter, a
// JSON array of {attributeId, value} pairs. Malformed input degrades
// to no filter.
func parseAttributeFilters(raw string) []service.AttributeFilter {
	if raw == "" {
		return nil
	}
	var decoded []struct {
		AttributeID uint            `json:"attributeId"`
		Value       json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}
	filters := make([]service.AttributeFilter, 0, len(decoded))
	for _, entry := range decoded {
		if entry.AttributeID == 0 {
			continue
		}
		filters = append(filters, service.AttributeFilter{
			AttributeID: entry.AttributeID,
			Value:       entry.Value,
		})
	}
	return filters
}

func includeOptionsFromQuery(c echo.Context) service.IncludeOptions {
	var include service.IncludeOptions
	_ = c.Bind(&include)
	return include
}

func (h *ProductHandler) List(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}

	var in service.ListProductsInput
	if err := c.Bind(&in); err != nil {
		return err
	}
	in.CategoryIDs = parseCategoryIDs(c.QueryParam("categoryIds"))
	in.Attributes = parseAttributeFilters(c.QueryParam("attributes"))
	in.Include = includeOptionsFromQuery(c)

	page, err := h.products.List(hotelID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Get(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.products.Get(hotelID, id, includeOptionsFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}

	var in service.CreateProductInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	product, err := h.products.Create(hotelID, in, fullInclude())
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("product", "create")
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var in service.UpdateProductInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}

	product, err := h.products.Update(hotelID, id, in, fullInclude())
	if err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("product", "update")
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	hotelID, err := hotelIDFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.products.Delete(hotelID, id); err != nil {
		return err
	}

	prometheus.RecordCatalogOperation("product", "delete")
	return c.NoContent(http.StatusNoContent)
}

// Writes echo the full product back so clients see the result of a
// wholesale collection replace without a second request.
func fullInclude() service.IncludeOptions {
	return service.IncludeOptions{
		Categories: true,
		Variants:   true,
		Attributes: true,
		Bundles:    true,
	}
}
