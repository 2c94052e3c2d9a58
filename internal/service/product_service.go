package service

import (
	"bytes"
	"encoding/json"
	"time"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/pkg/pagination"
	"catalog-service/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductService owns products and their nested collections. Writes
// that touch other entities (categories, attribute definitions, bundle
// components) verify that every referenced id belongs to the acting
// hotel before any row is written, so a bad reference leaves nothing
// behind.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type VariantOptionInput struct {
	Name        string   `json:"name" validate:"required"`
	Value       string   `json:"value" validate:"required"`
	PriceDelta  *float64 `json:"priceDelta"`
	IsAvailable *bool    `json:"isAvailable"`
	SortOrder   *int     `json:"sortOrder"`
}

type VariantGroupInput struct {
	Name          string                      `json:"name" validate:"required"`
	Key           string                      `json:"key" validate:"required"`
	SelectionType *model.VariantSelectionType `json:"selectionType" validate:"omitempty,oneof=SINGLE MULTIPLE"`
	IsRequired    *bool                       `json:"isRequired"`
	Options       []VariantOptionInput        `json:"options" validate:"omitempty,dive"`
}

type AttributeValueInput struct {
	AttributeID uint            `json:"attributeId" validate:"required"`
	Value       json.RawMessage `json:"value"`
}

type CustomAttributeInput struct {
	Name          string                  `json:"name" validate:"required"`
	Key           string                  `json:"key" validate:"required"`
	Type          model.AttributeDataType `json:"type" validate:"required,oneof=TEXT NUMBER BOOLEAN JSON"`
	Value         json.RawMessage         `json:"value"`
	UnitOfMeasure *string                 `json:"unitOfMeasure"`
}

type BundleItemInput struct {
	ItemProductID uint `json:"itemProductId" validate:"required"`
	Quantity      *int `json:"quantity" validate:"omitempty,gt=0"`
}

type CreateProductInput struct {
	Name             string                 `json:"name" validate:"required,min=2"`
	Slug             string                 `json:"slug" validate:"required,min=2"`
	Description      *string                `json:"description"`
	IsActive         *bool                  `json:"isActive"`
	Stock            *int                   `json:"stock" validate:"omitempty,gte=0"`
	Price            *float64               `json:"price" validate:"omitempty,gte=0"`
	Images           json.RawMessage        `json:"images"`
	BaseUnit         *string                `json:"baseUnit"`
	CategoryIDs      []uint                 `json:"categoryIds"`
	VariantGroups    []VariantGroupInput    `json:"variantGroups" validate:"omitempty,dive"`
	AttributeValues  []AttributeValueInput  `json:"attributeValues" validate:"omitempty,dive"`
	CustomAttributes []CustomAttributeInput `json:"customAttributes" validate:"omitempty,dive"`
	BundleItems      []BundleItemInput      `json:"bundleItems" validate:"omitempty,dive"`
}

// UpdateProductInput uses pointer collections so an omitted collection
// stays untouched while an empty one wipes the rows.
type UpdateProductInput struct {
	Name             *string                 `json:"name" validate:"omitempty,min=2"`
	Slug             *string                 `json:"slug" validate:"omitempty,min=2"`
	Description      *string                 `json:"description"`
	IsActive         *bool                   `json:"isActive"`
	Stock            *int                    `json:"stock" validate:"omitempty,gte=0"`
	Price            *float64                `json:"price" validate:"omitempty,gte=0"`
	Images           json.RawMessage         `json:"images"`
	BaseUnit         *string                 `json:"baseUnit"`
	CategoryIDs      *[]uint                 `json:"categoryIds"`
	VariantGroups    *[]VariantGroupInput    `json:"variantGroups" validate:"omitempty,dive"`
	AttributeValues  *[]AttributeValueInput  `json:"attributeValues" validate:"omitempty,dive"`
	CustomAttributes *[]CustomAttributeInput `json:"customAttributes" validate:"omitempty,dive"`
	BundleItems      *[]BundleItemInput      `json:"bundleItems" validate:"omitempty,dive"`
}

// IncludeOptions selects which nested collections a read returns.
type IncludeOptions struct {
	Categories bool `query:"includeCategories"`
	Variants   bool `query:"includeVariants"`
	Attributes bool `query:"includeAttributes"`
	Bundles    bool `query:"includeBundles"`
}

type AttributeFilter struct {
	AttributeID uint
	Value       json.RawMessage
}

type ListProductsInput struct {
	Search          string   `query:"search"`
	IsActive        *bool    `query:"isActive"`
	CategoryIDs     []uint   `query:"-"`
	VariantOptionID *uint    `query:"variantOptionId"`
	MinPrice        *float64 `query:"minPrice"`
	MaxPrice        *float64 `query:"maxPrice"`
	Attributes      []AttributeFilter
	Include         IncludeOptions
	Page            int `query:"page"`
	PageSize        int `query:"pageSize"`
}

func toDecimal(value *float64) *decimal.Decimal {
	if value == nil {
		return nil
	}
	d := decimal.NewFromFloat(*value)
	return &d
}

// normalizeJSON compacts a raw value so stored and queried attribute
// values compare byte-for-byte. A missing value becomes JSON null.
func normalizeJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON("null")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return datatypes.JSON(raw)
	}
	return datatypes.JSON(buf.Bytes())
}

func applyIncludes(query *gorm.DB, include IncludeOptions) *gorm.DB {
	if include.Categories {
		query = query.Preload("Categories.Category")
	}
	if include.Variants {
		query = query.Preload("VariantGroups.Options")
	}
	if include.Attributes {
		query = query.Preload("AttributeValues.Attribute.Category").
			Preload("CustomAttributes")
	}
	if include.Bundles {
		query = query.Preload("BundleItems.Item").
			Preload("Bundles.Parent")
	}
	return query
}

func (s *ProductService) ensureProduct(hotelID, productID uint) error {
	var count int64
	if err := s.db.Model(&model.Product{}).
		Where("id = ? AND hotel_id = ?", productID, hotelID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("Product not found for this hotel")
	}
	return nil
}

func (s *ProductService) checkCategories(hotelID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.db.Model(&model.Category{}).
		Where("hotel_id = ? AND id IN ?", hotelID, ids).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(uniqueIDs(ids))) {
		return apperror.BadRequest("Some categories do not belong to this hotel")
	}
	return nil
}

func (s *ProductService) checkAttributeDefinitions(hotelID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.db.Model(&model.CategoryAttributeDefinition{}).
		Joins("JOIN categories ON categories.id = category_attribute_definitions.category_id").
		Where("categories.hotel_id = ? AND category_attribute_definitions.id IN ?", hotelID, ids).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(uniqueIDs(ids))) {
		return apperror.BadRequest("Some attribute definitions do not belong to this hotel")
	}
	return nil
}

func (s *ProductService) checkBundleProducts(hotelID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := s.db.Model(&model.Product{}).
		Where("hotel_id = ? AND id IN ?", hotelID, ids).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(uniqueIDs(ids))) {
		return apperror.BadRequest("Some bundle products do not belong to this hotel")
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func attributeIDs(values []AttributeValueInput) []uint {
	ids := make([]uint, 0, len(values))
	for _, value := range values {
		ids = append(ids, value.AttributeID)
	}
	return ids
}

func bundleProductIDs(items []BundleItemInput) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ItemProductID)
	}
	return ids
}

func buildVariantGroup(productID uint, in VariantGroupInput) model.ProductVariantGroup {
	group := model.ProductVariantGroup{
		ProductID:     productID,
		Name:          in.Name,
		Key:           in.Key,
		SelectionType: model.SelectionSingle,
	}
	if in.SelectionType != nil {
		group.SelectionType = *in.SelectionType
	}
	if in.IsRequired != nil {
		group.IsRequired = *in.IsRequired
	}
	for _, option := range in.Options {
		built := model.ProductVariantOption{
			Name:        option.Name,
			Value:       option.Value,
			PriceDelta:  toDecimal(option.PriceDelta),
			IsAvailable: true,
		}
		if option.IsAvailable != nil {
			built.IsAvailable = *option.IsAvailable
		}
		if option.SortOrder != nil {
			built.SortOrder = *option.SortOrder
		}
		group.Options = append(group.Options, built)
	}
	return group
}

func (s *ProductService) createCollections(tx *gorm.DB, productID uint,
	categoryIDs []uint,
	variantGroups []VariantGroupInput,
	attributeValues []AttributeValueInput,
	customAttributes []CustomAttributeInput,
	bundleItems []BundleItemInput,
) error {
	for _, categoryID := range uniqueIDs(categoryIDs) {
		link := model.ProductCategory{ProductID: productID, CategoryID: categoryID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	for _, groupInput := range variantGroups {
		group := buildVariantGroup(productID, groupInput)
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
	}
	for _, valueInput := range attributeValues {
		value := model.ProductAttributeValue{
			ProductID:   productID,
			AttributeID: valueInput.AttributeID,
			Value:       normalizeJSON(valueInput.Value),
		}
		if err := tx.Create(&value).Error; err != nil {
			return err
		}
	}
	for _, customInput := range customAttributes {
		custom := model.ProductCustomAttribute{
			ProductID:     productID,
			Name:          customInput.Name,
			Key:           customInput.Key,
			Type:          customInput.Type,
			Value:         normalizeJSON(customInput.Value),
			UnitOfMeasure: customInput.UnitOfMeasure,
		}
		if err := tx.Create(&custom).Error; err != nil {
			return err
		}
	}
	for _, itemInput := range bundleItems {
		item := model.ProductBundleItem{
			ParentProductID: productID,
			ItemProductID:   itemInput.ItemProductID,
			Quantity:        1,
		}
		if itemInput.Quantity != nil {
			item.Quantity = *itemInput.Quantity
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// Create inserts the product and all nested collections in one
// transaction after every referenced id passed the membership checks.
func (s *ProductService) Create(hotelID uint, in CreateProductInput, include IncludeOptions) (*model.Product, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.checkCategories(hotelID, in.CategoryIDs); err != nil {
		return nil, err
	}
	if err := s.checkAttributeDefinitions(hotelID, attributeIDs(in.AttributeValues)); err != nil {
		return nil, err
	}
	if err := s.checkBundleProducts(hotelID, bundleProductIDs(in.BundleItems)); err != nil {
		return nil, err
	}

	product := model.Product{
		HotelID:     hotelID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		IsActive:    true,
		Price:       toDecimal(in.Price),
		BaseUnit:    in.BaseUnit,
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if len(in.Images) > 0 {
		product.Images = datatypes.JSON(in.Images)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return s.createCollections(tx, product.ID,
			in.CategoryIDs, in.VariantGroups, in.AttributeValues, in.CustomAttributes, in.BundleItems)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(hotelID, product.ID, include)
}

func (s *ProductService) List(hotelID uint, in ListProductsInput) (*pagination.Page, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if err := s.checkCategories(hotelID, in.CategoryIDs); err != nil {
		return nil, err
	}

	params := pagination.Resolve(in.Page, in.PageSize)

	query := s.db.Model(&model.Product{}).Where("hotel_id = ?", hotelID)
	if in.IsActive != nil {
		query = query.Where("is_active = ?", *in.IsActive)
	}
	if in.Search != "" {
		like := "%" + in.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ? OR description LIKE ?", like, like, like)
	}
	if len(in.CategoryIDs) > 0 {
		query = query.Where("id IN (SELECT product_id FROM product_categories WHERE category_id IN ?)", in.CategoryIDs)
	}
	if in.VariantOptionID != nil {
		query = query.Where(
			"id IN (SELECT g.product_id FROM product_variant_groups g JOIN product_variant_options o ON o.group_id = g.id WHERE o.id = ?)",
			*in.VariantOptionID)
	}
	if in.MinPrice != nil {
		query = query.Where("price >= ?", decimal.NewFromFloat(*in.MinPrice))
	}
	if in.MaxPrice != nil {
		query = query.Where("price <= ?", decimal.NewFromFloat(*in.MaxPrice))
	}
	for _, filter := range in.Attributes {
		query = query.Where(
			"id IN (SELECT product_id FROM product_attribute_values WHERE attribute_id = ? AND value = ?)",
			filter.AttributeID, normalizeJSON(filter.Value))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	find := applyIncludes(query.Session(&gorm.Session{}), in.Include)
	products := make([]model.Product, 0, params.Limit)
	if err := find.
		Order("name asc").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&products).Error; err != nil {
		return nil, err
	}

	return pagination.NewPage(products, total, params), nil
}

func (s *ProductService) Get(hotelID, productID uint, include IncludeOptions) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := applyIncludes(s.db.Where("id = ? AND hotel_id = ?", productID, hotelID), include)

	var product model.Product
	if err := query.First(&product).Error; err != nil {
		return nil, apperror.NotFound("Product not found for this hotel")
	}
	return &product, nil
}

// Update patches scalar fields and wholesale-replaces each collection
// that the payload includes, all inside one transaction.
func (s *ProductService) Update(hotelID, productID uint, in UpdateProductInput, include IncludeOptions) (*model.Product, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.ensureProduct(hotelID, productID); err != nil {
		return nil, err
	}
	if in.CategoryIDs != nil {
		if err := s.checkCategories(hotelID, *in.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if in.AttributeValues != nil {
		if err := s.checkAttributeDefinitions(hotelID, attributeIDs(*in.AttributeValues)); err != nil {
			return nil, err
		}
	}
	if in.BundleItems != nil {
		if err := s.checkBundleProducts(hotelID, bundleProductIDs(*in.BundleItems)); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Slug != nil {
		updates["slug"] = *in.Slug
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.Stock != nil {
		updates["stock"] = *in.Stock
	}
	if in.Price != nil {
		updates["price"] = *toDecimal(in.Price)
	}
	if len(in.Images) > 0 {
		updates["images"] = datatypes.JSON(in.Images)
	}
	if in.BaseUnit != nil {
		updates["base_unit"] = *in.BaseUnit
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.CategoryIDs != nil {
			if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCategory{}).Error; err != nil {
				return err
			}
		}
		if in.VariantGroups != nil {
			if err := tx.Where("group_id IN (SELECT id FROM product_variant_groups WHERE product_id = ?)", productID).
				Delete(&model.ProductVariantOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", productID).Delete(&model.ProductVariantGroup{}).Error; err != nil {
				return err
			}
		}
		if in.AttributeValues != nil {
			if err := tx.Where("product_id = ?", productID).Delete(&model.ProductAttributeValue{}).Error; err != nil {
				return err
			}
		}
		if in.CustomAttributes != nil {
			if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCustomAttribute{}).Error; err != nil {
				return err
			}
		}
		if in.BundleItems != nil {
			if err := tx.Where("parent_product_id = ?", productID).Delete(&model.ProductBundleItem{}).Error; err != nil {
				return err
			}
		}

		return s.createCollections(tx, productID,
			derefIDs(in.CategoryIDs),
			derefGroups(in.VariantGroups),
			derefValues(in.AttributeValues),
			derefCustoms(in.CustomAttributes),
			derefBundles(in.BundleItems))
	})
	if err != nil {
		return nil, err
	}

	return s.Get(hotelID, productID, include)
}

func derefIDs(v *[]uint) []uint {
	if v == nil {
		return nil
	}
	return *v
}

func derefGroups(v *[]VariantGroupInput) []VariantGroupInput {
	if v == nil {
		return nil
	}
	return *v
}

func derefValues(v *[]AttributeValueInput) []AttributeValueInput {
	if v == nil {
		return nil
	}
	return *v
}

func derefCustoms(v *[]CustomAttributeInput) []CustomAttributeInput {
	if v == nil {
		return nil
	}
	return *v
}

func derefBundles(v *[]BundleItemInput) []BundleItemInput {
	if v == nil {
		return nil
	}
	return *v
}

// Delete removes the product and every dependent row, including bundle
// links where the product appears as a component of other bundles.
func (s *ProductService) Delete(hotelID, productID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := s.ensureProduct(hotelID, productID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id IN (SELECT id FROM product_variant_groups WHERE product_id = ?)", productID).
			Delete(&model.ProductVariantOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductVariantGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductAttributeValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCustomAttribute{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_product_id = ? OR item_product_id = ?", productID, productID).
			Delete(&model.ProductBundleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, productID).Error
	})
}
