package service

import (
	"time"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/pkg/pagination"
	"catalog-service/prometheus"

	"gorm.io/gorm"
)

// CategoryService owns the category tree and its attribute schemas.
// Every write re-derives hotel ownership of the target and of any
// referenced entity before touching rows; a miss at any nesting level
// is a 404 naming the scope, never a 403.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type AttributeOptionInput struct {
	Label     string `json:"label" validate:"required"`
	Value     string `json:"value" validate:"required"`
	SortOrder *int   `json:"sortOrder"`
}

type CategoryAttributeInput struct {
	Name          string                  `json:"name" validate:"required"`
	Key           string                  `json:"key" validate:"required"`
	Type          model.AttributeDataType `json:"type" validate:"required,oneof=TEXT NUMBER BOOLEAN JSON"`
	IsRequired    *bool                   `json:"isRequired"`
	UnitOfMeasure *string                 `json:"unitOfMeasure"`
	Options       []AttributeOptionInput  `json:"options" validate:"omitempty,dive"`
}

type CreateCategoryInput struct {
	Name          string                   `json:"name" validate:"required,min=2"`
	Key           string                   `json:"key" validate:"required,min=2"`
	Description   *string                  `json:"description"`
	UnitOfMeasure *string                  `json:"unitOfMeasure"`
	ParentID      *uint                    `json:"parentId"`
	Attributes    []CategoryAttributeInput `json:"attributes" validate:"omitempty,dive"`
}

type UpdateCategoryInput struct {
	Name          *string `json:"name" validate:"omitempty,min=2"`
	Key           *string `json:"key" validate:"omitempty,min=2"`
	Description   *string `json:"description"`
	UnitOfMeasure *string `json:"unitOfMeasure"`
	ParentID      *uint   `json:"parentId"`
}

type UpdateCategoryAttributeInput struct {
	Name          *string                  `json:"name" validate:"omitempty,min=1"`
	Key           *string                  `json:"key" validate:"omitempty,min=1"`
	Type          *model.AttributeDataType `json:"type" validate:"omitempty,oneof=TEXT NUMBER BOOLEAN JSON"`
	IsRequired    *bool                    `json:"isRequired"`
	UnitOfMeasure *string                  `json:"unitOfMeasure"`
}

type UpdateAttributeOptionInput struct {
	Label     *string `json:"label" validate:"omitempty,min=1"`
	Value     *string `json:"value" validate:"omitempty,min=1"`
	SortOrder *int    `json:"sortOrder"`
}

type ListCategoriesInput struct {
	Search            string `query:"search"`
	ParentID          *uint  `query:"parentId"`
	IncludeChildren   bool   `query:"includeChildren"`
	IncludeAttributes bool   `query:"includeAttributes"`
	Page              int    `query:"page"`
	PageSize          int    `query:"pageSize"`
}

func (s *CategoryService) ensureCategory(hotelID, categoryID uint) error {
	var count int64
	if err := s.db.Model(&model.Category{}).
		Where("id = ? AND hotel_id = ?", categoryID, hotelID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("Category not found for this hotel")
	}
	return nil
}

func (s *CategoryService) ensureAttribute(hotelID, categoryID, attributeID uint) error {
	var count int64
	if err := s.db.Model(&model.CategoryAttributeDefinition{}).
		Joins("JOIN categories ON categories.id = category_attribute_definitions.category_id").
		Where("category_attribute_definitions.id = ? AND category_attribute_definitions.category_id = ? AND categories.hotel_id = ?",
			attributeID, categoryID, hotelID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("Attribute not found for this category")
	}
	return nil
}

func (s *CategoryService) ensureOption(hotelID, categoryID, attributeID, optionID uint) error {
	var count int64
	if err := s.db.Model(&model.CategoryAttributeOption{}).
		Joins("JOIN category_attribute_definitions ON category_attribute_definitions.id = category_attribute_options.definition_id").
		Joins("JOIN categories ON categories.id = category_attribute_definitions.category_id").
		Where("category_attribute_options.id = ? AND category_attribute_options.definition_id = ? AND category_attribute_definitions.category_id = ? AND categories.hotel_id = ?",
			optionID, attributeID, categoryID, hotelID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("Option not found for this attribute")
	}
	return nil
}

func buildAttributeDefinition(in CategoryAttributeInput) model.CategoryAttributeDefinition {
	definition := model.CategoryAttributeDefinition{
		Name: in.Name,
		Key:  in.Key,
		Type: in.Type,
	}
	if in.IsRequired != nil {
		definition.IsRequired = *in.IsRequired
	}
	definition.UnitOfMeasure = in.UnitOfMeasure
	for _, option := range in.Options {
		built := model.CategoryAttributeOption{
			Label: option.Label,
			Value: option.Value,
		}
		if option.SortOrder != nil {
			built.SortOrder = *option.SortOrder
		}
		definition.Options = append(definition.Options, built)
	}
	return definition
}

// Create inserts a category, optionally with nested attribute
// definitions and options, in a single transaction.
func (s *CategoryService) Create(hotelID uint, in CreateCategoryInput) (*model.Category, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if in.ParentID != nil {
		if err := s.ensureCategory(hotelID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	category := model.Category{
		HotelID:       hotelID,
		Name:          in.Name,
		Key:           in.Key,
		Description:   in.Description,
		UnitOfMeasure: in.UnitOfMeasure,
		ParentID:      in.ParentID,
	}
	for _, attribute := range in.Attributes {
		category.Attributes = append(category.Attributes, buildAttributeDefinition(attribute))
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return s.Get(hotelID, category.ID, false, true)
}

// List returns one level of the tree: children of parentId, or the
// roots when parentId is absent.
func (s *CategoryService) List(hotelID uint, in ListCategoriesInput) (*pagination.Page, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if in.ParentID != nil {
		if err := s.ensureCategory(hotelID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	params := pagination.Resolve(in.Page, in.PageSize)

	query := s.db.Model(&model.Category{}).Where("hotel_id = ?", hotelID)
	if in.ParentID != nil {
		query = query.Where("parent_id = ?", *in.ParentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}
	if in.Search != "" {
		like := "%" + in.Search + "%"
		query = query.Where("name LIKE ? OR key LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	find := query.Session(&gorm.Session{})
	if in.IncludeAttributes {
		find = find.Preload("Attributes.Options")
	}
	if in.IncludeChildren {
		find = find.Preload("Children")
		if in.IncludeAttributes {
			find = find.Preload("Children.Attributes.Options")
		}
	}

	categories := make([]model.Category, 0, params.Limit)
	if err := find.
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	return pagination.NewPage(categories, total, params), nil
}

func (s *CategoryService) Get(hotelID, categoryID uint, includeChildren, includeAttributes bool) (*model.Category, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.Preload("Parent").Where("id = ? AND hotel_id = ?", categoryID, hotelID)
	if includeAttributes {
		query = query.Preload("Attributes.Options")
	}
	if includeChildren {
		query = query.Preload("Children")
		if includeAttributes {
			query = query.Preload("Children.Attributes.Options")
		}
	}

	var category model.Category
	if err := query.First(&category).Error; err != nil {
		return nil, apperror.NotFound("Category not found for this hotel")
	}
	return &category, nil
}

// Update patches the provided fields. The parent link is always
// rewritten: omitting parentId detaches the category from its parent.
func (s *CategoryService) Update(hotelID, categoryID uint, in UpdateCategoryInput) (*model.Category, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.ensureCategory(hotelID, categoryID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := s.ensureCategory(hotelID, *in.ParentID); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{"parent_id": in.ParentID}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Key != nil {
		updates["key"] = *in.Key
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.UnitOfMeasure != nil {
		updates["unit_of_measure"] = *in.UnitOfMeasure
	}

	if err := s.db.Model(&model.Category{}).Where("id = ?", categoryID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(hotelID, categoryID, false, true)
}

// Delete removes the category, its attribute schema and any product
// links, and detaches child categories.
func (s *CategoryService) Delete(hotelID, categoryID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := s.ensureCategory(hotelID, categoryID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("definition_id IN (SELECT id FROM category_attribute_definitions WHERE category_id = ?)", categoryID).
			Delete(&model.CategoryAttributeOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attribute_id IN (SELECT id FROM category_attribute_definitions WHERE category_id = ?)", categoryID).
			Delete(&model.ProductAttributeValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&model.CategoryAttributeDefinition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", categoryID).Delete(&model.ProductCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Category{}).Where("parent_id = ?", categoryID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, categoryID).Error
	})
}

func (s *CategoryService) CreateAttribute(hotelID, categoryID uint, in CategoryAttributeInput) (*model.CategoryAttributeDefinition, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.ensureCategory(hotelID, categoryID); err != nil {
		return nil, err
	}

	definition := buildAttributeDefinition(in)
	definition.CategoryID = categoryID
	if err := s.db.Create(&definition).Error; err != nil {
		return nil, err
	}
	return s.getAttribute(definition.ID)
}

func (s *CategoryService) getAttribute(attributeID uint) (*model.CategoryAttributeDefinition, error) {
	var definition model.CategoryAttributeDefinition
	if err := s.db.Preload("Options").First(&definition, attributeID).Error; err != nil {
		return nil, err
	}
	return &definition, nil
}

func (s *CategoryService) UpdateAttribute(hotelID, categoryID, attributeID uint, in UpdateCategoryAttributeInput) (*model.CategoryAttributeDefinition, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.ensureAttribute(hotelID, categoryID, attributeID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Key != nil {
		updates["key"] = *in.Key
	}
	if in.Type != nil {
		updates["type"] = *in.Type
	}
	if in.IsRequired != nil {
		updates["is_required"] = *in.IsRequired
	}
	if in.UnitOfMeasure != nil {
		updates["unit_of_measure"] = *in.UnitOfMeasure
	}

	if len(updates) > 0 {
		if err := s.db.Model(&model.CategoryAttributeDefinition{}).
			Where("id = ?", attributeID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.getAttribute(attributeID)
}

func (s *CategoryService) DeleteAttribute(hotelID, categoryID, attributeID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := s.ensureAttribute(hotelID, categoryID, attributeID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("definition_id = ?", attributeID).Delete(&model.CategoryAttributeOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("attribute_id = ?", attributeID).Delete(&model.ProductAttributeValue{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CategoryAttributeDefinition{}, attributeID).Error
	})
}

func (s *CategoryService) CreateOption(hotelID, categoryID, attributeID uint, in AttributeOptionInput) (*model.CategoryAttributeOption, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := s.ensureAttribute(hotelID, categoryID, attributeID); err != nil {
		return nil, err
	}

	option := model.CategoryAttributeOption{
		DefinitionID: attributeID,
		Label:        in.Label,
		Value:        in.Value,
	}
	if in.SortOrder != nil {
		option.SortOrder = *in.SortOrder
	}
	if err := s.db.Create(&option).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (s *CategoryService) UpdateOption(hotelID, categoryID, attributeID, optionID uint, in UpdateAttributeOptionInput) (*model.CategoryAttributeOption, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := s.ensureOption(hotelID, categoryID, attributeID, optionID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Label != nil {
		updates["label"] = *in.Label
	}
	if in.Value != nil {
		updates["value"] = *in.Value
	}
	if in.SortOrder != nil {
		updates["sort_order"] = *in.SortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(&model.CategoryAttributeOption{}).
			Where("id = ?", optionID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var option model.CategoryAttributeOption
	if err := s.db.First(&option, optionID).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (s *CategoryService) DeleteOption(hotelID, categoryID, attributeID, optionID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := s.ensureOption(hotelID, categoryID, attributeID, optionID); err != nil {
		return err
	}
	return s.db.Delete(&model.CategoryAttributeOption{}, optionID).Error
}
