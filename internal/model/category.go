package model

import "time"

// AttributeDataType is the value kind of a category attribute.
type AttributeDataType string

const (
	AttributeText    AttributeDataType = "TEXT"
	AttributeNumber  AttributeDataType = "NUMBER"
	AttributeBoolean AttributeDataType = "BOOLEAN"
	AttributeJSON    AttributeDataType = "JSON"
)

// Category is a hotel-scoped node in the catalog tree. Key is unique
// per hotel; the parent link makes an unbounded tree.
type Category struct {
	ID            uint                          `json:"id" gorm:"primaryKey"`
	HotelID       uint                          `json:"hotelId" gorm:"not null;uniqueIndex:ux_categories_hotel_key,priority:1"`
	Name          string                        `json:"name" gorm:"type:varchar(255);not null"`
	Key           string                        `json:"key" gorm:"type:varchar(120);not null;uniqueIndex:ux_categories_hotel_key,priority:2"`
	Description   *string                       `json:"description" gorm:"type:text"`
	UnitOfMeasure *string                       `json:"unitOfMeasure" gorm:"type:varchar(64)"`
	ParentID      *uint                         `json:"parentId" gorm:"index"`
	Parent        *Category                     `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children      []Category                    `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Attributes    []CategoryAttributeDefinition `json:"attributes,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time                     `json:"createdAt"`
	UpdatedAt     time.Time                     `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

// CategoryAttributeDefinition is a typed field schema scoped to one
// category; products in that category populate it via attribute values.
type CategoryAttributeDefinition struct {
	ID            uint                      `json:"id" gorm:"primaryKey"`
	CategoryID    uint                      `json:"categoryId" gorm:"not null;uniqueIndex:ux_category_attributes_key,priority:1"`
	Name          string                    `json:"name" gorm:"type:varchar(255);not null"`
	Key           string                    `json:"key" gorm:"type:varchar(120);not null;uniqueIndex:ux_category_attributes_key,priority:2"`
	Type          AttributeDataType         `json:"type" gorm:"type:varchar(20);not null"`
	IsRequired    bool                      `json:"isRequired" gorm:"not null;default:false"`
	UnitOfMeasure *string                   `json:"unitOfMeasure" gorm:"type:varchar(64)"`
	Category      *Category                 `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Options       []CategoryAttributeOption `json:"options,omitempty" gorm:"foreignKey:DefinitionID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

func (CategoryAttributeDefinition) TableName() string { return "category_attribute_definitions" }

// CategoryAttributeOption is a fixed choice for an attribute definition.
type CategoryAttributeOption struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	DefinitionID uint      `json:"definitionId" gorm:"not null;index"`
	Label        string    `json:"label" gorm:"type:varchar(255);not null"`
	Value        string    `json:"value" gorm:"type:varchar(255);not null"`
	SortOrder    int       `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (CategoryAttributeOption) TableName() string { return "category_attribute_options" }
