package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// VariantSelectionType says whether a variant group is a single pick
// or allows multiple options.
type VariantSelectionType string

const (
	SelectionSingle   VariantSelectionType = "SINGLE"
	SelectionMultiple VariantSelectionType = "MULTIPLE"
)

// Product is a hotel-scoped catalog entry. Slug is unique per hotel.
// Price is stored as fixed-point decimal; JSON transport stays numeric.
type Product struct {
	ID               uint                     `json:"id" gorm:"primaryKey"`
	HotelID          uint                     `json:"hotelId" gorm:"not null;uniqueIndex:ux_products_hotel_slug,priority:1"`
	Name             string                   `json:"name" gorm:"type:varchar(255);not null"`
	Slug             string                   `json:"slug" gorm:"type:varchar(120);not null;uniqueIndex:ux_products_hotel_slug,priority:2"`
	Description      *string                  `json:"description" gorm:"type:text"`
	IsActive         bool                     `json:"isActive" gorm:"not null;default:true"`
	Stock            int                      `json:"stock" gorm:"not null;default:0"`
	Price            *decimal.Decimal         `json:"price" gorm:"type:decimal(12,2)"`
	Images           datatypes.JSON           `json:"images"`
	BaseUnit         *string                  `json:"baseUnit" gorm:"type:varchar(64)"`
	Categories       []ProductCategory        `json:"categories,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	VariantGroups    []ProductVariantGroup    `json:"variantGroups,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	AttributeValues  []ProductAttributeValue  `json:"attributeValues,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CustomAttributes []ProductCustomAttribute `json:"customAttributes,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BundleItems      []ProductBundleItem      `json:"bundleItems,omitempty" gorm:"foreignKey:ParentProductID;constraint:OnDelete:CASCADE"`
	Bundles          []ProductBundleItem      `json:"bundles,omitempty" gorm:"foreignKey:ItemProductID"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// ProductCategory is the product/category join row.
type ProductCategory struct {
	ProductID  uint      `json:"productId" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint      `json:"categoryId" gorm:"primaryKey;autoIncrement:false"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (ProductCategory) TableName() string { return "product_categories" }

// ProductVariantGroup is a product-owned selection group.
type ProductVariantGroup struct {
	ID            uint                   `json:"id" gorm:"primaryKey"`
	ProductID     uint                   `json:"productId" gorm:"not null;index"`
	Name          string                 `json:"name" gorm:"type:varchar(255);not null"`
	Key           string                 `json:"key" gorm:"type:varchar(120);not null"`
	SelectionType VariantSelectionType   `json:"selectionType" gorm:"type:varchar(20);not null;default:'SINGLE'"`
	IsRequired    bool                   `json:"isRequired" gorm:"not null;default:false"`
	Options       []ProductVariantOption `json:"options,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func (ProductVariantGroup) TableName() string { return "product_variant_groups" }

// ProductVariantOption is one choice in a variant group, with an
// optional price delta on top of the product price.
type ProductVariantOption struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	GroupID     uint             `json:"groupId" gorm:"not null;index"`
	Name        string           `json:"name" gorm:"type:varchar(255);not null"`
	Value       string           `json:"value" gorm:"type:varchar(255);not null"`
	PriceDelta  *decimal.Decimal `json:"priceDelta" gorm:"type:decimal(12,2)"`
	IsAvailable bool             `json:"isAvailable" gorm:"not null;default:true"`
	SortOrder   int              `json:"sortOrder" gorm:"not null;default:0"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (ProductVariantOption) TableName() string { return "product_variant_options" }

// ProductAttributeValue populates a category attribute definition for
// one product. Value is JSON so all four attribute kinds fit.
type ProductAttributeValue struct {
	ID          uint                         `json:"id" gorm:"primaryKey"`
	ProductID   uint                         `json:"productId" gorm:"not null;index"`
	AttributeID uint                         `json:"attributeId" gorm:"not null;index"`
	Value       datatypes.JSON               `json:"value"`
	Attribute   *CategoryAttributeDefinition `json:"attribute,omitempty" gorm:"foreignKey:AttributeID"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`
}

func (ProductAttributeValue) TableName() string { return "product_attribute_values" }

// ProductCustomAttribute is an ad hoc, product-specific attribute not
// backed by any category-level definition.
type ProductCustomAttribute struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	ProductID     uint              `json:"productId" gorm:"not null;index"`
	Name          string            `json:"name" gorm:"type:varchar(255);not null"`
	Key           string            `json:"key" gorm:"type:varchar(120);not null"`
	Type          AttributeDataType `json:"type" gorm:"type:varchar(20);not null"`
	Value         datatypes.JSON    `json:"value"`
	UnitOfMeasure *string           `json:"unitOfMeasure" gorm:"type:varchar(64)"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func (ProductCustomAttribute) TableName() string { return "product_custom_attributes" }

// ProductBundleItem links a parent product to a component product with
// a quantity ("this product contains N of that product").
type ProductBundleItem struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ParentProductID uint      `json:"parentProductId" gorm:"not null;index"`
	ItemProductID   uint      `json:"itemProductId" gorm:"not null;index"`
	Quantity        int       `json:"quantity" gorm:"not null;default:1"`
	Item            *Product  `json:"item,omitempty" gorm:"foreignKey:ItemProductID"`
	Parent          *Product  `json:"parent,omitempty" gorm:"foreignKey:ParentProductID"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (ProductBundleItem) TableName() string { return "product_bundle_items" }
