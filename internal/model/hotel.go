package model

import (
	"time"

	"gorm.io/datatypes"
)

// Hotel is the tenant root. Categories, products and manager-scoped
// users all hang off a hotel.
type Hotel struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug        string         `json:"slug" gorm:"type:varchar(120);uniqueIndex;not null"`
	Description string         `json:"description" gorm:"type:text"`
	TimeZone    string         `json:"timeZone" gorm:"type:varchar(64)"`
	ImgQR       *string        `json:"imgQr" gorm:"type:varchar(512)"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (Hotel) TableName() string { return "hotels" }
