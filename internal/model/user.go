package model

import "time"

// UserRole is the role carried in the token and checked at the routes.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
)

// User is an API account. Managers are hard-scoped to one hotel;
// admins are multi-tenant and select a hotel per request.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'MANAGER'"`
	HotelID      *uint     `json:"hotelId" gorm:"index"`
	Hotel        *Hotel    `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
