package service

import (
	"time"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/pkg/jwtutil"
	"catalog-service/prometheus"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and login. Tokens carry user id,
// role and hotel id and expire after the configured lifetime.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type RegisterInput struct {
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required,min=8"`
	Role      *model.UserRole `json:"role" validate:"omitempty,oneof=ADMIN MANAGER"`
	HotelSlug *string         `json:"hotelSlug" validate:"omitempty,min=2"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// HotelSummary is the hotel shape embedded in auth responses.
type HotelSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type AuthUser struct {
	ID        uint           `json:"id"`
	Email     string         `json:"email"`
	Role      model.UserRole `json:"role"`
	Hotel     *HotelSummary  `json:"hotel"`
	CreatedAt time.Time      `json:"createdAt"`
}

type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

func hotelSummary(hotel *model.Hotel) *HotelSummary {
	if hotel == nil {
		return nil
	}
	return &HotelSummary{ID: hotel.ID, Name: hotel.Name, Slug: hotel.Slug}
}

// Register creates a user. Managers must name an existing hotel by
// slug; admins are created unscoped.
func (s *AuthService) Register(in RegisterInput) (*AuthUser, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var existing model.User
	if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
		return nil, apperror.Conflict("Email already registered")
	}

	role := model.RoleManager
	if in.Role != nil {
		role = *in.Role
	}

	var hotelID *uint
	var hotel *model.Hotel
	if role == model.RoleManager {
		if in.HotelSlug == nil || *in.HotelSlug == "" {
			return nil, apperror.BadRequest("hotelSlug is required for MANAGER role")
		}
		var found model.Hotel
		if err := s.db.Where("slug = ?", *in.HotelSlug).First(&found).Error; err != nil {
			return nil, apperror.NotFound("Hotel not found")
		}
		hotel = &found
		hotelID = &found.ID
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:        in.Email,
		PasswordHash: string(passwordHash),
		Role:         role,
		HotelID:      hotelID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Hotel:     hotelSummary(hotel),
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies credentials and issues a token embedding the user's
// current role and hotel id.
func (s *AuthService) Login(in LoginInput) (*LoginResult, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := s.db.Preload("Hotel").Where("email = ?", in.Email).First(&user).Error; err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if user.Role == model.RoleManager && user.HotelID == nil {
		return nil, apperror.Internal("Assigned hotel missing for manager")
	}

	token, err := jwtutil.GenerateToken(user.ID, user.HotelID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token: token,
		User: AuthUser{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			Hotel:     hotelSummary(user.Hotel),
			CreatedAt: user.CreatedAt,
		},
	}, nil
}
