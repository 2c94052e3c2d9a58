package service

import (
	"encoding/json"
	"time"

	"catalog-service/internal/apperror"
	"catalog-service/internal/model"
	"catalog-service/pkg/pagination"
	"catalog-service/prometheus"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// HotelService is plain CRUD over the tenant root. No tenant scoping
// here; hotels are the scope everything else hangs off.
type HotelService struct {
	db *gorm.DB
}

func NewHotelService(db *gorm.DB) *HotelService {
	return &HotelService{db: db}
}

type CreateHotelInput struct {
	Name        string          `json:"name" validate:"required,min=2"`
	Slug        string          `json:"slug" validate:"required,min=2"`
	Description *string         `json:"description"`
	TimeZone    *string         `json:"timeZone"`
	ImgQR       *string         `json:"imgQr"`
	Metadata    json.RawMessage `json:"metadata"`
}

type UpdateHotelInput struct {
	Name        *string         `json:"name" validate:"omitempty,min=2"`
	Slug        *string         `json:"slug" validate:"omitempty,min=2"`
	Description *string         `json:"description"`
	TimeZone    *string         `json:"timeZone"`
	ImgQR       *string         `json:"imgQr"`
	Metadata    json.RawMessage `json:"metadata"`
}

type ListHotelsInput struct {
	Search   string `query:"search"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

func (s *HotelService) Create(in CreateHotelInput) (*model.Hotel, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	hotel := model.Hotel{
		Name: in.Name,
		Slug: in.Slug,
	}
	if in.Description != nil {
		hotel.Description = *in.Description
	}
	if in.TimeZone != nil {
		hotel.TimeZone = *in.TimeZone
	}
	hotel.ImgQR = in.ImgQR
	if len(in.Metadata) > 0 {
		hotel.Metadata = datatypes.JSON(in.Metadata)
	}

	if err := s.db.Create(&hotel).Error; err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (s *HotelService) List(in ListHotelsInput) (*pagination.Page, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	params := pagination.Resolve(in.Page, in.PageSize)

	query := s.db.Model(&model.Hotel{})
	if in.Search != "" {
		like := "%" + in.Search + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	hotels := make([]model.Hotel, 0, params.Limit)
	if err := query.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&hotels).Error; err != nil {
		return nil, err
	}

	return pagination.NewPage(hotels, total, params), nil
}

func (s *HotelService) Get(id uint) (*model.Hotel, error) {
	var hotel model.Hotel
	if err := s.db.First(&hotel, id).Error; err != nil {
		return nil, apperror.NotFound("Hotel not found")
	}
	return &hotel, nil
}

func (s *HotelService) Update(id uint, in UpdateHotelInput) (*model.Hotel, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if _, err := s.Get(id); err != nil {
		return nil, err
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
	if in.TimeZone != nil {
		updates["time_zone"] = *in.TimeZone
	}
	if in.ImgQR != nil {
		updates["img_qr"] = *in.ImgQR
	}
	if len(in.Metadata) > 0 {
		updates["metadata"] = datatypes.JSON(in.Metadata)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&model.Hotel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

func (s *HotelService) Delete(id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.db.Delete(&model.Hotel{}, id).Error
}
