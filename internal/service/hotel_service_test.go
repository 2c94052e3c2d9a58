package service

import (
	"net/http"
	"testing"
)

func TestHotelCRUDAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewHotelService(db)

	created, err := svc.Create(CreateHotelInput{Name: "Grand Plaza", Slug: "grand-plaza"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(CreateHotelInput{Name: "Sea View", Slug: "sea-view"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	page, err := svc.List(ListHotelsInput{Search: "plaza"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 search hit, got %d", page.Total)
	}

	updated, err := svc.Update(created.ID, UpdateHotelInput{Name: strPtr("Grand Plaza Resort")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Grand Plaza Resort" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
	if updated.Slug != "grand-plaza" {
		t.Fatalf("expected slug untouched, got %s", updated.Slug)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err = svc.Get(created.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestHotelGetUnknownIs404(t *testing.T) {
	db := newTestDB(t)
	svc := NewHotelService(db)

	_, err := svc.Get(999)
	assertStatus(t, err, http.StatusNotFound)
}
