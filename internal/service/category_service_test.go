package service

import (
	"net/http"
	"testing"

	"catalog-service/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateCategoryWithNestedAttributes(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewCategoryService(db)

	category, err := svc.Create(hotel.ID, CreateCategoryInput{
		Name: "Beverages",
		Key:  "beverages",
		Attributes: []CategoryAttributeInput{
			{
				Name:       "Size",
				Key:        "size",
				Type:       model.AttributeText,
				IsRequired: boolPtr(true),
				Options: []AttributeOptionInput{
					{Label: "Small", Value: "s"},
					{Label: "Large", Value: "l"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(category.Attributes) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(category.Attributes))
	}
	if !category.Attributes[0].IsRequired {
		t.Fatalf("expected attribute to be required")
	}
	if len(category.Attributes[0].Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(category.Attributes[0].Options))
	}
}

func TestCategoryCrossTenantLookupIs404(t *testing.T) {
	db := newTestDB(t)
	hotelA := seedHotel(t, db, "Hotel A", "hotel-a")
	hotelB := seedHotel(t, db, "Hotel B", "hotel-b")
	svc := NewCategoryService(db)

	category, err := svc.Create(hotelA.ID, CreateCategoryInput{Name: "Spa", Key: "spa"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Get(hotelB.ID, category.ID, false, false)
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.Update(hotelB.ID, category.ID, UpdateCategoryInput{Name: strPtr("Renamed")})
	assertStatus(t, err, http.StatusNotFound)

	err = svc.Delete(hotelB.ID, category.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestCategoryParentMustBelongToHotel(t *testing.T) {
	db := newTestDB(t)
	hotelA := seedHotel(t, db, "Hotel A", "hotel-a")
	hotelB := seedHotel(t, db, "Hotel B", "hotel-b")
	svc := NewCategoryService(db)

	foreign, err := svc.Create(hotelB.ID, CreateCategoryInput{Name: "Spa", Key: "spa"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Create(hotelA.ID, CreateCategoryInput{
		Name:     "Massages",
		Key:      "massages",
		ParentID: &foreign.ID,
	})
	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateCategoryOmittedParentClearsLink(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewCategoryService(db)

	parent, err := svc.Create(hotel.ID, CreateCategoryInput{Name: "Food", Key: "food"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	child, err := svc.Create(hotel.ID, CreateCategoryInput{
		Name: "Snacks", Key: "snacks", ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	// A patch that does not mention parentId detaches the category.
	updated, err := svc.Update(hotel.ID, child.ID, UpdateCategoryInput{Name: strPtr("Treats")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ParentID != nil {
		t.Fatalf("expected parent cleared, got %v", *updated.ParentID)
	}
}

func TestCategoryListRootsAndChildren(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewCategoryService(db)

	root, err := svc.Create(hotel.ID, CreateCategoryInput{Name: "Food", Key: "food"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if _, err := svc.Create(hotel.ID, CreateCategoryInput{
		Name: "Snacks", Key: "snacks", ParentID: &root.ID,
	}); err != nil {
		t.Fatalf("create child: %v", err)
	}

	roots, err := svc.List(hotel.ID, ListCategoriesInput{})
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if roots.Total != 1 {
		t.Fatalf("expected 1 root, got %d", roots.Total)
	}

	children, err := svc.List(hotel.ID, ListCategoriesInput{ParentID: &root.ID})
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if children.Total != 1 {
		t.Fatalf("expected 1 child, got %d", children.Total)
	}
}

func TestDeleteCategoryCascadesSchema(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewCategoryService(db)

	category, err := svc.Create(hotel.ID, CreateCategoryInput{
		Name: "Beverages",
		Key:  "beverages",
		Attributes: []CategoryAttributeInput{
			{
				Name: "Size", Key: "size", Type: model.AttributeText,
				Options: []AttributeOptionInput{{Label: "Small", Value: "s"}},
			},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	child, err := svc.Create(hotel.ID, CreateCategoryInput{
		Name: "Sodas", Key: "sodas", ParentID: &category.ID,
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}

	if err := svc.Delete(hotel.ID, category.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var defs, options int64
	db.Model(&model.CategoryAttributeDefinition{}).Count(&defs)
	db.Model(&model.CategoryAttributeOption{}).Count(&options)
	if defs != 0 || options != 0 {
		t.Fatalf("expected schema rows deleted, got %d definitions and %d options", defs, options)
	}

	var orphan model.Category
	if err := db.First(&orphan, child.ID).Error; err != nil {
		t.Fatalf("child should survive: %v", err)
	}
	if orphan.ParentID != nil {
		t.Fatalf("expected child detached, got parent %v", *orphan.ParentID)
	}
}

func TestAttributeAndOptionOwnershipGuards(t *testing.T) {
	db := newTestDB(t)
	hotelA := seedHotel(t, db, "Hotel A", "hotel-a")
	hotelB := seedHotel(t, db, "Hotel B", "hotel-b")
	svc := NewCategoryService(db)

	category, err := svc.Create(hotelA.ID, CreateCategoryInput{Name: "Spa", Key: "spa"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	attribute, err := svc.CreateAttribute(hotelA.ID, category.ID, CategoryAttributeInput{
		Name: "Duration", Key: "duration", Type: model.AttributeNumber,
	})
	if err != nil {
		t.Fatalf("create attribute: %v", err)
	}
	option, err := svc.CreateOption(hotelA.ID, category.ID, attribute.ID, AttributeOptionInput{
		Label: "60 minutes", Value: "60",
	})
	if err != nil {
		t.Fatalf("create option: %v", err)
	}

	_, err = svc.UpdateAttribute(hotelB.ID, category.ID, attribute.ID, UpdateCategoryAttributeInput{
		Name: strPtr("Length"),
	})
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.UpdateOption(hotelB.ID, category.ID, attribute.ID, option.ID, UpdateAttributeOptionInput{
		Label: strPtr("1 hour"),
	})
	assertStatus(t, err, http.StatusNotFound)

	err = svc.DeleteOption(hotelB.ID, category.ID, attribute.ID, option.ID)
	assertStatus(t, err, http.StatusNotFound)

	// The owning hotel can still mutate them.
	if _, err := svc.UpdateOption(hotelA.ID, category.ID, attribute.ID, option.ID, UpdateAttributeOptionInput{
		Label: strPtr("1 hour"),
	}); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
}
