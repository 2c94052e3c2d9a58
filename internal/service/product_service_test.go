package service

import (
	"encoding/json"
	"net/http"
	"testing"

	"catalog-service/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func allIncludes() IncludeOptions {
	return IncludeOptions{Categories: true, Variants: true, Attributes: true, Bundles: true}
}

func TestCreateProductAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	hotelA := seedHotel(t, db, "Hotel A", "hotel-a")
	hotelB := seedHotel(t, db, "Hotel B", "hotel-b")

	categories := NewCategoryService(db)
	foreign, err := categories.Create(hotelB.ID, CreateCategoryInput{Name: "Spa", Key: "spa"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	svc := NewProductService(db)
	_, err = svc.Create(hotelA.ID, CreateProductInput{
		Name:        "Massage",
		Slug:        "massage",
		CategoryIDs: []uint{foreign.ID},
		VariantGroups: []VariantGroupInput{
			{Name: "Duration", Key: "duration", Options: []VariantOptionInput{{Name: "1h", Value: "60"}}},
		},
	}, allIncludes())
	assertStatus(t, err, http.StatusBadRequest)

	var products, groups, links int64
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.ProductVariantGroup{}).Count(&groups)
	db.Model(&model.ProductCategory{}).Count(&links)
	if products != 0 || groups != 0 || links != 0 {
		t.Fatalf("expected nothing persisted, got %d products, %d groups, %d links", products, groups, links)
	}
}

func TestCreateProductWithNestedCollections(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")

	categories := NewCategoryService(db)
	category, err := categories.Create(hotel.ID, CreateCategoryInput{
		Name: "Beverages",
		Key:  "beverages",
		Attributes: []CategoryAttributeInput{
			{Name: "Origin", Key: "origin", Type: model.AttributeText},
		},
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	svc := NewProductService(db)
	component, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Espresso", Slug: "espresso", Price: floatPtr(3.50),
	}, allIncludes())
	if err != nil {
		t.Fatalf("create component: %v", err)
	}

	product, err := svc.Create(hotel.ID, CreateProductInput{
		Name:        "Breakfast Combo",
		Slug:        "breakfast-combo",
		Price:       floatPtr(12.90),
		CategoryIDs: []uint{category.ID},
		VariantGroups: []VariantGroupInput{
			{
				Name: "Bread", Key: "bread",
				Options: []VariantOptionInput{
					{Name: "Croissant", Value: "croissant", PriceDelta: floatPtr(1.5)},
					{Name: "Toast", Value: "toast"},
				},
			},
		},
		AttributeValues: []AttributeValueInput{
			{AttributeID: category.Attributes[0].ID, Value: json.RawMessage(`"Colombia"`)},
		},
		CustomAttributes: []CustomAttributeInput{
			{Name: "Calories", Key: "calories", Type: model.AttributeNumber, Value: json.RawMessage(`480`)},
		},
		BundleItems: []BundleItemInput{
			{ItemProductID: component.ID},
		},
	}, allIncludes())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(product.Categories) != 1 {
		t.Fatalf("expected 1 category link, got %d", len(product.Categories))
	}
	if len(product.VariantGroups) != 1 || len(product.VariantGroups[0].Options) != 2 {
		t.Fatalf("unexpected variant shape: %+v", product.VariantGroups)
	}
	if len(product.AttributeValues) != 1 {
		t.Fatalf("expected 1 attribute value, got %d", len(product.AttributeValues))
	}
	if len(product.CustomAttributes) != 1 {
		t.Fatalf("expected 1 custom attribute, got %d", len(product.CustomAttributes))
	}
	if len(product.BundleItems) != 1 || product.BundleItems[0].Quantity != 1 {
		t.Fatalf("unexpected bundle items: %+v", product.BundleItems)
	}
}

func TestUpdateProductEmptyVariantsClearsOmittedKeeps(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewProductService(db)

	product, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Pizza", Slug: "pizza",
		VariantGroups: []VariantGroupInput{
			{Name: "Size", Key: "size", Options: []VariantOptionInput{{Name: "Large", Value: "l"}}},
		},
	}, allIncludes())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Omitted collection leaves the groups alone.
	updated, err := svc.Update(hotel.ID, product.ID, UpdateProductInput{
		Name: strPtr("Pizza Napoli"),
	}, allIncludes())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.VariantGroups) != 1 {
		t.Fatalf("expected variant groups untouched, got %d", len(updated.VariantGroups))
	}

	// An explicit empty array wipes them.
	empty := []VariantGroupInput{}
	updated, err = svc.Update(hotel.ID, product.ID, UpdateProductInput{
		VariantGroups: &empty,
	}, allIncludes())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.VariantGroups) != 0 {
		t.Fatalf("expected variant groups cleared, got %d", len(updated.VariantGroups))
	}

	var options int64
	db.Model(&model.ProductVariantOption{}).Count(&options)
	if options != 0 {
		t.Fatalf("expected orphan options removed, got %d", options)
	}
}

func TestProductCrossTenantLookupIs404(t *testing.T) {
	db := newTestDB(t)
	hotelA := seedHotel(t, db, "Hotel A", "hotel-a")
	hotelB := seedHotel(t, db, "Hotel B", "hotel-b")
	svc := NewProductService(db)

	product, err := svc.Create(hotelA.ID, CreateProductInput{Name: "Massage", Slug: "massage"}, allIncludes())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Get(hotelB.ID, product.ID, allIncludes())
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.Update(hotelB.ID, product.ID, UpdateProductInput{Name: strPtr("Other")}, allIncludes())
	assertStatus(t, err, http.StatusNotFound)

	err = svc.Delete(hotelB.ID, product.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestListProductsFilters(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewProductService(db)

	cheap, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Americano", Slug: "americano", Price: floatPtr(2.50),
	}, allIncludes())
	if err != nil {
		t.Fatalf("create cheap: %v", err)
	}
	inactive := false
	if _, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Latte", Slug: "latte", Price: floatPtr(4.50), IsActive: &inactive,
	}, allIncludes()); err != nil {
		t.Fatalf("create latte: %v", err)
	}

	active := true
	page, err := svc.List(hotel.ID, ListProductsInput{IsActive: &active})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 active product, got %d", page.Total)
	}

	page, err = svc.List(hotel.ID, ListProductsInput{MaxPrice: floatPtr(3.0)})
	if err != nil {
		t.Fatalf("list by price: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 product under 3.0, got %d", page.Total)
	}
	items, ok := page.Items.([]model.Product)
	if !ok || len(items) != 1 || items[0].ID != cheap.ID {
		t.Fatalf("unexpected page items: %+v", page.Items)
	}

	page, err = svc.List(hotel.ID, ListProductsInput{Search: "amer"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 search hit, got %d", page.Total)
	}
}

func TestListProductsByAttributeValue(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")

	categories := NewCategoryService(db)
	category, err := categories.Create(hotel.ID, CreateCategoryInput{
		Name: "Coffee",
		Key:  "coffee",
		Attributes: []CategoryAttributeInput{
			{Name: "Origin", Key: "origin", Type: model.AttributeText},
		},
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	attributeID := category.Attributes[0].ID

	svc := NewProductService(db)
	if _, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Colombian", Slug: "colombian",
		AttributeValues: []AttributeValueInput{{AttributeID: attributeID, Value: json.RawMessage(`"Colombia"`)}},
	}, allIncludes()); err != nil {
		t.Fatalf("create colombian: %v", err)
	}
	if _, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Ethiopian", Slug: "ethiopian",
		AttributeValues: []AttributeValueInput{{AttributeID: attributeID, Value: json.RawMessage(`"Ethiopia"`)}},
	}, allIncludes()); err != nil {
		t.Fatalf("create ethiopian: %v", err)
	}

	page, err := svc.List(hotel.ID, ListProductsInput{
		Attributes: []AttributeFilter{{AttributeID: attributeID, Value: json.RawMessage(`"Colombia"`)}},
	})
	if err != nil {
		t.Fatalf("list by attribute: %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected 1 match, got %d", page.Total)
	}
}

func TestDeleteProductRemovesBundleLinks(t *testing.T) {
	db := newTestDB(t)
	hotel := seedHotel(t, db, "Grand Plaza", "grand-plaza")
	svc := NewProductService(db)

	component, err := svc.Create(hotel.ID, CreateProductInput{Name: "Espresso", Slug: "espresso"}, allIncludes())
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if _, err := svc.Create(hotel.ID, CreateProductInput{
		Name: "Combo", Slug: "combo",
		BundleItems: []BundleItemInput{{ItemProductID: component.ID}},
	}, allIncludes()); err != nil {
		t.Fatalf("create combo: %v", err)
	}

	// Deleting the component also removes the links pointing at it.
	if err := svc.Delete(hotel.ID, component.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var links int64
	db.Model(&model.ProductBundleItem{}).Count(&links)
	if links != 0 {
		t.Fatalf("expected bundle links removed, got %d", links)
	}
}
