package pagination

import "testing"

func TestResolveDefaults(t *testing.T) {
	params := Resolve(0, 0)
	if params.Page != 1 {
		t.Fatalf("expected page 1, got %d", params.Page)
	}
	if params.PageSize != DefaultPageSize {
		t.Fatalf("expected page size %d, got %d", DefaultPageSize, params.PageSize)
	}
	if params.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", params.Offset)
	}
}

func TestResolveCapsPageSize(t *testing.T) {
	params := Resolve(1, 5000)
	if params.PageSize != MaxPageSize {
		t.Fatalf("expected page size capped at %d, got %d", MaxPageSize, params.PageSize)
	}
}

func TestResolveNegativeInput(t *testing.T) {
	params := Resolve(-3, -10)
	if params.Page != 1 || params.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults for negative input, got page %d size %d", params.Page, params.PageSize)
	}
}

func TestResolveOffset(t *testing.T) {
	params := Resolve(3, 25)
	if params.Offset != 50 {
		t.Fatalf("expected offset 50, got %d", params.Offset)
	}
	if params.Limit != 25 {
		t.Fatalf("expected limit 25, got %d", params.Limit)
	}
}

func TestNewPageTotalPages(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 41, Resolve(1, 20))
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages for 41 rows at 20 per page, got %d", page.TotalPages)
	}

	empty := NewPage([]int{}, 0, Resolve(1, 20))
	if empty.TotalPages != 0 {
		t.Fatalf("expected 0 total pages for empty result, got %d", empty.TotalPages)
	}
}
