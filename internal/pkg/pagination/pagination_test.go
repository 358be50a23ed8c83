package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func paramsFor(t *testing.T, target string) *Params {
	t.Helper()

	var got *Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})

	if _, err := app.Test(httptest.NewRequest("GET", target, nil)); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return got
}

func TestGetParams(t *testing.T) {
	tests := []struct {
		target     string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"/", 1, DefaultLimit, 0},
		{"/?page=3&limit=10", 3, 10, 20},
		{"/?page=0&limit=-5", 1, DefaultLimit, 0},
		{"/?limit=500", 1, MaxLimit, 0},
		{"/?page=abc", 1, DefaultLimit, 0},
	}

	for _, tt := range tests {
		p := paramsFor(t, tt.target)
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("%s: got page=%d limit=%d offset=%d, want page=%d limit=%d offset=%d",
				tt.target, p.Page, p.Limit, p.Offset, tt.wantPage, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(&Params{Page: 2, Limit: 10}, 25)
	if meta.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", meta.TotalPages)
	}
	if !meta.HasNext {
		t.Error("expected HasNext on page 2 of 3")
	}
	if !meta.HasPrev {
		t.Error("expected HasPrev on page 2")
	}

	meta = GetMeta(&Params{Page: 1, Limit: 10}, 0)
	if meta.TotalPages != 0 {
		t.Errorf("expected 0 total pages for empty set, got %d", meta.TotalPages)
	}
	if meta.HasNext || meta.HasPrev {
		t.Error("empty set should have no next or prev")
	}
}
