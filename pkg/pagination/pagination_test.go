package pagination_test

import (
	"net/url"
	"testing"

	"github.com/mherrada/veridoc/pkg/pagination"
)

var cfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, 20},
		{"negative page", -5, 10, 1, 10},
		{"oversized page size", 1, 500, 1, 100},
		{"valid values", 3, 50, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := pagination.PageRequest{Page: tt.page, PageSize: tt.pageSize}
			req.Normalize(cfg)

			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 20}
	if got := req.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{
		"page":      {"2"},
		"page_size": {"10"},
		"search":    {"jane"},
		"sort":      {"-validUntil"},
	}

	req := pagination.PageRequestFromQuery(values, cfg)

	if req.Page != 2 || req.PageSize != 10 {
		t.Errorf("page/size = %d/%d, want 2/10", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "jane" {
		t.Errorf("Search = %v, want jane", req.Search)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "validUntil" || !req.Sort[0].Descending {
		t.Errorf("Sort = %v", req.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact division", 40, 20, 2},
		{"remainder rounds up", 41, 20, 3},
		{"empty still one page", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		result := pagination.NewPageResult[string](nil, 0, 1, 20)
		if result.Data == nil {
			t.Error("Data should be non-nil")
		}
	})
}
