package pagination_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/JaimeStill/verum/pkg/pagination"
	"github.com/JaimeStill/verum/pkg/query"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
		t.Errorf("cfg = %+v, want 20/100", cfg)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "50")
	t.Setenv("TEST_MAX_PAGE", "200")

	cfg := pagination.Config{}
	err := cfg.Finalize(&pagination.ConfigEnv{
		DefaultPageSize: "TEST_PAGE_SIZE",
		MaxPageSize:     "TEST_MAX_PAGE",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 200 {
		t.Errorf("cfg = %+v, want 50/200", cfg)
	}
}

func TestConfigFinalizeIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("TEST_PAGE_SIZE", "lots")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.DefaultPageSize)
	}
}

func TestConfigFinalizeValidation(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "default_page_size cannot exceed max_page_size") {
		t.Errorf("error = %q", err)
	}
}

func TestConfigMerge(t *testing.T) {
	base := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	base.Merge(&pagination.Config{DefaultPageSize: 50})

	if base.DefaultPageSize != 50 {
		t.Errorf("DefaultPageSize = %d, want 50", base.DefaultPageSize)
	}
	if base.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100 (unchanged)", base.MaxPageSize)
	}
}

func TestPageRequestNormalize(t *testing.T) {
	cfg := defaultConfig()

	tests := []struct {
		name         string
		req          pagination.PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"zero values get defaults", pagination.PageRequest{}, 1, 20},
		{"negative page corrected", pagination.PageRequest{Page: -1, PageSize: 10}, 1, 10},
		{"page size clamped to max", pagination.PageRequest{Page: 1, PageSize: 500}, 1, 100},
		{"valid values preserved", pagination.PageRequest{Page: 3, PageSize: 25}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(cfg)
			if tt.req.Page != tt.wantPage || tt.req.PageSize != tt.wantPageSize {
				t.Errorf("got page %d size %d, want %d/%d", tt.req.Page, tt.req.PageSize, tt.wantPage, tt.wantPageSize)
			}
			if got, want := tt.req.Offset(), (tt.wantPage-1)*tt.wantPageSize; got != want {
				t.Errorf("Offset() = %d, want %d", got, want)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := defaultConfig()

	t.Run("all params present", func(t *testing.T) {
		req := pagination.PageRequestFromQuery(url.Values{
			"page":      {"2"},
			"page_size": {"15"},
			"search":    {" contract "},
			"sort":      {"Name,-CreatedAt"},
		}, cfg)

		if req.Page != 2 || req.PageSize != 15 {
			t.Errorf("page = %d size = %d", req.Page, req.PageSize)
		}
		if req.Search == nil || *req.Search != "contract" {
			t.Errorf("Search = %v, want trimmed 'contract'", req.Search)
		}
		if len(req.Sort) != 2 || req.Sort[1] != (query.SortField{Field: "CreatedAt", Descending: true}) {
			t.Errorf("Sort = %v", req.Sort)
		}
	})

	t.Run("blank search dropped", func(t *testing.T) {
		req := pagination.PageRequestFromQuery(url.Values{"search": {"   "}}, cfg)
		if req.Search != nil {
			t.Errorf("Search = %q, want nil", *req.Search)
		}
		if req.Page != 1 || req.PageSize != 20 {
			t.Errorf("page = %d size = %d", req.Page, req.PageSize)
		}
	})
}

func TestPageRequestApply(t *testing.T) {
	projection := query.NewProjectionMap("public", "cases", "c").
		Project("id", "ID").
		Project("name", "Name")

	search := "acme"
	req := pagination.PageRequest{
		Search: &search,
		Sort:   pagination.SortFields{{Field: "Name", Descending: true}},
	}

	sql, args := req.Apply(query.NewBuilder(projection), "Name").BuildPage(1, 20)

	want := "SELECT c.id, c.name FROM public.cases c WHERE (c.name ILIKE $1) ORDER BY c.name DESC LIMIT 20 OFFSET 0"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "%acme%" {
		t.Errorf("args = %v", args)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		wantTotalPages int
	}{
		{"exact division", 100, 5},
		{"remainder", 101, 6},
		{"single page", 5, 1},
		{"empty result", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult([]string{"a"}, tt.total, 1, 20)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
			if result.Total != tt.total || result.Page != 1 || result.PageSize != 20 {
				t.Errorf("result = %+v", result)
			}
		})
	}
}

func TestNewPageResultNilDataBecomesEmpty(t *testing.T) {
	result := pagination.NewPageResult[string](nil, 0, 1, 20)
	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("Data = %v, want empty slice", result.Data)
	}
}

func TestSortFieldsUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"string", `"Name,-CreatedAt"`},
		{"array", `[{"Field":"Name","Descending":false},{"Field":"CreatedAt","Descending":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sf pagination.SortFields
			if err := json.Unmarshal([]byte(tt.input), &sf); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if len(sf) != 2 {
				t.Fatalf("length = %d, want 2", len(sf))
			}
			if sf[0] != (query.SortField{Field: "Name"}) || sf[1] != (query.SortField{Field: "CreatedAt", Descending: true}) {
				t.Errorf("sf = %v", sf)
			}
		})
	}
}
