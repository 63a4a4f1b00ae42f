package shared

import "testing"

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, DefaultPageSize},
		{"negative", -3, -1, 1, DefaultPageSize},
		{"capped", 2, 500, 2, MaxPageSize},
		{"passthrough", 3, 50, 3, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, pageSize := NormalizePagination(tc.page, tc.size)
			if page != tc.wantPage || pageSize != tc.wantPageSize {
				t.Fatalf("want (%d,%d) got (%d,%d)", tc.wantPage, tc.wantPageSize, page, pageSize)
			}
		})
	}
}
