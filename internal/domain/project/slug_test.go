package project

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Go REST API Starter", "go-rest-api-starter"},
		{"  Trimmed  Spaces  ", "trimmed-spaces"},
		{"CamelCase Title 2", "camelcase-title-2"},
		{"symbols!@#$stripped", "symbols-stripped"},
		{"---", ""},
		{"уже не latin", "latin"},
	}

	for _, tc := range cases {
		if got := slugify(tc.title); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
