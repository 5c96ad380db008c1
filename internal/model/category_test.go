package model

import "testing"

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Category
	}{
		{"technology", CategoryTechnology},
		{"Technology", CategoryTechnology},
		{"  SCIENCE  ", CategoryScience},
		{"design", CategoryDesign},
		{"", CategoryGeneral},
		{"cooking", CategoryGeneral},
		{"GENERAL", CategoryGeneral},
	}

	for _, tc := range cases {
		if got := NormalizeCategory(tc.in); got != tc.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCategory_IsValid(t *testing.T) {
	t.Parallel()

	if !CategoryBusiness.IsValid() {
		t.Error("expected business to be valid")
	}
	if Category("Cooking").IsValid() {
		t.Error("expected non-canonical category to be invalid")
	}
	if Category("").IsValid() {
		t.Error("expected empty category to be invalid")
	}
}
