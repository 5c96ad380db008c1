package model

import "testing"

func TestDeriveDomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want string
	}{
		{"plain host", "https://example.com/x", "example.com"},
		{"strips www", "https://www.example.com/path?q=1", "example.com"},
		{"case folded", "https://Example.com/x", "example.com"},
		{"subdomain kept", "https://blog.example.com/post", "blog.example.com"},
		{"port dropped", "http://example.com:8080/", "example.com"},
		{"no host", "not a url", "unknown"},
		{"relative path", "/just/a/path", "unknown"},
		{"empty", "", "unknown"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveDomain(tc.url); got != tc.want {
				t.Errorf("DeriveDomain(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
