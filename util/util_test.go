package util

import "testing"

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "", "c", "d"); got != "c" {
		t.Errorf("expected 'c', got %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("expected zero value, got %d", got)
	}
	if got := Coalesce[string](); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestParseBool(t *testing.T) {
	tests := map[string]bool{
		"true":  true,
		"TRUE":  true,
		" True": true,
		"1":     true,
		"false": false,
		"0":     false,
		"yes":   false,
		"":      false,
	}
	for in, want := range tests {
		if got := ParseBool(in); got != want {
			t.Errorf("ParseBool(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, k := range []string{"db:password", "API_KEY", "auth:Token", "clientSecret"} {
		if !IsSensitiveKey(k) {
			t.Errorf("expected %q to be sensitive", k)
		}
	}
	for _, k := range []string{"environment", "contentRoot"} {
		if IsSensitiveKey(k) {
			t.Errorf("expected %q not to be sensitive", k)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"supersecret", 3, "sup***"},
		{"ab", 3, "***"},
		{"abc", 3, "***"},
		{"", 0, "***"},
	}
	for _, tc := range tests {
		if got := MaskSecret(tc.in, tc.n); got != tc.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
