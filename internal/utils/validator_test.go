package utils

import (
	"strings"
	"testing"
)

func TestCheckEmail(t *testing.T) {
	valid := []string{"a@b.co", "jane.doe+tag@example.com", "x_y%z@sub.domain.org"}
	for _, email := range valid {
		if err := CheckEmail(email); err != nil {
			t.Errorf("Expected %q to be valid, got %v", email, err)
		}
	}

	invalid := []string{"", "plain", "@missing.local", "user@", "user@domain", "user @spaced.com"}
	for _, email := range invalid {
		if err := CheckEmail(email); err == nil {
			t.Errorf("Expected %q to be invalid", email)
		}
	}

	long := strings.Repeat("a", 250) + "@example.com"
	if err := CheckEmail(long); err == nil {
		t.Errorf("Expected oversized address to be invalid")
	}
}

func TestCheckPassword(t *testing.T) {
	cases := []struct {
		password string
		wantErr  string
	}{
		{"Password1", ""},
		{"Str0ngEnough", ""},
		{"xY3aaaaa", ""},
		{"", "at least 8"},
		{"short1A", "at least 8"},
		{"alllowercase1", "uppercase"},
		{"ALLUPPERCASE1", "lowercase"},
		{"NoNumbersHere", "number"},
	}

	for _, tc := range cases {
		err := CheckPassword(tc.password)
		if tc.wantErr == "" {
			if err != nil {
				t.Errorf("Expected %q to be valid, got %v", tc.password, err)
			}
			continue
		}
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("Expected %q to fail with %q, got %v", tc.password, tc.wantErr, err)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("Expected sanitized email, got %q", got)
	}
}
