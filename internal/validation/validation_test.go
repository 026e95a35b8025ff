package validation

import (
	"errors"
	"strings"
	"testing"
	_ "time/tzdata"

	"nareo/internal/models"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "valid email",
			email:   "test@example.com",
			wantErr: false,
		},
		{
			name:    "valid email with subdomain",
			email:   "user@mail.example.com",
			wantErr: false,
		},
		{
			name:    "valid email with plus",
			email:   "user+tag@example.com",
			wantErr: false,
		},
		{
			name:    "missing @",
			email:   "testexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "test@",
			wantErr: true,
		},
		{
			name:    "empty string",
			email:   "",
			wantErr: true,
		},
		{
			name:    "spaces in email",
			email:   "test @example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		tz      string
		wantErr bool
	}{
		{"UTC", false},
		{"Europe/Paris", false},
		{"America/Montreal", false},
		{"", true},
		{"Local", true},
		{"Mars/Olympus", true},
	}

	for _, tt := range tests {
		t.Run(tt.tz, func(t *testing.T) {
			err := ValidateTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTimezone(%q) error = %v, wantErr %v", tt.tz, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, models.ErrInvalidTimezone) {
				t.Errorf("expected ErrInvalidTimezone, got %v", err)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		required bool
		wantErr  bool
	}{
		{"plain", "biology-101", true, false},
		{"uuid", "0b7e8a3c-5d1f-4a7e-9f0a-2c3d4e5f6a7b", true, false},
		{"empty optional", "", false, false},
		{"empty required", "", true, true},
		{"too long", strings.Repeat("x", MaxIdentifierLength+1), false, true},
		{"slash", "a/b", false, true},
		{"newline", "a\nb", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier("id", tt.value, tt.required)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			var verr models.ValidationError
			if err != nil && (!errors.As(err, &verr) || verr.Field != "id") {
				t.Errorf("expected a ValidationError for field id, got %v", err)
			}
		})
	}
}
