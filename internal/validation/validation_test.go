package validation

import (
	"strings"
	"testing"

	"gamepal/internal/models"
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
			name:    "missing local part",
			email:   "@example.com",
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

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "John Doe",
			wantErr: false,
		},
		{
			name:    "single name",
			input:   "John",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "name too short",
			input:   "J",
			wantErr: true,
		},
		{
			name:    "name with hyphen",
			input:   "Mary-Jane",
			wantErr: false,
		},
		{
			name:    "name with apostrophe",
			input:   "O'Brien",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "password123",
			wantErr:  false,
		},
		{
			name:     "password exactly 8 characters",
			password: "pass1234",
			wantErr:  false,
		},
		{
			name:     "password too short",
			password: "pass123",
			wantErr:  true,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
		},
		{
			name:     "long password",
			password: "thisIsAVeryLongPasswordThatShouldBeValid123",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChildAge(t *testing.T) {
	tests := []struct {
		name    string
		age     int
		wantErr bool
	}{
		{
			name:    "minimum age",
			age:     5,
			wantErr: false,
		},
		{
			name:    "maximum age",
			age:     17,
			wantErr: false,
		},
		{
			name:    "below minimum",
			age:     4,
			wantErr: true,
		},
		{
			name:    "above maximum",
			age:     18,
			wantErr: true,
		},
		{
			name:    "zero",
			age:     0,
			wantErr: true,
		},
		{
			name:    "negative",
			age:     -3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChildAge(tt.age)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChildAge(%d) error = %v, wantErr %v", tt.age, err, tt.wantErr)
			}
		})
	}
}

func TestValidateChildBio(t *testing.T) {
	longBio := strings.Repeat("a", 201)
	maxBio := strings.Repeat("a", 200)

	tests := []struct {
		name    string
		bio     string
		wantErr bool
	}{
		{
			name:    "empty bio is allowed",
			bio:     "",
			wantErr: false,
		},
		{
			name:    "short bio",
			bio:     "Loves Minecraft and drawing.",
			wantErr: false,
		},
		{
			name:    "bio at the cap",
			bio:     maxBio,
			wantErr: false,
		},
		{
			name:    "bio over the cap",
			bio:     longBio,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChildBio(tt.bio)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChildBio() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAttributeSets(t *testing.T) {
	tests := []struct {
		name    string
		attrs   models.AttributeSets
		wantErr bool
	}{
		{
			name:    "empty sets",
			attrs:   models.AttributeSets{},
			wantErr: false,
		},
		{
			name: "valid sets",
			attrs: models.AttributeSets{
				models.CategoryGames:   {1, 2, 3},
				models.CategoryHobbies: {10},
			},
			wantErr: false,
		},
		{
			name: "duplicate value in a category",
			attrs: models.AttributeSets{
				models.CategoryGames: {1, 2, 1},
			},
			wantErr: true,
		},
		{
			name: "unknown category",
			attrs: models.AttributeSets{
				models.Category("pets"): {1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttributeSets(tt.attrs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttributeSets() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
