package validation

import (
	"fmt"
	"regexp"
	"strings"

	"gamepal/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks a display name (guardian or child)
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "name", Message: "name must be at most 100 characters"}
	}
	return nil
}

// ValidateChildAge checks that age is within the representable bounds
func ValidateChildAge(age int) error {
	if age < models.MinChildAge || age > models.MaxChildAge {
		return ValidationError{
			Field:   "age",
			Message: fmt.Sprintf("age must be between %d and %d", models.MinChildAge, models.MaxChildAge),
		}
	}
	return nil
}

// ValidateChildBio checks the optional free-text bio
func ValidateChildBio(bio string) error {
	if len(bio) > models.MaxBioLength {
		return ValidationError{
			Field:   "bio",
			Message: fmt.Sprintf("bio must be at most %d characters", models.MaxBioLength),
		}
	}
	return nil
}

// ValidateAvatar checks that the avatar is one of the selectable symbols
func ValidateAvatar(avatar string) error {
	if avatar == "" {
		return nil // default assigned by the service
	}
	if !models.IsValidAvatar(avatar) {
		return ValidationError{Field: "avatar", Message: "invalid avatar selection"}
	}
	return nil
}

// ValidateAttributeSets checks that every category is known and that no
// category contains a duplicate value reference.
func ValidateAttributeSets(attrs models.AttributeSets) error {
	for category, ids := range attrs {
		if !category.IsValid() {
			return ValidationError{Field: "attributes", Message: fmt.Sprintf("unknown category %q", category)}
		}
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				return ValidationError{
					Field:   string(category),
					Message: fmt.Sprintf("duplicate value %d", id),
				}
			}
			seen[id] = true
		}
	}
	return nil
}
