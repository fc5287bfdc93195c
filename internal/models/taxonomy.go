package models

// Category identifies one of the fixed attribute categories a child
// profile can select values from.
type Category string

const (
	CategoryGames        Category = "games"
	CategoryLanguages    Category = "languages"
	CategoryHobbies      Category = "hobbies"
	CategoryInterests    Category = "interests"
	CategoryPlayStyles   Category = "play_styles"
	CategoryThemes       Category = "themes"
	CategoryAvailability Category = "availability"
)

// Categories lists every attribute category in display order.
var Categories = []Category{
	CategoryGames,
	CategoryLanguages,
	CategoryHobbies,
	CategoryInterests,
	CategoryPlayStyles,
	CategoryThemes,
	CategoryAvailability,
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryGames:
		return "Games"
	case CategoryLanguages:
		return "Languages"
	case CategoryHobbies:
		return "Hobbies"
	case CategoryInterests:
		return "Interests"
	case CategoryPlayStyles:
		return "Play Styles"
	case CategoryThemes:
		return "Themes"
	case CategoryAvailability:
		return "Availability"
	}
	return string(c)
}

// TaxonomyValue is one selectable value in an attribute category.
// Values are seeded by migration and read-only at runtime.
type TaxonomyValue struct {
	ID       int64
	Category Category
	Label    string
}

// Taxonomy is the full lookup of selectable values, keyed by category.
type Taxonomy map[Category][]TaxonomyValue

// Lookup returns the value with the given id, if it exists.
func (t Taxonomy) Lookup(id int64) (TaxonomyValue, bool) {
	for _, values := range t {
		for _, v := range values {
			if v.ID == id {
				return v, true
			}
		}
	}
	return TaxonomyValue{}, false
}

// IDs returns the set of valid value ids across all categories.
func (t Taxonomy) IDs() map[int64]bool {
	ids := make(map[int64]bool)
	for _, values := range t {
		for _, v := range values {
			ids[v.ID] = true
		}
	}
	return ids
}
