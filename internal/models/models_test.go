package models

import "testing"

func TestCategoryIsValid(t *testing.T) {
	for _, c := range Categories {
		if !c.IsValid() {
			t.Errorf("Category %s should be valid", c)
		}
	}

	if Category("favourite_food").IsValid() {
		t.Error("Unknown category should not be valid")
	}
}

func TestAttributeSets(t *testing.T) {
	attrs := AttributeSets{
		CategoryGames:     {1, 2, 3},
		CategoryLanguages: {10},
	}

	if attrs.Total() != 4 {
		t.Errorf("Total() = %d, want 4", attrs.Total())
	}
	if attrs.Empty() {
		t.Error("Empty() should be false for populated sets")
	}
	if got := attrs.Get(CategoryGames); len(got) != 3 {
		t.Errorf("Get(games) returned %d ids, want 3", len(got))
	}
	if got := attrs.Get(CategoryHobbies); got != nil {
		t.Errorf("Get(hobbies) = %v, want nil", got)
	}

	var empty AttributeSets
	if !empty.Empty() {
		t.Error("Empty() should be true for nil sets")
	}
}

func TestTaxonomyLookup(t *testing.T) {
	taxonomy := Taxonomy{
		CategoryGames: {
			{ID: 1, Category: CategoryGames, Label: "Minecraft"},
			{ID: 2, Category: CategoryGames, Label: "Roblox"},
		},
		CategoryHobbies: {
			{ID: 30, Category: CategoryHobbies, Label: "Drawing"},
		},
	}

	value, ok := taxonomy.Lookup(30)
	if !ok {
		t.Fatal("Lookup(30) should find the value")
	}
	if value.Category != CategoryHobbies || value.Label != "Drawing" {
		t.Errorf("Lookup(30) = %+v, want hobbies/Drawing", value)
	}

	if _, ok := taxonomy.Lookup(999); ok {
		t.Error("Lookup(999) should not find a value")
	}

	ids := taxonomy.IDs()
	if len(ids) != 3 {
		t.Errorf("IDs() returned %d ids, want 3", len(ids))
	}
	if !ids[1] || !ids[2] || !ids[30] {
		t.Errorf("IDs() missing expected ids: %v", ids)
	}
}

func TestLikeIsActive(t *testing.T) {
	tests := []struct {
		status LikeStatus
		active bool
	}{
		{LikeStatusPending, true},
		{LikeStatusApproved, true},
		{LikeStatusRejected, false},
	}

	for _, tt := range tests {
		like := Like{Status: tt.status}
		if like.IsActive() != tt.active {
			t.Errorf("IsActive() for %s = %v, want %v", tt.status, like.IsActive(), tt.active)
		}
	}
}

func TestIsValidAvatar(t *testing.T) {
	for _, avatar := range AvatarOptions {
		if !IsValidAvatar(avatar) {
			t.Errorf("Avatar %s should be valid", avatar)
		}
	}
	if IsValidAvatar("📷") {
		t.Error("Arbitrary emoji should not be a valid avatar")
	}
}
