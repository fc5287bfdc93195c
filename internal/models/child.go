package models

import "time"

// Child age bounds and bio length cap. The bio is deliberately short to
// discourage parents from putting identifying detail in it.
const (
	MinChildAge  = 5
	MaxChildAge  = 17
	MaxBioLength = 200
)

// AvatarOptions are the symbolic avatars a child profile can pick from.
// Avatars are emoji on purpose: no photo uploads of children.
var AvatarOptions = []string{
	"🧒", "🦁", "🦄", "🐶", "🐱", "🐼", "🐸", "🐵", "🐰", "👾", "🤖", "🧙‍♂️",
}

// AttributeSets holds a child's selected taxonomy value ids per category.
// Each slice is a set: no duplicate ids.
type AttributeSets map[Category][]int64

// Get returns the value ids for a category (nil if none selected).
func (a AttributeSets) Get(c Category) []int64 {
	return a[c]
}

// Total returns the number of selected values across all categories.
func (a AttributeSets) Total() int {
	n := 0
	for _, ids := range a {
		n += len(ids)
	}
	return n
}

// Empty reports whether no category has any selected value.
func (a AttributeSets) Empty() bool {
	return a.Total() == 0
}

// Child represents a supervised child profile. A child belongs to exactly
// one guardian and never acts independently.
type Child struct {
	ID         int64
	GuardianID int64
	Name       string
	Age        int
	Bio        string
	Avatar     string
	Attributes AttributeSets
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsValidAvatar reports whether avatar is one of the selectable options.
func IsValidAvatar(avatar string) bool {
	for _, a := range AvatarOptions {
		if a == avatar {
			return true
		}
	}
	return false
}
