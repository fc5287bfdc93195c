package matching

import (
	"reflect"
	"testing"

	"gamepal/internal/models"
)

func child(id int64, age int, attrs models.AttributeSets) models.Child {
	return models.Child{ID: id, GuardianID: id * 100, Name: "Child", Age: age, Attributes: attrs}
}

func TestScoreExactMatchIsHundred(t *testing.T) {
	attrs := models.AttributeSets{
		models.CategoryGames:        {1, 2, 3},
		models.CategoryLanguages:    {10},
		models.CategoryAvailability: {20, 21},
	}
	subject := child(1, 9, attrs)
	candidate := child(2, 10, attrs)

	results := Score(subject, []models.Child{candidate}, Filters{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Percentage != 100 {
		t.Errorf("expected 100%% for identical attributes, got %d%%", results[0].Percentage)
	}
}

func TestScoreZeroOverlapStillListed(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {1, 2}})
	candidate := child(2, 9, models.AttributeSets{models.CategoryGames: {3, 4}})

	results := Score(subject, []models.Child{candidate}, Filters{})
	if len(results) != 1 {
		t.Fatalf("expected zero-overlap candidate to be listed, got %d results", len(results))
	}
	if results[0].Percentage != 0 {
		t.Errorf("expected 0%%, got %d%%", results[0].Percentage)
	}
	if len(results[0].Matched) != 0 {
		t.Errorf("expected no matched attributes, got %v", results[0].Matched)
	}
}

func TestScoreEmptySubjectScoresZero(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{})
	candidate := child(2, 9, models.AttributeSets{models.CategoryGames: {1, 2, 3}})

	results := Score(subject, []models.Child{candidate}, Filters{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Percentage != 0 {
		t.Errorf("expected 0%% for empty subject, got %d%%", results[0].Percentage)
	}
}

func TestScoreMatchedAttributesAreSymmetric(t *testing.T) {
	a := child(1, 9, models.AttributeSets{
		models.CategoryGames:   {1, 2, 3},
		models.CategoryHobbies: {10, 11},
	})
	b := child(2, 9, models.AttributeSets{
		models.CategoryGames:   {2, 3, 4},
		models.CategoryHobbies: {11},
		models.CategoryThemes:  {30},
	})

	fromA := Score(a, []models.Child{b}, Filters{})
	fromB := Score(b, []models.Child{a}, Filters{})

	if !reflect.DeepEqual(fromA[0].Matched, fromB[0].Matched) {
		t.Errorf("matched attributes differ by direction: %v vs %v", fromA[0].Matched, fromB[0].Matched)
	}
}

func TestScoreMoreOverlapNeverScoresLower(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{
		models.CategoryGames:     {1, 2, 3, 4},
		models.CategoryInterests: {10, 11},
	})
	less := child(2, 9, models.AttributeSets{
		models.CategoryGames: {1, 2},
	})
	// Shares everything the weaker candidate shares, plus more
	more := child(3, 9, models.AttributeSets{
		models.CategoryGames:     {1, 2, 3},
		models.CategoryInterests: {10},
	})

	results := Score(subject, []models.Child{less, more}, Filters{})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Child.ID != 3 {
		t.Errorf("expected candidate with strictly more overlap to rank first, got child %d", results[0].Child.ID)
	}
	if results[0].Percentage < results[1].Percentage {
		t.Errorf("superset overlap scored lower: %d%% < %d%%", results[0].Percentage, results[1].Percentage)
	}
}

func TestScoreOrderIsDeterministic(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {1, 2}})
	// Both candidates have identical overlap; ids break the tie
	c5 := child(5, 9, models.AttributeSets{models.CategoryGames: {1}})
	c3 := child(3, 9, models.AttributeSets{models.CategoryGames: {1}})

	for i := 0; i < 10; i++ {
		results := Score(subject, []models.Child{c5, c3}, Filters{})
		if results[0].Child.ID != 3 || results[1].Child.ID != 5 {
			t.Fatalf("expected tie broken by child id ascending, got %d then %d",
				results[0].Child.ID, results[1].Child.ID)
		}
	}
}

func TestScoreAgeFilter(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {1}})
	candidates := []models.Child{
		child(2, 6, models.AttributeSets{models.CategoryGames: {1}}),
		child(3, 9, models.AttributeSets{models.CategoryGames: {1}}),
		child(4, 14, models.AttributeSets{models.CategoryGames: {1}}),
	}

	results := Score(subject, candidates, Filters{MinAge: 8, MaxAge: 11})
	if len(results) != 1 {
		t.Fatalf("expected 1 result after age filter, got %d", len(results))
	}
	if results[0].Child.ID != 3 {
		t.Errorf("expected child 3 to survive the age filter, got %d", results[0].Child.ID)
	}
}

func TestScoreRequiredValueFilter(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {1, 7}})
	candidates := []models.Child{
		child(2, 9, models.AttributeSets{models.CategoryGames: {1}}),
		child(3, 9, models.AttributeSets{models.CategoryGames: {7, 1}}),
	}

	results := Score(subject, candidates, Filters{
		Required: map[models.Category]int64{models.CategoryGames: 7},
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result after value filter, got %d", len(results))
	}
	if results[0].Child.ID != 3 {
		t.Errorf("expected only the child selecting value 7, got %d", results[0].Child.ID)
	}
}

func TestScoreRequiredValueFiltersAreConjunctive(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{
		models.CategoryGames:     {1},
		models.CategoryLanguages: {20},
	})
	candidates := []models.Child{
		// Has the game but not the language
		child(2, 9, models.AttributeSets{models.CategoryGames: {1}}),
		// Has the language but not the game
		child(3, 9, models.AttributeSets{models.CategoryLanguages: {20}}),
		// Has both
		child(4, 9, models.AttributeSets{
			models.CategoryGames:     {1},
			models.CategoryLanguages: {20},
		}),
	}

	results := Score(subject, candidates, Filters{
		Required: map[models.Category]int64{
			models.CategoryGames:     1,
			models.CategoryLanguages: 20,
		},
	})
	if len(results) != 1 {
		t.Fatalf("expected 1 result with both filters active, got %d", len(results))
	}
	if results[0].Child.ID != 4 {
		t.Errorf("expected only the child satisfying every filter, got %d", results[0].Child.ID)
	}
}

func TestScoreRequiredValueMustMatchItsCategory(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {1}})
	// Candidate selected value 7 as a hobby, not a game
	candidate := child(2, 9, models.AttributeSets{
		models.CategoryGames:   {1},
		models.CategoryHobbies: {7},
	})

	results := Score(subject, []models.Child{candidate}, Filters{
		Required: map[models.Category]int64{models.CategoryGames: 7},
	})
	if len(results) != 0 {
		t.Errorf("expected a value in another category not to satisfy the filter, got %d results", len(results))
	}
}

func TestScoreExcludesSubject(t *testing.T) {
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {1}})
	results := Score(subject, []models.Child{subject}, Filters{})
	if len(results) != 0 {
		t.Errorf("expected subject to be excluded from its own results, got %d results", len(results))
	}
}

func TestScoreToleratesUnknownValueIDs(t *testing.T) {
	// Ids that no longer exist in the taxonomy still compare as plain ids
	subject := child(1, 9, models.AttributeSets{models.CategoryGames: {999999, 1}})
	candidate := child(2, 9, models.AttributeSets{models.CategoryGames: {999999}})

	results := Score(subject, []models.Child{candidate}, Filters{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Percentage != 50 {
		t.Errorf("expected 50%%, got %d%%", results[0].Percentage)
	}
}

func TestScorePartialOverlapPercentage(t *testing.T) {
	// Games 2/4 shared, interests 1/2 shared, hobbies 0/1.
	// Weights renormalize to games 25, interests 15, hobbies 15 over 55:
	// (25*0.5 + 15*0.5 + 0) / 55 = 0.3636... -> 36
	subject := child(1, 9, models.AttributeSets{
		models.CategoryGames:     {1, 2, 3, 4},
		models.CategoryInterests: {10, 11},
		models.CategoryHobbies:   {20},
	})
	candidate := child(2, 9, models.AttributeSets{
		models.CategoryGames:     {1, 2},
		models.CategoryInterests: {10},
		models.CategoryHobbies:   {21},
	})

	results := Score(subject, []models.Child{candidate}, Filters{})
	if results[0].Percentage != 36 {
		t.Errorf("expected 36%%, got %d%%", results[0].Percentage)
	}
}
