package matching

import (
	"math"
	"sort"

	"gamepal/internal/models"
)

// categoryWeights biases the overlap score toward shared games, the
// activity the whole app exists for. Weights for categories the subject
// left empty are renormalized across the rest.
var categoryWeights = map[models.Category]float64{
	models.CategoryGames:        25,
	models.CategoryLanguages:    15,
	models.CategoryHobbies:      15,
	models.CategoryInterests:    15,
	models.CategoryPlayStyles:   10,
	models.CategoryThemes:       10,
	models.CategoryAvailability: 10,
}

// Filters narrows the candidate pool before scoring. Zero values mean
// "no constraint". Required holds at most one value per category; a
// candidate must have selected every required value in its own category,
// so multiple entries combine as AND.
type Filters struct {
	MinAge   int
	MaxAge   int
	Required map[models.Category]int64
}

// MatchResult is one scored candidate. Matched holds, per category, the
// taxonomy value ids both children selected.
type MatchResult struct {
	Child       models.Child
	Percentage  int
	Matched     models.AttributeSets
	totalShared int
}

// Score ranks candidates against the subject child by attribute overlap.
// Candidates belonging to the subject's guardian must already be excluded
// by the caller. The result order is deterministic: percentage descending,
// then total shared attributes descending, then child id ascending.
func Score(subject models.Child, candidates []models.Child, filters Filters) []MatchResult {
	results := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID == subject.ID {
			continue
		}
		if !passesFilters(candidate, filters) {
			continue
		}
		results = append(results, scoreOne(subject, candidate))
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage > results[j].Percentage
		}
		if results[i].totalShared != results[j].totalShared {
			return results[i].totalShared > results[j].totalShared
		}
		return results[i].Child.ID < results[j].Child.ID
	})

	return results
}

func passesFilters(candidate models.Child, filters Filters) bool {
	if filters.MinAge > 0 && candidate.Age < filters.MinAge {
		return false
	}
	if filters.MaxAge > 0 && candidate.Age > filters.MaxAge {
		return false
	}
	for category, valueID := range filters.Required {
		if valueID > 0 && !hasValue(candidate.Attributes.Get(category), valueID) {
			return false
		}
	}
	return true
}

func hasValue(ids []int64, valueID int64) bool {
	for _, id := range ids {
		if id == valueID {
			return true
		}
	}
	return false
}

// scoreOne computes the weighted overlap between the subject's selections
// and a candidate's. Each category contributes the fraction of the
// subject's selections the candidate shares; a subject with nothing
// selected anywhere scores zero against everyone.
func scoreOne(subject, candidate models.Child) MatchResult {
	matched := models.AttributeSets{}
	totalShared := 0
	weighted := 0.0
	totalWeight := 0.0

	for _, category := range models.Categories {
		mine := subject.Attributes.Get(category)
		if len(mine) == 0 {
			continue
		}
		totalWeight += categoryWeights[category]

		theirs := make(map[int64]bool, len(candidate.Attributes.Get(category)))
		for _, id := range candidate.Attributes.Get(category) {
			theirs[id] = true
		}

		shared := make([]int64, 0)
		for _, id := range mine {
			if theirs[id] {
				shared = append(shared, id)
			}
		}
		if len(shared) > 0 {
			matched[category] = shared
			totalShared += len(shared)
			weighted += categoryWeights[category] * float64(len(shared)) / float64(len(mine))
		}
	}

	percentage := 0
	if totalWeight > 0 {
		percentage = int(math.Round(weighted / totalWeight * 100))
	}

	return MatchResult{
		Child:       candidate,
		Percentage:  percentage,
		Matched:     matched,
		totalShared: totalShared,
	}
}
