package storage

import "github.com/julianstephens/habitline/internal/models"

// Cacheable returns the habits that can be stored, i.e. those with an id.
func Cacheable(habits []models.Habit) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.ID != "" {
			out = append(out, h)
		}
	}
	return out
}

// StaleIDs returns the ids in cached that no habit in current carries.
func StaleIDs(cached []string, current []models.Habit) []string {
	keep := make(map[string]struct{}, len(current))
	for _, h := range current {
		keep[h.ID] = struct{}{}
	}
	var stale []string
	for _, id := range cached {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	return stale
}
