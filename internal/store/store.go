// Package store holds the submissions made during one session and the
// aggregates the leaderboard and map views are built from.
package store

import (
	"slices"

	"unilang/internal/domain"
)

// Ranked is one row of a ranking: an expression or country and its total
type Ranked struct {
	Key   string `json:"key"`
	Total int    `json:"total"`
}

// Store is an append-only list of submissions. It is not safe for
// concurrent use; the owning session serializes access.
type Store struct {
	records []domain.Submission
}

// New creates an empty store
func New() *Store {
	return &Store{records: make([]domain.Submission, 0)}
}

// Append adds a submission to the end of the store
func (s *Store) Append(rec domain.Submission) {
	s.records = append(s.records, rec)
}

// Len returns the number of submissions
func (s *Store) Len() int {
	return len(s.records)
}

// Filtered returns the submissions matching f in insertion order
func (s *Store) Filtered(f domain.Filter) []domain.Submission {
	if f == domain.FilterAll {
		return slices.Clone(s.records)
	}

	result := make([]domain.Submission, 0, len(s.records))
	for _, rec := range s.records {
		if f.Matches(rec.Category) {
			result = append(result, rec)
		}
	}
	return result
}

// ExpressionFrequency counts submissions per exact input text
func (s *Store) ExpressionFrequency() map[string]int {
	counts, _ := s.expressionCounts()
	return counts
}

// Leaderboard ranks expressions by how often they were submitted.
// Ties keep first-seen order. A limit <= 0 returns every expression.
func (s *Store) Leaderboard(limit int) []Ranked {
	counts, order := s.expressionCounts()
	return rank(order, counts, limit)
}

// CountryAppearances counts how many times each country was associated
// with a submission
func (s *Store) CountryAppearances() map[string]int {
	counts, _ := s.countryTotals(func(domain.Submission) int { return 1 })
	return counts
}

// CountryScoreTotals sums the score of every submission a country was
// associated with
func (s *Store) CountryScoreTotals() map[string]int {
	totals, _ := s.countryTotals(func(rec domain.Submission) int { return rec.Score })
	return totals
}

// CountryRanking ranks countries by appearances
func (s *Store) CountryRanking(limit int) []Ranked {
	counts, order := s.countryTotals(func(domain.Submission) int { return 1 })
	return rank(order, counts, limit)
}

// CountryScoreRanking ranks countries by summed score
func (s *Store) CountryScoreRanking(limit int) []Ranked {
	totals, order := s.countryTotals(func(rec domain.Submission) int { return rec.Score })
	return rank(order, totals, limit)
}

func (s *Store) expressionCounts() (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, rec := range s.records {
		if _, seen := counts[rec.InputText]; !seen {
			order = append(order, rec.InputText)
		}
		counts[rec.InputText]++
	}
	return counts, order
}

func (s *Store) countryTotals(weight func(domain.Submission) int) (map[string]int, []string) {
	totals := make(map[string]int)
	var order []string
	for _, rec := range s.records {
		w := weight(rec)
		for _, country := range rec.Countries {
			if _, seen := totals[country]; !seen {
				order = append(order, country)
			}
			totals[country] += w
		}
	}
	return totals, order
}

// rank orders keys by total descending; the stable sort keeps first-seen
// order among equal totals
func rank(order []string, totals map[string]int, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, Ranked{Key: key, Total: totals[key]})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Total - a.Total
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
