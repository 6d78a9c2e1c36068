package domain

import "strings"

// Category represents the kind of expression a user submitted
type Category string

const (
	CategoryIdiom Category = "Idiom"
	CategoryJoke  Category = "Joke"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryIdiom, CategoryJoke}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	return c == CategoryIdiom || c == CategoryJoke
}

// ParseCategory parses a category name case-insensitively
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", NewValidationError("category", ErrInvalidCategory, "category must be Idiom or Joke")
}

// Filter selects submissions by category. FilterAll matches everything.
type Filter string

const FilterAll Filter = "All"

// Matches checks if a category passes the filter
func (f Filter) Matches(c Category) bool {
	return f == FilterAll || Category(f) == c
}

// ParseFilter parses "All", "Idiom" or "Joke". An empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, nil
	}

	c, err := ParseCategory(s)
	if err != nil {
		return "", err
	}
	return Filter(c), nil
}
