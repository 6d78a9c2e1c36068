package app

import "unilang/internal/domain"

// PreloadedItem is a demo expression every new session starts with
type PreloadedItem struct {
	Text     string
	Country  string
	Category domain.Category
}

// PreloadedItems seed a session so the map and leaderboard are not empty
var PreloadedItems = []PreloadedItem{
	{Text: "Break the ice", Country: "USA", Category: domain.CategoryIdiom},
	{Text: "Spill the tea", Country: "USA", Category: domain.CategoryIdiom},
	{Text: "Not my circus, not my monkeys", Country: "Poland", Category: domain.CategoryIdiom},
	{Text: "Why don't eggs tell jokes? They'd crack each other up.", Country: "UK", Category: domain.CategoryJoke},
	{Text: "I told my computer I needed a break, and it said 'No problem, I'll go to sleep.'", Country: "India", Category: domain.CategoryJoke},
}

// preloadedSubmissions turns the demo items into submissions. They are
// native to their country, so the text is its own translation and scores
// full marks.
func preloadedSubmissions() []domain.Submission {
	recs := make([]domain.Submission, 0, len(PreloadedItems))
	for _, item := range PreloadedItems {
		recs = append(recs, domain.NewSubmission(domain.SubmissionParams{
			InputText:   item.Text,
			Category:    item.Category,
			Translation: item.Text,
			Outcome:     domain.OutcomePreloaded,
			Score:       domain.MaxScore,
			Countries:   []string{item.Country},
		}))
	}
	return recs
}
