package search

import "bookstall/models"

// Text match weights
const (
	titleWeight  = 5
	authorWeight = 3
	tagWeight    = 2
)

// Score ranks b for the relevance ordering. Each text match on title, author
// and tags adds its weight; the rating and a recency term of year/currentYear
// (0 when the year is unknown) are always added.
func Score(b models.Book, query string, currentYear int) float64 {
	var score float64

	if q := normalizeQuery(query); q != "" {
		if contains(b.Title, q) {
			score += titleWeight
		}
		if contains(b.Author, q) {
			score += authorWeight
		}
		if anyTagContains(b.Tags, q) {
			score += tagWeight
		}
	}

	score += b.Rating
	score += recency(b.Year, resolveYear(currentYear))
	return score
}

func recency(year, currentYear int) float64 {
	if year <= 0 {
		return 0
	}
	r := float64(year) / float64(currentYear)
	if r < 0 {
		return 0
	}
	return r
}
