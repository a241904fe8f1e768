package usecase

import (
	"math"

	"github.com/supptrack/backend/internal/domain"
)

// Matcher scores incoming listings against the canonical catalog and picks
// the best candidate per listing.
type Matcher struct{}

// NewMatcher creates a new matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// FindBestMatches returns one MatchResult per incoming listing, in input
// order. Each listing's name is normalized and compared against every
// catalog entry; the strictly highest score wins and the first-seen entry
// is kept on exact ties. With an empty catalog every result carries a nil
// MatchedProductID and score 0.0. Scores are rounded to two decimals.
//
// The scan is O(incoming x catalog). ListedName on the result is the
// normalized form, which is also what the reconciler persists.
func (m *Matcher) FindBestMatches(incoming []domain.IncomingListing, catalog []domain.CanonicalProduct) []domain.MatchResult {
	results := make([]domain.MatchResult, 0, len(incoming))

	for _, listing := range incoming {
		name := Normalize(listing.ListedName)

		var matchedID *int64
		bestScore := 0.0

		for _, product := range catalog {
			score := BigramSimilarity(name, product.Name)
			if score > bestScore {
				bestScore = score
				id := product.ID
				matchedID = &id
			}
		}

		results = append(results, domain.MatchResult{
			ListedName:       name,
			VendorID:         listing.VendorID,
			Price:            listing.Price,
			Image:            listing.Image,
			Link:             listing.Link,
			MatchedProductID: matchedID,
			MatchScore:       roundScore(bestScore),
		})
	}

	return results
}

// roundScore rounds a similarity score to two decimal places
func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
