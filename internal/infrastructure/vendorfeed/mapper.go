package vendorfeed

import "github.com/supptrack/backend/internal/domain"

// feedItem is one entry in a vendor's listing feed payload
type feedItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
	URL   string  `json:"url,omitempty"`
}

// mapListings converts feed payload items to incoming listings stamped
// with the vendor id. Items are mapped as-is; validation (e.g. missing
// names) is the reconciler's responsibility so skips get reported per
// batch index.
func mapListings(items []feedItem, vendorID int64) []domain.IncomingListing {
	listings := make([]domain.IncomingListing, 0, len(items))
	for _, item := range items {
		listings = append(listings, domain.IncomingListing{
			ListedName: item.Name,
			VendorID:   vendorID,
			Price:      item.Price,
			Image:      item.Image,
			Link:       item.URL,
		})
	}
	return listings
}
