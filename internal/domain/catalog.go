package domain

// CanonicalProduct is the deduplicated, vendor-agnostic representation of a
// real-world product. Name is stored in normalized form (lowercased,
// qualifier-stripped, trimmed).
type CanonicalProduct struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IncomingListing is one vendor's raw offering as delivered by a scraper.
// It is transient: after reconciliation it is folded into a canonical
// product plus a vendor listing link and discarded.
type IncomingListing struct {
	ListedName string  `json:"productName"`
	VendorID   int64   `json:"vendorId"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	Link       string  `json:"link,omitempty"`
}

// MatchResult is the Matcher's verdict for a single incoming listing.
// MatchedProductID is nil when the catalog was empty. MatchScore is the
// best similarity found, rounded to two decimals, even when it fell below
// the merge threshold.
type MatchResult struct {
	ListedName       string  `json:"productName"`
	VendorID         int64   `json:"vendorId"`
	Price            float64 `json:"price"`
	Image            string  `json:"image,omitempty"`
	Link             string  `json:"link,omitempty"`
	MatchedProductID *int64  `json:"matchedProductId"`
	MatchScore       float64 `json:"matchScore"`
}

// VendorListing is one vendor's price/image/link offering tied to a
// canonical product. (ProductID, VendorID) is not unique before price
// aggregation collapses flavor variants.
type VendorListing struct {
	ProductID  int64   `json:"productId"`
	VendorID   int64   `json:"vendorId"`
	Price      float64 `json:"price"`
	Image      string  `json:"image,omitempty"`
	Link       string  `json:"link,omitempty"`
	MatchScore float64 `json:"matchScore"`
	ListedName string  `json:"listedName"`
}

// SkippedListing records an incoming listing excluded from a batch for
// failing validation, with its index in the original batch.
type SkippedListing struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ReconcileReport is the result of reconciling one batch. Results are in
// input order for the listings that passed validation; Skipped carries the
// rest with their original batch indexes.
type ReconcileReport struct {
	Results []MatchResult    `json:"results"`
	Skipped []SkippedListing `json:"skipped,omitempty"`
}

// PriceUpdate is one observed price for a (listed name, vendor) pair,
// input to lowest-price aggregation.
type PriceUpdate struct {
	ListedName string  `json:"productName"`
	VendorID   int64   `json:"vendorId"`
	Price      float64 `json:"price"`
}

// PriceOutcomeStatus classifies the result of one aggregation group.
type PriceOutcomeStatus string

const (
	PriceUpdated  PriceOutcomeStatus = "updated"
	PriceNotFound PriceOutcomeStatus = "not_found"
	PriceFailed   PriceOutcomeStatus = "failed"
)

// PriceOutcome is the settled result for one aggregation group. Outcomes
// are independent: a failed group never blocks the others.
type PriceOutcome struct {
	ListedName string             `json:"productName"`
	VendorID   int64              `json:"vendorId"`
	Price      float64            `json:"price,omitempty"`
	Status     PriceOutcomeStatus `json:"status"`
	Error      string             `json:"error,omitempty"`
}
