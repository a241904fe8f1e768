package domain

import "context"

// CatalogRepository defines the persistence interface for the canonical
// catalog and vendor listing links.
type CatalogRepository interface {
	// Canonical products
	GetCanonicalProducts(ctx context.Context) ([]CanonicalProduct, error)
	SearchCanonicalProducts(ctx context.Context, term string) ([]CanonicalProduct, error)
	InsertCanonicalProduct(ctx context.Context, name string) (int64, error)

	// Vendor listing links
	InsertListing(ctx context.Context, listing VendorListing) error
	ListListings(ctx context.Context) ([]VendorListing, error)
	GetListing(ctx context.Context, productID, vendorID int64) (*VendorListing, error)
	UpdateListing(ctx context.Context, productID, vendorID int64, price float64, image, link string) error
	DeleteListing(ctx context.Context, productID, vendorID int64) error

	// UpdateListingPrice sets the price on every link matching the
	// normalized listed name and vendor, returning the affected row count.
	// Zero rows is not an error; the caller reports it as an outcome.
	UpdateListingPrice(ctx context.Context, listedName string, vendorID int64, price float64) (int64, error)
}

// CacheRepository defines the interface for caching catalog reads.
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	Clear()
}

// VendorFeed defines the interface for pulling listing batches from a
// vendor's feed endpoint (the external ingestion collaborator).
type VendorFeed interface {
	FetchListings(ctx context.Context, feedURL string, vendorID int64) ([]IncomingListing, error)
}
