// Package postgres implements the catalog repository on PostgreSQL using
// a pgx connection pool. Reconciler and aggregator operations run on
// short-lived connections drawn from the pool, never a single global
// connection.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/supptrack/backend/internal/domain"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock's pool
// satisfies it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `mapstructure:"max_conns"`
	MinConns int32 `mapstructure:"min_conns"`
}

// Store implements domain.CatalogRepository using pgxpool.
type Store struct {
	pool Pool
}

// NewStore creates a Store with a tuned connection pool and verifies
// connectivity.
func NewStore(ctx context.Context, connString string, poolCfg PoolConfig) (*Store, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg.MaxConns > 0 {
		maxConns = poolCfg.MaxConns
	}
	if poolCfg.MinConns > 0 {
		minConns = poolCfg.MinConns
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &Store{pool: pool}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS product (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS product_vendor (
	id          BIGSERIAL PRIMARY KEY,
	product_id  BIGINT NOT NULL REFERENCES product(id),
	vendor_id   BIGINT NOT NULL,
	price       NUMERIC(12,2) NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	score       DOUBLE PRECISION NOT NULL DEFAULT 0,
	listed_name TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_product_name ON product(name);
CREATE INDEX IF NOT EXISTS idx_product_vendor_product ON product_vendor(product_id, vendor_id);
CREATE INDEX IF NOT EXISTS idx_product_vendor_listed ON product_vendor(listed_name, vendor_id);
`

// Migrate creates the catalog tables. product.name intentionally carries
// no unique constraint: concurrent reconcile batches may race to create
// near-duplicate canonical rows, an accepted relaxation.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, migration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *Store) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *Store) Close() {
	s.pool.Close()
}

// GetCanonicalProducts loads the full canonical catalog.
func (s *Store) GetCanonicalProducts(ctx context.Context) ([]domain.CanonicalProduct, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM product`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get products")
	}
	defer rows.Close()

	var products []domain.CanonicalProduct
	for rows.Next() {
		var p domain.CanonicalProduct
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: get products")
	}
	return products, nil
}

// SearchCanonicalProducts runs a case-insensitive substring search on
// canonical names. Ranking beyond the database match is out of scope.
func (s *Store) SearchCanonicalProducts(ctx context.Context, term string) ([]domain.CanonicalProduct, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name FROM product WHERE name ILIKE '%' || $1 || '%'`, term)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search products")
	}
	defer rows.Close()

	var products []domain.CanonicalProduct
	for rows.Next() {
		var p domain.CanonicalProduct
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: search products")
	}
	return products, nil
}

// InsertCanonicalProduct creates a canonical product row and returns the
// assigned id.
func (s *Store) InsertCanonicalProduct(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO product (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert product")
	}
	return id, nil
}

// InsertListing creates a vendor listing link row.
func (s *Store) InsertListing(ctx context.Context, l domain.VendorListing) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO product_vendor (product_id, vendor_id, price, image, link, score, listed_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ProductID, l.VendorID, l.Price, l.Image, l.Link, l.MatchScore, l.ListedName)
	return eris.Wrap(err, "postgres: insert listing")
}

// ListListings returns every vendor listing link.
func (s *Store) ListListings(ctx context.Context) ([]domain.VendorListing, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product_id, vendor_id, price, image, link, score, listed_name FROM product_vendor`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list listings")
	}
	defer rows.Close()

	var listings []domain.VendorListing
	for rows.Next() {
		var l domain.VendorListing
		if err := rows.Scan(&l.ProductID, &l.VendorID, &l.Price, &l.Image, &l.Link, &l.MatchScore, &l.ListedName); err != nil {
			return nil, eris.Wrap(err, "postgres: scan listing")
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list listings")
	}
	return listings, nil
}

// GetListing returns one vendor's link for a canonical product.
func (s *Store) GetListing(ctx context.Context, productID, vendorID int64) (*domain.VendorListing, error) {
	var l domain.VendorListing
	err := s.pool.QueryRow(ctx,
		`SELECT product_id, vendor_id, price, image, link, score, listed_name
		 FROM product_vendor WHERE product_id = $1 AND vendor_id = $2 LIMIT 1`,
		productID, vendorID).
		Scan(&l.ProductID, &l.VendorID, &l.Price, &l.Image, &l.Link, &l.MatchScore, &l.ListedName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get listing")
	}
	return &l, nil
}

// UpdateListing replaces a link's price, image and link URL.
func (s *Store) UpdateListing(ctx context.Context, productID, vendorID int64, price float64, image, link string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE product_vendor SET price = $1, image = $2, link = $3 WHERE product_id = $4 AND vendor_id = $5`,
		price, image, link, productID, vendorID)
	if err != nil {
		return eris.Wrap(err, "postgres: update listing")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// DeleteListing removes a vendor's link for a canonical product.
func (s *Store) DeleteListing(ctx context.Context, productID, vendorID int64) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM product_vendor WHERE product_id = $1 AND vendor_id = $2`,
		productID, vendorID)
	if err != nil {
		return eris.Wrap(err, "postgres: delete listing")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// UpdateListingPrice sets the price on every link matching the normalized
// listed name and vendor, returning the affected row count. Zero rows is
// reported, not an error.
func (s *Store) UpdateListingPrice(ctx context.Context, listedName string, vendorID int64, price float64) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE product_vendor SET price = $1 WHERE listed_name = $2 AND vendor_id = $3`,
		price, listedName, vendorID)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: update listing price")
	}
	return tag.RowsAffected(), nil
}
