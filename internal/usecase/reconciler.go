package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/supptrack/backend/internal/domain"
)

// Default policy values, applied when the config leaves them unset.
const (
	defaultMergeThreshold = 0.70
	defaultMaxConcurrency = 8
)

// ReconcilerConfig holds configuration for the reconciler
type ReconcilerConfig struct {
	// MergeThreshold is the similarity a match must strictly exceed for an
	// incoming listing to reuse an existing canonical product. Equality
	// falls through to create-new.
	MergeThreshold float64

	// MaxConcurrency bounds concurrent persistence operations per batch.
	MaxConcurrency int
}

// Reconciler folds incoming vendor listings into the canonical catalog:
// match against existing products, merge or create per the threshold
// policy, and persist a vendor listing link either way.
type Reconciler struct {
	repo           domain.CatalogRepository
	matcher        *Matcher
	mergeThreshold float64
	maxConcurrency int
}

// NewReconciler creates a new reconciler with the given configuration
func NewReconciler(repo domain.CatalogRepository, config ReconcilerConfig) *Reconciler {
	threshold := config.MergeThreshold
	if threshold <= 0 {
		threshold = defaultMergeThreshold
	}

	concurrency := config.MaxConcurrency
	if concurrency <= 0 {
		concurrency = defaultMaxConcurrency
	}

	return &Reconciler{
		repo:           repo,
		matcher:        NewMatcher(),
		mergeThreshold: threshold,
		maxConcurrency: concurrency,
	}
}

// Reconcile matches a batch of incoming listings against the canonical
// catalog and persists the outcome. Listings failing validation are
// excluded and reported with their original batch index. The catalog is
// loaded once per call; a load failure aborts the whole batch. Persistence
// fans out over a bounded group and fails fast: the first storage error
// aborts remaining work and is returned, so callers must treat a
// partially-applied batch as possible and retry idempotently.
//
// Results are in input order (validation skips excepted) so callers can
// correlate them to source listings.
func (r *Reconciler) Reconcile(ctx context.Context, batch []domain.IncomingListing) (*domain.ReconcileReport, error) {
	valid := make([]domain.IncomingListing, 0, len(batch))
	var skipped []domain.SkippedListing

	for i, listing := range batch {
		if strings.TrimSpace(listing.ListedName) == "" {
			skipped = append(skipped, domain.SkippedListing{
				Index:  i,
				Reason: fmt.Sprintf("%s: missing product name", domain.ErrInvalidListing),
			})
			continue
		}
		valid = append(valid, listing)
	}

	catalog, err := r.repo.GetCanonicalProducts(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "reconcile: load catalog")
	}

	results := r.matcher.FindBestMatches(valid, catalog)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i := range results {
		g.Go(func() error {
			return r.persist(gctx, &results[i])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "reconcile: persist batch")
	}

	zap.L().Info("reconciled listing batch",
		zap.Int("received", len(batch)),
		zap.Int("skipped", len(skipped)),
		zap.Int("persisted", len(results)),
	)

	return &domain.ReconcileReport{Results: results, Skipped: skipped}, nil
}

// persist resolves the product id for one match result and writes its
// vendor listing link. The recorded score is the best score found even
// when a new product was created because it fell below the threshold.
func (r *Reconciler) persist(ctx context.Context, result *domain.MatchResult) error {
	var productID int64

	if result.MatchedProductID != nil && result.MatchScore > r.mergeThreshold {
		productID = *result.MatchedProductID
	} else {
		id, err := r.repo.InsertCanonicalProduct(ctx, result.ListedName)
		if err != nil {
			return err
		}
		productID = id

		zap.L().Debug("created canonical product",
			zap.Int64("productId", id),
			zap.String("name", result.ListedName),
			zap.Float64("bestScore", result.MatchScore),
		)
	}

	return r.repo.InsertListing(ctx, domain.VendorListing{
		ProductID:  productID,
		VendorID:   result.VendorID,
		Price:      result.Price,
		Image:      result.Image,
		Link:       result.Link,
		MatchScore: result.MatchScore,
		ListedName: result.ListedName,
	})
}
