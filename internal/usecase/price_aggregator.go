package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/supptrack/backend/internal/domain"
)

// groupKey identifies one aggregation group. A struct key (rather than a
// concatenated string) means listed names containing the separator
// character cannot collide across vendors.
type groupKey struct {
	name     string
	vendorID int64
}

// PriceAggregator collapses listing variants (flavors, sizes) of the same
// base product from the same vendor down to the single lowest observed
// price and pushes that price onto the persisted listing links.
type PriceAggregator struct {
	repo           domain.CatalogRepository
	maxConcurrency int
}

// NewPriceAggregator creates a new price aggregator
func NewPriceAggregator(repo domain.CatalogRepository, maxConcurrency int) *PriceAggregator {
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}
	return &PriceAggregator{repo: repo, maxConcurrency: maxConcurrency}
}

// AggregateMinimumPrices groups the updates by (normalized name, vendor),
// keeps the minimum price per group, and updates each group's persisted
// listing links concurrently. Every group settles independently: the
// returned outcomes may individually be updated, not-found, or failed, and
// one group's failure never blocks the others. Groups are processed in
// (name, vendor) order so the outcome list is deterministic.
//
// Running the same input twice settles on the same stored price, making
// the operation idempotent.
func (a *PriceAggregator) AggregateMinimumPrices(ctx context.Context, updates []domain.PriceUpdate) []domain.PriceOutcome {
	groups := make(map[groupKey]float64, len(updates))
	for _, update := range updates {
		key := groupKey{name: Normalize(update.ListedName), vendorID: update.VendorID}
		if price, ok := groups[key]; !ok || update.Price < price {
			groups[key] = update.Price
		}
	}

	keys := make([]groupKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].vendorID < keys[j].vendorID
	})

	outcomes := make([]domain.PriceOutcome, len(keys))

	var wg sync.WaitGroup
	sem := make(chan struct{}, a.maxConcurrency)

	for i, key := range keys {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[i] = a.settle(ctx, key, groups[key])
		}()
	}
	wg.Wait()

	zap.L().Info("aggregated minimum prices",
		zap.Int("updates", len(updates)),
		zap.Int("groups", len(keys)),
	)

	return outcomes
}

// settle applies one group's minimum price and reports the outcome.
func (a *PriceAggregator) settle(ctx context.Context, key groupKey, price float64) domain.PriceOutcome {
	outcome := domain.PriceOutcome{ListedName: key.name, VendorID: key.vendorID}

	if key.name == "" {
		outcome.Status = domain.PriceFailed
		outcome.Error = fmt.Sprintf("%s: missing product name", domain.ErrInvalidListing)
		return outcome
	}

	affected, err := a.repo.UpdateListingPrice(ctx, key.name, key.vendorID, price)
	switch {
	case err != nil:
		outcome.Status = domain.PriceFailed
		outcome.Error = err.Error()
	case affected == 0:
		// No prior link for this name/vendor pair. Reportable, not fatal.
		outcome.Status = domain.PriceNotFound
	default:
		outcome.Status = domain.PriceUpdated
		outcome.Price = price
	}

	return outcome
}
