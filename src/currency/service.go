// backend/src/currency/service.go
package currency

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/cashledger/backend/src/models"
)

// RateSource supplies dated rates for a single currency, expressed as units
// of that currency per unit of the reference currency.
type RateSource interface {
	RateAsOf(ctx context.Context, currencyID int64, asOf string) (float64, error)
}

// Service converts amounts between bookkeeping currencies. Lookups are
// memoized per (from, to, date) since a single report render asks for the
// same pair many times.
type Service struct {
	source RateSource
	cache  *cache.Cache
}

func NewService(source RateSource) *Service {
	return &Service{
		source: source,
		cache:  cache.New(24*time.Hour, 48*time.Hour),
	}
}

// Rate returns the multiplicative conversion rate from one currency to
// another as of the given date. Identical currencies short-circuit to 1.0
// without consulting the rate source.
func (s *Service) Rate(ctx context.Context, from, to models.Currency, asOf time.Time) (float64, error) {
	if from.ID == to.ID {
		return 1.0, nil
	}

	dateStr := asOf.Format("2006-01-02")
	cacheKey := fmt.Sprintf("rate-%d-%d-%s", from.ID, to.ID, dateStr)
	if rate, found := s.cache.Get(cacheKey); found {
		return rate.(float64), nil
	}

	fromRate, err := s.source.RateAsOf(ctx, from.ID, dateStr)
	if err != nil {
		return 0, fmt.Errorf("currency: rate lookup for %s: %w", from.Code, err)
	}
	if fromRate == 0 {
		return 0, fmt.Errorf("currency: zero rate stored for %s on %s", from.Code, dateStr)
	}
	toRate, err := s.source.RateAsOf(ctx, to.ID, dateStr)
	if err != nil {
		return 0, fmt.Errorf("currency: rate lookup for %s: %w", to.Code, err)
	}

	rate := toRate / fromRate
	s.cache.Set(cacheKey, rate, cache.DefaultExpiration)
	return rate, nil
}

// Convert converts an amount between currencies as of the given date and
// rounds the result to the target currency's decimal places. Converting a
// currency to itself returns the amount unchanged.
func (s *Service) Convert(ctx context.Context, amount float64, from, to models.Currency, asOf time.Time) (float64, error) {
	if from.ID == to.ID {
		return amount, nil
	}
	rate, err := s.Rate(ctx, from, to, asOf)
	if err != nil {
		return 0, err
	}
	return RoundTo(amount*rate, to.DecimalPlaces), nil
}

// RoundTo rounds half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
