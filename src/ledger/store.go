// backend/src/ledger/store.go
package ledger

import (
	"context"
	"errors"

	"github.com/username/cashledger/backend/src/models"
)

// PaymentFilter restricts an aggregation to lines whose payment link has a
// given direction. The empty filter applies no payment constraint at all,
// while FilterAll requires a payment link of either direction.
type PaymentFilter string

const (
	FilterNone     PaymentFilter = ""
	FilterAll      PaymentFilter = "all"
	FilterInbound  PaymentFilter = "inbound"
	FilterOutbound PaymentFilter = "outbound"
)

// RateEntry is one row of the synthesized conversion-rate table joined into
// the aggregation query: every amount booked by CompanyID is multiplied by
// Rate and rounded to Precision decimal places.
type RateEntry struct {
	CompanyID int64
	Rate      float64
	Precision int
}

// Totals is a per-partner debit/credit/balance triple, already converted to
// the display currency by the aggregation query.
type Totals struct {
	Debit   float64
	Credit  float64
	Balance float64
}

// AggregationQuery describes one partner-grouped sum over posted move lines.
type AggregationQuery struct {
	JournalIDs    []int64
	CompanyIDs    []int64
	DateFrom      string // inclusive, "" leaves the lower bound open
	DateTo        string // inclusive, "" leaves the upper bound open
	CashBasis     bool
	PaymentFilter PaymentFilter
	// PartnerID restricts the query to a single partner when non-zero.
	// In that case UnreconciledOnly excludes fully reconciled lines,
	// matching the opening-balance rule for single-partner drill-downs.
	PartnerID        int64
	UnreconciledOnly bool
	CurrencyTable    []RateEntry
}

// LineDomain is the filter shared by CountLines and FetchLines. Both must use
// the exact same domain so pagination counts agree with fetched pages.
type LineDomain struct {
	PartnerID     int64
	JournalIDs    []int64
	CompanyIDs    []int64
	DateFrom      string
	DateTo        string
	PaymentFilter PaymentFilter
}

// ErrEmptyJournalScope is returned when a query is attempted with no journals
// in scope; the report resolves journals before querying, so hitting this
// indicates a caller bug rather than empty data.
var ErrEmptyJournalScope = errors.New("ledger: no journals in query scope")

// Store is the ledger read model the report aggregates over. Implementations
// must not cache between calls; every method is one round-trip.
type Store interface {
	// AggregateByPartner sums converted debit/credit/balance per partner.
	// Partners with no matching rows are absent from the result.
	AggregateByPartner(ctx context.Context, q AggregationQuery) (map[int64]Totals, error)

	// CountLines returns the number of posted lines matching the domain.
	CountLines(ctx context.Context, d LineDomain) (int, error)

	// FetchLines returns posted lines matching the domain ordered by
	// (date, id). A non-positive limit fetches all matching lines.
	FetchLines(ctx context.Context, d LineDomain, limit, offset int) ([]models.MoveLine, error)

	// Partners resolves partner records for the given ids.
	Partners(ctx context.Context, ids []int64) (map[int64]models.Partner, error)

	// Companies lists every company known to the system.
	Companies(ctx context.Context) ([]models.Company, error)

	// CompanyByID resolves a single company.
	CompanyByID(ctx context.Context, id int64) (models.Company, error)

	// CurrencyByID resolves a single currency.
	CurrencyByID(ctx context.Context, id int64) (models.Currency, error)

	// JournalsByType lists journals of one type across all companies.
	JournalsByType(ctx context.Context, journalType string) ([]models.Journal, error)

	// SavedFilters lists the reusable filters registered for a model.
	SavedFilters(ctx context.Context, model string) ([]models.SavedFilter, error)
}
