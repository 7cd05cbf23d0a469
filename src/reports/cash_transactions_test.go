package reports

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/cashledger/backend/src/currency"
	"github.com/username/cashledger/backend/src/ledger"
	"github.com/username/cashledger/backend/src/models"
)

// fakeStore is an in-memory ledger.Store and currency.RateSource sharing the
// filtering semantics of the SQL implementation.
type fakeStore struct {
	companies  []models.Company
	currencies map[int64]models.Currency
	journals   []models.Journal
	partners   map[int64]models.Partner
	filters    []models.SavedFilter
	lines      []models.MoveLine
	rates      map[int64]float64 // currencyID -> units per reference unit
	failAll    bool
}

func inScope(ids []int64, id int64) bool {
	return len(ids) == 0 || slices.Contains(ids, id)
}

func paymentMatches(l models.MoveLine, f ledger.PaymentFilter) bool {
	switch f {
	case ledger.FilterInbound:
		return l.PaymentID != 0 && l.PaymentType == models.PaymentInbound
	case ledger.FilterOutbound:
		return l.PaymentID != 0 && l.PaymentType == models.PaymentOutbound
	case ledger.FilterAll:
		return l.PaymentID != 0 &&
			(l.PaymentType == models.PaymentInbound || l.PaymentType == models.PaymentOutbound)
	}
	return true
}

func (s *fakeStore) matchesDomain(l models.MoveLine, d ledger.LineDomain) bool {
	if l.PartnerID != d.PartnerID || !slices.Contains(d.JournalIDs, l.JournalID) {
		return false
	}
	if !inScope(d.CompanyIDs, l.CompanyID) {
		return false
	}
	if d.DateFrom != "" && l.Date < d.DateFrom {
		return false
	}
	if d.DateTo != "" && l.Date > d.DateTo {
		return false
	}
	return paymentMatches(l, d.PaymentFilter)
}

func (s *fakeStore) AggregateByPartner(ctx context.Context, q ledger.AggregationQuery) (map[int64]ledger.Totals, error) {
	if s.failAll {
		return nil, errors.New("ledger unavailable")
	}
	if len(q.JournalIDs) == 0 {
		return nil, ledger.ErrEmptyJournalScope
	}
	table := make(map[int64]ledger.RateEntry)
	for _, e := range q.CurrencyTable {
		table[e.CompanyID] = e
	}
	out := make(map[int64]ledger.Totals)
	for _, l := range s.lines {
		if l.PartnerID == 0 || !slices.Contains(q.JournalIDs, l.JournalID) {
			continue
		}
		if !inScope(q.CompanyIDs, l.CompanyID) {
			continue
		}
		if q.DateFrom != "" && l.Date < q.DateFrom {
			continue
		}
		if q.DateTo != "" && l.Date > q.DateTo {
			continue
		}
		if !paymentMatches(l, q.PaymentFilter) {
			continue
		}
		if q.PartnerID != 0 {
			if l.PartnerID != q.PartnerID {
				continue
			}
			if q.UnreconciledOnly && l.Reconciled {
				continue
			}
		}
		debit, credit, balance := l.Debit, l.Credit, l.Balance
		if q.CashBasis {
			debit, credit, balance = l.DebitCashBasis, l.CreditCashBasis, l.BalanceCashBasis
		}
		e, ok := table[l.CompanyID]
		if !ok {
			e = ledger.RateEntry{Rate: 1, Precision: 2}
		}
		tot := out[l.PartnerID]
		tot.Debit += currency.RoundTo(debit*e.Rate, e.Precision)
		tot.Credit += currency.RoundTo(credit*e.Rate, e.Precision)
		tot.Balance += currency.RoundTo(balance*e.Rate, e.Precision)
		out[l.PartnerID] = tot
	}
	return out, nil
}

func (s *fakeStore) CountLines(ctx context.Context, d ledger.LineDomain) (int, error) {
	if s.failAll {
		return 0, errors.New("ledger unavailable")
	}
	count := 0
	for _, l := range s.lines {
		if s.matchesDomain(l, d) {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) FetchLines(ctx context.Context, d ledger.LineDomain, limit, offset int) ([]models.MoveLine, error) {
	if s.failAll {
		return nil, errors.New("ledger unavailable")
	}
	var matched []models.MoveLine
	for _, l := range s.lines {
		if s.matchesDomain(l, d) {
			matched = append(matched, l)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].ID < matched[j].ID
	})
	if limit <= 0 {
		return matched, nil
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *fakeStore) Partners(ctx context.Context, ids []int64) (map[int64]models.Partner, error) {
	out := make(map[int64]models.Partner)
	for _, id := range ids {
		if p, ok := s.partners[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *fakeStore) Companies(ctx context.Context) ([]models.Company, error) {
	return s.companies, nil
}

func (s *fakeStore) CompanyByID(ctx context.Context, id int64) (models.Company, error) {
	for _, c := range s.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Company{}, errors.New("company not found")
}

func (s *fakeStore) CurrencyByID(ctx context.Context, id int64) (models.Currency, error) {
	if c, ok := s.currencies[id]; ok {
		return c, nil
	}
	return models.Currency{}, errors.New("currency not found")
}

func (s *fakeStore) JournalsByType(ctx context.Context, journalType string) ([]models.Journal, error) {
	var out []models.Journal
	for _, j := range s.journals {
		if j.Type == journalType {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *fakeStore) SavedFilters(ctx context.Context, model string) ([]models.SavedFilter, error) {
	var out []models.SavedFilter
	for _, f := range s.filters {
		if f.Model == model {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeStore) RateAsOf(ctx context.Context, currencyID int64, asOf string) (float64, error) {
	if rate, ok := s.rates[currencyID]; ok {
		return rate, nil
	}
	return 1.0, nil
}

// newFixture builds the common scenario:
//
//	Alpha Traders (1): initial +100.00, period +50.00 in / -20.00 out
//	Beta Supplies (2): period +80.00 in
//	Zulu Imports  (3): initial -150.00 only
//	Omega Trading (4): initial nets to exactly zero, no period activity
func newFixture() *fakeStore {
	return &fakeStore{
		companies: []models.Company{
			{ID: 1, Name: "Main Co", CurrencyID: 1},
			{ID: 2, Name: "US Sub", CurrencyID: 2},
		},
		currencies: map[int64]models.Currency{
			1: {ID: 1, Code: "EUR", DecimalPlaces: 2, Rounding: 0.01},
			2: {ID: 2, Code: "USD", DecimalPlaces: 2, Rounding: 0.01},
		},
		journals: []models.Journal{
			{ID: 10, Name: "Cash", Code: "CSH1", Type: models.JournalTypeCash, CompanyID: 1},
		},
		partners: map[int64]models.Partner{
			1: {ID: 1, Name: "Alpha Traders", Trust: "normal"},
			2: {ID: 2, Name: "Beta Supplies", Trust: "normal"},
			3: {ID: 3, Name: "Zulu Imports", Trust: "normal"},
			4: {ID: 4, Name: "Omega Trading", Trust: "normal"},
		},
		filters: []models.SavedFilter{
			{ID: 1, Name: "All", Model: "account.move.line"},
			{ID: 2, Name: "Cash In", Model: "account.move.line"},
			{ID: 3, Name: "Cash Out", Model: "account.move.line"},
		},
		rates: map[int64]float64{1: 1.0, 2: 2.0}, // 1 USD = 0.50 EUR
		lines: []models.MoveLine{
			// Alpha, before the period
			{ID: 100, JournalID: 10, PartnerID: 1, PaymentID: 900, PaymentType: "inbound",
				CompanyID: 1, Date: "2023-12-15", Name: "CSH1/2023/090",
				Debit: 100, Balance: 100},
			// Alpha, in the period
			{ID: 101, JournalID: 10, PartnerID: 1, PaymentID: 901, PaymentType: "inbound",
				CompanyID: 1, Date: "2024-01-05", Name: "CSH1/2024/001",
				Debit: 50, Balance: 50},
			{ID: 102, JournalID: 10, PartnerID: 1, PaymentID: 902, PaymentType: "outbound",
				CompanyID: 1, Date: "2024-01-10", Name: "CSH1/2024/002",
				Credit: 20, Balance: -20},
			// Beta, in the period
			{ID: 201, JournalID: 10, PartnerID: 2, PaymentID: 903, PaymentType: "inbound",
				CompanyID: 1, Date: "2024-01-07", Name: "CSH1/2024/003",
				Debit: 80, Balance: 80},
			// Zulu, before the period only
			{ID: 300, JournalID: 10, PartnerID: 3, PaymentID: 904, PaymentType: "outbound",
				CompanyID: 1, Date: "2023-11-01", Name: "CSH1/2023/050",
				Credit: 150, Balance: -150},
			// Omega, before the period, nets to zero
			{ID: 400, JournalID: 10, PartnerID: 4, PaymentID: 905, PaymentType: "inbound",
				CompanyID: 1, Date: "2023-10-01", Debit: 30, Balance: 30},
			{ID: 401, JournalID: 10, PartnerID: 4, PaymentID: 906, PaymentType: "outbound",
				CompanyID: 1, Date: "2023-10-02", Credit: 30, Balance: -30},
		},
	}
}

func testReqCtx(s *fakeStore) RequestContext {
	return RequestContext{
		CompanyID:  1,
		CompanyIDs: []int64{1, 2},
		Currency:   s.currencies[1],
		Today:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testOptions(s *fakeStore) *Options {
	opts := &Options{
		Date:          DateRange{DateFrom: "2024-01-01", DateTo: "2024-12-31"},
		UnfoldedLines: []string{},
	}
	for _, j := range s.journals {
		opts.Journals = append(opts.Journals, JournalOption{ID: j.ID, Name: j.Name, Code: j.Code, Type: j.Type})
	}
	for _, f := range s.filters {
		opts.Filters = append(opts.Filters, FilterOption{ID: f.ID, Name: f.Name})
	}
	return opts
}

func newReport(s *fakeStore, pageSize int) *CashTransactionsReport {
	return NewCashTransactionsReport(s, currency.NewService(s), pageSize)
}

func parseAmount(t *testing.T, cell string) float64 {
	t.Helper()
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	require.NoError(t, err)
	return v
}

func findLine(lines []ReportLine, id string) *ReportLine {
	for i := range lines {
		if lines[i].ID == id {
			return &lines[i]
		}
	}
	return nil
}

func TestBuildLinesSummaryRows(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), testOptions(store), "")
	require.NoError(t, err)

	var ids []string
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	// Sorted by partner name; Omega excluded; total row last.
	assert.Equal(t, []string{"partner_1", "partner_2", "partner_3", "grouped_partners_total"}, ids)

	alpha := findLine(lines, "partner_1")
	require.NotNil(t, alpha)
	assert.Equal(t, "Alpha Traders", alpha.Name)
	assert.True(t, alpha.Unfoldable)
	assert.False(t, alpha.Unfolded)
	assert.Equal(t, 2, alpha.Level)
	require.Len(t, alpha.Columns, 6)
	assert.Equal(t, "100.00", alpha.Columns[2].Name) // initial balance
	assert.Equal(t, "50.00", alpha.Columns[3].Name)  // debit
	assert.Equal(t, "20.00", alpha.Columns[4].Name)  // credit
	assert.Equal(t, "130.00", alpha.Columns[5].Name) // ending balance

	zulu := findLine(lines, "partner_3")
	require.NotNil(t, zulu)
	assert.Equal(t, "-150.00", zulu.Columns[2].Name)
	assert.Equal(t, "0.00", zulu.Columns[3].Name)
	assert.Equal(t, "0.00", zulu.Columns[4].Name)
	assert.Equal(t, "-150.00", zulu.Columns[5].Name)

	total := findLine(lines, "grouped_partners_total")
	require.NotNil(t, total)
	assert.Equal(t, "Total", total.Name)
	assert.Equal(t, 0, total.Level)
	assert.Equal(t, "-50.00", total.Columns[2].Name)  // 100 + 0 - 150
	assert.Equal(t, "130.00", total.Columns[3].Name)  // 50 + 80
	assert.Equal(t, "20.00", total.Columns[4].Name)   // 20
	assert.Equal(t, "60.00", total.Columns[5].Name)   // 130 + 80 - 150
}

func TestBalanceIdentityPerPartner(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), testOptions(store), "")
	require.NoError(t, err)

	for _, l := range lines {
		if !l.Unfoldable {
			continue
		}
		initial := parseAmount(t, l.Columns[2].Name)
		debit := parseAmount(t, l.Columns[3].Name)
		credit := parseAmount(t, l.Columns[4].Name)
		balance := parseAmount(t, l.Columns[5].Name)
		assert.InDelta(t, initial+debit-credit, balance, 0.005, "partner row %s", l.ID)
	}
}

func TestGrandTotalMatchesPartnerBalances(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), testOptions(store), "")
	require.NoError(t, err)

	var sum float64
	for _, l := range lines {
		if l.Unfoldable {
			sum += parseAmount(t, l.Columns[5].Name)
		}
	}
	total := findLine(lines, "grouped_partners_total")
	require.NotNil(t, total)
	assert.InDelta(t, sum, parseAmount(t, total.Columns[5].Name), 0.005)
}

func TestUnfoldedDetailRows(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)
	opts := testOptions(store)
	opts.UnfoldedLines = []string{"partner_1"}

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), opts, "")
	require.NoError(t, err)

	alpha := findLine(lines, "partner_1")
	require.NotNil(t, alpha)
	assert.True(t, alpha.Unfolded)

	var details []ReportLine
	for _, l := range lines {
		if l.ParentID == "partner_1" {
			details = append(details, l)
		}
	}
	require.Len(t, details, 2)

	in := details[0]
	assert.Equal(t, "05-01-2024", in.Name)
	assert.Equal(t, "account.payment", in.CaretOptions)
	assert.Equal(t, 4, in.Level)
	require.Len(t, in.Columns, 6)
	assert.Equal(t, "CSH1/2024/001", in.Columns[1].Name)
	assert.Equal(t, "100.00", in.Columns[2].Name)
	assert.Equal(t, "50.00", in.Columns[3].Name)
	assert.Equal(t, "date", in.Columns[3].Class)
	assert.Equal(t, "", in.Columns[4].Name)
	assert.Equal(t, "150.00", in.Columns[5].Name) // running balance

	out := details[1]
	assert.Equal(t, "10-01-2024", out.Name)
	assert.Equal(t, "", out.Columns[3].Name)
	assert.Equal(t, "20.00", out.Columns[4].Name)
	assert.Equal(t, "130.00", out.Columns[5].Name)
}

func TestZeroActivityPartners(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), testOptions(store), "")
	require.NoError(t, err)

	// Zero-activity, non-zero initial balance: present with an empty line set.
	assert.NotNil(t, findLine(lines, "partner_3"))
	for _, l := range lines {
		assert.NotEqual(t, "partner_3", l.ParentID)
	}

	// Zero-activity, zero initial balance: absent entirely.
	assert.Nil(t, findLine(lines, "partner_4"))
}

func TestDirectionFilterInbound(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)
	opts := testOptions(store)
	for i := range opts.Filters {
		if opts.Filters[i].Name == "Cash In" {
			opts.Filters[i].Selected = true
		}
	}
	opts.UnfoldedLines = []string{"partner_1"}

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), opts, "")
	require.NoError(t, err)

	alpha := findLine(lines, "partner_1")
	require.NotNil(t, alpha)
	assert.Equal(t, "50.00", alpha.Columns[3].Name)
	assert.Equal(t, "0.00", alpha.Columns[4].Name) // outbound excluded

	// No detail row may carry an outbound payment: outbound rows populate
	// the credit column, which must stay empty under the inbound filter.
	for _, l := range lines {
		if l.ParentID == "partner_1" {
			assert.Equal(t, "", l.Columns[4].Name)
		}
	}
}

func TestPaginationAndRunningBalance(t *testing.T) {
	store := newFixture()
	// Replace Alpha's lines with five equal inbound receipts.
	store.lines = nil
	for i := 0; i < 5; i++ {
		store.lines = append(store.lines, models.MoveLine{
			ID: int64(101 + i), JournalID: 10, PartnerID: 1,
			PaymentID: int64(901 + i), PaymentType: "inbound",
			CompanyID: 1, Date: "2024-01-0" + strconv.Itoa(i+1),
			Name: "CSH1/2024/00" + strconv.Itoa(i+1), Debit: 10, Balance: 10,
		})
	}
	report := newReport(store, 2)
	reqCtx := testReqCtx(store)

	var detailIDs []string
	var progressCells []string

	opts := testOptions(store)
	opts.UnfoldedLines = []string{"partner_1"}
	// Follow-up pages echo the sentinel's own id back, as the host does.
	lineID := "partner_1"
	for page := 0; page < 10; page++ {
		lines, err := report.BuildLines(context.Background(), reqCtx, opts, lineID)
		require.NoError(t, err)

		if opts.LinesOffset == 0 {
			require.NotNil(t, findLine(lines, "partner_1"), "first page emits the group header")
		} else {
			assert.Nil(t, findLine(lines, "partner_1"), "later pages emit no group header")
		}
		// Drill-down requests never emit the grand total row.
		assert.Nil(t, findLine(lines, "grouped_partners_total"))

		for _, l := range lines {
			if l.ParentID == "partner_1" && !strings.HasPrefix(l.ID, "loadmore_") {
				detailIDs = append(detailIDs, l.ID)
				progressCells = append(progressCells, l.Columns[5].Name)
			}
		}

		more := findLine(lines, "loadmore_1")
		if more == nil {
			break
		}
		assert.Equal(t, opts.LinesOffset+2, more.Offset)
		assert.Equal(t, "partner_1", more.ParentID)
		assert.Contains(t, more.Name, "remaining")
		opts.LinesOffset = more.Offset
		progress := more.Progress
		opts.LinesProgress = &progress
		lineID = more.ID
	}
	assert.Equal(t, "loadmore_1", lineID, "sentinel id was followed at least once")

	// Pagination completeness: every line exactly once, in (date, id) order.
	assert.Equal(t, []string{"101", "102", "103", "104", "105"}, detailIDs)
	// Running balance continuity across pages.
	assert.Equal(t, []string{"10.00", "20.00", "30.00", "40.00", "50.00"}, progressCells)

	// A single print-mode request yields the identical running balance sequence.
	printOpts := testOptions(store)
	printOpts.PrintMode = true
	lines, err := report.BuildLines(context.Background(), reqCtx, printOpts, "partner_1")
	require.NoError(t, err)
	var printProgress []string
	for _, l := range lines {
		if l.ParentID == "partner_1" {
			printProgress = append(printProgress, l.Columns[5].Name)
		}
	}
	assert.Equal(t, progressCells, printProgress)
	assert.Nil(t, findLine(lines, "loadmore_1"))
}

func TestCurrencyConversionInSummary(t *testing.T) {
	store := newFixture()
	// Beta's receipt is booked by the US subsidiary in USD.
	for i := range store.lines {
		if store.lines[i].ID == 201 {
			store.lines[i].CompanyID = 2
			store.lines[i].Debit = 100
			store.lines[i].Balance = 100
		}
	}
	report := newReport(store, 80)
	opts := testOptions(store)
	opts.UnfoldedLines = []string{"partner_2"}

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), opts, "")
	require.NoError(t, err)

	beta := findLine(lines, "partner_2")
	require.NotNil(t, beta)
	assert.Equal(t, "50.00", beta.Columns[3].Name) // 100 USD at 0.50

	var detail *ReportLine
	for i := range lines {
		if lines[i].ParentID == "partner_2" {
			detail = &lines[i]
		}
	}
	require.NotNil(t, detail)
	assert.Equal(t, "50.00", detail.Columns[3].Name)
	assert.Equal(t, "50.00", detail.Columns[5].Name)
}

func TestDirectionlessLineRendersBlank(t *testing.T) {
	store := newFixture()
	// A period line with no payment link at all.
	store.lines = append(store.lines, models.MoveLine{
		ID: 103, JournalID: 10, PartnerID: 1, CompanyID: 1,
		Date: "2024-01-15", Name: "CSH1/2024/004", Debit: 5, Balance: 5,
	})
	report := newReport(store, 80)
	opts := testOptions(store)
	opts.UnfoldedLines = []string{"partner_1"}

	lines, err := report.BuildLines(context.Background(), testReqCtx(store), opts, "")
	require.NoError(t, err)

	blank := findLine(lines, "103")
	require.NotNil(t, blank)
	assert.Equal(t, "account.move", blank.CaretOptions)
	for i, col := range blank.Columns {
		assert.Equal(t, "", col.Name, "column %d", i)
	}
}

func TestBuildLinesStoreErrorPropagates(t *testing.T) {
	store := newFixture()
	store.failAll = true
	report := newReport(store, 80)

	_, err := report.BuildLines(context.Background(), testReqCtx(store), testOptions(store), "")
	assert.Error(t, err)
}

func TestResolveOptionsDefaults(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)

	opts, err := report.ResolveOptions(context.Background(), testReqCtx(store), nil)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", opts.Date.DateFrom)
	assert.Equal(t, "2024-12-31", opts.Date.DateTo)
	assert.Equal(t, "this_year", opts.Date.Filter)
	require.Len(t, opts.Journals, 1)
	assert.Equal(t, models.JournalTypeCash, opts.Journals[0].Type)
	require.Len(t, opts.Filters, 3)
	for _, f := range opts.Filters {
		assert.False(t, f.Selected)
	}
	assert.NotNil(t, opts.UnfoldedLines)
}

func TestResolveOptionsPreservesSelections(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)

	previous := &Options{
		Date:          DateRange{DateFrom: "2024-03-01", DateTo: "2024-03-31"},
		Journals:      []JournalOption{{ID: 10, Selected: true}},
		Filters:       []FilterOption{{ID: 3, Name: "Cash Out", Selected: true}},
		CashBasis:     true,
		UnfoldedLines: []string{"partner_1"},
		LinesOffset:   4,
	}
	opts, err := report.ResolveOptions(context.Background(), testReqCtx(store), previous)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", opts.Date.DateFrom)
	assert.True(t, opts.CashBasis)
	assert.Equal(t, []string{"partner_1"}, opts.UnfoldedLines)
	assert.Equal(t, 4, opts.LinesOffset)
	require.Len(t, opts.Journals, 1)
	assert.True(t, opts.Journals[0].Selected)
	for _, f := range opts.Filters {
		assert.Equal(t, f.ID == 3, f.Selected, "filter %s", f.Name)
	}
}

func TestQueryContextJournalScope(t *testing.T) {
	report := newReport(newFixture(), 80)

	opts := &Options{Journals: []JournalOption{{ID: 10}, {ID: 11}}}
	assert.Equal(t, []int64{10, 11}, report.QueryContext(opts).JournalIDs)

	opts.Journals[1].Selected = true
	assert.Equal(t, []int64{11}, report.QueryContext(opts).JournalIDs)
}

func TestSelectedPaymentFilterMapping(t *testing.T) {
	mk := func(name string, selected bool) *Options {
		return &Options{Filters: []FilterOption{{ID: 1, Name: name, Selected: selected}}}
	}
	assert.Equal(t, ledger.FilterInbound, selectedPaymentFilter(mk("Cash In", true)))
	assert.Equal(t, ledger.FilterOutbound, selectedPaymentFilter(mk("Cash Out", true)))
	assert.Equal(t, ledger.FilterAll, selectedPaymentFilter(mk("All", true)))
	assert.Equal(t, ledger.FilterNone, selectedPaymentFilter(mk("Cash In", false)))
}

func TestColumnHeaders(t *testing.T) {
	store := newFixture()
	report := newReport(store, 80)
	reqCtx := testReqCtx(store)

	headers := report.ColumnHeaders(reqCtx, &Options{})
	require.Len(t, headers, 7)
	assert.Equal(t, "Ref", headers[2].Name)
	assert.Equal(t, "Balance", headers[6].Name)

	reqCtx.MultiCurrency = true
	headers = report.ColumnHeaders(reqCtx, &Options{})
	require.Len(t, headers, 8)
	assert.Equal(t, "Balance", headers[7].Name)
}
