// backend/src/reports/cash_transactions.go
package reports

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/username/cashledger/backend/src/currency"
	"github.com/username/cashledger/backend/src/ledger"
	"github.com/username/cashledger/backend/src/models"
)

// savedFilterModel scopes the reusable-filter registry lookup.
const savedFilterModel = "account.move.line"

// CashTransactionsReport aggregates cash-journal ledger lines by partner:
// per-partner initial balance, period debit/credit totals and a paginated,
// running-balance-ordered list of transaction lines, all normalized into the
// requesting company's currency.
type CashTransactionsReport struct {
	store    ledger.Store
	fx       *currency.Service
	pageSize int
}

func NewCashTransactionsReport(store ledger.Store, fx *currency.Service, pageSize int) *CashTransactionsReport {
	if pageSize <= 0 {
		pageSize = 80
	}
	return &CashTransactionsReport{store: store, fx: fx, pageSize: pageSize}
}

func (r *CashTransactionsReport) ReportName() string {
	return "Cash Transactions Report"
}

func (r *CashTransactionsReport) ColumnHeaders(reqCtx RequestContext, opts *Options) []Column {
	columns := []Column{
		{},
		{},
		{Name: "Ref", Style: "text-align: left;"},
		{Name: "Initial Balance", Class: "number"},
		{Name: "Debit", Class: "number"},
		{Name: "Credit", Class: "number"},
	}
	if reqCtx.MultiCurrency {
		columns = append(columns, Column{})
	}
	columns = append(columns, Column{Name: "Balance", Class: "number"})
	return columns
}

// ResolveOptions merges defaults with the previous request's options. Only
// cash journals are offered; the saved-filter list is re-read every time with
// the previously selected filter kept selected.
func (r *CashTransactionsReport) ResolveOptions(ctx context.Context, reqCtx RequestContext, previous *Options) (*Options, error) {
	opts := &Options{UnfoldedLines: []string{}}
	if previous != nil {
		opts.Date = previous.Date
		opts.CashBasis = previous.CashBasis
		opts.PrintMode = previous.PrintMode
		opts.LinesOffset = previous.LinesOffset
		opts.LinesProgress = previous.LinesProgress
		if previous.UnfoldedLines != nil {
			opts.UnfoldedLines = previous.UnfoldedLines
		}
	}
	if opts.Date.DateFrom == "" || opts.Date.DateTo == "" {
		year := reqCtx.Today.Year()
		opts.Date = DateRange{
			DateFrom: fmt.Sprintf("%04d-01-01", year),
			DateTo:   fmt.Sprintf("%04d-12-31", year),
			Filter:   "this_year",
		}
	}

	selectedJournals := make(map[int64]bool)
	if previous != nil {
		for _, j := range previous.Journals {
			if j.Selected {
				selectedJournals[j.ID] = true
			}
		}
	}
	journals, err := r.store.JournalsByType(ctx, models.JournalTypeCash)
	if err != nil {
		return nil, err
	}
	opts.Journals = make([]JournalOption, 0, len(journals))
	for _, j := range journals {
		opts.Journals = append(opts.Journals, JournalOption{
			ID:       j.ID,
			Name:     j.Name,
			Code:     j.Code,
			Type:     j.Type,
			Selected: selectedJournals[j.ID],
		})
	}

	var selectedFilterID int64
	if previous != nil {
		for _, f := range previous.Filters {
			if f.Selected {
				selectedFilterID = f.ID
				break
			}
		}
	}
	filters, err := r.store.SavedFilters(ctx, savedFilterModel)
	if err != nil {
		return nil, err
	}
	opts.Filters = make([]FilterOption, 0, len(filters))
	for _, f := range filters {
		opts.Filters = append(opts.Filters, FilterOption{
			ID:       f.ID,
			Name:     f.Name,
			Domain:   f.Domain,
			Selected: f.ID == selectedFilterID,
		})
	}

	return opts, nil
}

// QueryContext narrows the resolved options to the effective journal scope:
// the explicitly selected cash journals, or all of them when none is
// selected. Date bounds are always strict.
func (r *CashTransactionsReport) QueryContext(opts *Options) QueryScope {
	var selected, all []int64
	for _, j := range opts.Journals {
		all = append(all, j.ID)
		if j.Selected {
			selected = append(selected, j.ID)
		}
	}
	if len(selected) > 0 {
		return QueryScope{JournalIDs: selected, StrictRange: true}
	}
	return QueryScope{JournalIDs: all, StrictRange: true}
}

// selectedPaymentFilter maps the active saved filter to a payment-direction
// constraint. Any selected filter other than Cash In / Cash Out behaves as
// "has a payment link of either direction"; no selection applies no
// payment constraint.
func selectedPaymentFilter(opts *Options) ledger.PaymentFilter {
	for _, f := range opts.Filters {
		if !f.Selected {
			continue
		}
		switch f.Name {
		case "Cash In":
			return ledger.FilterInbound
		case "Cash Out":
			return ledger.FilterOutbound
		default:
			return ledger.FilterAll
		}
	}
	return ledger.FilterNone
}

// buildCurrencyTable computes, for every company, the conversion rate from
// that company's currency to the display currency as of "today". The rate is
// deliberately not historical per line (a documented limitation carried over
// from the report's origin). Precision is uniformly the display currency's
// decimal places. Also returns the per-company currency map the line loop
// needs for per-line conversion.
func (r *CashTransactionsReport) buildCurrencyTable(ctx context.Context, reqCtx RequestContext) ([]ledger.RateEntry, map[int64]models.Currency, error) {
	companies, err := r.store.Companies(ctx)
	if err != nil {
		return nil, nil, err
	}

	currencies := map[int64]models.Currency{reqCtx.Currency.ID: reqCtx.Currency}
	companyCurrencies := make(map[int64]models.Currency, len(companies))
	entries := make([]ledger.RateEntry, 0, len(companies))
	for _, c := range companies {
		cur, ok := currencies[c.CurrencyID]
		if !ok {
			cur, err = r.store.CurrencyByID(ctx, c.CurrencyID)
			if err != nil {
				return nil, nil, err
			}
			currencies[cur.ID] = cur
		}
		companyCurrencies[c.ID] = cur

		rate := 1.0
		if cur.ID != reqCtx.Currency.ID {
			rate, err = r.fx.Rate(ctx, cur, reqCtx.Currency, reqCtx.Today)
			if err != nil {
				return nil, nil, err
			}
		}
		entries = append(entries, ledger.RateEntry{
			CompanyID: c.ID,
			Rate:      rate,
			Precision: reqCtx.Currency.DecimalPlaces,
		})
	}
	return entries, companyCurrencies, nil
}

func (r *CashTransactionsReport) aggregateByPartner(ctx context.Context, reqCtx RequestContext, opts *Options, journalIDs []int64, table []ledger.RateEntry, dateFrom, dateTo string, partnerID int64) (map[int64]ledger.Totals, error) {
	return r.store.AggregateByPartner(ctx, ledger.AggregationQuery{
		JournalIDs:    journalIDs,
		CompanyIDs:    reqCtx.CompanyIDs,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		CashBasis:     opts.CashBasis,
		PaymentFilter: selectedPaymentFilter(opts),
		PartnerID:     partnerID,
		// Single-partner drill-downs only consider lines whose payment is
		// not yet reconciled, in both the period and opening aggregates.
		UnreconciledOnly: partnerID != 0,
		CurrencyTable:    table,
	})
}

// partnerGroup is one partner's aggregate plus the current page of lines.
type partnerGroup struct {
	totals     ledger.Totals // period figures; Balance includes the initial balance
	initial    ledger.Totals
	totalLines int
	lines      []models.MoveLine
}

// groupByPartner computes the period and initial-balance aggregates and
// attaches the line page for every partner with activity. Partners without
// period activity are kept only when their initial balance is non-zero
// within the display currency's rounding.
func (r *CashTransactionsReport) groupByPartner(ctx context.Context, reqCtx RequestContext, opts *Options, table []ledger.RateEntry, partnerID int64) (map[int64]*partnerGroup, error) {
	journalIDs := r.QueryContext(opts).JournalIDs
	dateFrom, dateTo := opts.Date.DateFrom, opts.Date.DateTo

	results, err := r.aggregateByPartner(ctx, reqCtx, opts, journalIDs, table, dateFrom, dateTo, partnerID)
	if err != nil {
		return nil, err
	}

	initialTo, err := dayBefore(dateFrom)
	if err != nil {
		return nil, err
	}
	initialResults, err := r.aggregateByPartner(ctx, reqCtx, opts, journalIDs, table, "", initialTo, partnerID)
	if err != nil {
		return nil, err
	}

	groups := make(map[int64]*partnerGroup, len(results))
	for pid, totals := range results {
		g := &partnerGroup{totals: totals, initial: initialResults[pid]}
		g.totals.Balance += g.initial.Balance

		domain := ledger.LineDomain{
			PartnerID:     pid,
			JournalIDs:    journalIDs,
			CompanyIDs:    reqCtx.CompanyIDs,
			DateFrom:      dateFrom,
			DateTo:        dateTo,
			PaymentFilter: selectedPaymentFilter(opts),
		}
		if !opts.PrintMode {
			g.totalLines, err = r.store.CountLines(ctx, domain)
			if err != nil {
				return nil, err
			}
			g.lines, err = r.store.FetchLines(ctx, domain, r.pageSize, opts.LinesOffset)
			if err != nil {
				return nil, err
			}
		} else {
			g.lines, err = r.store.FetchLines(ctx, domain, 0, 0)
			if err != nil {
				return nil, err
			}
		}
		groups[pid] = g
	}

	// Partners with an initial balance but no activity in the period.
	for pid, initial := range initialResults {
		if _, ok := groups[pid]; ok {
			continue
		}
		if IsZero(initial.Balance, reqCtx.Currency.Rounding) {
			continue
		}
		groups[pid] = &partnerGroup{
			initial: initial,
			totals:  ledger.Totals{Balance: initial.Balance},
		}
	}

	return groups, nil
}

func dayBefore(isoDate string) (string, error) {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return "", fmt.Errorf("reports: invalid date_from %q: %w", isoDate, err)
	}
	return t.AddDate(0, 0, -1).Format("2006-01-02"), nil
}

// BuildLines renders the ordered line tree: partner summary rows sorted by
// display name, detail rows for unfolded groups with a running balance,
// load-more sentinels when a page is incomplete, and a grand-total row on
// top-level requests.
func (r *CashTransactionsReport) BuildLines(ctx context.Context, reqCtx RequestContext, opts *Options, lineID string) ([]ReportLine, error) {
	offset := opts.LinesOffset

	var partnerID int64
	if lineID != "" {
		pid, err := ParseGroupLineID(lineID)
		if err != nil {
			return nil, err
		}
		partnerID = pid
	}

	table, companyCurrencies, err := r.buildCurrencyTable(ctx, reqCtx)
	if err != nil {
		return nil, err
	}

	groups, err := r.groupByPartner(ctx, reqCtx, opts, table, partnerID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(groups))
	for pid := range groups {
		ids = append(ids, pid)
	}
	partners, err := r.store.Partners(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool {
		ni, nj := partners[ids[i]].Name, partners[ids[j]].Name
		if ni != nj {
			return ni < nj
		}
		return ids[i] < ids[j]
	})

	unfoldAll := opts.PrintMode && len(opts.UnfoldedLines) == 0
	precision := reqCtx.Currency.DecimalPlaces

	var lines []ReportLine
	var totalInitial, totalDebit, totalCredit, totalBalance float64

	for _, pid := range ids {
		g := groups[pid]
		partner := partners[pid]
		initialBalance := g.initial.Balance
		debit, credit, balance := g.totals.Debit, g.totals.Credit, g.totals.Balance

		// Grand totals accumulate across every partner, folded or not.
		totalInitial += initialBalance
		totalDebit += debit
		totalCredit += credit
		totalBalance += balance

		groupID := "partner_" + strconv.FormatInt(pid, 10)
		isUnfolded := unfoldAll || slices.Contains(opts.UnfoldedLines, groupID)

		// Only the first page emits the group header.
		if offset == 0 {
			columns := []Column{
				{}, {},
				{Name: FormatValue(initialBalance, precision)},
				{Name: FormatValue(debit, precision)},
				{Name: FormatValue(credit, precision)},
			}
			if reqCtx.MultiCurrency {
				columns = append(columns, Column{})
			}
			columns = append(columns, Column{Name: FormatValue(balance, precision)})
			lines = append(lines, ReportLine{
				ID:         groupID,
				Name:       partner.Name,
				Columns:    columns,
				Level:      2,
				Trust:      partner.Trust,
				Unfoldable: true,
				Unfolded:   isUnfolded,
			})
		}

		if !isUnfolded {
			continue
		}

		// Running balance: starts at the initial balance on the first page
		// and continues from the client-carried progress value afterwards.
		progress := initialBalance
		if offset > 0 && opts.LinesProgress != nil {
			progress = *opts.LinesProgress
		}

		remaining := 0
		if !opts.PrintMode {
			remaining = g.totalLines - offset - len(g.lines)
		}

		for _, line := range g.lines {
			lineDebit, lineCredit := line.Debit, line.Credit
			if opts.CashBasis {
				lineDebit, lineCredit = line.DebitCashBasis, line.CreditCashBasis
			}

			lineCurrency, ok := companyCurrencies[line.CompanyID]
			if !ok {
				lineCurrency = reqCtx.Currency
			}
			lineDebit, err = r.fx.Convert(ctx, lineDebit, lineCurrency, reqCtx.Currency, reqCtx.Today)
			if err != nil {
				return nil, err
			}
			lineCredit, err = r.fx.Convert(ctx, lineCredit, lineCurrency, reqCtx.Currency, reqCtx.Today)
			if err != nil {
				return nil, err
			}

			progress += lineDebit - lineCredit

			caret := "account.move"
			if line.PaymentID != 0 {
				caret = "account.payment"
			}

			var columns []Column
			switch {
			case line.PaymentID != 0 && line.PaymentType == models.PaymentInbound:
				debitCell := ""
				if lineDebit != 0 {
					debitCell = FormatValue(lineDebit, precision)
				}
				columns = []Column{
					{},
					{Name: FormatLineName(line.Name, line.MoveRef, line.MoveName)},
					{Name: FormatValue(initialBalance, precision)},
					{Name: debitCell},
					{},
				}
				if reqCtx.MultiCurrency {
					columns = append(columns, Column{})
				}
				columns = append(columns, Column{Name: FormatValue(progress, precision)})
			case line.PaymentID != 0 && line.PaymentType == models.PaymentOutbound:
				creditCell := ""
				if lineCredit != 0 {
					creditCell = FormatValue(lineCredit, precision)
				}
				columns = []Column{
					{},
					{Name: FormatLineName(line.Name, line.MoveRef, line.MoveName)},
					{Name: FormatValue(initialBalance, precision)},
					{},
					{Name: creditCell},
				}
				if reqCtx.MultiCurrency {
					columns = append(columns, Column{})
				}
				columns = append(columns, Column{Name: FormatValue(progress, precision)})
			default:
				// No payment link or unknown direction: blank row.
				columns = []Column{{}, {}, {}, {}, {}}
				if reqCtx.MultiCurrency {
					columns = append(columns, Column{})
				}
				columns = append(columns, Column{})
			}
			columns[3].Class = "date"

			lines = append(lines, ReportLine{
				ID:           strconv.FormatInt(line.ID, 10),
				ParentID:     groupID,
				Name:         FormatDate(line.Date),
				Class:        "date",
				Columns:      columns,
				CaretOptions: caret,
				Level:        4,
			})
		}

		if remaining > 0 {
			colspan := 9
			if reqCtx.MultiCurrency {
				colspan = 10
			}
			lines = append(lines, ReportLine{
				ID:       "loadmore_" + strconv.FormatInt(pid, 10),
				ParentID: groupID,
				Name:     fmt.Sprintf("Load more... (%d remaining)", remaining),
				Class:    "o_account_reports_load_more text-center",
				Columns:  []Column{{}},
				Colspan:  colspan,
				Offset:   offset + r.pageSize,
				Progress: progress,
			})
		}
	}

	if lineID == "" {
		columns := []Column{
			{}, {},
			{Name: FormatValue(totalInitial, precision)},
			{Name: FormatValue(totalDebit, precision)},
			{Name: FormatValue(totalCredit, precision)},
		}
		if reqCtx.MultiCurrency {
			columns = append(columns, Column{})
		}
		columns = append(columns, Column{Name: FormatValue(totalBalance, precision)})
		lines = append(lines, ReportLine{
			ID:      "grouped_partners_total",
			Name:    "Total",
			Level:   0,
			Class:   "o_account_reports_domain_total",
			Columns: columns,
		})
	}

	return lines, nil
}
