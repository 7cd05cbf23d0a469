// backend/src/ledger/sqlite.go
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/username/cashledger/backend/src/models"
)

// SQLiteStore implements Store over the application database. It holds no
// state besides the connection; every call is a fresh query.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// placeholders returns "?, ?, ..." for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(", ?", n)[2:]
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// currencyTableCTE renders the synthesized conversion table as a VALUES CTE:
// WITH currency_table(company_id, rate, precision) AS (VALUES (?, ?, ?), ...)
func currencyTableCTE(entries []RateEntry) (string, []any) {
	if len(entries) == 0 {
		// Degenerate single identity row keeps the join shape valid.
		return "WITH currency_table(company_id, rate, precision) AS (VALUES (?, ?, ?))",
			[]any{int64(0), 1.0, 2}
	}
	rows := make([]string, len(entries))
	args := make([]any, 0, len(entries)*3)
	for i, e := range entries {
		rows[i] = "(?, ?, ?)"
		args = append(args, e.CompanyID, e.Rate, e.Precision)
	}
	return "WITH currency_table(company_id, rate, precision) AS (VALUES " + strings.Join(rows, ", ") + ")", args
}

// aggregationSQL builds the partner-grouped sum query. Amounts are multiplied
// by the per-company rate and rounded per line inside the SUM, so rounding
// happens in display precision against source-company amounts.
func aggregationSQL(q AggregationQuery) (string, []any, error) {
	if len(q.JournalIDs) == 0 {
		return "", nil, ErrEmptyJournalScope
	}

	debitField, creditField, balanceField := "debit", "credit", "balance"
	if q.CashBasis {
		debitField, creditField, balanceField = "debit_cash_basis", "credit_cash_basis", "balance_cash_basis"
	}

	cte, args := currencyTableCTE(q.CurrencyTable)

	var b strings.Builder
	b.WriteString(cte)
	b.WriteString(`
SELECT l.partner_id,
       SUM(ROUND(l.` + debitField + ` * currency_table.rate, currency_table.precision)) AS debit,
       SUM(ROUND(l.` + creditField + ` * currency_table.rate, currency_table.precision)) AS credit,
       SUM(ROUND(l.` + balanceField + ` * currency_table.rate, currency_table.precision)) AS balance
FROM account_move_lines l
JOIN account_moves m ON m.id = l.move_id
LEFT JOIN currency_table ON currency_table.company_id = l.company_id
WHERE m.state = ?
  AND l.partner_id IS NOT NULL
  AND l.journal_id IN (` + placeholders(len(q.JournalIDs)) + `)`)
	args = append(args, models.MoveStatePosted)
	args = append(args, int64Args(q.JournalIDs)...)

	if len(q.CompanyIDs) > 0 {
		b.WriteString(`
  AND l.company_id IN (` + placeholders(len(q.CompanyIDs)) + `)`)
		args = append(args, int64Args(q.CompanyIDs)...)
	}
	if q.DateFrom != "" {
		b.WriteString(`
  AND l.line_date >= ?`)
		args = append(args, q.DateFrom)
	}
	if q.DateTo != "" {
		b.WriteString(`
  AND l.line_date <= ?`)
		args = append(args, q.DateTo)
	}

	switch q.PaymentFilter {
	case FilterInbound, FilterOutbound:
		b.WriteString(`
  AND l.payment_id IN (SELECT id FROM payments WHERE payment_type = ?)`)
		args = append(args, string(q.PaymentFilter))
	case FilterAll:
		b.WriteString(`
  AND l.payment_id IN (SELECT id FROM payments WHERE payment_type IN (?, ?))`)
		args = append(args, models.PaymentInbound, models.PaymentOutbound)
	}

	if q.PartnerID != 0 {
		b.WriteString(`
  AND l.partner_id = ?`)
		args = append(args, q.PartnerID)
		if q.UnreconciledOnly {
			b.WriteString(`
  AND l.full_reconcile_id IS NULL`)
		}
	}

	b.WriteString(`
GROUP BY l.partner_id`)
	return b.String(), args, nil
}

// lineDomainWhere renders the WHERE clause shared by CountLines and
// FetchLines. Both calls must see the same domain.
func lineDomainWhere(d LineDomain) (string, []any, error) {
	if len(d.JournalIDs) == 0 {
		return "", nil, ErrEmptyJournalScope
	}

	var b strings.Builder
	b.WriteString(`m.state = ?
  AND l.partner_id = ?
  AND l.journal_id IN (` + placeholders(len(d.JournalIDs)) + `)`)
	args := []any{models.MoveStatePosted, d.PartnerID}
	args = append(args, int64Args(d.JournalIDs)...)

	if len(d.CompanyIDs) > 0 {
		b.WriteString(`
  AND l.company_id IN (` + placeholders(len(d.CompanyIDs)) + `)`)
		args = append(args, int64Args(d.CompanyIDs)...)
	}
	if d.DateFrom != "" {
		b.WriteString(`
  AND l.line_date >= ?`)
		args = append(args, d.DateFrom)
	}
	if d.DateTo != "" {
		b.WriteString(`
  AND l.line_date <= ?`)
		args = append(args, d.DateTo)
	}

	switch d.PaymentFilter {
	case FilterInbound, FilterOutbound:
		b.WriteString(`
  AND l.payment_id IN (SELECT id FROM payments WHERE payment_type = ?)`)
		args = append(args, string(d.PaymentFilter))
	case FilterAll:
		b.WriteString(`
  AND l.payment_id IN (SELECT id FROM payments WHERE payment_type IN (?, ?))`)
		args = append(args, models.PaymentInbound, models.PaymentOutbound)
	}
	return b.String(), args, nil
}

func (s *SQLiteStore) AggregateByPartner(ctx context.Context, q AggregationQuery) (map[int64]Totals, error) {
	query, args, err := aggregationSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: partner aggregation: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]Totals)
	for rows.Next() {
		var partnerID int64
		var t Totals
		if err := rows.Scan(&partnerID, &t.Debit, &t.Credit, &t.Balance); err != nil {
			return nil, fmt.Errorf("ledger: scanning aggregation row: %w", err)
		}
		result[partnerID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating aggregation rows: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) CountLines(ctx context.Context, d LineDomain) (int, error) {
	where, args, err := lineDomainWhere(d)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*)
FROM account_move_lines l
JOIN account_moves m ON m.id = l.move_id
WHERE ` + where
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ledger: counting lines: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) FetchLines(ctx context.Context, d LineDomain, limit, offset int) ([]models.MoveLine, error) {
	where, args, err := lineDomainWhere(d)
	if err != nil {
		return nil, err
	}
	query := `SELECT l.id, l.move_id, l.journal_id, l.partner_id,
       COALESCE(l.payment_id, 0), COALESCE(p.payment_type, ''),
       l.company_id, l.line_date, l.name, m.name, m.ref,
       l.debit, l.credit, l.balance,
       l.debit_cash_basis, l.credit_cash_basis, l.balance_cash_basis,
       l.full_reconcile_id IS NOT NULL
FROM account_move_lines l
JOIN account_moves m ON m.id = l.move_id
LEFT JOIN payments p ON p.id = l.payment_id
WHERE ` + where + `
ORDER BY l.line_date, l.id`
	if limit > 0 {
		query += `
LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: fetching lines: %w", err)
	}
	defer rows.Close()

	var lines []models.MoveLine
	for rows.Next() {
		var l models.MoveLine
		if err := rows.Scan(
			&l.ID, &l.MoveID, &l.JournalID, &l.PartnerID,
			&l.PaymentID, &l.PaymentType,
			&l.CompanyID, &l.Date, &l.Name, &l.MoveName, &l.MoveRef,
			&l.Debit, &l.Credit, &l.Balance,
			&l.DebitCashBasis, &l.CreditCashBasis, &l.BalanceCashBasis,
			&l.Reconciled,
		); err != nil {
			return nil, fmt.Errorf("ledger: scanning line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating lines: %w", err)
	}
	return lines, nil
}

func (s *SQLiteStore) Partners(ctx context.Context, ids []int64) (map[int64]models.Partner, error) {
	result := make(map[int64]models.Partner)
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT id, name, trust FROM partners WHERE id IN (` + placeholders(len(ids)) + `)`
	rows, err := s.db.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("ledger: fetching partners: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Trust); err != nil {
			return nil, fmt.Errorf("ledger: scanning partner: %w", err)
		}
		result[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating partners: %w", err)
	}
	return result, nil
}

func (s *SQLiteStore) Companies(ctx context.Context) ([]models.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, currency_id FROM companies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ledger: fetching companies: %w", err)
	}
	defer rows.Close()
	var companies []models.Company
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CurrencyID); err != nil {
			return nil, fmt.Errorf("ledger: scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating companies: %w", err)
	}
	return companies, nil
}

func (s *SQLiteStore) CompanyByID(ctx context.Context, id int64) (models.Company, error) {
	var c models.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, currency_id FROM companies WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.CurrencyID)
	if err != nil {
		return models.Company{}, fmt.Errorf("ledger: fetching company %d: %w", id, err)
	}
	return c, nil
}

func (s *SQLiteStore) CurrencyByID(ctx context.Context, id int64) (models.Currency, error) {
	var c models.Currency
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, decimal_places, rounding FROM currencies WHERE id = ?`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.DecimalPlaces, &c.Rounding)
	if err != nil {
		return models.Currency{}, fmt.Errorf("ledger: fetching currency %d: %w", id, err)
	}
	return c, nil
}

func (s *SQLiteStore) JournalsByType(ctx context.Context, journalType string) ([]models.Journal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, code, type, company_id FROM journals WHERE type = ? ORDER BY id`, journalType)
	if err != nil {
		return nil, fmt.Errorf("ledger: fetching journals: %w", err)
	}
	defer rows.Close()
	var journals []models.Journal
	for rows.Next() {
		var j models.Journal
		if err := rows.Scan(&j.ID, &j.Name, &j.Code, &j.Type, &j.CompanyID); err != nil {
			return nil, fmt.Errorf("ledger: scanning journal: %w", err)
		}
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating journals: %w", err)
	}
	return journals, nil
}

func (s *SQLiteStore) SavedFilters(ctx context.Context, model string) ([]models.SavedFilter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, model, domain FROM saved_filters WHERE model = ? ORDER BY id`, model)
	if err != nil {
		return nil, fmt.Errorf("ledger: fetching saved filters: %w", err)
	}
	defer rows.Close()
	var filters []models.SavedFilter
	for rows.Next() {
		var f models.SavedFilter
		if err := rows.Scan(&f.ID, &f.Name, &f.Model, &f.Domain); err != nil {
			return nil, fmt.Errorf("ledger: scanning saved filter: %w", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: iterating saved filters: %w", err)
	}
	return filters, nil
}

// RateAsOf returns the latest stored rate for a currency on or before asOf.
// Rates are expressed as units of the currency per unit of the reference
// currency; currencies with no stored rate default to 1.0.
func (s *SQLiteStore) RateAsOf(ctx context.Context, currencyID int64, asOf string) (float64, error) {
	var rate float64
	err := s.db.QueryRowContext(ctx,
		`SELECT rate FROM currency_rates
 WHERE currency_id = ? AND rate_date <= ?
 ORDER BY rate_date DESC, id DESC
 LIMIT 1`, currencyID, asOf,
	).Scan(&rate)
	if err == sql.ErrNoRows {
		return 1.0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledger: fetching rate for currency %d: %w", currencyID, err)
	}
	return rate, nil
}
