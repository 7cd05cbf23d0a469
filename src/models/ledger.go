package models

// Journal types recognised by the report layer. Only cash journals are
// queried by the cash transactions report.
const (
	JournalTypeCash     = "cash"
	JournalTypeBank     = "bank"
	JournalTypeSale     = "sale"
	JournalTypePurchase = "purchase"
	JournalTypeGeneral  = "general"
)

// Payment directions as stored on payments.payment_type.
const (
	PaymentInbound  = "inbound"
	PaymentOutbound = "outbound"
)

// Move states. Reports only ever read posted moves.
const (
	MoveStateDraft  = "draft"
	MoveStatePosted = "posted"
)

// Currency is a bookkeeping currency with its display precision.
// Rounding is the smallest representable amount (e.g. 0.01).
type Currency struct {
	ID            int64   `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	DecimalPlaces int     `json:"decimal_places"`
	Rounding      float64 `json:"rounding"`
}

// Company owns journals and ledger lines; each company books in one currency.
type Company struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CurrencyID int64  `json:"currency_id"`
}

// Journal is a posting book (cash drawer, bank account, ...).
type Journal struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Type      string `json:"type"`
	CompanyID int64  `json:"company_id"`
}

// Partner is a business partner (customer or supplier).
type Partner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Trust string `json:"trust"`
}

// Payment carries the cash direction for the move lines it settles.
type Payment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PaymentType string `json:"payment_type"` // "inbound" or "outbound"
}

// MoveLine is one posted debit/credit entry as read back from the ledger
// store, joined with the fields the report needs to render it.
type MoveLine struct {
	ID               int64   `json:"id"`
	MoveID           int64   `json:"move_id"`
	JournalID        int64   `json:"journal_id"`
	PartnerID        int64   `json:"partner_id"`
	PaymentID        int64   `json:"payment_id,omitempty"` // 0 when the line has no payment link
	PaymentType      string  `json:"payment_type,omitempty"`
	CompanyID        int64   `json:"company_id"`
	Date             string  `json:"date"` // YYYY-MM-DD
	Name             string  `json:"name"`
	MoveName         string  `json:"move_name"`
	MoveRef          string  `json:"move_ref"`
	Debit            float64 `json:"debit"`
	Credit           float64 `json:"credit"`
	Balance          float64 `json:"balance"`
	DebitCashBasis   float64 `json:"debit_cash_basis"`
	CreditCashBasis  float64 `json:"credit_cash_basis"`
	BalanceCashBasis float64 `json:"balance_cash_basis"`
	Reconciled       bool    `json:"reconciled"`
}

// SavedFilter is a reusable filter definition scoped to a model, mirroring
// the host framework's filter registry.
type SavedFilter struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Model  string `json:"model"`
	Domain string `json:"domain"`
}
