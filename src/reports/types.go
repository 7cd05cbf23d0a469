// backend/src/reports/types.go
package reports

import (
	"time"

	"github.com/username/cashledger/backend/src/models"
)

// Column is both a header cell and a body cell of the rendered report table.
type Column struct {
	Name  string `json:"name"`
	Class string `json:"class,omitempty"`
	Style string `json:"style,omitempty"`
}

// DateRange is the report period. Dates are YYYY-MM-DD, both bounds inclusive.
type DateRange struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Filter   string `json:"filter,omitempty"` // e.g. "this_year"
}

// JournalOption is one selectable journal in the options panel.
type JournalOption struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Type     string `json:"type"`
	Selected bool   `json:"selected"`
}

// FilterOption is one reusable filter from the saved-filter registry.
type FilterOption struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Selected bool   `json:"selected"`
}

// Options is the full filter state of one report request. The pagination
// cursor (LinesOffset, LinesProgress) is client-carried: the server is
// stateless across pages and the client must echo these values back
// unchanged when following a load-more row.
type Options struct {
	Date          DateRange       `json:"date"`
	Journals      []JournalOption `json:"journals"`
	Filters       []FilterOption  `json:"ir_filters"`
	CashBasis     bool            `json:"cash_basis"`
	PrintMode     bool            `json:"print_mode"`
	UnfoldedLines []string        `json:"unfolded_lines"`
	LinesOffset   int             `json:"lines_offset"`
	LinesProgress *float64        `json:"lines_progress,omitempty"`
}

// ReportLine is one row of the rendered line tree. IDs follow the wire
// convention the host parses back: "partner_<id>" for group rows,
// "loadmore_<partnerId>" for pagination sentinels, plain line ids for
// detail rows.
type ReportLine struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ParentID     string   `json:"parent_id,omitempty"`
	Columns      []Column `json:"columns"`
	Level        int      `json:"level"`
	Class        string   `json:"class,omitempty"`
	Trust        string   `json:"trust,omitempty"`
	Unfoldable   bool     `json:"unfoldable,omitempty"`
	Unfolded     bool     `json:"unfolded,omitempty"`
	CaretOptions string   `json:"caret_options,omitempty"`
	Colspan      int      `json:"colspan,omitempty"`
	Offset       int      `json:"offset,omitempty"`
	Progress     float64  `json:"progress,omitempty"`
}

// RequestContext is the explicit per-request scope every operation receives:
// which companies are visible, which currency amounts are displayed in, and
// what "today" is for rate lookups. Nothing here is ambient.
type RequestContext struct {
	CompanyID     int64           // requesting user's company
	CompanyIDs    []int64         // visible company scope
	Currency      models.Currency // display currency
	MultiCurrency bool            // adds the extra currency column
	Today         time.Time
}

// QueryScope is what QueryContext derives from resolved options before any
// querying happens: the effective journal set and strict date-range handling.
type QueryScope struct {
	JournalIDs  []int64
	StrictRange bool
}
