// backend/src/reports/format.go
package reports

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatValue renders a monetary amount with thousands separators and a
// fixed number of decimals, e.g. FormatValue(-1234.5, 2) == "-1,234.50".
func FormatValue(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}
	b.WriteString(fracPart)
	return b.String()
}

// FormatDate renders a stored YYYY-MM-DD date as DD-MM-YYYY for display.
// Unparseable values pass through unchanged.
func FormatDate(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("02-01-2006")
}

// FormatLineName joins the line label with its move reference and move name,
// skipping empty values and the "/" placeholder.
func FormatLineName(lineName, moveRef, moveName string) string {
	var parts []string
	for _, p := range []string{lineName, moveRef, moveName} {
		if p != "" && p != "/" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// IsZero reports whether an amount is zero within a currency's rounding
// precision (e.g. rounding 0.01 treats |v| < 0.005 as zero).
func IsZero(v, rounding float64) bool {
	if rounding <= 0 {
		return v == 0
	}
	return math.Abs(v) < rounding/2
}

// ParseGroupLineID extracts the partner id from a "partner_<id>" group row id
// or a "loadmore_<id>" pagination sentinel. The host echoes either id back
// verbatim on drill-down requests; both resolve to the same partner group.
func ParseGroupLineID(lineID string) (int64, error) {
	rest, ok := strings.CutPrefix(lineID, "partner_")
	if !ok {
		rest, ok = strings.CutPrefix(lineID, "loadmore_")
	}
	if !ok {
		return 0, fmt.Errorf("reports: malformed group line id %q", lineID)
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reports: malformed group line id %q: %w", lineID, err)
	}
	return id, nil
}
