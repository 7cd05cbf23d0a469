// backend/src/reports/strategy.go
package reports

import "context"

// ReportStrategy is the contract a concrete report satisfies to be rendered
// by the generic report host. The host owns transport, authentication and
// persistence of options between requests; the strategy owns semantics.
type ReportStrategy interface {
	// ReportName returns the human-readable report title.
	ReportName() string

	// ColumnHeaders returns the column metadata for the current options.
	ColumnHeaders(reqCtx RequestContext, opts *Options) []Column

	// ResolveOptions merges defaults with a previous request's options,
	// preserving user selections across requests.
	ResolveOptions(ctx context.Context, reqCtx RequestContext, previous *Options) (*Options, error)

	// QueryContext derives the effective query scope from resolved options.
	QueryContext(opts *Options) QueryScope

	// BuildLines renders the ordered line tree. lineID is empty for a
	// top-level request, or a group row id ("partner_<id>") when the host
	// is drilling into a single group.
	BuildLines(ctx context.Context, reqCtx RequestContext, opts *Options, lineID string) ([]ReportLine, error)
}
