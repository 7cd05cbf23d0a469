// backend/src/handlers/report_handler.go
package handlers

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/cashledger/backend/src/database"
	"github.com/username/cashledger/backend/src/ledger"
	"github.com/username/cashledger/backend/src/logger"
	"github.com/username/cashledger/backend/src/model"
	"github.com/username/cashledger/backend/src/reports"
	"github.com/username/cashledger/backend/src/utils"
)

// maxLinesRequestBytes bounds the lines-request body; options payloads are
// small and anything larger is rejected outright.
const maxLinesRequestBytes = 1 << 20

type ReportHandler struct {
	strategy      reports.ReportStrategy
	store         ledger.Store
	cache         *cache.Cache
	cacheTTL      time.Duration
	multiCurrency bool
}

func NewReportHandler(strategy reports.ReportStrategy, store ledger.Store, reportCache *cache.Cache, cacheTTL time.Duration, multiCurrency bool) *ReportHandler {
	return &ReportHandler{
		strategy:      strategy,
		store:         store,
		cache:         reportCache,
		cacheTTL:      cacheTTL,
		multiCurrency: multiCurrency,
	}
}

// buildRequestContext derives the explicit report scope from the
// authenticated user: their company's currency is the display currency, and
// every company is in query scope.
func (h *ReportHandler) buildRequestContext(r *http.Request, userID int64) (reports.RequestContext, error) {
	ctx := r.Context()

	user, err := model.GetUserByID(database.DB, userID)
	if err != nil {
		return reports.RequestContext{}, fmt.Errorf("resolving user: %w", err)
	}
	company, err := h.store.CompanyByID(ctx, user.CompanyID)
	if err != nil {
		return reports.RequestContext{}, fmt.Errorf("resolving company: %w", err)
	}
	displayCurrency, err := h.store.CurrencyByID(ctx, company.CurrencyID)
	if err != nil {
		return reports.RequestContext{}, fmt.Errorf("resolving display currency: %w", err)
	}
	companies, err := h.store.Companies(ctx)
	if err != nil {
		return reports.RequestContext{}, fmt.Errorf("resolving company scope: %w", err)
	}
	companyIDs := make([]int64, 0, len(companies))
	for _, c := range companies {
		companyIDs = append(companyIDs, c.ID)
	}

	return reports.RequestContext{
		CompanyID:     company.ID,
		CompanyIDs:    companyIDs,
		Currency:      displayCurrency,
		MultiCurrency: h.multiCurrency,
		Today:         time.Now(),
	}, nil
}

type reportResponse struct {
	Name    string               `json:"name"`
	Columns []reports.Column     `json:"columns"`
	Options *reports.Options     `json:"options"`
	Lines   []reports.ReportLine `json:"lines,omitempty"`
}

// HandleGetReportOptions returns the report name, column headers and the
// resolved default options for a fresh report view.
func (h *ReportHandler) HandleGetReportOptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	reqCtx, err := h.buildRequestContext(r, userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to build report context", "error", err)
		utils.SendJSONError(w, "Failed to resolve report context", http.StatusInternalServerError)
		return
	}

	opts, err := h.strategy.ResolveOptions(r.Context(), reqCtx, nil)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to resolve report options", "error", err)
		utils.SendJSONError(w, "Failed to resolve report options", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reportResponse{
		Name:    h.strategy.ReportName(),
		Columns: h.strategy.ColumnHeaders(reqCtx, opts),
		Options: opts,
	})
}

type linesRequest struct {
	Options *reports.Options `json:"options"`
	LineID  string           `json:"line_id"`
}

// HandleGetReportLines resolves the submitted options and renders the line
// tree. line_id carries a "partner_<id>" group row id on drill-down
// requests. Responses are cached briefly per user and request body.
func (h *ReportHandler) HandleGetReportLines(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxLinesRequestBytes))
	if err != nil {
		utils.SendJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req linesRequest
	if err := json.Unmarshal(body, &req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cacheKey := fmt.Sprintf("report-lines-%d-%x", userID, sha256.Sum256(body))
	if cached, found := h.cache.Get(cacheKey); found {
		ctxLogger.Debug("Report lines cache hit", "key", cacheKey)
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached.([]byte))
		return
	}

	reqCtx, err := h.buildRequestContext(r, userID)
	if err != nil {
		ctxLogger.Error("Failed to build report context", "error", err)
		utils.SendJSONError(w, "Failed to resolve report context", http.StatusInternalServerError)
		return
	}

	opts, err := h.strategy.ResolveOptions(r.Context(), reqCtx, req.Options)
	if err != nil {
		ctxLogger.Error("Failed to resolve report options", "error", err)
		utils.SendJSONError(w, "Failed to resolve report options", http.StatusInternalServerError)
		return
	}

	lines, err := h.strategy.BuildLines(r.Context(), reqCtx, opts, req.LineID)
	if err != nil {
		ctxLogger.Error("Failed to build report lines", "lineID", req.LineID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Failed to build report lines: %v", err), http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(reportResponse{
		Name:    h.strategy.ReportName(),
		Columns: h.strategy.ColumnHeaders(reqCtx, opts),
		Options: opts,
		Lines:   lines,
	})
	if err != nil {
		ctxLogger.Error("Failed to encode report response", "error", err)
		utils.SendJSONError(w, "Failed to encode report response", http.StatusInternalServerError)
		return
	}
	h.cache.Set(cacheKey, payload, h.cacheTTL)

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}
