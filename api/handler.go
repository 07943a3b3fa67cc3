package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"quote-search/display"
	"quote-search/lookup"
	"quote-search/metrics"
	"quote-search/models"
	"quote-search/provider"
	"quote-search/quote"
	"quote-search/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Handler struct {
	Engine  search.SearchEngine
	Lookup  lookup.Searcher
	Timeout time.Duration
	log     zerolog.Logger
}

func NewHandler(engine search.SearchEngine, searcher lookup.Searcher, timeout time.Duration, log zerolog.Logger) *Handler {
	return &Handler{Engine: engine, Lookup: searcher, Timeout: timeout, log: log}
}

// QuoteResponse is the body of a successful quote lookup.
type QuoteResponse struct {
	Symbol   string              `json:"symbol"`
	Quote    models.Quote        `json:"quote"`
	Metrics  models.Metrics      `json:"metrics"`
	View     display.View        `json:"view"`
	Chart    []models.PricePoint `json:"chart"`
	Label    string              `json:"label"`
	Endpoint string              `json:"endpoint"`
	Strategy string              `json:"strategy"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Search serves ranked suggestions for the partial query q.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	// a missing q reads as empty and gets []
	query := r.URL.Query().Get("q")

	metrics.SuggestRequestsTotal.Inc()
	results := h.Engine.Suggest(query)
	writeJSON(w, http.StatusOK, results)
}

// GetCandidate looks a catalog entry up by exact ticker.
func (h *Handler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	c := h.Engine.GetBySymbol(symbol)
	if c == nil {
		writeError(w, http.StatusNotFound, "symbol not in catalog")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetQuote runs a full quote search for symbol.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if strings.TrimSpace(symbol) == "" {
		writeError(w, http.StatusBadRequest, "missing symbol parameter")
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	res, err := h.Lookup.Search(ctx, symbol)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("symbol", symbol).Msg("quote search failed")
		}
		writeError(w, status, messageFor(status, err))
		return
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		Symbol:   res.Symbol,
		Quote:    res.Quote,
		Metrics:  res.Metrics,
		View:     display.Render(res),
		Chart:    res.Chart,
		Label:    res.ChartLabel(),
		Endpoint: res.Endpoint,
		Strategy: res.Strategy,
	})
}

func statusFor(err error) int {
	var retrieval *provider.RetrievalError
	var malformed *quote.MalformedPayloadError
	switch {
	case errors.Is(err, lookup.ErrEmptySymbol):
		return http.StatusBadRequest
	case errors.Is(err, lookup.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &retrieval), errors.As(err, &malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(status int, err error) string {
	switch status {
	case http.StatusNotFound:
		return "symbol not found"
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusGatewayTimeout:
		return "upstream timed out"
	case http.StatusBadGateway:
		return "error fetching stock data"
	default:
		return "internal server error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
