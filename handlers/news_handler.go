package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/config"
	"github.com/worldpop/worldpop-api/utils"
)

// NewsHandler proxies country news queries to the configured news API so the
// API key never reaches the browser.
type NewsHandler struct {
	cfg    config.NewsConfig
	client *http.Client
	logger *zap.Logger
}

// NewNewsHandler creates a new NewsHandler with a timeout-bounded client.
func NewNewsHandler(cfg config.NewsConfig, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Search relays a news query for the given country name.
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		_ = utils.WriteBadRequest(w, "q is required", nil)
		return
	}

	if h.cfg.APIKey == "" {
		h.logger.Error("news API key not configured")
		_ = utils.WriteInternalServerError(w, "News service not configured")
		return
	}

	upstream, err := url.Parse(h.cfg.BaseURL)
	if err != nil {
		h.logger.Error("invalid news API base URL", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}
	params := upstream.Query()
	params.Set("q", query)
	params.Set("apiKey", h.cfg.APIKey)
	params.Set("pageSize", "10")
	upstream.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstream.String(), nil)
	if err != nil {
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("news request failed", zap.Error(err))
		_ = utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse{
			Error:   "bad_gateway",
			Message: "News service unavailable",
		})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		h.logger.Error("news response read failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("news upstream returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query))
		_ = utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse{
			Error:   "bad_gateway",
			Message: "News service returned an error",
		})
		return
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		_ = utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse{
			Error:   "bad_gateway",
			Message: "News service returned malformed data",
		})
		return
	}

	_ = utils.WriteOK(w, payload)
}
