package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noah-isme/warehouse-report/internal/abc"
	"github.com/noah-isme/warehouse-report/internal/common"
	"github.com/noah-isme/warehouse-report/internal/orders"
	"github.com/noah-isme/warehouse-report/internal/profit"
)

var errorMappings = []common.ErrorMapping{
	{Target: orders.ErrInvalidInput, Code: "INVALID_INPUT", Status: http.StatusUnprocessableEntity},
	{Target: profit.ErrDivisionByZero, Code: "DIVISION_BY_ZERO", Status: http.StatusUnprocessableEntity},
	{Target: profit.ErrTariffNotFound, Code: "TARIFF_NOT_FOUND", Status: http.StatusUnprocessableEntity},
	{Target: abc.ErrInvalidOptions, Code: "INVALID_OPTIONS", Status: http.StatusInternalServerError},
}

// Handler exposes report views over HTTP.
type Handler struct {
	Svc *Service
}

// Routes mounts the report endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/tariffs", h.Tariffs)
	r.Get("/products", h.Products)
	r.Get("/orders", h.Orders)
	r.Get("/shares", h.Shares)
	r.Get("/abc", h.ABC)
}

// Tariffs returns the per-warehouse delivery tariffs.
func (h *Handler) Tariffs(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	rows, err := h.Svc.Tariffs(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]any{"data": rows})
}

// Products returns per-product statistics.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	out, err := h.Svc.Products(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]any{"data": out.Rows, "totals": out.Totals})
}

// Orders returns per-order profit with the mean order profit.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	out, err := h.Svc.Orders(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]any{"data": out.Rows, "mean_order_profit": out.Mean})
}

// Shares returns each product's share of its warehouse profit.
func (h *Handler) Shares(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	rows, err := h.Svc.Shares(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]any{"data": rows})
}

// ABC returns the classified shares and a per-warehouse category summary.
func (h *Handler) ABC(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	rows, err := h.Svc.Classified(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.ok(w, map[string]any{"data": rows, "summary": abc.Summarize(rows)})
}

func (h *Handler) configured(w http.ResponseWriter) bool {
	if h == nil || h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "REPORT_NOT_CONFIGURED", "report service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) ok(w http.ResponseWriter, body map[string]any) {
	body["report_id"] = uuid.NewString()
	common.JSON(w, http.StatusOK, body)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	appErr := common.Classify(err, "REPORT_ERROR", errorMappings...)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.Svc.Logger.Error().Err(err).Str("code", appErr.Code).Msg("report view failed")
	}
	common.WriteAppError(w, appErr)
}
