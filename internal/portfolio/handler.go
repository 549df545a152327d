package portfolio

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Investments lists the catalog, filtered by ?category= and ?q=.
func (h *Handler) Investments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products := List(Category(q.Get("category")), q.Get("q"))
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summary(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, s)
}

type InvestRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) Invest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.WriteError(w, h.logger, fmt.Errorf("%w: %q", session.ErrUnknownProduct, r.PathValue("id")))
		return
	}
	var req InvestRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		session.WriteBadRequest(w, h.logger, err)
		return
	}
	p, err := h.svc.Invest(r.Context(), auth.SessionID(r.Context()), id, req.Amount)
	if err != nil {
		session.WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"userData": p})
}
