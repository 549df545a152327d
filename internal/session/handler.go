package session

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/internal/session/entity"
	"github.com/ovaphlow/pitchfork/service-wealth-go-stdlib/pkg/utilities"
)

// Handler exposes the auth flow and the profile commands over HTTP.
type Handler struct {
	store  *Store
	logger *zap.SugaredLogger
}

func NewHandler(store *Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, logger: logger}
}

type LoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse carries the next route and, for a new tab, its token.
type LoginResponse struct {
	Next  string `json:"next"`
	Token string `json:"token,omitempty"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	p, _ := auth.FromContext(r.Context())
	next, err := h.store.Login(r.Context(), p.SID, req.Email)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, LoginResponse{Next: next, Token: p.Token})
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

type VerifyOTPResponse struct {
	Snapshot
	Redirect string `json:"redirect"`
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	snap, redirect, err := h.store.VerifyOTP(r.Context(), auth.SessionID(r.Context()), req.Code)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, VerifyOTPResponse{Snapshot: snap, Redirect: redirect})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	redirect, err := h.store.Logout(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]string{"redirect": redirect})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Load(r.Context(), auth.SessionID(r.Context()))
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, snap)
}

// PatchMe applies a partial profile update. Unknown fields, email included,
// are refused as a bad payload.
func (h *Handler) PatchMe(w http.ResponseWriter, r *http.Request) {
	var patch entity.Patch
	if err := utilities.DecodeJSON(w, r, &patch); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.UpdateUserData(r.Context(), auth.SessionID(r.Context()), patch)
	})
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method,omitempty"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.Deposit(r.Context(), auth.SessionID(r.Context()), req.Amount, req.Method)
	})
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.Withdraw(r.Context(), auth.SessionID(r.Context()), req.Amount)
	})
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.TopUp(r.Context(), auth.SessionID(r.Context()), req.Amount)
	})
}

type ReinvestRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *Handler) SetReinvest(w http.ResponseWriter, r *http.Request) {
	var req ReinvestRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.SetReinvestReturns(r.Context(), auth.SessionID(r.Context()), req.Enabled)
	})
}

func (h *Handler) LinkBank(w http.ResponseWriter, r *http.Request) {
	var req entity.BankAccount
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.LinkBank(r.Context(), auth.SessionID(r.Context()), req)
	})
}

type AutoInvestRequest struct {
	Amount    decimal.Decimal  `json:"amount"`
	Frequency entity.Frequency `json:"frequency"`
	StartDate string           `json:"startDate"`
}

func (h *Handler) SetAutoInvest(w http.ResponseWriter, r *http.Request) {
	var req AutoInvestRequest
	if err := utilities.DecodeJSON(w, r, &req); err != nil {
		WriteBadRequest(w, h.logger, err)
		return
	}
	plan := PlanRequest{Amount: req.Amount, Frequency: req.Frequency, StartDate: req.StartDate}
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.SetAutoInvest(r.Context(), auth.SessionID(r.Context()), plan)
	})
}

func (h *Handler) CancelAutoInvest(w http.ResponseWriter, r *http.Request) {
	h.respondProfile(w, func() (*entity.UserProfile, error) {
		return h.store.CancelAutoInvest(r.Context(), auth.SessionID(r.Context()))
	})
}

func (h *Handler) respondProfile(w http.ResponseWriter, fn func() (*entity.UserProfile, error)) {
	p, err := fn()
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, map[string]any{"userData": p})
}
