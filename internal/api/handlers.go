// Package api exposes the trip ledger over a JSON HTTP API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peggytheclaw/tripledger/internal/auth"
	"github.com/peggytheclaw/tripledger/internal/calculator"
	"github.com/peggytheclaw/tripledger/internal/middleware"
	"github.com/peggytheclaw/tripledger/internal/models"
	"github.com/peggytheclaw/tripledger/internal/service"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	auth     *service.AuthService
	trips    *service.TripService
	expenses *service.ExpenseService
	ledger   *service.LedgerService
}

// NewHandlers wires the handler set to its services.
func NewHandlers(authSvc *service.AuthService, trips *service.TripService, expenses *service.ExpenseService, ledger *service.LedgerService) *Handlers {
	return &Handlers{auth: authSvc, trips: trips, expenses: expenses, ledger: ledger}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service and auth errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// --- response shapes ---

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, CreatedAt: u.CreatedAt}
}

type participantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tripResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	OwnerID      string                `json:"owner_id"`
	ShareToken   string                `json:"share_token,omitempty"`
	Participants []participantResponse `json:"participants"`
	CreatedAt    int64                 `json:"created_at"`
}

func toTripResponse(t *models.Trip, includeToken bool) tripResponse {
	resp := tripResponse{
		ID:           t.ID,
		Name:         t.Name,
		OwnerID:      t.OwnerID,
		Participants: make([]participantResponse, 0, len(t.Participants)),
		CreatedAt:    t.CreatedAt,
	}
	if includeToken {
		resp.ShareToken = t.ShareToken
	}
	for _, p := range t.Participants {
		resp.Participants = append(resp.Participants, participantResponse{ID: p.ID, Name: p.Name})
	}
	return resp
}

type splitPayload struct {
	ParticipantID string  `json:"participant_id"`
	Amount        float64 `json:"amount"`
}

type expenseResponse struct {
	ID          string         `json:"id"`
	TripID      string         `json:"trip_id"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	PayerID     string         `json:"payer_id"`
	Amount      float64        `json:"amount"`
	Splits      []splitPayload `json:"splits"`
	CreatedAt   int64          `json:"created_at"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Description: e.Description,
		Category:    e.Category,
		PayerID:     e.PayerID,
		Amount:      e.Amount,
		Splits:      make([]splitPayload, 0, len(e.Splits)),
		CreatedAt:   e.CreatedAt,
	}
	for _, s := range e.Splits {
		resp.Splits = append(resp.Splits, splitPayload{ParticipantID: s.ParticipantID, Amount: s.Amount})
	}
	return resp
}

type balanceResponse struct {
	ParticipantID string  `json:"participant_id"`
	Net           float64 `json:"net"`
}

func toBalanceResponses(balances []calculator.Balance) []balanceResponse {
	out := make([]balanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceResponse{ParticipantID: b.ParticipantID, Net: b.Net})
	}
	return out
}

type transferResponse struct {
	ID      int     `json:"id"`
	FromID  string  `json:"from_id"`
	ToID    string  `json:"to_id"`
	Amount  float64 `json:"amount"`
	Settled bool    `json:"settled"`
}

func toTransferResponses(transfers []calculator.Transfer) []transferResponse {
	out := make([]transferResponse, 0, len(transfers))
	for _, tr := range transfers {
		out = append(out, transferResponse{ID: tr.ID, FromID: tr.FromID, ToID: tr.ToID, Amount: tr.Amount, Settled: tr.Settled})
	}
	return out
}

// --- auth ---

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{User: toUserResponse(user), Token: token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(user), Token: token})
}

func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.CurrentUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// --- trips ---

type createTripRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

func (h *Handlers) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := h.trips.CreateTrip(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Participants)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripResponse(trip, true))
}

func (h *Handlers) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.ListTrips(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t, true))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := h.trips.GetTrip(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip, true))
}

type renameTripRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) RenameTrip(w http.ResponseWriter, r *http.Request) {
	var req renameTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip, err := h.trips.RenameTrip(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTripResponse(trip, true))
}

func (h *Handlers) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.trips.DeleteTrip(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addParticipantRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req addParticipantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	participant, err := h.trips.AddParticipant(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, participantResponse{ID: participant.ID, Name: participant.Name})
}

func (h *Handlers) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	err := h.trips.RemoveParticipant(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), chi.URLParam(r, "participantID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- expenses ---

type expenseRequest struct {
	Description string         `json:"description"`
	Category    string         `json:"category"`
	PayerID     string         `json:"payer_id"`
	Amount      float64        `json:"amount"`
	Splits      []splitPayload `json:"splits"`
}

func (req expenseRequest) toInput() service.ExpenseInput {
	in := service.ExpenseInput{
		Description: req.Description,
		Category:    req.Category,
		PayerID:     req.PayerID,
		Amount:      req.Amount,
	}
	for _, s := range req.Splits {
		in.Splits = append(in.Splits, models.Split{ParticipantID: s.ParticipantID, Amount: s.Amount})
	}
	return in
}

func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListExpenses(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.expenses.UpdateExpense(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), chi.URLParam(r, "expenseID"), req.toInput())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.expenses.DeleteExpense(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- ledger ---

func (h *Handlers) GetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.Balances(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceResponses(balances))
}

func (h *Handlers) GetTransfers(w http.ResponseWriter, r *http.Request) {
	transfers, err := h.ledger.Transfers(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransferResponses(transfers))
}

type settleRequest struct {
	FromID string  `json:"from_id"`
	ToID   string  `json:"to_id"`
	Amount float64 `json:"amount"`
}

func (h *Handlers) MarkSettled(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.ledger.MarkSettled(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), req.FromID, req.ToID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UnmarkSettled(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.ledger.UnmarkSettled(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), req.FromID, req.ToID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetParticipantTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.ledger.ParticipantTotals(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"), chi.URLParam(r, "participantID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"paid": totals.Paid,
		"owed": totals.Owed,
		"net":  totals.Net,
	})
}

func (h *Handlers) GetCategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.ledger.CategoryTotals(r.Context(),
		middleware.GetUserID(r.Context()), chi.URLParam(r, "tripID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

// --- public share view ---

type sharedLedgerResponse struct {
	Trip      tripResponse       `json:"trip"`
	Expenses  []expenseResponse  `json:"expenses"`
	Balances  []balanceResponse  `json:"balances"`
	Transfers []transferResponse `json:"transfers"`
}

func (h *Handlers) SharedLedger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.ledger.SharedLedger(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := sharedLedgerResponse{
		// Never leak the share token or internals back out of the
		// public view.
		Trip:      toTripResponse(ledger.Trip, false),
		Expenses:  make([]expenseResponse, 0, len(ledger.Expenses)),
		Balances:  toBalanceResponses(ledger.Balances),
		Transfers: toTransferResponses(ledger.Transfers),
	}
	for i := range ledger.Expenses {
		resp.Expenses = append(resp.Expenses, toExpenseResponse(&ledger.Expenses[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}
