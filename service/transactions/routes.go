package transactions

import (
	"net/http"
	"strings"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
	"github.com/shopspring/decimal"
)

const defaultIcon = "💰"

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

type TransactionHandler struct {
	store *Store
}

func NewTransactionHandler(store *Store) *TransactionHandler {
	return &TransactionHandler{store: store}
}

// RegisterRoutes registers transaction-related routes with Gorilla Mux
func (h *TransactionHandler) RegisterRoutes(router *mux.Router, auth mux.MiddlewareFunc) {
	transactionRouter := router.PathPrefix("/transactions").Subrouter()
	transactionRouter.Use(auth)

	transactionRouter.HandleFunc("", h.CreateTransaction).Methods("POST")
	transactionRouter.HandleFunc("", h.listHandler("")).Methods("GET")
	transactionRouter.HandleFunc("/expense", h.listHandler(models.CategoryExpense)).Methods("GET")
	transactionRouter.HandleFunc("/income", h.listHandler(models.CategoryIncome)).Methods("GET")
	transactionRouter.HandleFunc("/count", h.CountTransactions).Methods("GET")
	transactionRouter.HandleFunc("/sum", h.SumTransactions).Methods("GET")
	transactionRouter.HandleFunc("/export", h.ExportTransactions).Methods("GET")
	transactionRouter.HandleFunc("/{id}", h.DeleteTransaction).Methods("DELETE")
}

type createTransactionRequest struct {
	Title    string           `json:"title" validate:"required,max=255"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Category string           `json:"category" validate:"required,oneof=income expense"`
	Icon     string           `json:"icon" validate:"max=64"`
	Date     string           `json:"date" validate:"required"`
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// checkAmount returns why amount does not fit the amount column, or "".
func checkAmount(amount decimal.Decimal) string {
	if !amount.Equal(amount.Round(models.AmountScale)) {
		return "must have at most 2 decimal places"
	}
	if amount.Abs().GreaterThanOrEqual(models.MaxAmount) {
		return "must be less than " + models.MaxAmount.String() + " in magnitude"
	}
	return ""
}

func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	var req createTransactionRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := utils.Validate(req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if msg := checkAmount(*req.Amount); msg != "" {
		utils.WriteError(w, r, utils.ValidationFailed(map[string]string{"amount": msg}))
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		utils.WriteError(w, r, utils.ValidationFailed(map[string]string{"date": "must be an ISO-8601 date"}))
		return
	}
	if req.Icon == "" {
		req.Icon = defaultIcon
	}

	t := &models.Transaction{
		Title:    req.Title,
		Amount:   req.Amount.Round(models.AmountScale),
		Category: models.Category(req.Category),
		Icon:     req.Icon,
		Date:     date,
		UserID:   userID,
	}
	if err := h.store.Create(r.Context(), t); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().
		Str("transaction_id", t.ID.String()).
		Str("category", string(t.Category)).
		Msg("transaction created")
	utils.RespondWithJSON(w, http.StatusCreated, t)
}

func (h *TransactionHandler) listHandler(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := utils.GetUserIDFromContext(r)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}

		txs, err := h.store.List(r.Context(), Filter{OwnerID: userID, Category: category}, NewestFirst)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
	}
}

func (h *TransactionHandler) CountTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	n, err := h.store.Count(r.Context(), Filter{OwnerID: userID})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *TransactionHandler) SumTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	totals, err := h.store.Balance(r.Context(), userID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, totals)
}

func (h *TransactionHandler) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	txs, err := h.store.List(r.Context(), Filter{OwnerID: userID}, NewestFirst)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	ServeWorkbook(w, r, "transactions.xlsx", "Transactions", txs)
}

func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteError(w, r, utils.BadRequest("Invalid transaction id"))
		return
	}

	deleted, err := h.store.Delete(r.Context(), userID, id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().
		Str("transaction_id", id.String()).
		Int64("deleted", deleted).
		Msg("transaction delete")
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}
