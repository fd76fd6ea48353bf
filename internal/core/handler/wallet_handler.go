package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/logger"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/middleware"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/usecase"
)

type WalletHandler struct {
	usecase  usecase.WalletUsecase
	validate *validator.Validate
	log      logger.Logger
}

func NewWalletHandler(usecase usecase.WalletUsecase, log logger.Logger) *WalletHandler {
	return &WalletHandler{
		usecase:  usecase,
		validate: validator.New(),
		log:      log,
	}
}

func (h *WalletHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/wallet", h.GetWallet).Methods("GET")
	router.HandleFunc("/wallet/deposit", h.Deposit).Methods("POST")
	router.HandleFunc("/wallet/withdraw", h.Withdraw).Methods("POST")
	router.HandleFunc("/wallet/transfer", h.Transfer).Methods("POST")
	router.HandleFunc("/wallet/transactions", h.ListTransactions).Methods("GET")
}

func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	wallet, err := h.usecase.GetWallet(r.Context(), userID)
	if err != nil {
		h.handleOperationError(w, userID, err)
		return
	}

	respondWithData(w, http.StatusOK, wallet, "")
}

func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.MoneyRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	wallet, err := h.usecase.Deposit(r.Context(), userID, models.MoneyOperation{
		Amount:      req.Amount.Decimal,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		h.handleOperationError(w, userID, err)
		return
	}

	respondWithData(w, http.StatusOK, wallet, "deposit completed")
}

func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.MoneyRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	wallet, err := h.usecase.Withdraw(r.Context(), userID, models.MoneyOperation{
		Amount:      req.Amount.Decimal,
		Currency:    req.Currency,
		Description: req.Description,
	})
	if err != nil {
		h.handleOperationError(w, userID, err)
		return
	}

	respondWithData(w, http.StatusOK, wallet, "withdrawal completed")
}

func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.TransferRequest
	if !h.decodeRequest(w, r, &req) {
		return
	}

	result, err := h.usecase.Transfer(r.Context(), userID, models.TransferOperation{
		MoneyOperation: models.MoneyOperation{
			Amount:      req.Amount.Decimal,
			Currency:    req.Currency,
			Description: req.Description,
		},
		ReceiverPhone: req.ReceiverPhone,
	})
	if err != nil {
		h.handleOperationError(w, userID, err)
		return
	}

	respondWithData(w, http.StatusOK, result, "transfer completed")
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	transactions, err := h.usecase.ListTransactions(r.Context(), userID, page, limit)
	if err != nil {
		h.handleOperationError(w, userID, err)
		return
	}

	respondWithData(w, http.StatusOK, transactions, "")
}

func (h *WalletHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		// Auth middleware did not run; treat as unauthenticated.
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *WalletHandler) decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Warn("Failed to decode request body", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		h.log.Warn("Request validation failed", logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return false
	}

	return true
}

func (h *WalletHandler) handleOperationError(w http.ResponseWriter, userID uuid.UUID, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidAmount),
		errors.Is(err, usecase.ErrInsufficientFunds),
		errors.Is(err, usecase.ErrMissingRecipient),
		errors.Is(err, usecase.ErrSelfTransfer):
		h.log.Warn("Wallet operation rejected",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err))
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrRecipientNotFound):
		h.log.Warn("Wallet operation target not found",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err))
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("Failed to process wallet operation",
			logger.StringField("user_id", userID.String()),
			logger.ErrorField("error", err))
		respondWithError(w, http.StatusInternalServerError, "failed to process operation")
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func respondWithData(w http.ResponseWriter, code int, data interface{}, message string) {
	respondWithJSON(w, code, models.APIResponse{Success: true, Data: data, Message: message})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, models.APIResponse{Success: false, Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, resp models.APIResponse) {
	response, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Internal Server Error"}`)) // Fallback response
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
