package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/swarajjadhav12/piggybankai-online/internal/core/handler"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/middleware"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/models"
	"github.com/swarajjadhav12/piggybankai-online/internal/core/usecase"
)

type stubUsecase struct {
	wallet   *models.Wallet
	result   *models.TransferResult
	page     *models.TransactionPage
	err      error
	lastOp   models.MoneyOperation
	lastXfer models.TransferOperation
}

func (s *stubUsecase) GetWallet(context.Context, uuid.UUID) (*models.Wallet, error) {
	return s.wallet, s.err
}

func (s *stubUsecase) Deposit(_ context.Context, _ uuid.UUID, op models.MoneyOperation) (*models.Wallet, error) {
	s.lastOp = op
	return s.wallet, s.err
}

func (s *stubUsecase) Withdraw(_ context.Context, _ uuid.UUID, op models.MoneyOperation) (*models.Wallet, error) {
	s.lastOp = op
	return s.wallet, s.err
}

func (s *stubUsecase) Transfer(_ context.Context, _ uuid.UUID, op models.TransferOperation) (*models.TransferResult, error) {
	s.lastXfer = op
	return s.result, s.err
}

func (s *stubUsecase) ListTransactions(context.Context, uuid.UUID, int, int) (*models.TransactionPage, error) {
	return s.page, s.err
}

func newRouter(uc usecase.WalletUsecase) *mux.Router {
	h := handler.NewWalletHandler(uc, zap.NewNop())
	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path, body string, userID *uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextUserID, *userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestDepositSuccessEnvelope(t *testing.T) {
	userID := uuid.New()
	stub := &stubUsecase{wallet: &models.Wallet{ID: uuid.New(), UserID: userID, Balance: decimal.NewFromInt(1500), Currency: "USD"}}
	router := newRouter(stub)

	rec := doRequest(t, router, "POST", "/api/v1/wallet/deposit",
		`{"amount": 500, "description": "salary"}`, &userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "deposit completed", resp.Message)
	assert.Empty(t, resp.Error)
	assert.True(t, stub.lastOp.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "salary", stub.lastOp.Description)
}

func TestDepositStringAmountAccepted(t *testing.T) {
	userID := uuid.New()
	stub := &stubUsecase{wallet: &models.Wallet{UserID: userID}}
	router := newRouter(stub)

	rec := doRequest(t, router, "POST", "/api/v1/wallet/deposit",
		`{"amount": "12.34"}`, &userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.lastOp.Amount.Equal(decimal.RequireFromString("12.34")))
}

func TestDepositCommaSeparatorNormalized(t *testing.T) {
	userID := uuid.New()
	stub := &stubUsecase{wallet: &models.Wallet{UserID: userID}}
	router := newRouter(stub)

	rec := doRequest(t, router, "POST", "/api/v1/wallet/deposit",
		`{"amount": "1 234,56"}`, &userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.lastOp.Amount.Equal(decimal.RequireFromString("1234.56")))
}

func TestDepositUnparseableAmountRejected(t *testing.T) {
	userID := uuid.New()
	router := newRouter(&stubUsecase{})

	rec := doRequest(t, router, "POST", "/api/v1/wallet/deposit",
		`{"amount": "12,34,56"}`, &userID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestInvalidJSONRejected(t *testing.T) {
	userID := uuid.New()
	router := newRouter(&stubUsecase{})

	rec := doRequest(t, router, "POST", "/api/v1/wallet/deposit", `{"amount":`, &userID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid request payload", resp.Error)
}

func TestTransferMissingPhoneFailsValidation(t *testing.T) {
	userID := uuid.New()
	router := newRouter(&stubUsecase{})

	rec := doRequest(t, router, "POST", "/api/v1/wallet/transfer", `{"amount": 10}`, &userID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestBusinessErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid amount", usecase.ErrInvalidAmount, http.StatusBadRequest, "amount must be positive"},
		{"insufficient funds", usecase.ErrInsufficientFunds, http.StatusBadRequest, "insufficient funds"},
		{"self transfer", usecase.ErrSelfTransfer, http.StatusBadRequest, "cannot transfer to your own wallet"},
		{"recipient not found", usecase.ErrRecipientNotFound, http.StatusNotFound, "recipient not found"},
		{"store failure is opaque", assert.AnError, http.StatusInternalServerError, "failed to process operation"},
	}

	userID := uuid.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&stubUsecase{err: tt.err})

			rec := doRequest(t, router, "POST", "/api/v1/wallet/transfer",
				`{"amount": 10, "receiverPhone": "5550100100"}`, &userID)

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestTransferSuccessReturnsBothWallets(t *testing.T) {
	userID := uuid.New()
	result := &models.TransferResult{
		SenderWallet:   &models.Wallet{UserID: userID, Balance: decimal.NewFromInt(700)},
		ReceiverWallet: &models.Wallet{UserID: uuid.New(), Balance: decimal.NewFromInt(300)},
		Transaction:    &models.Transaction{ID: uuid.New(), Kind: models.TransactionTransfer},
	}
	stub := &stubUsecase{result: result}
	router := newRouter(stub)

	rec := doRequest(t, router, "POST", "/api/v1/wallet/transfer",
		`{"amount": 300, "receiverPhone": "+1-555-0100", "description": "rent"}`, &userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "+1-555-0100", stub.lastXfer.ReceiverPhone)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "sender_wallet")
	assert.Contains(t, data, "receiver_wallet")
	assert.Contains(t, data, "transaction")
}

func TestMissingAuthContextIsUnauthorized(t *testing.T) {
	router := newRouter(&stubUsecase{})

	rec := doRequest(t, router, "GET", "/api/v1/wallet", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestListTransactionsPassesThrough(t *testing.T) {
	userID := uuid.New()
	stub := &stubUsecase{page: &models.TransactionPage{Items: []models.Transaction{}, Total: 0, Page: 1, Limit: 20}}
	router := newRouter(stub)

	rec := doRequest(t, router, "GET", "/api/v1/wallet/transactions?page=1&limit=20", "", &userID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}
