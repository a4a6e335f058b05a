package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "creditledger/internal/errors"
	"creditledger/internal/model"
)

func TestPaymentHandler_PaymentStatus(t *testing.T) {
	t.Run("returns the stored payment", func(t *testing.T) {
		ledger := new(MockLedgerService)
		ledger.On("GetPayment", mock.Anything, "tx-1").
			Return(&model.PaymentTransaction{TransactionID: "tx-1", TokensAdded: 60}, nil)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/payments/status?transaction_id=tx-1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPaymentHandler(ledger)
		assert.NoError(t, h.PaymentStatus(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"transaction_id":"tx-1"`)
		ledger.AssertExpectations(t)
	})

	t.Run("unknown transaction id is a 404", func(t *testing.T) {
		ledger := new(MockLedgerService)
		ledger.On("GetPayment", mock.Anything, "tx-missing").
			Return(nil, fmt.Errorf("%w: tx-missing", apperrors.ErrPaymentNotFound))

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/payments/status?transaction_id=tx-missing", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPaymentHandler(ledger)
		err := h.PaymentStatus(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})

	t.Run("missing transaction id is a 400", func(t *testing.T) {
		ledger := new(MockLedgerService)

		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/payments/status", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewPaymentHandler(ledger)
		err := h.PaymentStatus(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		ledger.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
	})
}
