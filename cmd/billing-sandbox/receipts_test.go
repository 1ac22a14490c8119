package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/store-billing/internal/domain"
)

type mockAcknowledger struct {
	mock.Mock
}

func (m *mockAcknowledger) Acknowledge(purchaseToken string, done func(error)) {
	args := m.Called(purchaseToken)
	done(args.Error(0))
}

func TestReceiptLogger_AcknowledgesNewPurchases(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ack := &mockAcknowledger{}
	ack.On("Acknowledge", "token-new").Return(nil)
	ack.On("Acknowledge", "token-fails").Return(errors.New("store error"))

	receipts := &receiptLogger{acknowledger: ack, logger: zap.New(core)}
	receipts.OnPurchasesCompleted([]*domain.Purchase{
		{ProductID: "premium", PurchaseToken: "token-new", PurchaseState: domain.PurchaseStatePurchased},
		{ProductID: "basic", PurchaseToken: "token-acked", PurchaseState: domain.PurchaseStatePurchased, Acknowledged: true},
		{ProductID: "coins", PurchaseToken: "token-pending", PurchaseState: domain.PurchaseStatePending},
		{ProductID: "gold", PurchaseToken: "token-fails", PurchaseState: domain.PurchaseStatePurchased},
	})

	ack.AssertExpectations(t)
	ack.AssertNumberOfCalls(t, "Acknowledge", 2)
	assert.Equal(t, 4, logs.FilterMessage("Purchase completed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Purchase acknowledged").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to acknowledge purchase").Len())
}

func TestReceiptLogger_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	receipts := &receiptLogger{acknowledger: &mockAcknowledger{}, logger: zap.New(core)}

	receipts.OnPurchasesFailed(nil, domain.NewBillingError(domain.ResponseCodeUserCanceled, "canceled"))

	entries := logs.FilterMessage("Purchase failed").AllUntimed()
	assert.Len(t, entries, 1)
	assert.Equal(t, "canceled", entries[0].ContextMap()["message"])
}
