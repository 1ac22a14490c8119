package fixtures

import (
	"github.com/google/uuid"

	"github.com/kevin07696/store-billing/internal/domain"
)

// DefaultPurchaseTime is 2024-01-15T10:00:00Z in milliseconds.
const DefaultPurchaseTime int64 = 1705312800000

// PurchaseRecordBuilder provides fluent API for building test purchase records.
type PurchaseRecordBuilder struct {
	record *domain.PurchaseRecord
}

// NewPurchaseRecord creates a purchased, unacknowledged record for productID.
func NewPurchaseRecord(productID string) *PurchaseRecordBuilder {
	return &PurchaseRecordBuilder{
		record: &domain.PurchaseRecord{
			OrderID:       "GPA.3312-5521-6650-12345",
			PackageName:   "com.example.app",
			ProductIDs:    []string{productID},
			PurchaseTime:  DefaultPurchaseTime,
			PurchaseState: domain.PurchaseStatePurchased,
			PurchaseToken: uuid.New().String(),
			Quantity:      1,
		},
	}
}

func (b *PurchaseRecordBuilder) WithOrderID(orderID string) *PurchaseRecordBuilder {
	b.record.OrderID = orderID
	return b
}

func (b *PurchaseRecordBuilder) WithToken(token string) *PurchaseRecordBuilder {
	b.record.PurchaseToken = token
	return b
}

func (b *PurchaseRecordBuilder) WithPurchaseTime(millis int64) *PurchaseRecordBuilder {
	b.record.PurchaseTime = millis
	return b
}

func (b *PurchaseRecordBuilder) WithState(state domain.PurchaseState) *PurchaseRecordBuilder {
	b.record.PurchaseState = state
	return b
}

func (b *PurchaseRecordBuilder) WithProductIDs(productIDs ...string) *PurchaseRecordBuilder {
	b.record.ProductIDs = productIDs
	return b
}

func (b *PurchaseRecordBuilder) Acknowledged() *PurchaseRecordBuilder {
	b.record.Acknowledged = true
	return b
}

func (b *PurchaseRecordBuilder) AutoRenewing() *PurchaseRecordBuilder {
	b.record.AutoRenewing = true
	return b
}

func (b *PurchaseRecordBuilder) Build() *domain.PurchaseRecord {
	return b.record
}

// HistoryRecord returns a purchase history record for productID.
func HistoryRecord(productID, token string) *domain.PurchaseHistoryRecord {
	return &domain.PurchaseHistoryRecord{
		ProductIDs:    []string{productID},
		PurchaseTime:  DefaultPurchaseTime,
		PurchaseToken: token,
		Quantity:      1,
	}
}
