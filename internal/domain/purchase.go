package domain

import "fmt"

// PurchaseState is the store state of a purchase
type PurchaseState int

const (
	PurchaseStateUnspecified PurchaseState = 0
	PurchaseStatePurchased   PurchaseState = 1
	PurchaseStatePending     PurchaseState = 2
)

// PaymentMode describes how the first period of a purchase was paid
type PaymentMode int

const (
	PaymentModePayAsYouGo PaymentMode = 0
	PaymentModeFreeTrial  PaymentMode = 2
)

// ProrationMode is the store replacement mode used when switching subscriptions
type ProrationMode int

const (
	ProrationModeUnknown                     ProrationMode = 0
	ProrationModeImmediateWithTimeProration  ProrationMode = 1
	ProrationModeImmediateAndChargeProrated  ProrationMode = 2
	ProrationModeImmediateWithoutProration   ProrationMode = 3
	ProrationModeDeferred                    ProrationMode = 4
	ProrationModeImmediateAndChargeFullPrice ProrationMode = 5
)

// PurchaseRecord is a purchase as reported by the provider
type PurchaseRecord struct {
	OrderID       string        `json:"orderId,omitempty"`
	PackageName   string        `json:"packageName"`
	ProductIDs    []string      `json:"productIds"`
	PurchaseTime  int64         `json:"purchaseTime"` // milliseconds
	PurchaseState PurchaseState `json:"purchaseState"`
	PurchaseToken string        `json:"purchaseToken"`
	Quantity      int           `json:"quantity"`
	Acknowledged  bool          `json:"acknowledged"`
	AutoRenewing  bool          `json:"autoRenewing"`
	OriginalJSON  string        `json:"-"`
}

// ProductID returns the first product of the purchase
func (r *PurchaseRecord) ProductID() string {
	if len(r.ProductIDs) == 0 {
		return ""
	}
	return r.ProductIDs[0]
}

// Description renders the record for logs
func (r *PurchaseRecord) Description() string {
	return fmt.Sprintf("ProductId: %s; OrderId: %s; PurchaseToken: %s", r.ProductID(), r.OrderID, r.PurchaseToken)
}

// PurchaseHistoryRecord is the most recent purchase of a product as kept by the provider
type PurchaseHistoryRecord struct {
	ProductIDs    []string `json:"productIds"`
	PurchaseTime  int64    `json:"purchaseTime"` // milliseconds
	PurchaseToken string   `json:"purchaseToken"`
	Quantity      int      `json:"quantity"`
	OriginalJSON  string   `json:"-"`
}

// ProductID returns the first product of the record
func (r *PurchaseHistoryRecord) ProductID() string {
	if len(r.ProductIDs) == 0 {
		return ""
	}
	return r.ProductIDs[0]
}

// PurchaseHistory pairs a history record with the product type it was queried for
type PurchaseHistory struct {
	Type   ProductType
	Record *PurchaseHistoryRecord
}

// UpgradeInfo carries the purchase being replaced during a subscription switch
type UpgradeInfo struct {
	OldPurchaseToken string
	OldProductID     string
	ProrationMode    ProrationMode
}

// PurchaseParams describes a purchase to launch
type PurchaseParams struct {
	Product *ProductDescriptor
	// OfferID selects a concrete offer. Ignored for in-app products.
	OfferID string
	// ApplyOffer set to false forces the plain base plan. Nil lets the default offer apply.
	ApplyOffer *bool
}

// PurchaseFlowParams is what the provider needs to launch a purchase
type PurchaseFlowParams struct {
	Product     *ProductDescriptor
	Offer       *Offer
	UpgradeInfo *UpgradeInfo
}

// PurchaseKey identifies a purchase for de-duplication
type PurchaseKey struct {
	ProductID       string
	OriginalOrderID string
}

// Purchase is the normalized receipt sent to the backend
type Purchase struct {
	DetailsToken string
	Title        string
	Description  string
	ProductID    string
	Type         ProductType

	OriginalPrice             string
	OriginalPriceAmountMicros int64
	PriceCurrencyCode         string
	Price                     string
	PriceAmountMicros         int64
	PeriodUnit                *PeriodUnit
	PeriodUnitsCount          *int

	FreeTrialPeriod               string
	IntroductoryAvailable         bool
	IntroductoryPriceAmountMicros int64
	IntroductoryPrice             string
	IntroductoryPriceCycles       int
	IntroductoryPeriodUnit        PeriodUnit
	IntroductoryPeriodUnitsCount  *int

	OrderID         string
	OriginalOrderID string
	PackageName     string
	PurchaseTime    int64 // seconds
	PurchaseState   PurchaseState
	PurchaseToken   string
	Acknowledged    bool
	AutoRenewing    bool
	PaymentMode     PaymentMode
}

// Key returns the de-duplication identity of the purchase
func (p *Purchase) Key() PurchaseKey {
	return PurchaseKey{ProductID: p.ProductID, OriginalOrderID: p.OriginalOrderID}
}
