package fixtures

import (
	"fmt"

	"github.com/kevin07696/store-billing/internal/domain"
)

// ProductBuilder provides fluent API for building test product descriptors.
type ProductBuilder struct {
	product *domain.ProductDescriptor
}

// NewSubscription creates a subscription builder with a single monthly base plan.
func NewSubscription(productID string) *ProductBuilder {
	return &ProductBuilder{
		product: &domain.ProductDescriptor{
			ProductID:          productID,
			Type:               domain.ProductTypeSubscription,
			Name:               productID,
			Title:              productID + " (Test App)",
			Description:        "Test subscription",
			SubscriptionOffers: []domain.Offer{NewOffer("monthly").Build()},
			OriginalJSON:       detailsJSON(productID),
		},
	}
}

// NewInAppProduct creates a one-time product builder priced 4.99.
func NewInAppProduct(productID string) *ProductBuilder {
	return &ProductBuilder{
		product: &domain.ProductDescriptor{
			ProductID:   productID,
			Type:        domain.ProductTypeInApp,
			Name:        productID,
			Title:       productID + " (Test App)",
			Description: "Test one-time product",
			OneTimeOffer: &domain.Price{
				AmountMicros: 4_990_000,
				CurrencyCode: DefaultCurrency,
				Formatted:    FormatMicros(4_990_000),
			},
			OriginalJSON: detailsJSON(productID),
		},
	}
}

func (b *ProductBuilder) WithTitle(title string) *ProductBuilder {
	b.product.Title = title
	return b
}

// WithOffers replaces the subscription offers.
func (b *ProductBuilder) WithOffers(offers ...domain.Offer) *ProductBuilder {
	b.product.SubscriptionOffers = offers
	return b
}

// WithOffer appends a subscription offer.
func (b *ProductBuilder) WithOffer(offer domain.Offer) *ProductBuilder {
	b.product.SubscriptionOffers = append(b.product.SubscriptionOffers, offer)
	return b
}

func (b *ProductBuilder) WithOneTimePrice(micros int64) *ProductBuilder {
	b.product.OneTimeOffer = &domain.Price{
		AmountMicros: micros,
		CurrencyCode: DefaultCurrency,
		Formatted:    FormatMicros(micros),
	}
	return b
}

func (b *ProductBuilder) WithOriginalJSON(serialized string) *ProductBuilder {
	b.product.OriginalJSON = serialized
	return b
}

func (b *ProductBuilder) Build() *domain.ProductDescriptor {
	return b.product
}

// DetailsToken is the details token embedded in the original JSON of built products.
func DetailsToken(productID string) string {
	return "details-token-" + productID
}

func detailsJSON(productID string) string {
	return fmt.Sprintf(`{"productId":%q,"skuDetailsToken":%q}`, productID, DetailsToken(productID))
}
