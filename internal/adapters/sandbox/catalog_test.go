package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/store-billing/internal/converters"
	"github.com/kevin07696/store-billing/internal/domain"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := LoadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)
	return catalog
}

func TestLoadCatalog(t *testing.T) {
	catalog := loadTestCatalog(t)

	require.Len(t, catalog.Products, 3)
	premium := catalog.Products[0]
	assert.Equal(t, "premium", premium.ProductID)
	assert.Equal(t, domain.ProductTypeSubscription, premium.Type)
	require.Len(t, premium.Offers, 3)
	assert.Equal(t, "free-week", premium.Offers[1].OfferID)
	assert.Equal(t, []string{"trial"}, premium.Offers[1].OfferTags)
	assert.Equal(t, 1, premium.Offers[1].PricingPhases[0].BillingCycleCount)

	coins := catalog.Products[2]
	require.NotNil(t, coins.OneTimePrice)
	assert.Equal(t, int64(1_990_000), coins.OneTimePrice.PriceAmountMicros)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog("testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog")
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		message string
	}{
		{
			name:    "missing product id",
			yaml:    "products:\n  - type: inapp\n    one_time_price: {price_amount_micros: 1}\n",
			message: "no product_id",
		},
		{
			name: "duplicate product",
			yaml: "products:\n" +
				"  - {product_id: coins, type: inapp, one_time_price: {price_amount_micros: 1}}\n" +
				"  - {product_id: coins, type: inapp, one_time_price: {price_amount_micros: 1}}\n",
			message: "duplicate product coins",
		},
		{
			name:    "unknown type",
			yaml:    "products:\n  - {product_id: coins, type: consumable}\n",
			message: "unknown type",
		},
		{
			name:    "subscription without offers",
			yaml:    "products:\n  - {product_id: premium, type: subs}\n",
			message: "has no offers",
		},
		{
			name:    "offer without base plan",
			yaml:    "products:\n  - {product_id: premium, type: subs, offers: [{pricing_phases: [{billing_period: P1M}]}]}\n",
			message: "no base_plan_id",
		},
		{
			name:    "offer without phases",
			yaml:    "products:\n  - {product_id: premium, type: subs, offers: [{base_plan_id: monthly}]}\n",
			message: "no pricing phases",
		},
		{
			name:    "in-app without price",
			yaml:    "products:\n  - {product_id: coins, type: inapp}\n",
			message: "no one_time_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.ErrorIs(t, err, ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseCatalog_MalformedYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("products: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestCatalog_Descriptors(t *testing.T) {
	descriptors, err := loadTestCatalog(t).Descriptors()
	require.NoError(t, err)
	require.Len(t, descriptors, 3)

	premium := descriptors[0]
	assert.Equal(t, "Premium (Sandbox)", premium.Title)
	require.Len(t, premium.SubscriptionOffers, 3)
	assert.Equal(t, "premium-yearly-token", premium.SubscriptionOffers[2].OfferToken)
	assert.NotEmpty(t, premium.SubscriptionOffers[0].OfferToken)
	assert.NotEqual(t, premium.SubscriptionOffers[0].OfferToken, premium.SubscriptionOffers[1].OfferToken)

	offer := premium.DefaultOffer()
	require.NotNil(t, offer)
	assert.Equal(t, "free-week", offer.OfferID)
	assert.Equal(t, domain.BusinessTypeTrial, premium.BusinessType())

	coins := descriptors[2]
	assert.True(t, coins.IsInApp())
	assert.Empty(t, coins.SubscriptionOffers)
	assert.Equal(t, "$1.99", coins.RegularPrice().Formatted)

	token := converters.NewDetailsTokenExtractor().Extract(premium.OriginalJSON)
	assert.Equal(t, stableToken("premium", "details"), token)
	assert.Contains(t, premium.OriginalJSON, `"productId":"premium"`)
}

func TestCatalog_DescriptorsAreStable(t *testing.T) {
	first, err := loadTestCatalog(t).Descriptors()
	require.NoError(t, err)
	second, err := loadTestCatalog(t).Descriptors()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
