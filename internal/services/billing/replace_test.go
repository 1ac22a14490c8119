package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/testutil/fixtures"
	"github.com/kevin07696/store-billing/internal/testutil/mocks"
)

func TestReplaceOldPurchase_QueriesHistoryBeforeLaunch(t *testing.T) {
	manager, provider := newManager(t)
	oldProduct := fixtures.NewSubscription("basic").Build()
	newProduct := fixtures.NewSubscription("premium").Build()

	var events []string
	provider.On("QueryPurchaseHistory", domain.ProductTypeSubscription).
		Run(func(args mock.Arguments) { events = append(events, "history") }).
		Return(mocks.OKResult, []*domain.PurchaseHistoryRecord{
			fixtures.HistoryRecord("other", "other-token"),
			fixtures.HistoryRecord("basic", "basic-token"),
		})

	var launched domain.PurchaseFlowParams
	provider.On("LaunchPurchaseFlow", mock.Anything).
		Run(func(args mock.Arguments) {
			events = append(events, "launch")
			launched = args.Get(0).(domain.PurchaseFlowParams)
		}).
		Return(mocks.OKResult)

	recorder := &errRecorder{}
	manager.ReplaceOldPurchase(domain.PurchaseParams{Product: newProduct}, oldProduct,
		domain.ProrationModeImmediateWithTimeProration, recorder.done)

	// Nothing reaches the provider before the connection is ready.
	assert.Empty(t, events)
	provider.Connect()

	require.Equal(t, 1, recorder.count())
	require.NoError(t, recorder.errs[0])
	assert.Equal(t, []string{"history", "launch"}, events)

	require.NotNil(t, launched.UpgradeInfo)
	assert.Same(t, newProduct, launched.Product)
	assert.Equal(t, "basic-token", launched.UpgradeInfo.OldPurchaseToken)
	assert.Equal(t, "basic", launched.UpgradeInfo.OldProductID)
	assert.Equal(t, domain.ProrationModeImmediateWithTimeProration, launched.UpgradeInfo.ProrationMode)
}

func TestReplaceOldPurchase_Failures(t *testing.T) {
	tests := []struct {
		name         string
		result       domain.BillingResult
		records      []*domain.PurchaseHistoryRecord
		expectedCode domain.ResponseCode
		expectedErr  error
	}{
		{
			name:         "history query fails",
			result:       mocks.Result(domain.ResponseCodeServiceUnavailable),
			records:      nil,
			expectedCode: domain.ResponseCodeServiceUnavailable,
		},
		{
			name:         "history payload missing",
			result:       mocks.OKResult,
			records:      nil,
			expectedCode: domain.ResponseCodeError,
		},
		{
			name:         "old product never purchased",
			result:       mocks.OKResult,
			records:      []*domain.PurchaseHistoryRecord{fixtures.HistoryRecord("other", "other-token")},
			expectedCode: domain.ResponseCodeItemNotOwned,
			expectedErr:  domain.ErrNoExistingPurchase,
		},
		{
			name:         "old purchase without token",
			result:       mocks.OKResult,
			records:      []*domain.PurchaseHistoryRecord{fixtures.HistoryRecord("basic", "")},
			expectedCode: domain.ResponseCodeItemUnavailable,
			expectedErr:  domain.ErrMissingPurchaseToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, provider := newManager(t)
			provider.Connect()
			provider.On("QueryPurchaseHistory", domain.ProductTypeSubscription).Return(tt.result, tt.records)

			var replaceErr error
			manager.ReplaceOldPurchase(
				domain.PurchaseParams{Product: fixtures.NewSubscription("premium").Build()},
				fixtures.NewSubscription("basic").Build(),
				domain.ProrationModeDeferred,
				func(err error) { replaceErr = err },
			)

			billingErr := requireBillingError(t, replaceErr, tt.expectedCode)
			if tt.expectedErr != nil {
				assert.Contains(t, billingErr.Message, tt.expectedErr.Error())
				assert.Contains(t, billingErr.Message, "basic")
			}
			provider.AssertNotCalled(t, "LaunchPurchaseFlow", mock.Anything)
		})
	}
}

func TestReplaceOldPurchase_QueriesOldProductType(t *testing.T) {
	manager, provider := newManager(t)
	provider.Connect()
	provider.On("QueryPurchaseHistory", domain.ProductTypeInApp).
		Return(mocks.OKResult, []*domain.PurchaseHistoryRecord{fixtures.HistoryRecord("coins", "coins-token")})
	provider.On("LaunchPurchaseFlow", mock.Anything).Return(mocks.OKResult)

	var replaceErr error
	manager.ReplaceOldPurchase(
		domain.PurchaseParams{Product: fixtures.NewSubscription("premium").Build()},
		fixtures.NewInAppProduct("coins").Build(),
		domain.ProrationModeImmediateAndChargeFullPrice,
		func(err error) { replaceErr = err },
	)

	assert.NoError(t, replaceErr)
	provider.AssertNotCalled(t, "QueryPurchaseHistory", domain.ProductTypeSubscription)
	provider.AssertExpectations(t)
}

func TestReplaceOldPurchase_InvalidArguments(t *testing.T) {
	manager, provider := newManager(t)
	provider.Connect()

	var replaceErr error
	manager.ReplaceOldPurchase(domain.PurchaseParams{Product: fixtures.NewSubscription("premium").Build()},
		nil, domain.ProrationModeDeferred, func(err error) { replaceErr = err })

	requireBillingError(t, replaceErr, domain.ResponseCodeDeveloperError)

	manager.ReplaceOldPurchase(domain.PurchaseParams{Product: offerProduct(), OfferID: "missing"},
		fixtures.NewSubscription("basic").Build(), domain.ProrationModeDeferred, func(err error) { replaceErr = err })

	billingErr := requireBillingError(t, replaceErr, domain.ResponseCodeItemUnavailable)
	assert.Contains(t, billingErr.Message, domain.ErrNoOfferFound.Error())
	assert.Empty(t, provider.Calls)
}
