package billing

import (
	"fmt"

	"github.com/kevin07696/store-billing/internal/domain"
)

// ReplaceOldPurchase switches the subscriber from oldProduct to the product in params.
//
// The purchase history of the old product's type is queried first. The purchase flow is
// launched with the old purchase token only after that query succeeded and found a
// purchase of oldProduct. done reports whether the flow started.
func (m *ConnectionManager) ReplaceOldPurchase(
	params domain.PurchaseParams,
	oldProduct *domain.ProductDescriptor,
	prorationMode domain.ProrationMode,
	done func(error),
) {
	complete := m.completion(opReplacePurchase, done)

	if oldProduct == nil {
		complete(domain.NewBillingError(domain.ResponseCodeDeveloperError, "No product to replace was passed."))
		return
	}
	flow, err := purchaseFlowParams(params)
	if err != nil {
		complete(err)
		return
	}

	m.queryPurchaseHistory(oldProduct.Type, func(records []*domain.PurchaseHistoryRecord) {
		record := findHistoryRecord(records, oldProduct.ProductID)
		if record == nil {
			complete(domain.NewBillingError(domain.ResponseCodeItemNotOwned,
				fmt.Sprintf("%s: %s", domain.ErrNoExistingPurchase, oldProduct.ProductID)))
			return
		}
		if record.PurchaseToken == "" {
			complete(domain.NewBillingError(domain.ResponseCodeItemUnavailable,
				fmt.Sprintf("%s: %s", domain.ErrMissingPurchaseToken, oldProduct.ProductID)))
			return
		}

		flow.UpgradeInfo = &domain.UpgradeInfo{
			OldPurchaseToken: record.PurchaseToken,
			OldProductID:     oldProduct.ProductID,
			ProrationMode:    prorationMode,
		}
		m.launchPurchaseFlow(flow, complete)
	}, complete)
}

func findHistoryRecord(records []*domain.PurchaseHistoryRecord, productID string) *domain.PurchaseHistoryRecord {
	for _, record := range records {
		if record != nil && record.ProductID() == productID {
			return record
		}
	}
	return nil
}
