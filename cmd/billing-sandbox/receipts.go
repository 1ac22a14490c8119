package main

import (
	"go.uber.org/zap"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/domain/ports"
)

// acknowledger is the part of the billing manager the receipt logger needs
type acknowledger interface {
	Acknowledge(purchaseToken string, done func(error))
}

// receiptLogger logs normalized purchases and acknowledges the new ones
type receiptLogger struct {
	acknowledger acknowledger
	logger       *zap.Logger
}

func (r *receiptLogger) OnPurchasesCompleted(purchases []*domain.Purchase) {
	for _, purchase := range purchases {
		r.logger.Info("Purchase completed",
			zap.String("product_id", purchase.ProductID),
			zap.String("order_id", purchase.OrderID),
			zap.String("original_order_id", purchase.OriginalOrderID),
			zap.String("price", purchase.Price),
			zap.String("currency", purchase.PriceCurrencyCode),
			zap.String("free_trial_period", purchase.FreeTrialPeriod),
			zap.String("introductory_price", purchase.IntroductoryPrice),
			zap.Int64("purchase_time", purchase.PurchaseTime),
		)

		if purchase.Acknowledged || purchase.PurchaseState != domain.PurchaseStatePurchased {
			continue
		}
		token, productID := purchase.PurchaseToken, purchase.ProductID
		r.acknowledger.Acknowledge(token, func(err error) {
			if err != nil {
				r.logger.Warn("Failed to acknowledge purchase", zap.String("product_id", productID), zap.Error(err))
				return
			}
			r.logger.Info("Purchase acknowledged", zap.String("product_id", productID))
		})
	}
}

func (r *receiptLogger) OnPurchasesFailed(purchases []*domain.Purchase, err *domain.BillingError) {
	r.logger.Warn("Purchase failed",
		zap.Stringer("response_code", err.ResponseCode),
		zap.String("message", err.Message),
		zap.Int("purchases", len(purchases)),
	)
}

var _ ports.NormalizedPurchaseListener = (*receiptLogger)(nil)
