package sandbox

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/pkg/encoding"
)

// ErrInvalidCatalog is returned for catalogs that fail validation
var ErrInvalidCatalog = errors.New("invalid sandbox catalog")

// tokenNamespace derives stable sandbox tokens from product and offer ids
var tokenNamespace = uuid.MustParse("6f1c3f4e-2b8a-4d1e-9c57-0b5f8a3e2d71")

// Catalog is the product list served by the sandbox provider
type Catalog struct {
	Products []CatalogProduct `yaml:"products"`
}

// CatalogProduct is one product of the catalog file
type CatalogProduct struct {
	ProductID    string             `yaml:"product_id"`
	Type         domain.ProductType `yaml:"type"`
	Name         string             `yaml:"name"`
	Title        string             `yaml:"title"`
	Description  string             `yaml:"description"`
	Offers       []domain.RawOffer  `yaml:"offers"`
	OneTimePrice *OneTimePrice      `yaml:"one_time_price"`
}

// OneTimePrice is the price of an in-app product
type OneTimePrice struct {
	PriceAmountMicros int64  `json:"priceAmountMicros" yaml:"price_amount_micros"`
	PriceCurrencyCode string `json:"priceCurrencyCode" yaml:"price_currency_code"`
	FormattedPrice    string `json:"formattedPrice" yaml:"formatted_price"`
}

// productPayload is the serialized form kept in ProductDescriptor.OriginalJSON
type productPayload struct {
	ProductID                   string             `json:"productId"`
	Type                        domain.ProductType `json:"type"`
	Name                        string             `json:"name"`
	Title                       string             `json:"title"`
	Description                 string             `json:"description"`
	SkuDetailsToken             string             `json:"skuDetailsToken"`
	SubscriptionOfferDetails    []domain.RawOffer  `json:"subscriptionOfferDetails,omitempty"`
	OneTimePurchaseOfferDetails *OneTimePrice      `json:"oneTimePurchaseOfferDetails,omitempty"`
}

// LoadCatalog reads and validates a YAML catalog file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate checks that every product can be served
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		if p.ProductID == "" {
			return fmt.Errorf("%w: product #%d has no product_id", ErrInvalidCatalog, i)
		}
		if seen[p.ProductID] {
			return fmt.Errorf("%w: duplicate product %s", ErrInvalidCatalog, p.ProductID)
		}
		seen[p.ProductID] = true

		switch p.Type {
		case domain.ProductTypeSubscription:
			if len(p.Offers) == 0 {
				return fmt.Errorf("%w: subscription %s has no offers", ErrInvalidCatalog, p.ProductID)
			}
			for j, offer := range p.Offers {
				if offer.BasePlanID == "" {
					return fmt.Errorf("%w: offer #%d of %s has no base_plan_id", ErrInvalidCatalog, j, p.ProductID)
				}
				if len(offer.PricingPhases) == 0 {
					return fmt.Errorf("%w: offer #%d of %s has no pricing phases", ErrInvalidCatalog, j, p.ProductID)
				}
			}
		case domain.ProductTypeInApp:
			if p.OneTimePrice == nil {
				return fmt.Errorf("%w: in-app product %s has no one_time_price", ErrInvalidCatalog, p.ProductID)
			}
		default:
			return fmt.Errorf("%w: product %s has unknown type %q", ErrInvalidCatalog, p.ProductID, p.Type)
		}
	}
	return nil
}

// Descriptors converts the catalog into provider product descriptors
func (c *Catalog) Descriptors() ([]*domain.ProductDescriptor, error) {
	descriptors := make([]*domain.ProductDescriptor, 0, len(c.Products))
	for _, p := range c.Products {
		descriptor, err := p.descriptor()
		if err != nil {
			return nil, fmt.Errorf("build descriptor %s: %w", p.ProductID, err)
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, nil
}

func (p CatalogProduct) descriptor() (*domain.ProductDescriptor, error) {
	offers := make([]domain.RawOffer, len(p.Offers))
	for i, offer := range p.Offers {
		if offer.OfferToken == "" {
			offer.OfferToken = stableToken(p.ProductID, offer.BasePlanID, offer.OfferID)
		}
		offers[i] = offer
	}

	originalJSON, err := encoding.EncodeJSONString(productPayload{
		ProductID:                   p.ProductID,
		Type:                        p.Type,
		Name:                        p.Name,
		Title:                       p.Title,
		Description:                 p.Description,
		SkuDetailsToken:             stableToken(p.ProductID, "details"),
		SubscriptionOfferDetails:    offers,
		OneTimePurchaseOfferDetails: p.OneTimePrice,
	})
	if err != nil {
		return nil, err
	}

	descriptor := &domain.ProductDescriptor{
		ProductID:    p.ProductID,
		Type:         p.Type,
		Name:         p.Name,
		Title:        p.Title,
		Description:  p.Description,
		OriginalJSON: originalJSON,
	}
	for _, offer := range offers {
		descriptor.SubscriptionOffers = append(descriptor.SubscriptionOffers, domain.NewOffer(offer))
	}
	if p.OneTimePrice != nil {
		descriptor.OneTimeOffer = &domain.Price{
			AmountMicros: p.OneTimePrice.PriceAmountMicros,
			CurrencyCode: p.OneTimePrice.PriceCurrencyCode,
			Formatted:    p.OneTimePrice.FormattedPrice,
		}
	}
	return descriptor, nil
}

func stableToken(parts ...string) string {
	name := ""
	for _, part := range parts {
		name += part + "/"
	}
	return uuid.NewSHA1(tokenNamespace, []byte(name)).String()
}
