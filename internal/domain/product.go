package domain

// ProductType is the store type of a product
type ProductType string

const (
	ProductTypeSubscription ProductType = "subs"
	ProductTypeInApp        ProductType = "inapp"
)

// BusinessType is the commercial kind of a product derived from its offers
type BusinessType string

const (
	BusinessTypeTrial        BusinessType = "trial"
	BusinessTypeIntro        BusinessType = "intro"
	BusinessTypeSubscription BusinessType = "subscription"
	BusinessTypeInApp        BusinessType = "inapp"
)

// ProductIdentity identifies a product descriptor
type ProductIdentity struct {
	ProductID  string
	BasePlanID string
}

// ProductDescriptor is the store metadata of a subscription or one-time product.
//
// Descriptors returned by the provider carry every offer of every base plan and an
// empty BasePlanID. ForBasePlan narrows a descriptor to a single base plan.
type ProductDescriptor struct {
	ProductID          string
	Type               ProductType
	Name               string
	Title              string
	Description        string
	BasePlanID         string
	SubscriptionOffers []Offer
	// OneTimeOffer is set for in-app products only.
	OneTimeOffer *Price
	// OriginalJSON is the serialized provider payload.
	OriginalJSON string
}

// Identity returns the (product id, base plan id) pair
func (d *ProductDescriptor) Identity() ProductIdentity {
	return ProductIdentity{ProductID: d.ProductID, BasePlanID: d.BasePlanID}
}

func (d *ProductDescriptor) IsInApp() bool {
	return d.Type == ProductTypeInApp
}

func (d *ProductDescriptor) IsSubscription() bool {
	return d.Type == ProductTypeSubscription
}

// ForBasePlan returns a copy of the descriptor restricted to the offers of one base plan
func (d *ProductDescriptor) ForBasePlan(basePlanID string) *ProductDescriptor {
	narrowed := *d
	narrowed.BasePlanID = basePlanID
	narrowed.SubscriptionOffers = nil
	for _, offer := range d.SubscriptionOffers {
		if offer.BasePlanID == basePlanID {
			narrowed.SubscriptionOffers = append(narrowed.SubscriptionOffers, offer)
		}
	}
	return &narrowed
}

// offers returns pointers to the offers visible for the current base plan
func (d *ProductDescriptor) offers() []*Offer {
	result := make([]*Offer, 0, len(d.SubscriptionOffers))
	for i := range d.SubscriptionOffers {
		offer := &d.SubscriptionOffers[i]
		if d.BasePlanID != "" && offer.BasePlanID != d.BasePlanID {
			continue
		}
		result = append(result, offer)
	}
	return result
}

// BasePlanOffer returns the plain base plan offer
func (d *ProductDescriptor) BasePlanOffer() *Offer {
	for _, offer := range d.offers() {
		if offer.IsBasePlanOnly() {
			return offer
		}
	}
	return nil
}

// FindOffer returns the offer with the given id
func (d *ProductDescriptor) FindOffer(offerID string) *Offer {
	for _, offer := range d.offers() {
		if offer.OfferID == offerID {
			return offer
		}
	}
	return nil
}

// DefaultOffer is the cheapest offer having a trial or intro phase over the capped
// horizon, falling back to the base plan offer. Nil for in-app products.
func (d *ProductDescriptor) DefaultOffer() *Offer {
	if d.IsInApp() {
		return nil
	}

	var eligible []*Offer
	for _, offer := range d.offers() {
		if offer.HasTrialOrIntro() {
			eligible = append(eligible, offer)
		}
	}
	if cheapest := CheapestOffer(eligible); cheapest != nil {
		return cheapest
	}
	return d.BasePlanOffer()
}

// HasTrialOffer reports whether any offer contains a free trial
func (d *ProductDescriptor) HasTrialOffer() bool {
	for _, offer := range d.offers() {
		if offer.HasTrial() {
			return true
		}
	}
	return false
}

// BusinessType classifies the product by its default offer
func (d *ProductDescriptor) BusinessType() BusinessType {
	if d.IsInApp() {
		return BusinessTypeInApp
	}

	offer := d.DefaultOffer()
	switch {
	case offer == nil:
		return BusinessTypeSubscription
	case offer.HasTrial():
		return BusinessTypeTrial
	case offer.HasIntro():
		return BusinessTypeIntro
	default:
		return BusinessTypeSubscription
	}
}

// RegularPrice is the price of the base plan phase, or the one-time price for in-app products
func (d *ProductDescriptor) RegularPrice() *Price {
	if d.IsInApp() {
		return d.OneTimeOffer
	}

	offer := d.BasePlanOffer()
	if offer == nil {
		offer = d.DefaultOffer()
	}
	if offer == nil {
		return nil
	}
	if phase := offer.BasePlanPhase(); phase != nil {
		price := phase.Price
		return &price
	}
	return nil
}
