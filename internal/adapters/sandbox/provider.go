package sandbox

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kevin07696/store-billing/internal/adapters/ports"
	"github.com/kevin07696/store-billing/internal/domain"
	domainports "github.com/kevin07696/store-billing/internal/domain/ports"
	"github.com/kevin07696/store-billing/pkg/encoding"
	"github.com/kevin07696/store-billing/pkg/shutdown"
	"github.com/kevin07696/store-billing/pkg/timeutil"
)

// renewalSeparator joins an original order id and its renewal index
const renewalSeparator = ".."

var (
	// ErrUnknownPurchase is returned when simulating an event for a token the sandbox does not own
	ErrUnknownPurchase = errors.New("unknown sandbox purchase")
	// ErrNotSubscription is returned when renewing a one-time purchase
	ErrNotSubscription = errors.New("purchase is not a subscription")
)

// Config configures the sandbox provider
type Config struct {
	PackageName string
	// SetupResponseCode is reported for every connection attempt
	SetupResponseCode domain.ResponseCode
	Clock             timeutil.Clock
}

// DefaultConfig returns a configuration whose connections always succeed
func DefaultConfig() Config {
	return Config{
		PackageName:       "com.example.sandbox",
		SetupResponseCode: domain.ResponseCodeOK,
		Clock:             timeutil.Now,
	}
}

// ownedPurchase is an active purchase held by the sandbox account
type ownedPurchase struct {
	record        *domain.PurchaseRecord
	productType   domain.ProductType
	baseOrderID   string
	renewalsCount int
}

// Provider is an in-memory billing provider backed by a static catalog.
//
// Callbacks run synchronously on the calling goroutine unless a tracker is supplied,
// in which case every callback runs on its own tracked goroutine.
type Provider struct {
	mu               sync.Mutex
	config           Config
	products         map[string]*domain.ProductDescriptor
	productOrder     []string
	owned            []*ownedPurchase
	history          map[string]*domain.PurchaseHistoryRecord
	listener         domainports.ConnectionListener
	purchasesUpdated domainports.PurchasesUpdatedFunc
	ready            bool
	nextPurchaseCode domain.ResponseCode

	tracker *shutdown.InFlightTracker
	logger  ports.Logger
}

// NewProvider creates a sandbox provider serving catalog.
// A nil tracker makes every callback synchronous.
func NewProvider(catalog *Catalog, cfg Config, tracker *shutdown.InFlightTracker, logger ports.Logger) (*Provider, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	descriptors, err := catalog.Descriptors()
	if err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.Now
	}

	p := &Provider{
		config:           cfg,
		products:         make(map[string]*domain.ProductDescriptor, len(descriptors)),
		history:          make(map[string]*domain.PurchaseHistoryRecord),
		nextPurchaseCode: domain.ResponseCodeOK,
		tracker:          tracker,
		logger:           logger,
	}
	for _, d := range descriptors {
		p.products[d.ProductID] = d
		p.productOrder = append(p.productOrder, d.ProductID)
	}

	logger.Info("Sandbox billing provider created",
		ports.Int("products", len(descriptors)),
		ports.String("setup_response_code", cfg.SetupResponseCode.String()),
		ports.Bool("async_callbacks", tracker != nil))
	return p, nil
}

func (p *Provider) StartConnection(listener domainports.ConnectionListener) {
	p.mu.Lock()
	p.listener = listener
	result := newResult(p.config.SetupResponseCode, "")
	p.ready = result.IsOK()
	p.mu.Unlock()

	p.logger.Debug("Sandbox connection attempt", ports.String("response_code", result.ResponseCode.String()))
	p.dispatch(func() { listener.OnSetupFinished(result) })
}

func (p *Provider) EndConnection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = false
	p.listener = nil
	p.logger.Debug("Sandbox connection ended")
}

func (p *Provider) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *Provider) SetPurchasesUpdatedListener(listener domainports.PurchasesUpdatedFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.purchasesUpdated = listener
}

func (p *Provider) QueryProductDetails(productIDs []string, productType domain.ProductType, callback domainports.ProductsCallback) {
	p.mu.Lock()
	if !p.ready {
		p.mu.Unlock()
		p.dispatch(func() { callback(notReadyResult(), nil) })
		return
	}

	products := make([]*domain.ProductDescriptor, 0, len(productIDs))
	for _, id := range productIDs {
		if d, ok := p.products[id]; ok && d.Type == productType {
			clone := *d
			products = append(products, &clone)
		}
	}
	p.mu.Unlock()

	p.dispatch(func() { callback(okResult(), products) })
}

func (p *Provider) QueryPurchases(productType domain.ProductType, callback domainports.PurchasesCallback) {
	p.mu.Lock()
	if !p.ready {
		p.mu.Unlock()
		p.dispatch(func() { callback(notReadyResult(), nil) })
		return
	}

	purchases := make([]*domain.PurchaseRecord, 0, len(p.owned))
	for _, owned := range p.owned {
		if owned.productType == productType {
			purchases = append(purchases, cloneRecord(owned.record))
		}
	}
	p.mu.Unlock()

	p.dispatch(func() { callback(okResult(), purchases) })
}

func (p *Provider) QueryPurchaseHistory(productType domain.ProductType, callback domainports.HistoryCallback) {
	p.mu.Lock()
	if !p.ready {
		p.mu.Unlock()
		p.dispatch(func() { callback(notReadyResult(), nil) })
		return
	}

	records := make([]*domain.PurchaseHistoryRecord, 0, len(p.history))
	for _, id := range p.productOrder {
		record, ok := p.history[id]
		if !ok || p.products[id].Type != productType {
			continue
		}
		clone := *record
		clone.ProductIDs = append([]string(nil), record.ProductIDs...)
		records = append(records, &clone)
	}
	p.mu.Unlock()

	p.dispatch(func() { callback(okResult(), records) })
}

func (p *Provider) Consume(purchaseToken string, callback domainports.ConsumeCallback) {
	p.mu.Lock()
	result := p.consumeLocked(purchaseToken)
	p.mu.Unlock()

	p.dispatch(func() { callback(result, purchaseToken) })
}

func (p *Provider) consumeLocked(purchaseToken string) domain.BillingResult {
	if !p.ready {
		return notReadyResult()
	}
	i := p.findOwnedLocked(purchaseToken)
	if i < 0 {
		return newResult(domain.ResponseCodeItemNotOwned, "unknown purchase token")
	}
	if p.owned[i].productType != domain.ProductTypeInApp {
		return newResult(domain.ResponseCodeDeveloperError, "subscriptions cannot be consumed")
	}
	p.owned = append(p.owned[:i], p.owned[i+1:]...)
	return okResult()
}

func (p *Provider) Acknowledge(purchaseToken string, callback domainports.ResultCallback) {
	p.mu.Lock()
	result := p.acknowledgeLocked(purchaseToken)
	p.mu.Unlock()

	p.dispatch(func() { callback(result) })
}

func (p *Provider) acknowledgeLocked(purchaseToken string) domain.BillingResult {
	if !p.ready {
		return notReadyResult()
	}
	i := p.findOwnedLocked(purchaseToken)
	if i < 0 {
		return newResult(domain.ResponseCodeItemNotOwned, "unknown purchase token")
	}
	p.owned[i].record.Acknowledged = true
	return okResult()
}

// LaunchPurchaseFlow validates params and completes the purchase right away.
// The new purchase, or the failure configured with FailNextPurchase, is pushed to the
// purchases updated listener.
func (p *Provider) LaunchPurchaseFlow(params domain.PurchaseFlowParams) domain.BillingResult {
	p.mu.Lock()
	result := p.validateLaunchLocked(params)
	if !result.IsOK() {
		p.mu.Unlock()
		return result
	}

	listener := p.purchasesUpdated
	pushResult := okResult()
	var pushed []*domain.PurchaseRecord

	if p.nextPurchaseCode != domain.ResponseCodeOK {
		pushResult = newResult(p.nextPurchaseCode, "simulated purchase failure")
		p.nextPurchaseCode = domain.ResponseCodeOK
	} else {
		record, err := p.purchaseLocked(params)
		if err != nil {
			p.mu.Unlock()
			p.logger.Error("Failed to create sandbox purchase", ports.Err(err))
			return newResult(domain.ResponseCodeError, err.Error())
		}
		pushed = []*domain.PurchaseRecord{record}
	}
	p.mu.Unlock()

	p.logger.Info("Sandbox purchase flow finished",
		ports.String("product_id", params.Product.ProductID),
		ports.String("response_code", pushResult.ResponseCode.String()))
	p.push(listener, pushResult, pushed)
	return okResult()
}

func (p *Provider) validateLaunchLocked(params domain.PurchaseFlowParams) domain.BillingResult {
	if !p.ready {
		return notReadyResult()
	}
	if params.Product == nil {
		return newResult(domain.ResponseCodeDeveloperError, "no product to purchase")
	}
	product, ok := p.products[params.Product.ProductID]
	if !ok || product.Type != params.Product.Type {
		return newResult(domain.ResponseCodeItemUnavailable, "product is not in the sandbox catalog")
	}
	if product.IsSubscription() {
		if params.Offer == nil {
			return newResult(domain.ResponseCodeDeveloperError, "subscription purchases require an offer")
		}
		if !hasOfferToken(product, params.Offer.OfferToken) {
			return newResult(domain.ResponseCodeItemUnavailable, "offer is not available for the product")
		}
	}

	if upgrade := params.UpgradeInfo; upgrade != nil {
		i := p.findOwnedLocked(upgrade.OldPurchaseToken)
		if i < 0 || p.owned[i].record.ProductID() != upgrade.OldProductID {
			return newResult(domain.ResponseCodeItemNotOwned, "the replaced purchase is not owned")
		}
	}

	for _, owned := range p.owned {
		if owned.record.ProductID() != product.ProductID {
			continue
		}
		if params.UpgradeInfo == nil || params.UpgradeInfo.OldPurchaseToken != owned.record.PurchaseToken {
			return newResult(domain.ResponseCodeItemAlreadyOwned, "product is already owned")
		}
	}
	return okResult()
}

// purchaseLocked records a new purchase and returns a copy for the push
func (p *Provider) purchaseLocked(params domain.PurchaseFlowParams) (*domain.PurchaseRecord, error) {
	product := p.products[params.Product.ProductID]
	if upgrade := params.UpgradeInfo; upgrade != nil {
		i := p.findOwnedLocked(upgrade.OldPurchaseToken)
		p.owned = append(p.owned[:i], p.owned[i+1:]...)
	}

	orderID := "SBX." + strings.ToUpper(uuid.NewString())
	record := &domain.PurchaseRecord{
		OrderID:       orderID,
		PackageName:   p.config.PackageName,
		ProductIDs:    []string{product.ProductID},
		PurchaseTime:  timeutil.UnixMillis(p.config.Clock()),
		PurchaseState: domain.PurchaseStatePurchased,
		PurchaseToken: uuid.NewString(),
		Quantity:      1,
		AutoRenewing:  product.IsSubscription(),
	}
	if err := refreshOriginalJSON(record); err != nil {
		return nil, err
	}

	p.owned = append(p.owned, &ownedPurchase{
		record:      record,
		productType: product.Type,
		baseOrderID: orderID,
	})
	p.history[product.ProductID] = &domain.PurchaseHistoryRecord{
		ProductIDs:    []string{product.ProductID},
		PurchaseTime:  record.PurchaseTime,
		PurchaseToken: record.PurchaseToken,
		Quantity:      1,
		OriginalJSON:  record.OriginalJSON,
	}
	return cloneRecord(record), nil
}

// SetSetupResponseCode changes the result reported by later connection attempts
func (p *Provider) SetSetupResponseCode(code domain.ResponseCode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config.SetupResponseCode = code
}

// FailNextPurchase makes the next launched purchase push code instead of a purchase
func (p *Provider) FailNextPurchase(code domain.ResponseCode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextPurchaseCode = code
}

// Disconnect simulates losing an established connection
func (p *Provider) Disconnect() {
	p.mu.Lock()
	listener := p.listener
	wasReady := p.ready
	p.ready = false
	p.mu.Unlock()

	if listener == nil || !wasReady {
		return
	}
	p.logger.Warn("Sandbox connection dropped")
	p.dispatch(listener.OnDisconnected)
}

// SimulateRenewal renews an owned subscription and pushes the renewed purchase.
// Renewal order ids carry the renewal index after the original order id.
func (p *Provider) SimulateRenewal(purchaseToken string) error {
	p.mu.Lock()
	i := p.findOwnedLocked(purchaseToken)
	if i < 0 {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownPurchase, purchaseToken)
	}
	owned := p.owned[i]
	if owned.productType != domain.ProductTypeSubscription {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotSubscription, owned.record.ProductID())
	}

	owned.record.OrderID = fmt.Sprintf("%s%s%d", owned.baseOrderID, renewalSeparator, owned.renewalsCount)
	owned.record.PurchaseTime = timeutil.UnixMillis(p.config.Clock())
	owned.renewalsCount++
	if err := refreshOriginalJSON(owned.record); err != nil {
		p.mu.Unlock()
		return err
	}
	renewed := cloneRecord(owned.record)
	listener := p.purchasesUpdated
	p.mu.Unlock()

	p.logger.Info("Sandbox subscription renewed",
		ports.String("product_id", renewed.ProductID()),
		ports.String("order_id", renewed.OrderID))
	p.push(listener, okResult(), []*domain.PurchaseRecord{renewed})
	return nil
}

// SubscriptionTokens returns the purchase tokens of owned subscriptions
func (p *Provider) SubscriptionTokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var tokens []string
	for _, owned := range p.owned {
		if owned.productType == domain.ProductTypeSubscription {
			tokens = append(tokens, owned.record.PurchaseToken)
		}
	}
	return tokens
}

func (p *Provider) push(listener domainports.PurchasesUpdatedFunc, result domain.BillingResult, purchases []*domain.PurchaseRecord) {
	if listener == nil {
		p.logger.Warn("No purchases updated listener installed, dropping update",
			ports.String("response_code", result.ResponseCode.String()))
		return
	}
	p.dispatch(func() { listener(result, purchases) })
}

func (p *Provider) dispatch(callback func()) {
	if p.tracker == nil {
		callback()
		return
	}
	if !p.tracker.Go(callback) {
		p.logger.Warn("Sandbox is shutting down, dropping callback")
	}
}

func (p *Provider) findOwnedLocked(purchaseToken string) int {
	for i, owned := range p.owned {
		if owned.record.PurchaseToken == purchaseToken {
			return i
		}
	}
	return -1
}

func hasOfferToken(product *domain.ProductDescriptor, token string) bool {
	for _, offer := range product.SubscriptionOffers {
		if offer.OfferToken == token {
			return true
		}
	}
	return false
}

func refreshOriginalJSON(record *domain.PurchaseRecord) error {
	serialized, err := encoding.EncodeJSONString(record)
	if err != nil {
		return fmt.Errorf("encode purchase: %w", err)
	}
	record.OriginalJSON = serialized
	return nil
}

func cloneRecord(record *domain.PurchaseRecord) *domain.PurchaseRecord {
	clone := *record
	clone.ProductIDs = append([]string(nil), record.ProductIDs...)
	return &clone
}

func newResult(code domain.ResponseCode, message string) domain.BillingResult {
	return domain.BillingResult{ResponseCode: code, DebugMessage: message}
}

func okResult() domain.BillingResult {
	return newResult(domain.ResponseCodeOK, "")
}

func notReadyResult() domain.BillingResult {
	return newResult(domain.ResponseCodeServiceDisconnected, "sandbox connection is not ready")
}

var _ domainports.Provider = (*Provider)(nil)
