// Package mocks provides shared mock implementations for testing.
package mocks

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/domain/ports"
)

// OKResult is a successful provider result.
var OKResult = domain.BillingResult{ResponseCode: domain.ResponseCodeOK}

// Result returns a provider result with the given code.
func Result(code domain.ResponseCode) domain.BillingResult {
	return domain.BillingResult{ResponseCode: code, DebugMessage: "mock " + code.String()}
}

// MockProvider is a ports.Provider double.
//
// Connection callbacks are driven by the test through Connect, Fail and Disconnect.
// Query methods are recorded with mock.Mock and invoke their callback synchronously
// with the configured return values:
//
//	provider.On("QueryPurchases", domain.ProductTypeInApp).Return(mocks.OKResult, records)
type MockProvider struct {
	mock.Mock

	mu               sync.Mutex
	listeners        []ports.ConnectionListener
	purchasesUpdated ports.PurchasesUpdatedFunc
	ready            bool
	ended            bool
}

// NewMockProvider creates a provider that reports ready once connected.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) StartConnection(listener ports.ConnectionListener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, listener)
}

func (p *MockProvider) EndConnection() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = true
	p.ready = false
}

func (p *MockProvider) IsReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

func (p *MockProvider) QueryProductDetails(productIDs []string, productType domain.ProductType, callback ports.ProductsCallback) {
	args := p.Called(productIDs, productType)
	var products []*domain.ProductDescriptor
	if args.Get(1) != nil {
		products = args.Get(1).([]*domain.ProductDescriptor)
	}
	callback(args.Get(0).(domain.BillingResult), products)
}

func (p *MockProvider) QueryPurchases(productType domain.ProductType, callback ports.PurchasesCallback) {
	args := p.Called(productType)
	var purchases []*domain.PurchaseRecord
	if args.Get(1) != nil {
		purchases = args.Get(1).([]*domain.PurchaseRecord)
	}
	callback(args.Get(0).(domain.BillingResult), purchases)
}

func (p *MockProvider) QueryPurchaseHistory(productType domain.ProductType, callback ports.HistoryCallback) {
	args := p.Called(productType)
	var records []*domain.PurchaseHistoryRecord
	if args.Get(1) != nil {
		records = args.Get(1).([]*domain.PurchaseHistoryRecord)
	}
	callback(args.Get(0).(domain.BillingResult), records)
}

func (p *MockProvider) Consume(purchaseToken string, callback ports.ConsumeCallback) {
	args := p.Called(purchaseToken)
	callback(args.Get(0).(domain.BillingResult), purchaseToken)
}

func (p *MockProvider) Acknowledge(purchaseToken string, callback ports.ResultCallback) {
	args := p.Called(purchaseToken)
	callback(args.Get(0).(domain.BillingResult))
}

func (p *MockProvider) LaunchPurchaseFlow(params domain.PurchaseFlowParams) domain.BillingResult {
	args := p.Called(params)
	return args.Get(0).(domain.BillingResult)
}

func (p *MockProvider) SetPurchasesUpdatedListener(listener ports.PurchasesUpdatedFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.purchasesUpdated = listener
}

// Connect reports a successful setup to the latest connection listener.
func (p *MockProvider) Connect() {
	p.mu.Lock()
	p.ready = true
	listener := p.lastListener()
	p.mu.Unlock()

	listener.OnSetupFinished(OKResult)
}

// Fail reports a failed setup with the given code to the latest connection listener.
func (p *MockProvider) Fail(code domain.ResponseCode) {
	p.mu.Lock()
	listener := p.lastListener()
	p.mu.Unlock()

	listener.OnSetupFinished(Result(code))
}

// Disconnect reports a lost connection to the latest connection listener.
func (p *MockProvider) Disconnect() {
	p.mu.Lock()
	p.ready = false
	listener := p.lastListener()
	p.mu.Unlock()

	listener.OnDisconnected()
}

// SetReady overrides the readiness reported by IsReady.
func (p *MockProvider) SetReady(ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = ready
}

// Listener returns the connection listener passed to the n-th StartConnection call.
func (p *MockProvider) Listener(n int) ports.ConnectionListener {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listeners[n]
}

// ConnectionAttempts returns the number of StartConnection calls.
func (p *MockProvider) ConnectionAttempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// Ended reports whether EndConnection was called.
func (p *MockProvider) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

// PushPurchases invokes the installed purchases updated listener.
func (p *MockProvider) PushPurchases(result domain.BillingResult, purchases []*domain.PurchaseRecord) {
	p.mu.Lock()
	listener := p.purchasesUpdated
	p.mu.Unlock()

	if listener != nil {
		listener(result, purchases)
	}
}

func (p *MockProvider) lastListener() ports.ConnectionListener {
	return p.listeners[len(p.listeners)-1]
}

// MockPurchaseUpdateListener records pushed purchases.
type MockPurchaseUpdateListener struct {
	mock.Mock
}

func (l *MockPurchaseUpdateListener) OnPurchasesCompleted(purchases []*domain.PurchaseRecord) {
	l.Called(purchases)
}

func (l *MockPurchaseUpdateListener) OnPurchasesFailed(purchases []*domain.PurchaseRecord, err *domain.BillingError) {
	l.Called(purchases, err)
}

// MockNormalizedPurchaseListener records normalized purchases.
type MockNormalizedPurchaseListener struct {
	mock.Mock
}

func (l *MockNormalizedPurchaseListener) OnPurchasesCompleted(purchases []*domain.Purchase) {
	l.Called(purchases)
}

func (l *MockNormalizedPurchaseListener) OnPurchasesFailed(purchases []*domain.Purchase, err *domain.BillingError) {
	l.Called(purchases, err)
}

var (
	_ ports.Provider                   = (*MockProvider)(nil)
	_ ports.PurchaseUpdateListener     = (*MockPurchaseUpdateListener)(nil)
	_ ports.NormalizedPurchaseListener = (*MockNormalizedPurchaseListener)(nil)
)
