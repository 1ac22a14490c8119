package billing

import (
	"sync"

	"go.uber.org/zap"

	"github.com/kevin07696/store-billing/internal/domain"
	"github.com/kevin07696/store-billing/internal/domain/ports"
	"github.com/kevin07696/store-billing/pkg/observability"
)

const (
	billingUnavailableMessage = "Billing is not available on this device. "
	connectionClosedMessage   = "Billing connection was closed."
	connectionLostMessage     = "Billing connection was lost before the request could be sent."
)

// ConnectionState is the state of the billing connection
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateReady
	// StateUnavailable is terminal until a new provider is installed
	StateUnavailable
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ConnectionManager owns the connection to a billing provider and the queue of
// operations issued before the connection is ready.
//
// Every public operation is deferred: it is queued while the connection is being
// established, runs as soon as the connection is ready, and completes immediately with
// the stored error once billing turned out to be unavailable. Results are delivered
// through callbacks which may run on the caller's goroutine or on the provider's.
type ConnectionManager struct {
	mu         sync.Mutex
	state      ConnectionState
	setupErr   *domain.BillingError
	queue      *RequestQueue
	provider   ports.Provider
	generation uint64

	listenerMu        sync.RWMutex
	purchasesListener ports.PurchaseUpdateListener

	logger *zap.Logger
}

// NewConnectionManager creates a manager and starts connecting to provider
func NewConnectionManager(provider ports.Provider, logger *zap.Logger) *ConnectionManager {
	m := &ConnectionManager{
		state:  StateDisconnected,
		logger: logger,
	}
	m.queue = NewRequestQueue(&m.mu)
	observability.SetConnectionState(StateDisconnected.String())

	m.SetProvider(provider)
	return m
}

// SetProvider installs a new provider handle and starts connecting to it.
// Callbacks from previously installed handles are ignored from now on.
func (m *ConnectionManager) SetProvider(provider ports.Provider) {
	m.mu.Lock()
	m.provider = provider
	m.generation++
	generation := m.generation
	m.setStateLocked(StateConnecting, nil)
	m.mu.Unlock()

	provider.SetPurchasesUpdatedListener(m.purchasesUpdatedHandler(generation))
	m.startConnection(provider, generation)
}

// Close ends the provider connection. Queued operations complete with a
// SERVICE_DISCONNECTED error, as do operations issued afterwards until SetProvider
// installs a new handle.
func (m *ConnectionManager) Close() {
	m.mu.Lock()
	if m.state == StateDisconnected {
		m.mu.Unlock()
		return
	}
	m.generation++
	provider := m.provider
	m.setStateLocked(StateDisconnected, domain.NewBillingError(domain.ResponseCodeServiceDisconnected, connectionClosedMessage))
	m.drainLocked()
	m.mu.Unlock()

	provider.SetPurchasesUpdatedListener(nil)
	provider.EndConnection()
}

// State returns the current connection state
func (m *ConnectionManager) State() ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// StateName returns the current connection state as a string
func (m *ConnectionManager) StateName() string {
	return m.State().String()
}

// UnavailableReason returns the error stored when billing became unavailable
func (m *ConnectionManager) UnavailableReason() *domain.BillingError {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateUnavailable {
		return nil
	}
	return m.setupErr
}

// PendingOperations returns the number of operations waiting for the connection
func (m *ConnectionManager) PendingOperations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

func (m *ConnectionManager) startConnection(provider ports.Provider, generation uint64) {
	m.logger.Debug("Starting billing connection", zap.Uint64("generation", generation))
	provider.StartConnection(&connectionListener{manager: m, generation: generation})
}

func (m *ConnectionManager) onSetupFinished(generation uint64, result domain.BillingResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		m.logger.Debug("Ignoring setup result of a replaced provider",
			zap.Uint64("generation", generation),
			zap.Stringer("response_code", result.ResponseCode))
		return
	}
	if m.state == StateUnavailable || m.state == StateDisconnected {
		return
	}

	switch {
	case result.IsOK():
		m.setStateLocked(StateReady, nil)
		m.drainLocked()

	case result.ResponseCode.IsConnectionTerminal():
		reason := domain.NewBillingError(result.ResponseCode, billingUnavailableMessage+result.Description())
		m.setStateLocked(StateUnavailable, reason)
		m.drainLocked()

	default:
		// The provider keeps retrying its own connection. DEVELOPER_ERROR means a
		// connection attempt is already running.
		m.logger.Debug("Ignoring billing setup result",
			zap.Stringer("response_code", result.ResponseCode),
			zap.String("debug_message", result.DebugMessage))
	}
}

func (m *ConnectionManager) onDisconnected(generation uint64) {
	m.mu.Lock()
	if generation != m.generation || m.state != StateReady {
		m.mu.Unlock()
		return
	}
	m.setStateLocked(StateConnecting, nil)
	provider := m.provider
	m.mu.Unlock()

	m.logger.Warn("Billing connection lost, reconnecting")
	m.startConnection(provider, generation)
}

// enqueue queues op and runs the queue if the connection allows it
func (m *ConnectionManager) enqueue(op DeferredOperation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queue.Enqueue(func(setupErr *domain.BillingError) {
		observability.RecordDeferredOperation(setupErr != nil)
		op(setupErr)
	})
	observability.SetDeferredQueueDepth(m.queue.Len())
	m.drainLocked()
}

func (m *ConnectionManager) drainLocked() {
	m.queue.Drain(m.gateLocked)
	if !m.queue.IsDraining() {
		observability.SetDeferredQueueDepth(m.queue.Len())
	}
}

func (m *ConnectionManager) gateLocked() (bool, *domain.BillingError) {
	switch m.state {
	case StateReady:
		return true, nil
	case StateUnavailable:
		return true, m.setupErr
	case StateDisconnected:
		// Closed managers reject work; a manager under construction holds it.
		return m.setupErr != nil, m.setupErr
	default:
		return false, nil
	}
}

func (m *ConnectionManager) setStateLocked(state ConnectionState, setupErr *domain.BillingError) {
	m.setupErr = setupErr
	if m.state == state {
		return
	}

	fields := []zap.Field{
		zap.Stringer("from", m.state),
		zap.Stringer("to", state),
	}
	if setupErr != nil {
		fields = append(fields, zap.Stringer("response_code", setupErr.ResponseCode))
	}
	m.logger.Debug("Billing connection state changed", fields...)

	m.state = state
	observability.SetConnectionState(state.String())
}

// storedSetupError returns the error queued operations would complete with right now
func (m *ConnectionManager) storedSetupError() *domain.BillingError {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, setupErr := m.gateLocked()
	return setupErr
}

// readyProvider returns the provider for an operation leaving the queue
func (m *ConnectionManager) readyProvider() (ports.Provider, *domain.BillingError) {
	m.mu.Lock()
	provider := m.provider
	m.mu.Unlock()

	if !provider.IsReady() {
		return nil, domain.NewBillingError(domain.ResponseCodeServiceDisconnected, connectionLostMessage)
	}
	return provider, nil
}

// connectionListener binds provider callbacks to the provider generation they belong to
type connectionListener struct {
	manager    *ConnectionManager
	generation uint64
}

func (l *connectionListener) OnSetupFinished(result domain.BillingResult) {
	l.manager.onSetupFinished(l.generation, result)
}

func (l *connectionListener) OnDisconnected() {
	l.manager.onDisconnected(l.generation)
}

var (
	_ ports.ConnectionListener = (*connectionListener)(nil)
)
