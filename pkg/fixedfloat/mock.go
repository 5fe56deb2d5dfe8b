package fixedfloat

import (
	"context"
	"sync"
)

// MockExchange is a mock Exchange for testing. It tracks calls per method
// name and supports one-shot error injection.
type MockExchange struct {
	mu sync.RWMutex

	// Response data
	CurrenciesResponse []Currency
	PriceResponse      *PriceResult
	OrderResponse      *OrderData
	QRCodesResponse    []QRCode
	EmergencyAccepted  bool
	RatesResponse      string

	// Last order-scoped arguments, for asserting delegation.
	LastID    string
	LastToken string

	// Call tracking
	Calls map[string]int

	// Error injection
	ErrorOnNext map[string]error
}

var _ Exchange = (*MockExchange)(nil)

// NewMockExchange creates a new mock exchange.
func NewMockExchange() *MockExchange {
	return &MockExchange{
		Calls:             make(map[string]int),
		ErrorOnNext:       make(map[string]error),
		EmergencyAccepted: true,
	}
}

func (m *MockExchange) trackCall(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
	if err, ok := m.ErrorOnNext[name]; ok {
		delete(m.ErrorOnNext, name)
		return err
	}
	return nil
}

func (m *MockExchange) noteOrderRef(id, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastID = id
	m.LastToken = token
}

func (m *MockExchange) Currencies(ctx context.Context) ([]Currency, error) {
	if err := m.trackCall("Currencies"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CurrenciesResponse != nil {
		return m.CurrenciesResponse, nil
	}
	return []Currency{
		{Code: "BTC", Coin: "BTC", Name: "Bitcoin", Recv: true, Send: true},
		{Code: "ETH", Coin: "ETH", Name: "Ethereum", Recv: true, Send: true},
	}, nil
}

func (m *MockExchange) GetPrice(ctx context.Context, req PriceRequest) (*PriceResult, error) {
	if err := m.trackCall("GetPrice"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.PriceResponse != nil {
		return m.PriceResponse, nil
	}
	amt, _ := req.Amount.Float64()
	return &PriceResult{
		From: Leg{Code: req.FromCcy, Amount: Numeric(amt)},
		To:   Leg{Code: req.ToCcy, Amount: Numeric(amt * 15)},
	}, nil
}

func (m *MockExchange) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := m.trackCall("CreateOrder"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.OrderResponse != nil {
		return NewOrder(m, *m.OrderResponse), nil
	}
	return NewOrder(m, OrderData{
		ID:        "mock-order-id",
		Token:     "mock-order-token",
		Status:    StatusNew,
		From:      Leg{Code: req.FromCcy},
		To:        Leg{Code: req.ToCcy},
		ToAddress: req.ToAddress,
	}), nil
}

func (m *MockExchange) GetOrder(ctx context.Context, id, token string) (*Order, error) {
	if err := m.trackCall("GetOrder"); err != nil {
		return nil, err
	}
	m.noteOrderRef(id, token)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.OrderResponse != nil {
		return NewOrder(m, *m.OrderResponse), nil
	}
	return NewOrder(m, OrderData{ID: id, Token: token, Status: StatusPending}), nil
}

func (m *MockExchange) SetEmergency(ctx context.Context, req EmergencyRequest) (bool, error) {
	if err := m.trackCall("SetEmergency"); err != nil {
		return false, err
	}
	m.noteOrderRef(req.ID, req.Token)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.EmergencyAccepted, nil
}

func (m *MockExchange) SetEmailNotification(ctx context.Context, id, token, email string) error {
	if err := m.trackCall("SetEmailNotification"); err != nil {
		return err
	}
	m.noteOrderRef(id, token)
	return nil
}

func (m *MockExchange) GetQRCodes(ctx context.Context, id, token string) ([]QRCode, error) {
	if err := m.trackCall("GetQRCodes"); err != nil {
		return nil, err
	}
	m.noteOrderRef(id, token)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.QRCodesResponse != nil {
		return m.QRCodesResponse, nil
	}
	return []QRCode{
		{Title: "Address", Src: "data:image/png;base64,iVBORw0KGgo=", Checked: true},
	}, nil
}

func (m *MockExchange) RatesXML(ctx context.Context, kind string) (string, error) {
	if err := m.trackCall("RatesXML"); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.RatesResponse != "" {
		return m.RatesResponse, nil
	}
	return `<rates></rates>`, nil
}
