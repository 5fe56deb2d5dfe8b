package fixedfloat

import (
	"context"
	"encoding/json"
)

// Order is a server-backed view of one exchange order. It holds the last
// snapshot the server returned plus a non-owning reference to the
// exchange that issued it; it never duplicates credentials.
type Order struct {
	ex   Exchange
	data OrderData
}

// NewOrder wraps a snapshot in a handle. Exported so mocks can hand out
// handles without going through the network.
func NewOrder(ex Exchange, data OrderData) *Order {
	return &Order{ex: ex, data: data}
}

// Data returns the current snapshot.
func (o *Order) Data() OrderData { return o.data }

func (o *Order) ID() string    { return o.data.ID }
func (o *Order) Token() string { return o.data.Token }

// Status is the server-reported status as of the last snapshot. No
// transition legality is checked client-side.
func (o *Order) Status() OrderStatus { return o.data.Status }

func (o *Order) From() Leg { return o.data.From }
func (o *Order) To() Leg   { return o.data.To }

// Field looks up an attribute the client does not model explicitly.
func (o *Order) Field(name string) (json.RawMessage, bool) {
	raw, ok := o.data.Extra[name]
	return raw, ok
}

// Refresh replaces the snapshot with the server's current one. The old
// snapshot is swapped out wholesale, so fields the server dropped or
// renamed do not linger across a status transition.
func (o *Order) Refresh(ctx context.Context) error {
	if o.data.ID == "" || o.data.Token == "" {
		return ErrOrderIncomplete
	}
	fresh, err := o.ex.GetOrder(ctx, o.data.ID, o.data.Token)
	if err != nil {
		return err
	}
	o.data = fresh.data
	return nil
}

// SetEmergency resolves an EMERGENCY status with the given choice, using
// this handle's own id and token.
func (o *Order) SetEmergency(ctx context.Context, choice EmergencyChoice, address string) (bool, error) {
	if o.data.ID == "" || o.data.Token == "" {
		return false, ErrOrderIncomplete
	}
	return o.ex.SetEmergency(ctx, EmergencyRequest{
		ID:      o.data.ID,
		Token:   o.data.Token,
		Choice:  choice,
		Address: address,
	})
}

// SetEmailNotification subscribes an email address to this order's status
// updates.
func (o *Order) SetEmailNotification(ctx context.Context, email string) error {
	if o.data.ID == "" || o.data.Token == "" {
		return ErrOrderIncomplete
	}
	return o.ex.SetEmailNotification(ctx, o.data.ID, o.data.Token, email)
}

// GetQRCodes fetches the deposit QR image variants for this order.
func (o *Order) GetQRCodes(ctx context.Context) ([]QRCode, error) {
	if o.data.ID == "" || o.data.Token == "" {
		return nil, ErrOrderIncomplete
	}
	return o.ex.GetQRCodes(ctx, o.data.ID, o.data.Token)
}
