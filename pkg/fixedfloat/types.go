package fixedfloat

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Numeric handles exchange numbers that may arrive as strings or numbers.
type Numeric float64

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || strings.EqualFold(string(data), "null") {
		*n = 0
		return nil
	}

	// Handle quoted numbers.
	if data[0] == '"' && data[len(data)-1] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Numeric(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Numeric(f)
	return nil
}

func (n Numeric) Float64() float64 {
	return float64(n)
}

// OrderStatus mirrors the status string reported by the exchange. The
// client never validates transitions; the value is whatever the server
// last said.
type OrderStatus string

const (
	StatusNew       OrderStatus = "NEW"
	StatusPending   OrderStatus = "PENDING"
	StatusExchange  OrderStatus = "EXCHANGE"
	StatusWithdraw  OrderStatus = "WITHDRAW"
	StatusDone      OrderStatus = "DONE"
	StatusExpired   OrderStatus = "EXPIRED"
	StatusEmergency OrderStatus = "EMERGENCY"
)

// Terminal reports whether the server is done with an order in this
// status. EMERGENCY counts as terminal until resolved with an emergency
// choice.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDone, StatusExpired, StatusEmergency:
		return true
	}
	return false
}

// EmergencyChoice resolves an order stuck in EMERGENCY.
type EmergencyChoice string

const (
	EmergencyExchange EmergencyChoice = "EXCHANGE"
	EmergencyRefund   EmergencyChoice = "REFUND"
)

// Direction selects which leg of a swap the amount applies to.
const (
	DirectionFrom = "from"
	DirectionTo   = "to"
)

// Order kinds accepted by price, create and the rate exports.
const (
	TypeFixed = "fixed"
	TypeFloat = "float"
)

// Currency describes one entry of the currency catalog.
type Currency struct {
	Code     string  `json:"code"`
	Coin     string  `json:"coin"`
	Network  string  `json:"network"`
	Name     string  `json:"name"`
	Recv     bool    `json:"recv"`
	Send     bool    `json:"send"`
	Tag      string  `json:"tag"`
	Priority Numeric `json:"priority"`
}

// Leg is one side of a swap: what the order takes in or pays out.
type Leg struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Amount Numeric `json:"amount"`
}

// PriceResult is the quote returned by the price method.
type PriceResult struct {
	From   Leg      `json:"from"`
	To     Leg      `json:"to"`
	Errors []string `json:"errors"`
}

// QRCode is one deposit QR image variant. Src is a base64 data URI and is
// passed through opaquely.
type QRCode struct {
	Title   string `json:"title"`
	Src     string `json:"src"`
	Checked bool   `json:"checked"`
}

// orderDataFields are the attribute names OrderData models explicitly.
var orderDataFields = []string{
	"id", "token", "status", "from", "to",
	"address", "toAddress", "extraId",
	"used", "expire", "remaining",
}

// OrderData is one server snapshot of an order. The attribute set is
// server-defined and open-ended: fields the client does not model are
// retained verbatim in Extra, so a snapshot never loses information.
type OrderData struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	Status    OrderStatus `json:"status"`
	From      Leg         `json:"from"`
	To        Leg         `json:"to"`
	Address   string      `json:"address"`
	ToAddress string      `json:"toAddress"`
	ExtraID   string      `json:"extraId"`
	Used      Numeric     `json:"used"`
	Expire    Numeric     `json:"expire"`
	Remaining Numeric     `json:"remaining"`

	// Extra holds every attribute the server returned that is not one of
	// the typed fields above.
	Extra map[string]json.RawMessage `json:"-"`
}

// orderDataAlias avoids UnmarshalJSON recursion.
type orderDataAlias OrderData

func (d *OrderData) UnmarshalJSON(raw []byte) error {
	var known orderDataAlias
	if err := json.Unmarshal(raw, &known); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return err
	}
	for _, name := range orderDataFields {
		delete(all, name)
	}
	if len(all) == 0 {
		all = nil
	}
	known.Extra = all

	*d = OrderData(known)
	return nil
}
