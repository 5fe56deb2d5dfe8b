package fixedfloat

import (
	"encoding/json"
	"testing"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `0.5`, 0.5},
		{"quoted number", `"7.25"`, 7.25},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Numeric
			if err := json.Unmarshal([]byte(tt.in), &n); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if n.Float64() != tt.want {
				t.Errorf("Numeric(%s) = %v, want %v", tt.in, n.Float64(), tt.want)
			}
		})
	}
}

func TestOrderDataOpenEnded(t *testing.T) {
	// The server may add fields at any time; the snapshot must retain
	// whatever it does not model explicitly.
	raw := []byte(`{
		"id": "X1",
		"token": "T1",
		"status": "EXCHANGE",
		"from": {"code": "BTC", "name": "Bitcoin", "amount": "0.5"},
		"to": {"code": "ETH", "amount": 7.5},
		"address": "bc1qdeposit",
		"toAddress": "0xabc",
		"extraId": "",
		"expire": 1700000000,
		"remaining": "540",
		"emergency": {"status": [], "choice": ""},
		"back": "bc1qrefund"
	}`)

	var od OrderData
	if err := json.Unmarshal(raw, &od); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if od.ID != "X1" || od.Token != "T1" || od.Status != StatusExchange {
		t.Errorf("typed fields not decoded: %+v", od)
	}
	if od.From.Amount.Float64() != 0.5 || od.To.Amount.Float64() != 7.5 {
		t.Errorf("legs not decoded: from=%v to=%v", od.From, od.To)
	}
	if od.Remaining.Float64() != 540 {
		t.Errorf("remaining = %v, want 540", od.Remaining)
	}

	// Unmodeled fields land in Extra, typed fields do not.
	if _, ok := od.Extra["emergency"]; !ok {
		t.Error("emergency should be retained in Extra")
	}
	if string(od.Extra["back"]) != `"bc1qrefund"` {
		t.Errorf("back = %s", od.Extra["back"])
	}
	if _, ok := od.Extra["id"]; ok {
		t.Error("typed fields must not be duplicated in Extra")
	}
}
