package fixedfloat

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMockExchange(t *testing.T) {
	ctx := context.Background()

	t.Run("Currencies default response", func(t *testing.T) {
		mock := NewMockExchange()

		ccies, err := mock.Currencies(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ccies) != 2 || ccies[0].Code != "BTC" {
			t.Error("unexpected default currency catalog")
		}
	})

	t.Run("custom response", func(t *testing.T) {
		mock := NewMockExchange()
		mock.CurrenciesResponse = []Currency{{Code: "XMR", Name: "Monero"}}

		ccies, err := mock.Currencies(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ccies) != 1 || ccies[0].Code != "XMR" {
			t.Error("should return custom catalog")
		}
	})

	t.Run("error injection is one-shot", func(t *testing.T) {
		mock := NewMockExchange()
		expectedErr := errors.New("network timeout")
		mock.ErrorOnNext["GetPrice"] = expectedErr

		_, err := mock.GetPrice(ctx, PriceRequest{FromCcy: "BTC", ToCcy: "ETH", Amount: decimal.NewFromInt(1)})
		if err != expectedErr {
			t.Errorf("expected injected error, got %v", err)
		}

		// Second call should succeed.
		_, err = mock.GetPrice(ctx, PriceRequest{FromCcy: "BTC", ToCcy: "ETH", Amount: decimal.NewFromInt(1)})
		if err != nil {
			t.Errorf("second call should succeed, got %v", err)
		}
		if mock.Calls["GetPrice"] != 2 {
			t.Errorf("calls = %d, want 2", mock.Calls["GetPrice"])
		}
	})

	t.Run("CreateOrder hands out a live handle", func(t *testing.T) {
		mock := NewMockExchange()

		order, err := mock.CreateOrder(ctx, CreateOrderRequest{
			FromCcy: "BTC", ToCcy: "ETH", ToAddress: "0xabc", Amount: decimal.NewFromInt(1),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID() == "" || order.Token() == "" {
			t.Error("mock orders need an id and token")
		}

		// The handle refreshes through the mock like a real one.
		mock.OrderResponse = &OrderData{ID: order.ID(), Token: order.Token(), Status: StatusDone}
		if err := order.Refresh(ctx); err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if order.Status() != StatusDone {
			t.Errorf("status = %s, want DONE", order.Status())
		}
	})

	t.Run("GetOrder echoes the requested reference", func(t *testing.T) {
		mock := NewMockExchange()

		order, err := mock.GetOrder(ctx, "A1", "B2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID() != "A1" || order.Token() != "B2" {
			t.Errorf("got (%s, %s), want (A1, B2)", order.ID(), order.Token())
		}
	})
}
