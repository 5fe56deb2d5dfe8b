package fixedfloat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Exchange is the operation surface of the exchange API. Client is the
// real implementation; MockExchange serves tests.
type Exchange interface {
	Currencies(ctx context.Context) ([]Currency, error)
	GetPrice(ctx context.Context, req PriceRequest) (*PriceResult, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, id, token string) (*Order, error)
	SetEmergency(ctx context.Context, req EmergencyRequest) (bool, error)
	SetEmailNotification(ctx context.Context, id, token, email string) error
	GetQRCodes(ctx context.Context, id, token string) ([]QRCode, error)
	RatesXML(ctx context.Context, kind string) (string, error)
}

// Client talks to the exchange REST API. It owns the credentials, signs
// every authenticated request, and unwraps the {code, msg, data} envelope
// so callers only ever see the data payload.
//
// The client performs no retries, caching or rate limiting; every failure
// is surfaced once to the caller. Cancellation and timeouts beyond the
// transport default are the caller's job via ctx.
type Client struct {
	BaseURL  string
	RatesURL string

	apiKey string
	secret string

	http *resty.Client
	log  *logrus.Entry
}

var _ Exchange = (*Client)(nil)

// NewClient builds a client for the given credentials. Both the API key
// and the secret key are required.
func NewClient(apiKey, secretKey string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(secretKey) == "" {
		return nil, &ConfigError{Reason: "api key and secret key are required"}
	}

	return &Client{
		BaseURL:  DefaultBaseURL,
		RatesURL: DefaultRatesURL,
		apiKey:   apiKey,
		secret:   secretKey,
		http: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "goswap-fixedfloat"),
		log: logrus.WithField("component", "fixedfloat"),
	}, nil
}

// SetLogger overrides the logrus entry the client logs dispatches with.
func (c *Client) SetLogger(entry *logrus.Entry) {
	if entry != nil {
		c.log = entry
	}
}

// PriceRequest describes a quote query.
type PriceRequest struct {
	FromCcy   string
	ToCcy     string
	Amount    decimal.Decimal
	Direction string // defaults to "from"
	Type      string // defaults to "float"
}

// CreateOrderRequest describes a new order.
type CreateOrderRequest struct {
	FromCcy       string
	ToCcy         string
	ToAddress     string
	Amount        decimal.Decimal
	Direction     string // defaults to "from"
	Type          string // defaults to "float"
	ExtraID       string
	RefundAddress string
	RefundExtraID string
}

// EmergencyRequest resolves an order in EMERGENCY status. Address is
// required when Choice is REFUND.
type EmergencyRequest struct {
	ID      string
	Token   string
	Choice  EmergencyChoice
	Address string
}

// envelope is the outer response wrapper common to every API method.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// dispatch serializes params canonically, signs the exact bytes and POSTs
// them to base+"/"+method. It returns the data field of the envelope, an
// *APIError on a non-zero code, or a wrapped transport error.
//
// encoding/json sorts map keys, which fixes the canonical encoding shared
// by the signature and the transmitted body.
func (c *Client) dispatch(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s params", method)
	}

	reqID := uuid.NewString()
	c.log.WithFields(logrus.Fields{
		"method": method,
		"req_id": reqID,
	}).Debug("dispatching signed request")

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json; charset=UTF-8").
		SetHeader(HeaderRequestID, reqID).
		SetHeader(HeaderAPIKey, c.apiKey).
		SetHeader(HeaderAPISign, signBody(c.secret, body)).
		SetBody(body).
		Post(strings.TrimRight(c.BaseURL, "/") + "/" + method)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request failed", method)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, errors.Wrapf(err, "decode %s response (http %d)", method, resp.StatusCode())
	}
	if env.Code != 0 {
		return nil, &APIError{Code: env.Code, Message: envelopeMessage(env)}
	}
	return env.Data, nil
}

// envelopeMessage picks the most specific error text the server offered:
// msg, then data.message, then a generic label.
func envelopeMessage(env envelope) string {
	if env.Msg != "" {
		return env.Msg
	}
	var data struct {
		Message string `json:"message"`
	}
	if len(env.Data) > 0 && json.Unmarshal(env.Data, &data) == nil && data.Message != "" {
		return data.Message
	}
	return "exchange error"
}

// requireParams fails with a ValidationError naming every missing input.
// pairs alternates parameter name and value.
func requireParams(op string, pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Op: op, Missing: missing}
	}
	return nil
}

// missingPairParams validates the inputs shared by price and create.
func missingPairParams(fromCcy, toCcy string, amount decimal.Decimal) []string {
	var missing []string
	if strings.TrimSpace(fromCcy) == "" {
		missing = append(missing, "fromCcy")
	}
	if strings.TrimSpace(toCcy) == "" {
		missing = append(missing, "toCcy")
	}
	if amount.IsZero() {
		missing = append(missing, "amount")
	}
	return missing
}

// pairParams builds the price/create parameter mapping, applying the
// documented defaults for direction and type. The amount travels as a
// JSON number.
func pairParams(fromCcy, toCcy string, amount decimal.Decimal, direction, kind string) map[string]any {
	if direction == "" {
		direction = DirectionFrom
	}
	if kind == "" {
		kind = TypeFloat
	}
	amt, _ := amount.Float64()
	return map[string]any{
		"fromCcy":   fromCcy,
		"toCcy":     toCcy,
		"amount":    amt,
		"direction": direction,
		"type":      kind,
	}
}

// Currencies lists every currency the exchange can take in or pay out.
func (c *Client) Currencies(ctx context.Context) ([]Currency, error) {
	data, err := c.dispatch(ctx, MethodCurrencies, nil)
	if err != nil {
		return nil, err
	}
	var ccies []Currency
	if err := json.Unmarshal(data, &ccies); err != nil {
		return nil, errors.Wrap(err, "decode currencies")
	}
	return ccies, nil
}

// GetPrice quotes an exchange of req.Amount between two currencies.
func (c *Client) GetPrice(ctx context.Context, req PriceRequest) (*PriceResult, error) {
	if missing := missingPairParams(req.FromCcy, req.ToCcy, req.Amount); len(missing) > 0 {
		return nil, &ValidationError{Op: MethodPrice, Missing: missing}
	}

	data, err := c.dispatch(ctx, MethodPrice,
		pairParams(req.FromCcy, req.ToCcy, req.Amount, req.Direction, req.Type))
	if err != nil {
		return nil, err
	}

	var result PriceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "decode price")
	}
	return &result, nil
}

// CreateOrder places a new order and returns a handle built from the
// server's response. The handle's id and token come from the server,
// never from the request.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	missing := missingPairParams(req.FromCcy, req.ToCcy, req.Amount)
	if strings.TrimSpace(req.ToAddress) == "" {
		missing = append(missing, "toAddress")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Op: MethodCreate, Missing: missing}
	}

	params := pairParams(req.FromCcy, req.ToCcy, req.Amount, req.Direction, req.Type)
	params["toAddress"] = req.ToAddress
	if req.ExtraID != "" {
		params["extraId"] = req.ExtraID
	}
	if req.RefundAddress != "" {
		params["refundAddress"] = req.RefundAddress
	}
	if req.RefundExtraID != "" {
		params["refundExtraId"] = req.RefundExtraID
	}

	data, err := c.dispatch(ctx, MethodCreate, params)
	if err != nil {
		return nil, err
	}

	var od OrderData
	if err := json.Unmarshal(data, &od); err != nil {
		return nil, errors.Wrap(err, "decode created order")
	}
	return NewOrder(c, od), nil
}

// GetOrder rehydrates a handle for an order the caller already owns.
// Possessing both id and token is what "owning" an order means; there is
// no separate authorization.
func (c *Client) GetOrder(ctx context.Context, id, token string) (*Order, error) {
	od, err := c.fetchOrder(ctx, id, token)
	if err != nil {
		return nil, err
	}
	return NewOrder(c, od), nil
}

// fetchOrder pulls the current order snapshot. Shared by GetOrder and
// Order.Refresh.
func (c *Client) fetchOrder(ctx context.Context, id, token string) (OrderData, error) {
	if err := requireParams(MethodOrder, "id", id, "token", token); err != nil {
		return OrderData{}, err
	}

	data, err := c.dispatch(ctx, MethodOrder, map[string]any{"id": id, "token": token})
	if err != nil {
		return OrderData{}, err
	}

	var od OrderData
	if err := json.Unmarshal(data, &od); err != nil {
		return OrderData{}, errors.Wrap(err, "decode order")
	}
	return od, nil
}

// SetEmergency tells the exchange how to resolve an EMERGENCY order:
// continue the exchange at the current rate, or refund. REFUND requires a
// refund address.
func (c *Client) SetEmergency(ctx context.Context, req EmergencyRequest) (bool, error) {
	if err := requireParams(MethodEmergency,
		"id", req.ID, "token", req.Token, "choice", string(req.Choice)); err != nil {
		return false, err
	}
	switch req.Choice {
	case EmergencyExchange, EmergencyRefund:
	default:
		return false, &ValidationError{
			Op:     MethodEmergency,
			Reason: fmt.Sprintf("invalid choice %q (want %s or %s)", req.Choice, EmergencyExchange, EmergencyRefund),
		}
	}
	if req.Choice == EmergencyRefund && strings.TrimSpace(req.Address) == "" {
		return false, &ValidationError{Op: MethodEmergency, Missing: []string{"address"}}
	}

	params := map[string]any{
		"id":     req.ID,
		"token":  req.Token,
		"choice": string(req.Choice),
	}
	if req.Address != "" {
		params["address"] = req.Address
	}

	data, err := c.dispatch(ctx, MethodEmergency, params)
	if err != nil {
		return false, err
	}
	var accepted bool
	if len(data) > 0 {
		_ = json.Unmarshal(data, &accepted)
	}
	return accepted, nil
}

// SetEmailNotification subscribes an email address to status updates for
// one order.
func (c *Client) SetEmailNotification(ctx context.Context, id, token, email string) error {
	if err := requireParams(MethodSetEmail, "id", id, "token", token, "email", email); err != nil {
		return err
	}
	_, err := c.dispatch(ctx, MethodSetEmail, map[string]any{
		"id":    id,
		"token": token,
		"email": email,
	})
	return err
}

// GetQRCodes fetches the deposit QR image variants for one order.
func (c *Client) GetQRCodes(ctx context.Context, id, token string) ([]QRCode, error) {
	if err := requireParams(MethodQR, "id", id, "token", token); err != nil {
		return nil, err
	}

	data, err := c.dispatch(ctx, MethodQR, map[string]any{"id": id, "token": token})
	if err != nil {
		return nil, err
	}

	var codes []QRCode
	if err := json.Unmarshal(data, &codes); err != nil {
		return nil, errors.Wrap(err, "decode qr codes")
	}
	return codes, nil
}
