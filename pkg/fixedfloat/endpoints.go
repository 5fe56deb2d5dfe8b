package fixedfloat

// Default hosts. Both are plain fields on the Client so tests can point
// at a local double.
const (
	// DefaultBaseURL is the authenticated JSON API root.
	DefaultBaseURL = "https://ff.io/api/v2"

	// DefaultRatesURL hosts the public XML rate exports.
	DefaultRatesURL = "https://ff.io/rates"
)

// Method names. Each maps one-to-one to a URL path segment under the API
// root.
const (
	MethodCurrencies = "ccies"
	MethodPrice      = "price"
	MethodCreate     = "create"
	MethodOrder      = "order"
	MethodEmergency  = "emergency"
	MethodSetEmail   = "setEmail"
	MethodQR         = "qr"
)

// Headers attached to every signed request. The request id pairs each
// HTTP request with its debug log line.
const (
	HeaderAPIKey    = "X-API-KEY"
	HeaderAPISign   = "X-API-SIGN"
	HeaderRequestID = "X-Request-ID"
)
