// Package types contains wire types shared by the API and its clients.
package types

// Envelope wraps every JSON response. A successful response carries Data
// and Message; a failed one carries Error only.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a success envelope.
func OK[T any](data T, message string) Envelope[T] {
	return Envelope[T]{Success: true, Data: &data, Message: message}
}

// Fail builds an error envelope.
func Fail(err string) Envelope[struct{}] {
	return Envelope[struct{}]{Success: false, Error: err}
}

// EndpointInfo documents a single route.
type EndpointInfo struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// APIInfo is returned by GET /.
type APIInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Version     string         `json:"version"`
	Endpoints   []EndpointInfo `json:"endpoints"`
}

// Health is returned by GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// CreateTokenRequest is the body of POST /token/create.
type CreateTokenRequest struct {
	MintAuthority string `json:"mintAuthority"`
	Mint          string `json:"mint"`
	Decimals      *uint8 `json:"decimals"`
}

// MintTokenRequest is the body of POST /token/mint.
type MintTokenRequest struct {
	Mint        string `json:"mint"`
	Destination string `json:"destination"`
	Authority   string `json:"authority"`
	Amount      uint64 `json:"amount"`
}

// SignMessageRequest is the body of POST /message/sign.
type SignMessageRequest struct {
	Message string `json:"message"`
	Secret  string `json:"secret"`
}

// VerifyMessageRequest is the body of POST /message/verify.
type VerifyMessageRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	Pubkey    string `json:"pubkey"`
}

// SendSOLRequest is the body of POST /send/sol.
type SendSOLRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Lamports uint64 `json:"lamports"`
}

// SendTokenRequest is the body of POST /send/token.
type SendTokenRequest struct {
	Destination string `json:"destination"`
	Mint        string `json:"mint"`
	Owner       string `json:"owner"`
	Amount      uint64 `json:"amount"`
}
