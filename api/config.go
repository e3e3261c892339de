// Package api provides the HTTP server that exposes component generation to
// browsers and other clients as a server-sent event stream.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// AllowOrigins is the CORS allow-list. Empty allows any origin.
	AllowOrigins string
}
