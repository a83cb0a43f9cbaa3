// Package api provides the HTTP surface of the emily assistant: a status
// endpoint and the chat endpoint the studio frontend talks to.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string
}
