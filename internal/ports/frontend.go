package ports

// Frontend defines the interface for the request-serving boundary
type Frontend interface {
	// Start begins accepting requests
	Start() error

	// Stop drains and shuts the boundary down
	Stop() error
}
