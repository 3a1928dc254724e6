package server

import "time"

const (
	// DefaultReadTimeout covers reading the request, including uploaded
	// policy documents.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout must outlast one full run: a model call followed by
	// a batch of SMTP submissions.
	DefaultWriteTimeout = 5 * time.Minute

	// DefaultIdleTimeout is the default timeout for idle connections.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes is the default maximum size of request headers.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
