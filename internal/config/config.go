package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DBMaxConns caps the pgx pool. Every workflow transition holds a row
	// lock for the length of one short transaction, so a small pool suffices.
	DBMaxConns = 10

	// DBMinConns keeps warm connections for the health check and list queries.
	DBMinConns = 2
)
