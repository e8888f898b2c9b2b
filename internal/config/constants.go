package config

// Default paths for databases
const (
	// DefaultDatabasePath is the default path for the publication database
	DefaultDatabasePath = "./publications.db"
)
