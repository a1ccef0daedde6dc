package types

type RunMode string

const (
	// ModeLocal runs the API server together with the background status scheduler
	ModeLocal RunMode = "local"
	// ModeAPI runs just the API server
	ModeAPI RunMode = "api"
	// ModeScheduler runs just the coupon status scheduler
	ModeScheduler RunMode = "scheduler"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StorageProvider selects the backend the coupon directory and order draft store talk to
type StorageProvider string

const (
	StorageProviderSupabase StorageProvider = "supabase"
	StorageProviderPostgres StorageProvider = "postgres"
)
