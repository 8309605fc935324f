// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging, CORS); AppConfig is everything specific to DevBook. The struct is
// passed to most lifecycle hooks, so any configuration needed during
// startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: devbook-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Database operation timeout overrides in seconds; 0 keeps the default
	// for that tier.
	DBTimeoutPing   int
	DBTimeoutShort  int
	DBTimeoutMedium int
	DBTimeoutLong   int

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Gemini assistant configuration. Assist endpoints are disabled when the
	// API key is blank.
	GeminiAPIKey string
	GeminiModel  string

	// BaseURL is this API's public URL, used to build the OAuth callback.
	BaseURL string // e.g., "https://api.devbook.app" or "http://localhost:8080"

	// FrontendURL is where the SPA lives; OAuth flows redirect the browser
	// there when they finish.
	FrontendURL string // e.g., "https://devbook.app" or "http://localhost:3000"
}
