package utils

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Short link constants
const (
	// ShortIDLength is the number of characters in a generated short code
	ShortIDLength = 7

	// ShortIDMaxAttempts bounds the regenerate-and-retry loop when an
	// insert collides with an existing short code
	ShortIDMaxAttempts = 3
)

// Context keys for request-scoped values set by handlers
const (
	RequestIDKey  = "request_id"
	UserAgentKey  = "user_agent"
	IPAddressKey  = "ip_address"
	EndpointKey   = "endpoint"
	TimeoutKey    = "timeout"
	CancelFuncKey = "cancel_func"
)

// Password policy constants
const (
	PasswordMinLength = 8
	PasswordMaxLength = 30

	// PasswordSpecialChars are the characters accepted as the special
	// character in a password
	PasswordSpecialChars = ".#?!@$%^&*-_"
)
