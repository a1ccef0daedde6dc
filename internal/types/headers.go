package types

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderStoreName     = "X-Store-Name"
	HeaderAPIKey        = "x-api-key"
)
