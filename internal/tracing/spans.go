package tracing

// Span attribute keys.
const (
	AttrAPIEndpoint   = "api.endpoint"
	AttrAPIRequestID  = "api.request_id"
	AttrAPIFieldCount = "api.field_count"
	AttrHTTPStatus    = "http.status_code"
	AttrErrorMessage  = "error.message"
)

// SpanPrefixAPI prefixes spans around backend calls, e.g. "api.post command.cgi".
const SpanPrefixAPI = "api."
