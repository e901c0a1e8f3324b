package common

const (
	// TAXIIMediaType is the content type of every TAXII resource the server returns.
	TAXIIMediaType = "application/taxii+json;version=2.1"

	// RequestIDHeaderName carries the per-request correlation token.
	RequestIDHeaderName = "X-Request-ID"

	DateAddedFirstHeaderName = "X-TAXII-Date-Added-First"
	DateAddedLastHeaderName  = "X-TAXII-Date-Added-Last"
)
