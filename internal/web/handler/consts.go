package handler

const (
	// APIPath is the prefix of all JSON endpoints.
	APIPath = "/api"

	// IDParam is the route parameter holding a numeric record id.
	IDParam = "id"

	// ErrNilACDFatalLogMsg is used if router or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "router, cfg or db is nil"
)
