package constant

import "time"

const (
	QUERY_TIMEOUT_DURATION = 10 * time.Second

	REQUEST_SUCCESSFUL   = "Request successful"
	REQUEST_UNSUCCESSFUL = "Request unsuccessful"

	JWT_TYPE_ACCESS  = "access"
	JWT_TYPE_REFRESH = "refresh"

	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1000000
)
