package constants

import "time"

const (
	// Rate limit keys and window
	AuthRateLimitKey = "auth"
	RateLimitWindow  = time.Minute
)
