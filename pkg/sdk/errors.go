package convsearch

import "github.com/kailas-cloud/convsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound              = domain.ErrNotFound
	ErrUnsupportedTextFormat = domain.ErrUnsupportedTextFormat
	ErrQueryGeneration       = domain.ErrQueryGeneration
	ErrEngine                = domain.ErrEngine
	ErrSearchAPI             = domain.ErrSearchAPI
	ErrPageFetch             = domain.ErrPageFetch
	ErrRateLimited           = domain.ErrRateLimited
)
