package ingest

import "errors"

// Sentinel errors for pipeline and extractor operations.
var (
	// ErrDiscoveryFailed wraps a source adapter failure that ends the run.
	ErrDiscoveryFailed = errors.New("failed to discover articles")

	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrExtractionFailed indicates the page was fetched but no text could be extracted.
	ErrExtractionFailed = errors.New("content extraction failed")
)
