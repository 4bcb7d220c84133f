package engine

// Error kinds carried in the response envelope and used as metric status
// labels. Domain-level failures are values, never panics: the envelope shape
// is shared with success so callers render both uniformly.
const (
	StatusOK                   = "ok"
	StatusInvalidParameters    = "invalid_parameters"
	StatusUpstreamExhausted    = "upstream_exhausted"
	StatusUnresolvedIdentifier = "unresolved_identifier"
)
