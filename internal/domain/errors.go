package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, days out of range).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrExtraction is returned when no balanced JSON object could be located in
// the model's text output. The generation attempt is dead; callers surface a
// retry affordance rather than retrying automatically.
var ErrExtraction = errors.New("no complete JSON object located")

// ErrParse is returned when a JSON object was located but failed to parse
// even after sanitization and one repair pass. Wrapping errors include a
// prefix of the offending text for diagnostics.
var ErrParse = errors.New("model output could not be parsed")

// ErrUpstream is returned when the model endpoint itself failed: non-2xx
// status, an error-shaped 200 body, or missing/empty choices. Distinct from
// the parse-layer errors because the request never produced usable content,
// so it is worth retrying as-is.
var ErrUpstream = errors.New("upstream model error")

// ErrRateLimited marks a collaborator response as rate-limit-class.
// The geo client retries these with bounded exponential backoff; everything
// else propagates immediately.
var ErrRateLimited = errors.New("rate limited")
