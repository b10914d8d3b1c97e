package domain

import "errors"

// ErrLoad is returned when the feature data file cannot be read, parsed, or
// fails schema validation. It is fatal at startup: the server must not serve
// traffic without its data.
var ErrLoad = errors.New("load error")

// ErrNotFound is returned by repo and service functions when the requested
// feature does not exist in the store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when a request body fails shape validation
// (e.g. missing "features" or a non-FeatureCollection input).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrGeometry is returned by the geometry engine when a geometry cannot be
// parsed or buffered. The whole batch fails; handlers map it to HTTP 400.
var ErrGeometry = errors.New("geometry error")
