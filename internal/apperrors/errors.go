package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConfiguration indicates missing or inconsistent configuration, e.g. a document
// without a place-of-supply state code or no statutory tax rate configured.
// It aborts the single document or template being processed and is never defaulted around.
var ErrConfiguration = errors.New("configuration error")

// ErrExternalService indicates a failure in an external collaborator such as the
// live exchange-rate source. Callers normally recover via cache or fallback table.
var ErrExternalService = errors.New("external service error")

// ErrRateUnresolved indicates that no exchange rate could be resolved for a currency
// pair from any source (cache, live source, fallback table, inverse pair). Unknown
// pairs are never silently treated as 1:1.
var ErrRateUnresolved = errors.New("exchange rate unresolved")
