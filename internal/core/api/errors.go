package api

// Error mapping is done inline in handlers:
// a dropped event maps to INVALID_ARGUMENT,
// an oversized batch maps to INVALID_ARGUMENT,
// cancellation and timeouts map to CANCELED / DEADLINE_EXCEEDED,
// a result a Struct cannot carry (ErrNotEncodable) maps to INVALID_ARGUMENT,
// any other encoding failure maps to INTERNAL.
// Payload size is enforced by the server interceptor.
