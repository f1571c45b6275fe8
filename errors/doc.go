// Package errors defines AppError, the presentation form of a failed call.
//
// Call failures travel through callbridge unchanged; AppError is only built
// at the edge (the CLI, a service handler) to give them a stable code, an
// HTTP status and a retryable flag. Response bodies follow RFC 7807 in spirit.
package errors
