// Package services provides application-level orchestration services
package services

import "errors"

// ErrBusy indicates the session already has a conflicting remote call in
// flight. The gate is advisory; once the in-flight call lands its result
// still applies.
var ErrBusy = errors.New("operation already in progress")
