// Package types defines the shared error taxonomy used across ophflow.
//
// Every failure surfaced by the workflow core and the engine client is a
// *types.Error carrying one of six ErrorCode values. Callers classify
// failures with IsCode (wrap-safe) or GetErrorCode (direct) instead of
// matching message text.
package types
