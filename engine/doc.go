// Package engine submits workflow documents to a remote execution engine
// over HTTP. It covers submission only: building and serializing workflows
// is the job of the workflow package, and tracking a running workflow
// happens against the engine's own interfaces.
package engine
