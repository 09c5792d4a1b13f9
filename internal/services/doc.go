// Package services provides the shared error taxonomy and context annotations
// used by components that drive external tools.
//
// Sentinel errors tag failures by kind (launch, external tool, validation,
// configuration) so callers can classify without string matching; Wrap attaches
// component and operation context to the message.
package services
