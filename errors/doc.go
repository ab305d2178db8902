// Package errors provides the error taxonomy used while composing a host.
//
// Every failure carries a machine-readable ErrorCode. Usage errors
// (INVALID_OPERATION, INVALID_ARGUMENT) are reported immediately; extension
// failures are collected into an AggregateError so that no captured failure
// is lost.
package errors
