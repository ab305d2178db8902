// Package util provides small helpers shared by the host packages: first
// non-empty values, lenient setting parsing and secret masking for display.
package util
