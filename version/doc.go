// Package version provides build version information and the entry program
// name used as the default application name.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/hostkit/version.Version=1.0.0"
package version
