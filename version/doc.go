// Package version provides build version information for applications
// built on the toolkit.
//
// The version, commit, branch, and build time variables are stamped at
// link time via -ldflags:
//
//	go build -ldflags "-X github.com/flumehq/flume/version.Version=1.0.0"
package version
