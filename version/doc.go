// Package version reports the callbridge build.
//
// Version, Commit and BuildTime are stamped at link time; anything left
// empty is filled from the module's VCS build settings:
//
//	go build -ldflags "-X github.com/kbukum/callbridge/version.Version=1.2.0" ./cmd/callbridge
package version
