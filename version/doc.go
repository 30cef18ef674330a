// Package version reports build metadata for the cryptokit binary.
//
//	go build -ldflags "-X github.com/shhhinnovations/cryptokit/version.Version=1.0.0"
package version
