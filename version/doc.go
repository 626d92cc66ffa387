// Package version exposes the build identity stamped into the binaries.
//
// Version and build metadata are injected at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/skillsenselab/batchscribe/version.Version=1.2.0"
//
// Without injected flags the package falls back to the VCS details Go
// embeds in the build info.
package version
