// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other ccitool packages to avoid import cycles.

package version

import "runtime/debug"

// Version is the module version recorded by the Go toolchain, or "dev" for
// local builds.
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}()

// UserAgent is sent with every outbound HTTP request.
func UserAgent() string {
	return "ccitool/" + Version + " (https://github.com/ccitool/ccitool)"
}
