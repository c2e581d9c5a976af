package common

import "runtime/debug"

// Version returns a build identifier for this binary: the module version for
// tagged builds, otherwise the VCS revision stamped in by the toolchain.
func Version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	for _, s := range bi.Settings {
		if s.Key != "vcs.revision" {
			continue
		}

		rev := s.Value
		if len(rev) > 12 {
			rev = rev[:12]
		}
		return rev
	}

	if bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "unknown"
}
