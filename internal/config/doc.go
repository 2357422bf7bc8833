// Package config loads the installer configuration: the download URL
// template, the version probe command, the command table, and the binary and
// vendor directories.
//
// Two file formats are accepted, chosen by extension:
//
//   - .lua: executed in a sandboxed gopher-lua VM with a read-only
//     "platform" table (see platform.InjectPlatformTable) and expected to
//     assign a global "gotool" table.
//   - .toml: decoded with go-toml; unknown keys are rejected.
//
// Both produce the same Config. Fields left unset fall back to Default().
//
// Lua schema:
//
//	gotool = {
//	  url_template = "https://go.dev/dl/go${version}.${osType}-${architecture}.${format}",
//	  probe = { "go", "version" },
//	  tar = "tar",
//	  bin_dir = platform.is_windows and "C:/tools/bin" or "~/.local/bin",
//	  vendor_dir = "~/.gotool/vendor",
//	  commands = {
//	    go    = { link = "go",    nix = "bin/go",    win = "go/bin/go.exe" },
//	    gofmt = { link = "gofmt", nix = "bin/gofmt", win = "go/bin/gofmt.exe" },
//	  },
//	}
//
// The TOML schema uses the same keys, with commands as [commands.<name>]
// tables.
package config
