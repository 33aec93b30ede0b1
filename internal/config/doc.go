// Package config loads the shelf configuration file.
//
// # Discovery
//
// Load reads the path it is given, or ~/.config/shelf/config.toml when the
// path is empty. A missing file is not an error: every field has a default,
// and blank values in an existing file fall back to the same defaults.
// Invalid TOML fails with a "parse config" error.
//
// # Format
//
//	[store]
//	driver = "bolt"                 # bolt, sqlite, file or memory
//	path = "~/.local/share/shelf/shelf.db"
//
//	[log]
//	level = "info"
//	file = "~/.local/share/shelf/shelf.log"
//	max_size_mb = 10
//	max_backups = 3
//	max_age_days = 28
//
//	[camera]
//	command = "fswebcam -r 1280x720 --no-banner {out}"
//	dir = "~/Pictures/shelf"
//
//	[library]
//	root = "~/Pictures"
//
//	[share]
//	target = "clipboard"            # clipboard, dir or s3
//	dir = "~/Pictures/shelf-shared"
//
//	[share.s3]
//	bucket = "my-shelf"
//	region = "us-east-1"
//	endpoint = "http://localhost:9000"
//	prefix = "shares"
//	path_style = true
//	presign_minutes = 1440
//
// The store path default depends on the driver: shelf.db for bolt,
// shelf.sqlite for sqlite and a store/ directory for file. The memory driver
// has no path.
//
// # Paths
//
// Paths may start with ~ and relative paths are made absolute against the
// working directory. The returned Config only holds absolute paths.
package config
