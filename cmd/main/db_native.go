//go:build !cgo_sqlite

package main

import (
	_ "modernc.org/sqlite"
)

// sqlDriver is the pure Go SQLite driver used by default.
const sqlDriver = "sqlite"
