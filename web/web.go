// Package web holds the bundled browser page.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
