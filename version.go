package annoor

import _ "embed"

// Version is the release of the store, read from the VERSION file at build time.
//
//go:embed VERSION
var Version string
