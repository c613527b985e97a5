// Package common provides shared constants and build metadata for the
// sciencegame services.
package common

// PackageName identifies this project in metrics and logs.
const PackageName = "sciencegame"

// Version is set at build time via -ldflags.
var Version = "dev"
