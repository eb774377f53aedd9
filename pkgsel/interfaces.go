// Package pkgsel provides common infrastructure shared by all the packages
package pkgsel

import (
	"context"
	"io"
)

// Version of pkgsel (filled in at link time)
var Version string

// EnableDebug triggers some debugging features
var EnableDebug = false

// Progress is a progress displaying entity, it allows progress bars & simple prints
type Progress interface {
	// Writer interface to support progress bar ticking
	io.Writer
	// Start makes progress start its work
	Start()
	// Shutdown shuts down progress display
	Shutdown()
	// Flush returns when all queued messages are sent
	Flush()
	// InitBar starts progressbar for count bytes or count items
	InitBar(count int64, isBytes bool)
	// ShutdownBar stops progress bar and hides it
	ShutdownBar()
	// AddBar increments progress for progress bar
	AddBar(count int)
	// Printf does printf but in safe manner: not overwriting progress bar
	Printf(msg string, a ...interface{})
	// ColoredPrintf does printf in colored way + newline
	ColoredPrintf(msg string, a ...interface{})
}

// Downloader fetches files over HTTP
type Downloader interface {
	// Download fetches url into destination file
	Download(ctx context.Context, url string, destination string) error
	// GetProgress returns Progress object
	GetProgress() Progress
}
