package http

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkgsel/pkgsel/pkgsel"
)

// DownloadTemp downloads url into temporary file and returns it opened for reading
//
// Temporary file is already removed, so no need to cleanup.
func DownloadTemp(ctx context.Context, downloader pkgsel.Downloader, url string) (*os.File, error) {
	tempdir, err := os.MkdirTemp(os.TempDir(), "pkgsel")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempdir)

	tempfile := filepath.Join(tempdir, "buffer")

	if err = downloader.Download(ctx, url, tempfile); err != nil {
		return nil, err
	}

	return os.Open(tempfile)
}
