package http

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pkgsel/pkgsel/pkgsel"
)

// GrabDownloader downloads files with grab, retrying transient failures
type GrabDownloader struct {
	client   *grab.Client
	limiter  *rate.Limiter
	maxTries int
	progress pkgsel.Progress

	// RetryDelay is initial delay between attempts, doubled after each failure
	RetryDelay time.Duration
}

// Check interface
var (
	_ pkgsel.Downloader = (*GrabDownloader)(nil)
)

const (
	delayMax        = 5 * time.Minute
	delayMultiplier = 2
)

// NewGrabDownloader creates new downloader
//
// downLimit is speed limit in KiB/s (0 means unlimited), maxTries is number of attempts per file.
func NewGrabDownloader(downLimit int64, maxTries int, progress pkgsel.Progress) *GrabDownloader {
	client := grab.NewClient()
	client.UserAgent = "pkgsel/" + pkgsel.Version

	var limiter *rate.Limiter
	if downLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(downLimit*1024), int(downLimit*1024))
	}

	if maxTries < 1 {
		maxTries = 1
	}

	return &GrabDownloader{
		client:     client,
		limiter:    limiter,
		maxTries:   maxTries,
		progress:   progress,
		RetryDelay: time.Second,
	}
}

// GetProgress returns Progress object
func (d *GrabDownloader) GetProgress() pkgsel.Progress {
	return d.progress
}

// Download fetches url into destination, retrying network errors and server failures
func (d *GrabDownloader) Download(ctx context.Context, url string, destination string) error {
	delay := d.RetryDelay
	err := fmt.Errorf("no tries available")

	for try := 1; try <= d.maxTries; try++ {
		err = d.download(ctx, url, destination)
		if err == nil {
			return nil
		}

		if !retryableError(err) || try == d.maxTries {
			break
		}

		log.Warn().Err(err).Str("url", url).Int("try", try).Msg("retrying download")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= delayMultiplier
		if delay > delayMax {
			delay = delayMax
		}
	}

	return err
}

func (d *GrabDownloader) download(ctx context.Context, url string, destination string) error {
	log.Debug().Str("url", url).Str("destination", destination).Msg("downloading")

	if err := os.MkdirAll(filepath.Dir(destination), 0777); err != nil {
		return errors.Wrap(err, url)
	}

	req, err := grab.NewRequest(destination+".down", url)
	if err != nil {
		return errors.Wrap(err, url)
	}
	req = req.WithContext(ctx)
	req.NoResume = true
	if d.limiter != nil {
		req.RateLimiter = d.limiter
	}

	resp := d.client.Do(req)

	if d.progress != nil && resp.Size() > 0 {
		d.progress.InitBar(resp.Size(), true)
		defer d.progress.ShutdownBar()
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	var reported int64
	report := func() {
		if d.progress == nil {
			return
		}
		complete := resp.BytesComplete()
		if complete > reported {
			d.progress.AddBar(int(complete - reported))
			reported = complete
		}
	}

Loop:
	for {
		select {
		case <-ticker.C:
			report()
		case <-resp.Done:
			report()
			break Loop
		}
	}

	if err = resp.Err(); err != nil {
		_ = os.Remove(destination + ".down")

		var statusErr grab.StatusCodeError
		if stderrors.As(err, &statusErr) {
			return &Error{Code: int(statusErr), URL: url}
		}
		return errors.Wrap(err, url)
	}

	return errors.Wrap(os.Rename(destination+".down", destination), url)
}

// retryableError checks whether download could succeed on next attempt
func retryableError(err error) bool {
	if httpErr, ok := errors.Cause(err).(*Error); ok {
		return httpErr.Code >= 500 || httpErr.Code == 429
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return stderrors.As(err, &netErr) || stderrors.Is(err, io.ErrUnexpectedEOF)
}
