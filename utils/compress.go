package utils

import (
	"bufio"
	"io"

	"github.com/h2non/filetype"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	xz "github.com/smira/go-xz"
)

// Compression kinds recognized by Decompress
const (
	CompressionNone = "none"
	CompressionGzip = "gz"
	CompressionZstd = "zst"
	CompressionXz   = "xz"
)

// filetype needs this many leading bytes to recognize any of the supported kinds
const sniffLength = 262

// DetectCompression guesses compression by leading bytes of the stream
func DetectCompression(head []byte) string {
	kind, err := filetype.Archive(head)
	if err != nil {
		return CompressionNone
	}

	switch kind.Extension {
	case "gz":
		return CompressionGzip
	case "zst":
		return CompressionZstd
	case "xz":
		return CompressionXz
	}
	return CompressionNone
}

type readCloser struct {
	io.Reader
	close func() error
}

func (rc readCloser) Close() error {
	if rc.close == nil {
		return nil
	}
	return rc.close()
}

// Decompress sniffs compression of r and returns reader of uncompressed data
// together with detected compression kind. Uncompressed input is passed through.
func Decompress(r io.Reader) (io.ReadCloser, string, error) {
	br := bufio.NewReaderSize(r, 4096)

	head, err := br.Peek(sniffLength)
	if err != nil && err != io.EOF {
		return nil, "", errors.Wrap(err, "error reading stream header")
	}

	kind := DetectCompression(head)
	switch kind {
	case CompressionGzip:
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, kind, errors.Wrap(err, "error opening gzip stream")
		}
		return gz, kind, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, kind, errors.Wrap(err, "error opening zstd stream")
		}
		return dec.IOReadCloser(), kind, nil
	case CompressionXz:
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, kind, errors.Wrap(err, "error opening xz stream")
		}
		rc := readCloser{Reader: xzr}
		if closer, ok := interface{}(xzr).(io.Closer); ok {
			rc.close = closer.Close
		}
		return rc, kind, nil
	}

	return readCloser{Reader: br}, CompressionNone, nil
}
