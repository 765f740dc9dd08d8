// Package image gives the codecs a bounded, random-access view of a raw
// flash dump. An Image hands out byte windows by absolute offset and
// refuses windows that run past the end; it never interprets the bytes.
package image

import (
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is returned when a requested window extends past
	// the end of the image.
	ErrOutOfBounds = errors.New("read beyond end of image")
)

type Image interface {
	// ReadWindow returns n bytes starting at absolute offset off. The
	// returned slice is only valid until the next call and must be
	// treated as read-only.
	ReadWindow(off, n int64) ([]byte, error)
	// Size is the total length of the image in bytes.
	Size() int64
}

// Bytes is an in-memory image. Windows alias the underlying slice.
type Bytes []byte

func (b Bytes) ReadWindow(off, n int64) ([]byte, error) {
	if !windowFits(off, n, int64(len(b))) {
		return nil, errors.Wrapf(ErrOutOfBounds, "window at %d of %d bytes in %d-byte image", off, n, len(b))
	}
	return b[off : off+n], nil
}

func (b Bytes) Size() int64 {
	return int64(len(b))
}

type readerAtImage struct {
	r    io.ReaderAt
	size int64
}

// NewReaderAtImage wraps an io.ReaderAt of known length, typically an
// *os.File over a dump, so images larger than memory decode in place.
func NewReaderAtImage(r io.ReaderAt, size int64) Image {
	return &readerAtImage{r: r, size: size}
}

func (im *readerAtImage) ReadWindow(off, n int64) ([]byte, error) {
	if !windowFits(off, n, im.size) {
		return nil, errors.Wrapf(ErrOutOfBounds, "window at %d of %d bytes in %d-byte image", off, n, im.size)
	}
	buf := make([]byte, n)
	if _, err := im.r.ReadAt(buf, off); err != nil {
		return nil, errors.Wrap(err, "failed to read from underlying image")
	}
	return buf, nil
}

func (im *readerAtImage) Size() int64 {
	return im.size
}

// windowFits checks [off, off+n) against size without ever forming
// off+n, which could wrap for hostile offsets.
func windowFits(off, n, size int64) bool {
	return off >= 0 && n >= 0 && off <= size && n <= size-off
}
