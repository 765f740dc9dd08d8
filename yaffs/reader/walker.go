package reader

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oobkit/yaffs/yaffs/format"
	"github.com/oobkit/yaffs/yaffs/image"
)

// Entry is one object encountered while walking an image: the decoded
// header chunk and, for file objects, the assembled payload trimmed to
// the size the header declares.
type Entry struct {
	// ObjectID is the walk-order id assigned to the object, counting
	// from 257 the way the filesystem numbers objects past the
	// reserved range. It is bookkeeping for callers, not a header field.
	ObjectID uint32
	Chunk    *ObjectChunk
	Payload  []byte
}

// Walker iterates the object chunks of an image in storage order. After
// a file object it steps over the continuation chunks that hold the
// file's content, the same way the filesystem lays them down. It builds
// no directory tree; parent and equivalence ids come through raw on the
// headers for callers that want one.
type Walker struct {
	chunks *ChunkReader
	img    image.Image
	next   int64
	serial uint32

	// SkipData leaves Entry.Payload nil for file objects. The
	// continuation chunks are still stepped over.
	SkipData bool
}

// NewWalker starts a walk at the image position params selects.
func NewWalker(img image.Image, params Params) *Walker {
	return &Walker{
		chunks: NewChunkReader(img, params.Codec, params.Geometry),
		img:    img,
		next:   params.StartOffset(),
		serial: 256,
	}
}

// Next decodes the object chunk at the current position and advances
// past it and any file content it owns. It returns io.EOF once the
// image has no room for another whole chunk; per-chunk decode problems
// come back as errors with the walk position already advanced one
// chunk, so a caller may keep going.
func (w *Walker) Next() (*Entry, error) {
	geom := w.chunks.Geometry()
	if w.next+geom.ChunkSize() > w.img.Size() {
		return nil, io.EOF
	}

	off := w.next
	w.next += geom.ChunkSize()

	chunk, err := w.chunks.ReadObjectChunk(off)
	if err != nil {
		return nil, err
	}

	w.serial++
	entry := &Entry{ObjectID: w.serial, Chunk: chunk}
	if chunk.Header.Type != format.ObjectTypeFile {
		return entry, nil
	}

	size := chunk.Header.FileSize()
	pages := size / geom.PageSize
	if size%geom.PageSize != 0 {
		pages++
	}
	logrus.WithFields(logrus.Fields{
		"offset": off,
		"name":   chunk.Header.NameString(),
		"size":   size,
		"pages":  pages,
	}).Debug("walking file object")

	if !w.SkipData {
		// The declared size is untrusted; never reserve more than the
		// image can still hold. A header claiming more than that fails
		// on its first out-of-range continuation chunk below.
		hint := size
		if avail := w.img.Size() - w.next; hint > avail {
			hint = avail
		}
		if hint < 0 {
			hint = 0
		}
		entry.Payload = make([]byte, 0, hint)
	}
	for i := int64(0); i < pages; i++ {
		dataOff := w.next
		w.next += geom.ChunkSize()
		data, err := w.chunks.ReadFollowingDataChunk(dataOff)
		if err != nil {
			return nil, err
		}
		if w.SkipData {
			continue
		}
		remain := size - int64(len(entry.Payload))
		if remain > int64(len(data.Data)) {
			remain = int64(len(data.Data))
		}
		entry.Payload = append(entry.Payload, data.Data[:remain]...)
	}
	return entry, nil
}
