// Package writer builds chunk-aligned images from decoded records. It
// is the encode direction of the codecs: a header page is the encoded
// object header padded out to the page boundary with erased-flash fill,
// trailed by its spare record.
package writer

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/oobkit/yaffs/yaffs/format"
	"github.com/oobkit/yaffs/yaffs/reader"
)

var (
	ErrShortWrite = errors.New("unexpected number of bytes written")
)

// ChunkWriter appends whole chunks to a stream.
type ChunkWriter struct {
	w     io.Writer
	codec format.Codec
	geom  reader.Geometry
}

func NewChunkWriter(w io.Writer, codec format.Codec, geom reader.Geometry) *ChunkWriter {
	return &ChunkWriter{w: w, codec: codec, geom: geom}
}

// WriteObjectChunk writes one header chunk: the encoded header, 0xFF
// fill to the page boundary, then the spare.
func (cw *ChunkWriter) WriteObjectChunk(hdr *format.ObjectHeader, spare *format.SpareArea) error {
	page := cw.codec.EncodeHeader(hdr)
	page = append(page, bytes.Repeat([]byte{0xFF}, int(cw.geom.PageSize)-len(page))...)
	return cw.writeChunk(page, spare)
}

// WriteDataChunk writes one page of file content and its spare. Short
// content is padded to the page boundary with 0xFF, matching what
// erased flash reads back past the end of a file's last chunk.
func (cw *ChunkWriter) WriteDataChunk(data []byte, spare *format.SpareArea) error {
	if int64(len(data)) > cw.geom.PageSize {
		return errors.Errorf("data chunk payload is %d bytes, page is %d", len(data), cw.geom.PageSize)
	}
	page := make([]byte, cw.geom.PageSize)
	copy(page, data)
	for i := len(data); i < len(page); i++ {
		page[i] = 0xFF
	}
	return cw.writeChunk(page, spare)
}

// WriteFile writes a file object's header chunk followed by the data
// chunks its declared size calls for, slicing content page by page.
func (cw *ChunkWriter) WriteFile(hdr *format.ObjectHeader, spare *format.SpareArea, content []byte) error {
	if err := cw.WriteObjectChunk(hdr, spare); err != nil {
		return err
	}
	for len(content) > 0 {
		n := int64(len(content))
		if n > cw.geom.PageSize {
			n = cw.geom.PageSize
		}
		if err := cw.WriteDataChunk(content[:n], spare); err != nil {
			return err
		}
		content = content[n:]
	}
	return nil
}

func (cw *ChunkWriter) writeChunk(page []byte, spare *format.SpareArea) error {
	oob := cw.codec.EncodeSpare(spare)
	if int64(len(oob)) < cw.geom.SpareSize {
		oob = append(oob, bytes.Repeat([]byte{0xFF}, int(cw.geom.SpareSize)-len(oob))...)
	}
	for _, part := range [][]byte{page, oob} {
		n, err := cw.w.Write(part)
		if err != nil {
			return errors.Wrap(err, "failed to write to underlying stream")
		}
		if n != len(part) {
			return ErrShortWrite
		}
	}
	return nil
}

func (cw *ChunkWriter) Close() error {
	if closer, ok := cw.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
