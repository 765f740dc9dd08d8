package reader_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oobkit/yaffs/yaffs/format"
	"github.com/oobkit/yaffs/yaffs/image"
	"github.com/oobkit/yaffs/yaffs/reader"
	"github.com/oobkit/yaffs/yaffs/writer"
)

func liveSpare() *format.SpareArea {
	sp := &format.SpareArea{PageStatus: 0xFF, BlockStatus: 0xFF}
	for i := range sp.Tag0 {
		sp.Tag0[i] = 0xFF
	}
	return sp
}

func fileHeader(name string, size int64) *format.ObjectHeader {
	hdr := &format.ObjectHeader{
		Type:           format.ObjectTypeFile,
		ParentObjectID: 1,
		NameChecksum:   0xFFFF,
		FileSizeLow:    uint32(size),
		FileSizeHigh:   0xFFFFFFFF,
	}
	copy(hdr.Name[:], name)
	return hdr
}

func TestWalkerNext(t *testing.T) {
	geom := reader.DefaultGeometry
	content := bytes.Repeat([]byte("flash"), 140) // 700 bytes, two data chunks

	var img bytes.Buffer
	cw := writer.NewChunkWriter(&img, format.LittleEndian, geom)

	dir := &format.ObjectHeader{Type: format.ObjectTypeDirectory, ParentObjectID: 1, NameChecksum: 0xFFFF}
	copy(dir.Name[:], "etc")
	require.NoError(t, cw.WriteObjectChunk(dir, liveSpare()))

	require.NoError(t, cw.WriteFile(fileHeader("passwd", int64(len(content))), liveSpare(), content))

	link := &format.ObjectHeader{Type: format.ObjectTypeSymlink, ParentObjectID: 1, NameChecksum: 0xFFFF}
	copy(link.Name[:], "motd")
	copy(link.Alias[:], "/run/motd")
	require.NoError(t, cw.WriteObjectChunk(link, liveSpare()))

	require.EqualValues(t, 5*geom.ChunkSize(), img.Len())

	params := reader.Params{Codec: format.LittleEndian, Geometry: geom, Version: 2}
	w := reader.NewWalker(image.Bytes(img.Bytes()), params)

	entry, err := w.Next()
	require.NoError(t, err)
	require.Equal(t, format.ObjectTypeDirectory, entry.Chunk.Header.Type)
	require.Equal(t, "etc", entry.Chunk.Header.NameString())
	require.Nil(t, entry.Payload)
	require.EqualValues(t, 257, entry.ObjectID)

	entry, err = w.Next()
	require.NoError(t, err)
	require.Equal(t, format.ObjectTypeFile, entry.Chunk.Header.Type)
	require.Equal(t, content, entry.Payload)

	entry, err = w.Next()
	require.NoError(t, err)
	require.Equal(t, format.ObjectTypeSymlink, entry.Chunk.Header.Type)
	require.Equal(t, "/run/motd", entry.Chunk.Header.AliasString())
	require.EqualValues(t, 259, entry.ObjectID)

	_, err = w.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestWalkerSkipData(t *testing.T) {
	geom := reader.DefaultGeometry
	content := []byte("tiny")

	var img bytes.Buffer
	cw := writer.NewChunkWriter(&img, format.LittleEndian, geom)
	require.NoError(t, cw.WriteFile(fileHeader("note", int64(len(content))), liveSpare(), content))

	params := reader.Params{Codec: format.LittleEndian, Geometry: geom, Version: 2}
	w := reader.NewWalker(image.Bytes(img.Bytes()), params)
	w.SkipData = true

	entry, err := w.Next()
	require.NoError(t, err)
	require.Nil(t, entry.Payload)

	// The data chunk was stepped over, not returned as an object.
	_, err = w.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestWalkerCorruptFileSizes(t *testing.T) {
	geom := reader.DefaultGeometry
	params := reader.Params{Codec: format.LittleEndian, Geometry: geom, Version: 2}

	testCases := []struct {
		name string
		low  uint32
		high uint32
	}{
		// Would merge negative without the saturation guard.
		{name: "high word top bit set", low: 0, high: 0x80000000},
		// Positive but far beyond anything the image holds.
		{name: "multi-terabyte claim", low: 0, high: 0x400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := fileHeader("corrupt", 0)
			hdr.FileSizeLow = tc.low
			hdr.FileSizeHigh = tc.high

			var img bytes.Buffer
			cw := writer.NewChunkWriter(&img, format.LittleEndian, geom)
			require.NoError(t, cw.WriteObjectChunk(hdr, liveSpare()))

			w := reader.NewWalker(image.Bytes(img.Bytes()), params)

			// One bad chunk is a per-chunk error, never a panic, and the
			// walk keeps going past it.
			_, err := w.Next()
			require.ErrorIs(t, err, image.ErrOutOfBounds)

			_, err = w.Next()
			require.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestWalkerVersion1SkipsLeadingChunk(t *testing.T) {
	geom := reader.DefaultGeometry

	var img bytes.Buffer
	cw := writer.NewChunkWriter(&img, format.LittleEndian, geom)

	boot := &format.ObjectHeader{Type: format.ObjectTypeUnknown}
	for i := range boot.Name {
		boot.Name[i] = 0xFF
	}
	for i := range boot.Alias {
		boot.Alias[i] = 0xFF
	}
	require.NoError(t, cw.WriteObjectChunk(boot, liveSpare()))

	dir := &format.ObjectHeader{Type: format.ObjectTypeDirectory, ParentObjectID: 1, NameChecksum: 0xFFFF}
	copy(dir.Name[:], "bin")
	require.NoError(t, cw.WriteObjectChunk(dir, liveSpare()))

	params := reader.Params{Codec: format.LittleEndian, Geometry: geom, Version: 1}
	w := reader.NewWalker(image.Bytes(img.Bytes()), params)

	entry, err := w.Next()
	require.NoError(t, err)
	require.Equal(t, "bin", entry.Chunk.Header.NameString())

	_, err = w.Next()
	require.ErrorIs(t, err, io.EOF)
}
