package reader

import (
	"github.com/oobkit/yaffs/yaffs/format"
	"github.com/oobkit/yaffs/yaffs/image"
)

// Geometry is the physical chunk layout of an image: the page (data)
// size and the out-of-band spare size that trails every page. YAFFS
// keeps the spare at a 32nd of the page.
type Geometry struct {
	PageSize  int64
	SpareSize int64
}

// DefaultGeometry is the classic 512-byte small-page layout.
var DefaultGeometry = GeometryForPage(512)

func GeometryForPage(pageSize int64) Geometry {
	return Geometry{PageSize: pageSize, SpareSize: pageSize / 32}
}

// ChunkSize is the full on-disk footprint of one chunk, page plus spare.
func (g Geometry) ChunkSize() int64 {
	return g.PageSize + g.SpareSize
}

// ObjectChunk is a decoded header chunk: the 512-byte object header from
// the head of the page, plus the out-of-band record trailing the page.
// Small-page images carry a SpareArea there; large-page images carry
// packed tags, so exactly one of Spare and Tags is set.
type ObjectChunk struct {
	Offset int64
	Header *format.ObjectHeader
	Spare  *format.SpareArea
	Tags   *format.PackedTags2
}

// Deleted reports whether the chunk's spare marks it deleted. Packed
// tags carry no page-status byte, so large-page chunks always report
// live here; any further liveness policy stays with the caller.
func (c *ObjectChunk) Deleted() bool {
	return c.Spare != nil && c.Spare.Deleted()
}

// DataChunk is one page of opaque file content plus its out-of-band
// record. The payload is never interpreted here.
type DataChunk struct {
	Offset int64
	Data   []byte
	Spare  *format.SpareArea
	Tags   *format.PackedTags2
}

// ChunkReader decodes single chunks out of an image by absolute offset.
// It does no iteration and no tree walking; Walker sits on top of it
// for whole-image passes.
type ChunkReader struct {
	img   image.Image
	codec format.Codec
	geom  Geometry
}

func NewChunkReader(img image.Image, codec format.Codec, geom Geometry) *ChunkReader {
	return &ChunkReader{img: img, codec: codec, geom: geom}
}

func (r *ChunkReader) Geometry() Geometry {
	return r.geom
}

// ReadObjectChunk decodes the header chunk at off: an object header from
// the first HeaderSize bytes of the page and the spare that follows the
// page. Bounds failures surface as image.ErrOutOfBounds; decode errors
// come through from the codec untouched.
func (r *ChunkReader) ReadObjectChunk(off int64) (*ObjectChunk, error) {
	page, err := r.img.ReadWindow(off, r.geom.PageSize)
	if err != nil {
		return nil, err
	}
	hdr, err := r.codec.DecodeHeader(page)
	if err != nil {
		return nil, err
	}
	spare, tags, err := r.readOOB(off + r.geom.PageSize)
	if err != nil {
		return nil, err
	}
	return &ObjectChunk{Offset: off, Header: hdr, Spare: spare, Tags: tags}, nil
}

// ReadFollowingDataChunk reads the data chunk at off. Callers use this
// after a header chunk decoded with Type == ObjectTypeFile; the payload
// is the raw page, uninterpreted.
func (r *ChunkReader) ReadFollowingDataChunk(off int64) (*DataChunk, error) {
	page, err := r.img.ReadWindow(off, r.geom.PageSize)
	if err != nil {
		return nil, err
	}
	spare, tags, err := r.readOOB(off + r.geom.PageSize)
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(page))
	copy(data, page)
	return &DataChunk{Offset: off, Data: data, Spare: spare, Tags: tags}, nil
}

// readOOB decodes the out-of-band region after a page. A region big
// enough for packed tags belongs to a large-page image and holds them;
// the classic 16-byte region holds a SpareArea.
func (r *ChunkReader) readOOB(off int64) (*format.SpareArea, *format.PackedTags2, error) {
	window, err := r.img.ReadWindow(off, r.geom.SpareSize)
	if err != nil {
		return nil, nil, err
	}
	if r.geom.SpareSize >= format.PackedTags2Size {
		tags, err := r.codec.DecodePackedTags2(window)
		return nil, tags, err
	}
	spare, err := r.codec.DecodeSpare(window)
	return spare, nil, err
}
