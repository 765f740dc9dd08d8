package reader

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/oobkit/yaffs/yaffs/format"
	"github.com/oobkit/yaffs/yaffs/image"
)

var (
	// ErrCorruptHeader is returned when the first type word of an image
	// is not a defined object type in either byte order.
	ErrCorruptHeader = errors.New("first header type word is not a recognizable object type")
	// ErrPageSizeUnknown is returned when no candidate page size fits
	// the image.
	ErrPageSizeUnknown = errors.New("could not determine page size")
)

// Params is everything needed to decode a particular image: which byte
// order it was written in, its chunk geometry, and the filesystem
// version (1 or 2), which decides where the first object chunk sits.
type Params struct {
	Codec    format.Codec
	Geometry Geometry
	Version  int
}

// StartOffset is where object iteration begins. Version 1 images carry
// a leading non-object chunk that is skipped whole.
func (p Params) StartOffset() int64 {
	if p.Version == 1 {
		return p.Geometry.ChunkSize()
	}
	return 0
}

// Sniff reports whether prefix opens like a YAFFS image: an object
// header for a child of the root directory (parent id 1), in either
// byte order. Ten bytes are enough; shorter input sniffs false.
func Sniff(prefix []byte) bool {
	if len(prefix) < format.MagicSize {
		return false
	}
	for _, codec := range []format.Codec{format.LittleEndian, format.BigEndian} {
		m, err := codec.DecodeMagic(prefix)
		if err != nil {
			return false
		}
		if m.Valid() && m.ParentObjectID == 1 {
			return true
		}
	}
	return false
}

// DetectOrder picks the byte order from the first type word of the
// image. Object types are small, so a valid type word read in the wrong
// order lands in the top byte instead.
func DetectOrder(img image.Image) (format.Codec, error) {
	window, err := img.ReadWindow(0, format.MagicSize)
	if err != nil {
		return format.Codec{}, err
	}
	for _, codec := range []format.Codec{format.LittleEndian, format.BigEndian} {
		m, err := codec.DecodeMagic(window)
		if err != nil {
			return format.Codec{}, err
		}
		if m.Type >= uint32(format.ObjectTypeFile) && m.Type <= uint32(format.ObjectTypeSpecial) {
			return codec, nil
		}
	}
	return format.Codec{}, ErrCorruptHeader
}

// DetectParams probes an image for byte order, version, and geometry.
//
// A version 1 image opens with a chunk whose header carries neither
// name nor alias; everything else is treated as version 2, whose page
// size is found by probing the candidate sizes largest first and
// keeping the first one where the tail of the first page past the
// header still holds erased (0xFF) flash.
func DetectParams(img image.Image) (Params, error) {
	codec, err := DetectOrder(img)
	if err != nil {
		return Params{}, err
	}

	window, err := img.ReadWindow(0, format.HeaderSize)
	if err != nil {
		return Params{}, err
	}
	hdr, err := codec.DecodeHeader(window)
	if err != nil {
		return Params{}, err
	}

	if hdr.NameString() == "" && hdr.AliasString() == "" {
		params := Params{Codec: codec, Geometry: DefaultGeometry, Version: 1}
		logrus.WithFields(logrus.Fields{
			"version":  params.Version,
			"pageSize": params.Geometry.PageSize,
		}).Debug("detected image parameters")
		return params, nil
	}

	for _, pageSize := range []int64{16384, 8192, 4096, 2048, 512} {
		ok, err := erasedTail(img, pageSize)
		if err != nil {
			continue
		}
		if ok {
			params := Params{Codec: codec, Geometry: GeometryForPage(pageSize), Version: 2}
			logrus.WithFields(logrus.Fields{
				"version":  params.Version,
				"pageSize": pageSize,
			}).Debug("detected image parameters")
			return params, nil
		}
	}
	return Params{}, ErrPageSizeUnknown
}

func erasedTail(img image.Image, pageSize int64) (bool, error) {
	page, err := img.ReadWindow(0, pageSize)
	if err != nil {
		return false, err
	}
	for _, b := range page[format.HeaderSize:] {
		if b != 0xFF {
			return false, nil
		}
	}
	return true, nil
}
