package format

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// SpareArea is the 16-byte out-of-band record trailing every chunk on a
// YAFFS1 image. The tag and ECC bytes are opaque here: this codec never
// computes or verifies ECC, it only carries the bytes.
type SpareArea struct {
	Tag0        [4]byte
	PageStatus  uint8
	BlockStatus uint8
	Tag1        [2]byte
	ECC1        [3]byte
	Tag2        [2]byte
	ECC2        [3]byte
}

// DecodeSpare decodes a spare record from the leading SpareSize bytes
// of data.
func DecodeSpare(data []byte) (*SpareArea, error) {
	return LittleEndian.DecodeSpare(data)
}

func (c Codec) DecodeSpare(data []byte) (*SpareArea, error) {
	if len(data) < SpareSize {
		return nil, errors.Wrapf(ErrTruncatedInput, "spare area wants %d bytes, have %d", SpareSize, len(data))
	}
	sp := new(SpareArea)
	if err := binary.Read(bytes.NewReader(data[:SpareSize]), c.order(), sp); err != nil {
		return nil, errors.Wrap(err, "failed to decode spare area")
	}
	return sp, nil
}

// EncodeSpare is the inverse of DecodeSpare.
func EncodeSpare(sp *SpareArea) []byte {
	return LittleEndian.EncodeSpare(sp)
}

func (c Codec) EncodeSpare(sp *SpareArea) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(SpareSize)
	binary.Write(buf, c.order(), sp)
	return buf.Bytes()
}

// Deleted reports whether the chunk this spare trails has been marked
// deleted (page status written down to zero). What the other status
// values mean is a caller concern; the raw byte stays available.
func (s *SpareArea) Deleted() bool {
	return s.PageStatus == 0
}
