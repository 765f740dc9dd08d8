package format

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// PackedTags2 is the 28-byte tags record YAFFS2 stores in the spare
// region of larger-page flash. Parity words pass through unverified.
type PackedTags2 struct {
	SeqNumber uint32
	ObjectID  uint32
	ChunkID   uint32
	NBytes    uint32

	ColParity       uint8
	Unused          [3]byte
	LineParity      uint32
	LineParityPrime uint32
}

func DecodePackedTags2(data []byte) (*PackedTags2, error) {
	return LittleEndian.DecodePackedTags2(data)
}

func (c Codec) DecodePackedTags2(data []byte) (*PackedTags2, error) {
	if len(data) < PackedTags2Size {
		return nil, errors.Wrapf(ErrTruncatedInput, "packed tags want %d bytes, have %d", PackedTags2Size, len(data))
	}
	tags := new(PackedTags2)
	if err := binary.Read(bytes.NewReader(data[:PackedTags2Size]), c.order(), tags); err != nil {
		return nil, errors.Wrap(err, "failed to decode packed tags")
	}
	return tags, nil
}

func EncodePackedTags2(tags *PackedTags2) []byte {
	return LittleEndian.EncodePackedTags2(tags)
}

func (c Codec) EncodePackedTags2(tags *PackedTags2) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(PackedTags2Size)
	binary.Write(buf, c.order(), tags)
	return buf.Bytes()
}

// MagicHeader is the prefix of an object header used to probe whether a
// window holds one at all, without decoding the full record.
type MagicHeader struct {
	Type           uint32
	ParentObjectID uint32
	NameChecksum   uint16
}

func DecodeMagic(data []byte) (*MagicHeader, error) {
	return LittleEndian.DecodeMagic(data)
}

func (c Codec) DecodeMagic(data []byte) (*MagicHeader, error) {
	if len(data) < MagicSize {
		return nil, errors.Wrapf(ErrTruncatedInput, "magic header wants %d bytes, have %d", MagicSize, len(data))
	}
	m := new(MagicHeader)
	if err := binary.Read(bytes.NewReader(data[:MagicSize]), c.order(), m); err != nil {
		return nil, errors.Wrap(err, "failed to decode magic header")
	}
	return m, nil
}

// Valid reports whether the prefix plausibly starts an object header: a
// defined non-unknown object type and the 0xFFFF fill the filesystem
// leaves in the retired checksum field.
func (m *MagicHeader) Valid() bool {
	return m.Type >= uint32(ObjectTypeFile) &&
		m.Type <= uint32(ObjectTypeSpecial) &&
		m.NameChecksum == 0xFFFF
}
