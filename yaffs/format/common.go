package format

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

/*

Everything in this package mirrors on-disk YAFFS layout byte for byte.
Structs here are decoded straight out of a dump window and re-encoded
straight back; nothing is interpreted beyond the object type word and
the spare page-status byte.

*/

const (
	// HeaderSize is the on-disk size of an object header record.
	HeaderSize = 512
	// SpareSize is the on-disk size of a YAFFS1 spare (OOB) record.
	SpareSize = 16
	// PackedTags2Size is the on-disk size of a YAFFS2 packed tags record.
	PackedTags2Size = 28
	// MagicSize is the on-disk size of the probe prefix of a header.
	MagicSize = 10
)

type ObjectType uint32

const (
	ObjectTypeUnknown   ObjectType = 0
	ObjectTypeFile      ObjectType = 1
	ObjectTypeSymlink   ObjectType = 2
	ObjectTypeDirectory ObjectType = 3
	ObjectTypeHardlink  ObjectType = 4
	ObjectTypeSpecial   ObjectType = 5
)

// Known reports whether t is one of the object types the filesystem
// defines. Images written by newer filesystem versions may carry other
// values; those decode and re-encode unchanged and must be handled by
// the caller, not rejected here.
func (t ObjectType) Known() bool {
	return t <= ObjectTypeSpecial
}

func (t ObjectType) String() string {
	switch t {
	case ObjectTypeUnknown:
		return "unknown"
	case ObjectTypeFile:
		return "file"
	case ObjectTypeSymlink:
		return "symlink"
	case ObjectTypeDirectory:
		return "directory"
	case ObjectTypeHardlink:
		return "hardlink"
	case ObjectTypeSpecial:
		return "special"
	default:
		return fmt.Sprintf("unrecognized(%d)", uint32(t))
	}
}

var (
	// ErrTruncatedInput is returned when a decode buffer is shorter than
	// the fixed record it should hold.
	ErrTruncatedInput = errors.New("truncated input")
)

// Codec decodes and encodes the on-disk records in a fixed byte order.
// Images are little-endian unless written by a big-endian kernel; the
// reader package detects which and picks the codec accordingly.
type Codec struct {
	Order binary.ByteOrder
}

var (
	LittleEndian = Codec{Order: binary.LittleEndian}
	BigEndian    = Codec{Order: binary.BigEndian}
)

func (c Codec) order() binary.ByteOrder {
	if c.Order == nil {
		return binary.LittleEndian
	}
	return c.Order
}

func init() {
	// The layout structs must match the on-disk records exactly. A size
	// mismatch means the declarations themselves are wrong, so there is
	// no point continuing.
	checkSize("ObjectHeader", binary.Size(ObjectHeader{}), HeaderSize)
	checkSize("SpareArea", binary.Size(SpareArea{}), SpareSize)
	checkSize("PackedTags2", binary.Size(PackedTags2{}), PackedTags2Size)
	checkSize("MagicHeader", binary.Size(MagicHeader{}), MagicSize)
}

func checkSize(name string, got, want int) {
	if got != want {
		panic(fmt.Sprintf("format: %s lays out to %d bytes, want %d", name, got, want))
	}
}
