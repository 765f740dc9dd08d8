package format

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ObjectHeader is the 512-byte object header exactly as it sits in the
// first chunk of an object. Reserved fields hold 0xFF fill on images
// written by the real filesystem, but nothing here checks that: every
// byte passes through decode and encode verbatim.
//
// Name and Alias are fixed buffers, NUL-terminated unless every byte is
// used. NameString and AliasString give the display form; the buffers
// themselves are part of the record and survive round-trips untouched.
type ObjectHeader struct {
	Type           ObjectType
	ParentObjectID uint32

	// Legacy name checksum, no longer computed by the filesystem.
	NameChecksum uint16
	Name         [255]byte

	Reserved0 uint8
	Reserved1 uint16

	Mode  uint32
	UID   uint32
	GID   uint32
	ATime uint32
	MTime uint32
	CTime uint32

	FileSizeLow uint32
	EquivID     int32

	Alias [160]byte
	RDev  uint32

	WinCTime [2]uint32
	WinATime [2]uint32
	WinMTime [2]uint32

	InbandShadowedObjectID uint32
	InbandIsShrink         uint32

	FileSizeHigh uint32
	Reserved2    uint32

	ShadowsObject int32
	IsShrink      uint32
}

// DecodeHeader decodes a little-endian object header from the leading
// HeaderSize bytes of data.
func DecodeHeader(data []byte) (*ObjectHeader, error) {
	return LittleEndian.DecodeHeader(data)
}

func (c Codec) DecodeHeader(data []byte) (*ObjectHeader, error) {
	if len(data) < HeaderSize {
		return nil, errors.Wrapf(ErrTruncatedInput, "object header wants %d bytes, have %d", HeaderSize, len(data))
	}
	hdr := new(ObjectHeader)
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), c.order(), hdr); err != nil {
		return nil, errors.Wrap(err, "failed to decode object header")
	}
	return hdr, nil
}

// EncodeHeader is the little-endian inverse of DecodeHeader.
func EncodeHeader(hdr *ObjectHeader) []byte {
	return LittleEndian.EncodeHeader(hdr)
}

func (c Codec) EncodeHeader(hdr *ObjectHeader) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(HeaderSize)
	// Writing a fixed-size struct to a Buffer cannot fail.
	binary.Write(buf, c.order(), hdr)
	return buf.Bytes()
}

// NameString is the object name up to the first NUL. A buffer of all
// 0xFF means the field was never written and displays empty.
func (h *ObjectHeader) NameString() string {
	return bufString(h.Name[:])
}

// AliasString is the symlink target up to the first NUL.
func (h *ObjectHeader) AliasString() string {
	return bufString(h.Alias[:])
}

// FileSize merges the split size words for file objects. Headers written
// before the high word existed leave it at 0xFFFFFFFF, in which case the
// low word is the whole size. Non-file objects have no size and report -1.
// A corrupt high word that would not fit a signed size saturates instead
// of going negative.
func (h *ObjectHeader) FileSize() int64 {
	if h.Type != ObjectTypeFile {
		return -1
	}
	if h.FileSizeHigh != 0xFFFFFFFF {
		merged := uint64(h.FileSizeHigh)<<32 | uint64(h.FileSizeLow)
		if merged > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(merged)
	}
	return int64(h.FileSizeLow)
}

func bufString(buf []byte) string {
	erased := true
	for _, b := range buf {
		if b != 0xFF {
			erased = false
			break
		}
	}
	if erased {
		return ""
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
