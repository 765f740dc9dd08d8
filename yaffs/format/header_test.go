package format_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/oobkit/yaffs/yaffs/format"
)

func sampleHeader() *format.ObjectHeader {
	hdr := &format.ObjectHeader{
		Type:           format.ObjectTypeFile,
		ParentObjectID: 261,
		NameChecksum:   0xFFFF,
		Reserved0:      0xFF,
		Reserved1:      0xFFFF,
		Mode:           0o100644,
		UID:            1000,
		GID:            1000,
		ATime:          0x65B983EF,
		MTime:          0x65B983EF,
		CTime:          0x65B983EF,
		FileSizeLow:    1042,
		FileSizeHigh:   0xFFFFFFFF,
		EquivID:        -1,
		RDev:           0,
		ShadowsObject:  -1,
	}
	copy(hdr.Name[:], "passwd")
	return hdr
}

func TestHeaderSizes(t *testing.T) {
	if got := binary.Size(format.ObjectHeader{}); got != format.HeaderSize {
		t.Fatalf("header lays out to %d bytes, want %d", got, format.HeaderSize)
	}
	if got := len(format.EncodeHeader(sampleHeader())); got != format.HeaderSize {
		t.Fatalf("encoded header is %d bytes, want %d", got, format.HeaderSize)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	hdr := sampleHeader()

	decoded, err := format.DecodeHeader(format.EncodeHeader(hdr))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if *decoded != *hdr {
		t.Errorf("decode(encode(h)) differs:\n got %+v\nwant %+v", decoded, hdr)
	}

	// The inverse direction has to hold for any well-formed buffer,
	// including ones with garbage in the reserved fields.
	rng := rand.New(rand.NewSource(0x9AFF5))
	buf := make([]byte, format.HeaderSize)
	rng.Read(buf)
	decoded, err = format.DecodeHeader(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !bytes.Equal(format.EncodeHeader(decoded), buf) {
		t.Error("encode(decode(b)) does not reproduce b")
	}
}

func TestHeaderRoundTripBigEndian(t *testing.T) {
	hdr := sampleHeader()
	decoded, err := format.BigEndian.DecodeHeader(format.BigEndian.EncodeHeader(hdr))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if *decoded != *hdr {
		t.Errorf("big-endian decode(encode(h)) differs:\n got %+v\nwant %+v", decoded, hdr)
	}
}

func TestHeaderTruncated(t *testing.T) {
	buf := format.EncodeHeader(sampleHeader())
	for _, n := range []int{0, 1, 255, 511} {
		if _, err := format.DecodeHeader(buf[:n]); !errors.Is(err, format.ErrTruncatedInput) {
			t.Errorf("decode of %d bytes: got %v, want ErrTruncatedInput", n, err)
		}
	}
}

func TestObjectTypeDecode(t *testing.T) {
	testCases := []struct {
		name  string
		raw   uint32
		typ   format.ObjectType
		known bool
	}{
		{name: "directory", raw: 3, typ: format.ObjectTypeDirectory, known: true},
		{name: "unknown", raw: 0, typ: format.ObjectTypeUnknown, known: true},
		{name: "unrecognized ordinal survives", raw: 99, typ: format.ObjectType(99), known: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, format.HeaderSize)
			binary.LittleEndian.PutUint32(buf[0:4], tc.raw)

			hdr, err := format.DecodeHeader(buf)
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if hdr.Type != tc.typ {
				t.Errorf("decoded type %v, want %v", hdr.Type, tc.typ)
			}
			if hdr.Type.Known() != tc.known {
				t.Errorf("Known() = %v, want %v", hdr.Type.Known(), tc.known)
			}
			if !bytes.Equal(format.EncodeHeader(hdr), buf) {
				t.Error("raw ordinal did not round-trip")
			}
		})
	}
}

func TestNameAndAliasStrings(t *testing.T) {
	hdr := sampleHeader()
	if got := hdr.NameString(); got != "passwd" {
		t.Errorf("NameString() = %q, want %q", got, "passwd")
	}
	if got := hdr.AliasString(); got != "" {
		t.Errorf("AliasString() = %q, want empty", got)
	}

	var erased format.ObjectHeader
	for i := range erased.Name {
		erased.Name[i] = 0xFF
	}
	if got := erased.NameString(); got != "" {
		t.Errorf("erased name buffer displays %q, want empty", got)
	}

	// A name using every byte of the buffer has no terminator and
	// displays whole.
	var full format.ObjectHeader
	for i := range full.Name {
		full.Name[i] = 'a'
	}
	if got := full.NameString(); len(got) != len(full.Name) {
		t.Errorf("unterminated name displays %d bytes, want %d", len(got), len(full.Name))
	}
}

func TestFileSize(t *testing.T) {
	testCases := []struct {
		name string
		typ  format.ObjectType
		low  uint32
		high uint32
		want int64
	}{
		{name: "small file", typ: format.ObjectTypeFile, low: 1042, high: 0xFFFFFFFF, want: 1042},
		{name: "split size", typ: format.ObjectTypeFile, low: 0x10, high: 0x2, want: 0x2_0000_0010},
		{name: "zero high word still merges", typ: format.ObjectTypeFile, low: 7, high: 0, want: 7},
		{name: "corrupt high word saturates, never negative", typ: format.ObjectTypeFile, low: 0, high: 0x80000000, want: math.MaxInt64},
		{name: "directory has no size", typ: format.ObjectTypeDirectory, low: 1042, high: 0, want: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hdr := &format.ObjectHeader{Type: tc.typ, FileSizeLow: tc.low, FileSizeHigh: tc.high}
			if got := hdr.FileSize(); got != tc.want {
				t.Errorf("FileSize() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRecordDistillsHeader(t *testing.T) {
	hdr := sampleHeader()
	copy(hdr.Alias[:], "/etc/passwd")
	hdr.Type = format.ObjectTypeSymlink

	rec := hdr.Record()
	if rec.Name != "passwd" || rec.Alias != "/etc/passwd" {
		t.Errorf("record carries name %q alias %q", rec.Name, rec.Alias)
	}
	if rec.FileSize != -1 {
		t.Errorf("symlink record has size %d, want -1", rec.FileSize)
	}
	if rec.MTime != hdr.MTime || rec.Mode != hdr.Mode {
		t.Error("record lost raw integer fields")
	}
}
