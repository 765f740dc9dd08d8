package format

// ObjectRecord is the distilled view of an object header: buffers as
// strings, the split size merged, reserved fill dropped. This is what
// the CLI prints and exports; the raw header keeps every byte when the
// record is not enough.
type ObjectRecord struct {
	Type           ObjectType `cbor:"0,keyasint"`
	ObjectID       uint32     `cbor:"1,keyasint,omitempty"`
	ParentObjectID uint32     `cbor:"2,keyasint"`
	Name           string     `cbor:"3,keyasint"`
	Mode           uint32     `cbor:"4,keyasint"`
	UID            uint32     `cbor:"5,keyasint"`
	GID            uint32     `cbor:"6,keyasint"`
	ATime          uint32     `cbor:"7,keyasint"`
	MTime          uint32     `cbor:"8,keyasint"`
	CTime          uint32     `cbor:"9,keyasint"`
	FileSize       int64      `cbor:"10,keyasint"`
	EquivID        int32      `cbor:"11,keyasint"`
	Alias          string     `cbor:"12,keyasint,omitempty"`
	RDev           uint32     `cbor:"13,keyasint,omitempty"`
	Deleted        bool       `cbor:"14,keyasint,omitempty"`
}

// Record distills the header. ObjectID and Deleted come from outside
// the header (the spare or the caller's chunk numbering), so they start
// zero here.
func (h *ObjectHeader) Record() ObjectRecord {
	return ObjectRecord{
		Type:           h.Type,
		ParentObjectID: h.ParentObjectID,
		Name:           h.NameString(),
		Mode:           h.Mode,
		UID:            h.UID,
		GID:            h.GID,
		ATime:          h.ATime,
		MTime:          h.MTime,
		CTime:          h.CTime,
		FileSize:       h.FileSize(),
		EquivID:        h.EquivID,
		Alias:          h.AliasString(),
		RDev:           h.RDev,
	}
}
