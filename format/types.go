package format

type (
	// TypeID is the on-disk primitive kind of a type definition.
	TypeID int32
	// Tag is the leading int32 of every chunk.
	Tag int32
	// SectionKind identifies one of the top-level sections of a PSF file.
	SectionKind int32
	// Revision identifies how sections are located in a file.
	Revision uint8
	// CompressionType identifies the archive format wrapping a PSF file, if any.
	CompressionType uint8
)

const (
	TypeInt8          TypeID = 1  // TypeInt8 is stored in 4 bytes, value in the last byte.
	TypeString        TypeID = 2  // TypeString is a length-prefixed, 4-byte aligned string.
	TypeArray         TypeID = 3  // TypeArray is declared by the format but never decoded.
	TypeInt32         TypeID = 5  // TypeInt32 is a 4-byte signed integer.
	TypeDouble        TypeID = 11 // TypeDouble is an 8-byte IEEE 754 double.
	TypeComplexDouble TypeID = 12 // TypeComplexDouble is two doubles, real then imaginary.
	TypeStruct        TypeID = 16 // TypeStruct is a record of named fields.
)

const (
	TagHeaderEnd  Tag = 1  // TagHeaderEnd terminates the header property list.
	TagSweepEnd   Tag = 3  // TagSweepEnd terminates the sweep section.
	TagValueEnd   Tag = 15 // TagValueEnd terminates the swept value section.
	TagDefinition Tag = 16 // TagDefinition starts a TypeDef, TypeRef, non-swept value or sweep record.
	TagGroup      Tag = 17 // TagGroup starts a GroupDef.
	TagStructEnd  Tag = 18 // TagStructEnd terminates a struct schema.
	TagIndex      Tag = 19 // TagIndex starts the trailing index of an indexed container.
	TagZeroPad    Tag = 20 // TagZeroPad starts a block of padding bytes.
	TagSection    Tag = 21 // TagSection starts a section or an indexed container.
	TagPropString Tag = 33 // TagPropString starts a string property.
	TagPropInt    Tag = 34 // TagPropInt starts an int32 property.
	TagPropDouble Tag = 35 // TagPropDouble starts a double property.
)

const (
	SectionHeader SectionKind = 0
	SectionType   SectionKind = 1
	SectionSweep  SectionKind = 2
	SectionTrace  SectionKind = 3
	SectionValue  SectionKind = 4
)

const (
	// RevisionTOC files end with a table of contents and the "Clarissa" trailer.
	RevisionTOC Revision = 0x1
	// RevisionScan files carry self-describing sections starting at byte 4.
	RevisionScan Revision = 0x2
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents a plain PSF file.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard frame.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2 or Snappy framed stream.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents a gzip member.
)

// Header property keys consumed by the decoder.
const (
	PropSweeps      = "PSF sweeps"
	PropSweepPoints = "PSF sweep points"
	PropWindowSize  = "PSF window size"
	PropTraces      = "PSF traces"
)

// Size returns the fixed on-disk width of a primitive kind, or 0 when the kind
// has no fixed width (string, array, struct).
func (t TypeID) Size() int {
	switch t {
	case TypeInt8, TypeInt32:
		return 4
	case TypeDouble:
		return 8
	case TypeComplexDouble:
		return 16
	default:
		return 0
	}
}

func (t TypeID) String() string {
	switch t {
	case TypeInt8:
		return "Int8"
	case TypeString:
		return "String"
	case TypeArray:
		return "Array"
	case TypeInt32:
		return "Int32"
	case TypeDouble:
		return "Double"
	case TypeComplexDouble:
		return "ComplexDouble"
	case TypeStruct:
		return "Struct"
	default:
		return "Unknown"
	}
}

// IsProperty reports whether the tag starts a property chunk.
func (t Tag) IsProperty() bool {
	return t == TagPropString || t == TagPropInt || t == TagPropDouble
}

func (s SectionKind) String() string {
	switch s {
	case SectionHeader:
		return "Header"
	case SectionType:
		return "Type"
	case SectionSweep:
		return "Sweep"
	case SectionTrace:
		return "Trace"
	case SectionValue:
		return "Value"
	default:
		return "Unknown"
	}
}

func (r Revision) String() string {
	switch r {
	case RevisionTOC:
		return "TOC"
	case RevisionScan:
		return "Scan"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}
