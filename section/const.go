package section

// Layout constants of the section framing.
const (
	Trailer            = "Clarissa" // Trailer marks a file ending in a table of contents.
	TrailerSize        = 12         // TrailerSize covers the magic and the trailing data size word.
	TrailerMagicOffset = 12         // TrailerMagicOffset is the distance of the magic from EOF.
	TOCEntrySize       = 8          // TOCEntrySize is the size of one {kind, offset} entry.
	FirstSectionOffset = 4          // FirstSectionOffset is where self-describing sections start.
	SectionHeaderSize  = 8          // SectionHeaderSize covers a section's tag and end offset.
	MinSections        = 3          // MinSections is the fewest sections a scanned file may have.
)
