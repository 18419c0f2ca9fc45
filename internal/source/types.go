package source

type (
	// FileID uniquely identifies a source file for the duration of a session.
	FileID uint32
	// FileFlags encodes metadata about how a file's text was obtained.
	FileFlags uint8
)

const (
	// FileVirtual indicates the text was supplied from memory (editor buffer, test).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM indicates a UTF-8 BOM was stripped during normalization.
	FileHadBOM
	// FileNormalizedCRLF indicates CRLF sequences were rewritten to LF.
	FileNormalizedCRLF
	// FileRenormalizedNFC indicates the text was not in NFC and was renormalized.
	FileRenormalizedNFC
)

// NoFile marks a span that does not point into any registered file.
const NoFile FileID = ^FileID(0)

// LineCol is a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
