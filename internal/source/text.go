package source

import (
	"crypto/sha256"
	"fmt"

	"fortio.org/safecast"
)

// Text is normalized file content with a precomputed line index.
// Construction normalizes once; after that every span lookup is O(log n)
// and every slice is a plain subslice of the stored bytes.
type Text struct {
	content []byte
	lineIdx []uint32
	hash    [32]byte
	flags   FileFlags
}

// NewText normalizes raw bytes (BOM strip, CRLF, NFC) and indexes lines.
func NewText(raw []byte, flags FileFlags) Text {
	content, hadBOM := removeBOM(raw)
	content, hadCRLF := normalizeCRLF(content)
	content, renormed := normalizeNFC(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if renormed {
		flags |= FileRenormalizedNFC
	}
	return Text{
		content: content,
		lineIdx: buildLineIndex(content),
		hash:    sha256.Sum256(content),
		flags:   flags,
	}
}

// Bytes returns the normalized content. Callers must not modify it.
func (t *Text) Bytes() []byte { return t.content }

// Len returns the normalized content length in bytes.
func (t *Text) Len() uint32 {
	n, err := safecast.Conv[uint32](len(t.content))
	if err != nil {
		panic(fmt.Errorf("file length overflow: %w", err))
	}
	return n
}

// Hash returns the sha256 of the normalized content.
func (t *Text) Hash() [32]byte { return t.hash }

// Flags reports what normalization steps were applied.
func (t *Text) Flags() FileFlags { return t.flags }

// Slice returns the text covered by span. Out-of-range spans panic:
// spans are produced against this exact text, so a bad span is a defect
// in whoever made it, not recoverable input.
func (t *Text) Slice(span Span) string {
	if span.Start > span.End || int(span.End) > len(t.content) {
		panic(fmt.Errorf("span %s out of range for file of %d bytes", span, len(t.content)))
	}
	return string(t.content[span.Start:span.End])
}

// Resolve converts a span into 1-based line/column positions.
func (t *Text) Resolve(span Span) (start, end LineCol) {
	return toLineCol(t.lineIdx, span.Start), toLineCol(t.lineIdx, span.End)
}

// Line returns the text of a 1-based line without its trailing
// newline. Lines past the end yield "".
func (t *Text) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	var start, end uint32
	lenLineIdx, err := safecast.Conv[uint32](len(t.lineIdx))
	if err != nil {
		panic(fmt.Errorf("line index overflow: %w", err))
	}
	lenContent := t.Len()

	switch {
	case lineNum == 1:
		start = 0
	case (lineNum - 2) < lenLineIdx:
		start = t.lineIdx[lineNum-2] + 1
	default:
		return ""
	}

	if (lineNum - 1) < lenLineIdx {
		end = t.lineIdx[lineNum-1]
	} else {
		end = lenContent
	}

	if start >= lenContent {
		return ""
	}
	if end > lenContent {
		end = lenContent
	}
	return string(t.content[start:end])
}
