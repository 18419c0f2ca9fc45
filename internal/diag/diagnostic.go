package diag

import (
	"sil/internal/source"
)

// Note is a secondary location attached to a diagnostic ("declared here").
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
