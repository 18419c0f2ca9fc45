package diag

import (
	"fmt"
)

type Code uint16

const (
	// UnknownCode is the zero value; real diagnostics always carry a code.
	UnknownCode Code = 0

	// Parse-artifact errors forwarded from the external parser.
	SynInfo          Code = 2000
	SynExternalParse Code = 2001

	// Linking and name resolution.
	LinkInfo                 Code = 4000
	LinkDuplicateDeclaration Code = 4001
	LinkRedeclareBuiltin     Code = 4002
	LinkUnresolvedName       Code = 4003
	LinkCollidingImport      Code = 4004
	LinkKindMismatch         Code = 4005
	LinkMissingTemplateArg   Code = 4006

	// Typechecking over the flat IR.
	TypeInfo               Code = 5000
	TypeParamArity         Code = 5001
	TypeArgNotConst        Code = 5002
	TypeArgNotType         Code = 5003
	TypeDefaultNotConcrete Code = 5004

	// Lint.
	LintInfo        Code = 7000
	LintUnusedParam Code = 7001

	// Orchestration / IO surfaced through the driver.
	DrvInfo          Code = 6000
	DrvLoadFileError Code = 6001
	DrvArtifactError Code = 6002
	DrvManifestError Code = 6003
)

var codeDescription = map[Code]string{
	UnknownCode: "unknown diagnostic",

	SynInfo:          "parser info",
	SynExternalParse: "parse error reported by the external parser",

	LinkInfo:                 "linker info",
	LinkDuplicateDeclaration: "name conflicts with another declaration",
	LinkRedeclareBuiltin:     "cannot redeclare a builtin",
	LinkUnresolvedName:       "name not found in the global namespace",
	LinkCollidingImport:      "name resolves to more than one declaration",
	LinkKindMismatch:         "resolved global is not of the expected kind",
	LinkMissingTemplateArg:   "required template arguments were not provided",

	TypeInfo:               "typecheck info",
	TypeParamArity:         "wrong number of template arguments",
	TypeArgNotConst:        "template value argument is not a constant",
	TypeArgNotType:         "template type argument is not a type",
	TypeDefaultNotConcrete: "default template argument is not fully concrete",

	LintInfo:        "lint info",
	LintUnusedParam: "template parameter is never used",

	DrvInfo:          "driver info",
	DrvLoadFileError: "failed to load source file",
	DrvArtifactError: "failed to decode syntax artifact",
	DrvManifestError: "failed to load project manifest",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("LNT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
