package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Semantic
	SemaInfo             Code = 3000
	SemaDuplicateSymbol  Code = 3002
	SemaShadowSymbol     Code = 3004
	SemaUnresolvedSymbol Code = 3005

	// I/O
	IOLoadFileError Code = 4001

	// Constructs accepted by the front end but not by code generation yet.
	FutConstructNotSupported Code = 7010
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	SemaInfo:                 "Semantic information",
	SemaDuplicateSymbol:      "Duplicate symbol",
	SemaShadowSymbol:         "Symbol shadows an outer declaration",
	SemaUnresolvedSymbol:     "Unresolved symbol",
	IOLoadFileError:          "I/O load file error",
	FutConstructNotSupported: "Construct is not supported yet",
}

// ID returns the stable textual identifier, e.g. SEM3002.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("FUT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
