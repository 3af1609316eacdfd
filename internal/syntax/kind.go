package syntax

import "fmt"

// Kind classifies syntax nodes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindBlock
	KindFor
	KindLambda
	KindIf
	KindIdent
	KindExpr
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindProgram: "program",
	KindBlock:   "block",
	KindFor:     "for",
	KindLambda:  "lambda",
	KindIf:      "if",
	KindIdent:   "ident",
	KindExpr:    "expr",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && Kind(k) != KindInvalid {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown syntax kind %q", s)
}

// IntroducesScope reports whether constructs of this kind open a local scope.
func (k Kind) IntroducesScope() bool {
	switch k {
	case KindFor, KindLambda, KindBlock:
		return true
	default:
		return false
	}
}
