package cache

import (
	"strconv"
	"strings"

	"scopebind/internal/binder"
	"scopebind/internal/diag"
	"scopebind/internal/source"
	"scopebind/internal/symbols"
	"scopebind/internal/syntax"
)

// ScopeRecord flattens one scope. Path is the dot-separated list of child
// indices from the root ("" for the root itself). Names are indices into
// Summary.Names.
type ScopeRecord struct {
	Path    string            `msgpack:"path"`
	Name    source.StringID   `msgpack:"name"`
	Node    syntax.NodeID     `msgpack:"node"`
	Locals  []source.StringID `msgpack:"locals"`
	Invalid []bool            `msgpack:"invalid"`
}

type NoteRecord struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
	Msg   string `msgpack:"msg"`
}

type DiagRecord struct {
	Severity diag.Severity `msgpack:"sev"`
	Code     diag.Code     `msgpack:"code"`
	Message  string        `msgpack:"msg"`
	Start    uint32        `msgpack:"start"`
	End      uint32        `msgpack:"end"`
	Notes    []NoteRecord  `msgpack:"notes,omitempty"`
}

// Summary is the cacheable part of a bind result. Spans are stored without a
// file ID and are re-attached to the file they are restored into.
type Summary struct {
	Schema      uint16        `msgpack:"schema"`
	Names       []string      `msgpack:"names"`
	Scopes      []ScopeRecord `msgpack:"scopes"`
	Diagnostics []DiagRecord  `msgpack:"diags"`
}

// Summarize flattens res in pre-order.
func Summarize(res *binder.Result) *Summary {
	s := &Summary{Schema: schemaVersion}
	names := source.NewInterner()
	var walk func(scope *symbols.LocalScope, path []string)
	walk = func(scope *symbols.LocalScope, path []string) {
		rec := ScopeRecord{
			Path: strings.Join(path, "."),
			Name: names.Intern(scope.Name()),
			Node: scope.EnclosingSyntax(),
		}
		for _, v := range scope.AllDeclarations() {
			rec.Locals = append(rec.Locals, names.Intern(v.Name()))
			rec.Invalid = append(rec.Invalid, !v.NameValid())
		}
		s.Scopes = append(s.Scopes, rec)
		for i, child := range scope.ChildScopes() {
			walk(child, append(path[:len(path):len(path)], strconv.Itoa(i)))
		}
	}
	walk(res.Root, nil)
	s.Names = names.Snapshot()

	for _, d := range res.Bag.Items() {
		rec := DiagRecord{
			Severity: d.Severity,
			Code:     d.Code,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			rec.Notes = append(rec.Notes, NoteRecord{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		s.Diagnostics = append(s.Diagnostics, rec)
	}
	return s
}

// Name returns the string for id, or "" when id is out of range.
func (s *Summary) Name(id source.StringID) string {
	if int(id) >= len(s.Names) {
		return ""
	}
	return s.Names[id]
}

// Locals returns the number of locals across every scope.
func (s *Summary) Locals() int {
	n := 0
	for _, rec := range s.Scopes {
		n += len(rec.Locals)
	}
	return n
}

// Bag restores the diagnostics into a bag, attributing spans to file.
func (s *Summary) Bag(file source.FileID) *diag.Bag {
	bag := diag.NewBag(len(s.Diagnostics))
	for _, rec := range s.Diagnostics {
		d := diag.New(rec.Severity, rec.Code,
			source.Span{File: file, Start: rec.Start, End: rec.End}, rec.Message)
		for _, n := range rec.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
	return bag
}
