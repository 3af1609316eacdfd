// Package fixture decodes syntax trees described in TOML. It stands in for the
// parser when driving the binder from the command line and from tests.
//
//	source = "for item in items"   # optional; synthesised when absent
//
//	[root]
//	kind = "program"
//
//	[[root.children]]
//	kind = "for"
//	label = "outer"
//	keyword = [0, 3]
//
//	  [[root.children.children]]
//	  kind = "ident"
//	  text = "item"
//	  decl = true
//	  span = [4, 8]
//
// When source is absent every node is laid out in document order: a construct
// contributes its kind as keyword text and an identifier its name, each
// followed by one space. Spans given explicitly always win.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"scopebind/internal/source"
	"scopebind/internal/syntax"
)

// ErrMalformed wraps every structural problem in a fixture.
var ErrMalformed = errors.New("malformed fixture")

type nodeSpec struct {
	Kind     string     `toml:"kind"`
	Text     string     `toml:"text"`
	Label    string     `toml:"label"`
	Decl     bool       `toml:"decl"`
	Invalid  bool       `toml:"invalid"`
	Span     []uint32   `toml:"span"`
	Keyword  []uint32   `toml:"keyword"`
	Children []nodeSpec `toml:"children"`
}

type document struct {
	Source string   `toml:"source"`
	Root   nodeSpec `toml:"root"`
}

// Fixture is a decoded syntax tree and the text its spans point into.
type Fixture struct {
	Tree   *syntax.Tree
	Source []byte
	File   source.FileID
}

// Decode reads a fixture whose spans will be attributed to file.
func Decode(r io.Reader, file source.FileID) (*Fixture, error) {
	var doc document
	meta, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("root") {
		return nil, fmt.Errorf("%w: missing [root]", ErrMalformed)
	}
	sourceLen, err := safecast.Conv[uint32](len(doc.Source))
	if err != nil {
		return nil, fmt.Errorf("%w: source too large: %w", ErrMalformed, err)
	}
	b := &treeBuilder{
		tree:      syntax.NewTree(0),
		file:      file,
		explicit:  doc.Source != "",
		sourceLen: sourceLen,
	}
	root, err := b.build(&doc.Root, "root")
	if err != nil {
		return nil, err
	}
	b.tree.SetRoot(root)

	src := []byte(doc.Source)
	if !b.explicit {
		src = bytes.TrimRight(b.text.Bytes(), " ")
	}
	return &Fixture{Tree: b.tree, Source: src, File: file}, nil
}

// Load decodes the fixture at path and registers its source text in fs, so
// that diagnostic spans resolve to lines and columns.
func Load(fs *source.FileSet, path string) (*Fixture, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	next, err := safecast.Conv[uint32](fs.Len())
	if err != nil {
		return nil, fmt.Errorf("load fixture: %w", err)
	}
	file := source.FileID(next)
	fx, err := Decode(bytes.NewReader(data), file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if got := fs.AddVirtual(path, fx.Source); got != file {
		return nil, fmt.Errorf("%s: file set changed while loading", path)
	}
	return fx, nil
}

type treeBuilder struct {
	tree      *syntax.Tree
	file      source.FileID
	explicit  bool
	sourceLen uint32
	text      bytes.Buffer
	off       uint32
}

// build allocates children before their parent, as the arena requires, while
// laying out synthesised text in pre-order.
func (b *treeBuilder) build(spec *nodeSpec, path string) (syntax.NodeID, error) {
	kind, err := syntax.ParseKind(spec.Kind)
	if err != nil {
		return syntax.NoNodeID, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
	}
	n := syntax.Node{Kind: kind, Valid: !spec.Invalid, Decl: spec.Decl, Text: spec.Label}
	start := b.off
	if kind == syntax.KindIdent {
		if spec.Text == "" {
			return syntax.NoNodeID, fmt.Errorf("%w: %s: identifier without text", ErrMalformed, path)
		}
		n.Text = spec.Text
		if n.Span, err = b.emit(spec.Text); err != nil {
			return syntax.NoNodeID, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
		}
	} else {
		if spec.Decl || spec.Text != "" {
			return syntax.NoNodeID, fmt.Errorf("%w: %s: only identifiers take text or decl", ErrMalformed, path)
		}
		if n.Keyword, err = b.emit(kind.String()); err != nil {
			return syntax.NoNodeID, fmt.Errorf("%w: %s: %w", ErrMalformed, path, err)
		}
	}

	n.Children = make([]syntax.NodeID, 0, len(spec.Children))
	for i := range spec.Children {
		child, err := b.build(&spec.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return syntax.NoNodeID, err
		}
		n.Children = append(n.Children, child)
	}
	if kind != syntax.KindIdent {
		n.Span = source.Span{File: b.file, Start: start, End: b.off - 1}
	}

	if n.Span, err = b.override(n.Span, spec.Span, path+".span"); err != nil {
		return syntax.NoNodeID, err
	}
	if n.Keyword, err = b.override(n.Keyword, spec.Keyword, path+".keyword"); err != nil {
		return syntax.NoNodeID, err
	}
	return b.tree.New(n), nil
}

// emit appends text plus a separating space to the synthesised source.
func (b *treeBuilder) emit(s string) (source.Span, error) {
	end, err := safecast.Conv[uint32](int(b.off) + len(s))
	if err != nil {
		return source.Span{}, fmt.Errorf("synthesised source too large: %w", err)
	}
	sp := source.Span{File: b.file, Start: b.off, End: end}
	if !b.explicit {
		b.text.WriteString(s)
		b.text.WriteByte(' ')
	}
	b.off = sp.End + 1
	return sp, nil
}

func (b *treeBuilder) override(def source.Span, given []uint32, path string) (source.Span, error) {
	if given == nil {
		if b.explicit {
			// Synthesised offsets mean nothing against user-provided source.
			return source.Span{File: b.file}, nil
		}
		return def, nil
	}
	if len(given) != 2 || given[0] > given[1] {
		return source.Span{}, fmt.Errorf("%w: %s: want [start, end] with start <= end", ErrMalformed, path)
	}
	if b.explicit && given[1] > b.sourceLen {
		return source.Span{}, fmt.Errorf("%w: %s: end %d beyond source length %d", ErrMalformed, path, given[1], b.sourceLen)
	}
	return source.Span{File: b.file, Start: given[0], End: given[1]}, nil
}
