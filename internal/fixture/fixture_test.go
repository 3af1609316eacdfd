package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scopebind/internal/source"
	"scopebind/internal/syntax"
	"scopebind/internal/testkit"
)

const loopFixture = `
[root]
kind = "program"

[[root.children]]
kind = "for"
label = "outer"

  [[root.children.children]]
  kind = "ident"
  text = "item"
  decl = true

  [[root.children.children]]
  kind = "ident"
  text = "1bad"
  decl = true
  invalid = true

  [[root.children.children]]
  kind = "ident"
  text = "items"
`

func TestDecodeSynthesisesSource(t *testing.T) {
	fx, err := Decode(strings.NewReader(loopFixture), 3)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got, want := string(fx.Source), "program for item 1bad items"; got != want {
		t.Fatalf("source = %q, want %q", got, want)
	}

	root := fx.Tree.Get(fx.Tree.Root())
	if root.Kind != syntax.KindProgram || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	loop := fx.Tree.Get(root.Children[0])
	if loop.Kind != syntax.KindFor || loop.Text != "outer" {
		t.Fatalf("loop = %+v", loop)
	}
	if loop.Keyword != (source.Span{File: 3, Start: 8, End: 11}) {
		t.Fatalf("keyword = %v", loop.Keyword)
	}
	if loop.Span != (source.Span{File: 3, Start: 8, End: 27}) {
		t.Fatalf("span = %v", loop.Span)
	}

	item := fx.Tree.Get(loop.Children[0])
	bad := fx.Tree.Get(loop.Children[1])
	ref := fx.Tree.Get(loop.Children[2])
	if !item.Decl || !item.Valid || string(fx.Source[item.Span.Start:item.Span.End]) != "item" {
		t.Fatalf("item = %+v", item)
	}
	if bad.Valid || !bad.Decl {
		t.Fatalf("invalid identifier lost its flag: %+v", bad)
	}
	if ref.Decl || ref.Text != "items" {
		t.Fatalf("reference = %+v", ref)
	}
	if err := testkit.CheckSpanInvariants(fx.Tree, 3, fx.Source); err != nil {
		t.Fatalf("synthesised layout: %v", err)
	}
}

func TestDecodeExplicitSource(t *testing.T) {
	doc := `
source = "for x in xs"
[root]
kind = "for"
keyword = [0, 3]
span = [0, 11]
[[root.children]]
kind = "ident"
text = "x"
decl = true
span = [4, 5]
`
	fx, err := Decode(strings.NewReader(doc), 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(fx.Source) != "for x in xs" {
		t.Fatalf("source = %q", fx.Source)
	}
	root := fx.Tree.Get(fx.Tree.Root())
	if root.Keyword != (source.Span{Start: 0, End: 3}) || root.Span.End != 11 {
		t.Fatalf("root spans = %v %v", root.Keyword, root.Span)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"no root":            "source = \"x\"\n",
		"unknown kind":       "[root]\nkind = \"while\"\n",
		"ident without text": "[root]\nkind = \"program\"\n[[root.children]]\nkind = \"ident\"\n",
		"text on construct":  "[root]\nkind = \"for\"\ntext = \"x\"\n",
		"inverted span":      "[root]\nkind = \"block\"\nspan = [5, 1]\n",
		"span past source":   "source = \"ab\"\n[root]\nkind = \"block\"\nspan = [0, 9]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(doc), 0); !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
	if _, err := Decode(strings.NewReader("[root\n"), 0); err == nil {
		t.Fatalf("TOML syntax error accepted")
	}
}

func TestLoadRegistersSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loop.toml")
	if err := os.WriteFile(path, []byte(loopFixture), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := source.NewFileSet()
	fs.AddVirtual("other", []byte("x"))

	fx, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fx.File != 1 || string(fs.Get(fx.File).Content) != string(fx.Source) {
		t.Fatalf("fixture not registered as file 1")
	}
	loop := fx.Tree.Get(fx.Tree.Get(fx.Tree.Root()).Children[0])
	if pos, _ := fs.Resolve(loop.Keyword); pos != (source.LineCol{Line: 1, Col: 9}) {
		t.Fatalf("keyword at %+v", pos)
	}
}
