package diag

import (
	"testing"

	"scopebind/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(NewWarning(SemaShadowSymbol, source.Span{}, "w")) {
		t.Fatalf("first add rejected")
	}
	if bag.HasErrors() {
		t.Fatalf("warning counted as error")
	}
	bag.Add(NewError(SemaDuplicateSymbol, source.Span{}, "e"))
	if bag.Add(NewError(SemaDuplicateSymbol, source.Span{}, "dropped")) {
		t.Fatalf("limit not enforced")
	}
	if !bag.HasErrors() || bag.Len() != 2 {
		t.Fatalf("unexpected bag state: len=%d errors=%v", bag.Len(), bag.HasErrors())
	}
	if bag.Count(SevError) != 1 || bag.Count(SevWarning) != 1 || bag.Count(SevInfo) != 0 {
		t.Fatalf("counts = %d errors, %d warnings", bag.Count(SevError), bag.Count(SevWarning))
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewError(SemaDuplicateSymbol, source.Span{File: 1, Start: 8, End: 9}, "dup"))
	bag.Add(NewWarning(SemaShadowSymbol, source.Span{File: 0, Start: 4, End: 5}, "shadow"))
	bag.Add(NewError(FutConstructNotSupported, source.Span{File: 0, Start: 4, End: 5}, "loop"))
	bag.Add(NewError(SemaDuplicateSymbol, source.Span{File: 1, Start: 8, End: 9}, "dup"))

	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].Code != FutConstructNotSupported || items[1].Code != SemaShadowSymbol || items[2].Code != SemaDuplicateSymbol {
		t.Fatalf("unexpected order: %v, %v, %v", items[0].Code, items[1].Code, items[2].Code)
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a, b := NewBag(1), NewBag(1)
	a.Add(NewError(SemaDuplicateSymbol, source.Span{}, "a"))
	b.Add(NewError(SemaDuplicateSymbol, source.Span{}, "b"))
	a.Merge(b)
	if a.Len() != 2 || a.Cap() != 2 {
		t.Fatalf("merge: len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(SemaDuplicateSymbol, source.Span{Start: 1, End: 2}, "x")
	r.Report(d)
	r.Report(d)
	r.Report(d.WithNote(source.Span{}, "notes do not matter"))
	if bag.Len() != 1 {
		t.Fatalf("len = %d, want 1", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		SemaDuplicateSymbol:      "SEM3002",
		IOLoadFileError:          "IO4001",
		FutConstructNotSupported: "FUT7010",
		UnknownCode:              "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d.ID() = %s, want %s", code, got, want)
		}
	}
	if Code(1234).Title() != "Unknown error" {
		t.Fatalf("unknown codes fall back to the generic title")
	}
}
