package diag

import "scopebind/internal/source"

// Reporter receives diagnostics from producers without tying them to storage.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportError emits an error diagnostic through r.
func ReportError(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(NewError(code, primary, msg))
	}
}

// BagReporter stores reported diagnostics into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

