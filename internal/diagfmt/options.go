package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   bool // print the offending line with an underline
	ShowNotes bool
	Max       int // 0 means every item in the bag
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	IncludeNotes     bool
	Max              int
}
