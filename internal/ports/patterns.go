package ports

// Match is one keyword occurrence in a searched text. Offset is the zero-based
// code-point index of the occurrence's first character, not a byte offset.
type Match struct {
	Offset  int    `json:"offset"`
	Keyword string `json:"keyword"`
}

// PatternMatcher finds every occurrence of every keyword in a text in a single
// pass. Implementations are built once from a keyword set and are read-only
// afterwards, so one instance may serve concurrent SearchIn calls.
//
// A changed keyword set means building a new matcher. There is no Rebuild.
type PatternMatcher interface {
	// Keywords returns the effective keyword set: distinct, non-empty, in
	// first-occurrence order. The returned slice is a copy.
	Keywords() []string

	// SearchIn returns all occurrences, overlapping ones included. Order is
	// implementation-defined; sort the result if a canonical order is needed.
	// Returns nil when nothing matches.
	SearchIn(text string) []Match
}
