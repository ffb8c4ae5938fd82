package ww

// Boundary reports how a word was joined to the output written before it.
type Boundary uint8

const (
	// BoundaryNone means there was no word to write.
	BoundaryNone Boundary = iota
	// BoundaryContinued means the word stayed on the current line.
	BoundaryContinued
	// BoundaryWrapped means the line was full and the word started a new one.
	BoundaryWrapped
	// BoundaryParagraph means the word starts a new paragraph.
	BoundaryParagraph
)

func (b Boundary) String() string {
	switch b {
	case BoundaryNone:
		return "none"
	case BoundaryContinued:
		return "continued"
	case BoundaryWrapped:
		return "wrapped"
	case BoundaryParagraph:
		return "paragraph"
	default:
		return "unknown"
	}
}
