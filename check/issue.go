package check

import "fmt"

// Kind identifies a rule broken by the checked output.
type Kind uint8

// Issue kinds, in the order a reader of the output would notice them.
const (
	KindLeadingWhitespace Kind = iota + 1
	KindMultipleSpaces
	KindTrailingSpace
	KindExcessNewlines
	KindEarlyWrap
	KindOverrun
	KindOverlongWord
	KindDisallowedWhitespace
	KindMissingFinalNewline
	KindContentMismatch
	KindContentReordered
)

var kindNames = [...]string{
	KindLeadingWhitespace:    "leading-whitespace",
	KindMultipleSpaces:       "multiple-spaces",
	KindTrailingSpace:        "trailing-space",
	KindExcessNewlines:       "excess-newlines",
	KindEarlyWrap:            "early-wrap",
	KindOverrun:              "overrun",
	KindOverlongWord:         "overlong-word",
	KindDisallowedWhitespace: "disallowed-whitespace",
	KindMissingFinalNewline:  "missing-final-newline",
	KindContentMismatch:      "content-mismatch",
	KindContentReordered:     "content-reordered",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Issue is one rule violation found in the output.
type Issue struct {
	Kind Kind
	// Line is the 1-based output line, or 0 for whole-file issues.
	Line   int
	Detail string
}

func (i Issue) String() string {
	if i.Line == 0 {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Kind, i.Detail)
}

// Report is the outcome of Check.
type Report struct {
	Issues []Issue
	// Dropped counts issues found after Request.MaxIssues was reached.
	Dropped int
	Lines   int
	Words   int
}

// OK reports whether no issue was found.
func (r Report) OK() bool {
	return len(r.Issues) == 0 && r.Dropped == 0
}

// Has reports whether an issue of kind k was recorded.
func (r Report) Has(k Kind) bool {
	for _, issue := range r.Issues {
		if issue.Kind == k {
			return true
		}
	}
	return false
}
