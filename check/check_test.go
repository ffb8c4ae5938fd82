package check

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkString(t *testing.T, output string, width int) Report {
	t.Helper()
	report, err := Check(Request{Output: strings.NewReader(output), Width: width})
	require.NoError(t, err)
	return report
}

func kinds(r Report) []Kind {
	var out []Kind
	for _, issue := range r.Issues {
		out = append(out, issue.Kind)
	}
	return out
}

func TestCheckRules(t *testing.T) {
	cases := []struct {
		name   string
		output string
		width  int
		want   []Issue
	}{
		{"clean", "ab cd\nef\n\ngh\n", 5, nil},
		{"empty", "", 5, nil},
		{"leading whitespace", " a\n", 10, []Issue{{Kind: KindLeadingWhitespace, Line: 1}}},
		{"multiple spaces", "a  b\n", 10, []Issue{{Kind: KindMultipleSpaces, Line: 1}}},
		{"excess newlines", "a\n\n\nb\n", 10, []Issue{{Kind: KindExcessNewlines, Line: 3}}},
		{"early wrap", "ab\ncd\n", 5, []Issue{{Kind: KindEarlyWrap, Line: 1}}},
		{"needed wrap", "ab\ncd\n", 4, nil},
		{"blank line resets wrap check", "ab\n\ncd\n", 80, nil},
		{"overrun", "ab cd\n", 4, []Issue{{Kind: KindOverrun, Line: 1}}},
		{"overlong word", "ab\nabcdef\n", 4, []Issue{{Kind: KindOverlongWord, Line: 2}}},
		{"disallowed whitespace", "a\tb\n", 10, []Issue{{Kind: KindDisallowedWhitespace, Line: 1}}},
		{"space then tab", "a \tb\n", 10, []Issue{{Kind: KindDisallowedWhitespace, Line: 1}}},
		{"carriage return then space", "a\r b\n", 10, []Issue{{Kind: KindDisallowedWhitespace, Line: 1}}},
		{"missing final newline", "a b", 10, []Issue{{Kind: KindMissingFinalNewline, Line: 1}}},
		{"trailing space", "a \n\nb\n", 10, []Issue{{Kind: KindTrailingSpace, Line: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := checkString(t, tc.output, tc.width)
			require.Len(t, report.Issues, len(tc.want), "issues: %v", report.Issues)
			for i, want := range tc.want {
				assert.Equal(t, want.Kind, report.Issues[i].Kind, "issue %d: %v", i, report.Issues[i])
				assert.Equal(t, want.Line, report.Issues[i].Line, "issue %d: %v", i, report.Issues[i])
				assert.NotEmpty(t, report.Issues[i].Detail)
			}
			assert.Equal(t, len(tc.want) == 0, report.OK())
		})
	}
}

func TestCheckTrailingSpaceAlsoWrapsEarly(t *testing.T) {
	report := checkString(t, "a \nb\n", 10)
	assert.Equal(t, []Kind{KindTrailingSpace, KindEarlyWrap}, kinds(report))
}

func TestCheckCountsLinesAndWords(t *testing.T) {
	report := checkString(t, "one two\nthree\n\nfour\n", 8)
	assert.True(t, report.OK(), "issues: %v", report.Issues)
	assert.Equal(t, 4, report.Lines)
	assert.Equal(t, 4, report.Words)
}

func TestCheckOverlongWordDetailIsTruncated(t *testing.T) {
	word := strings.Repeat("x", 500)
	report := checkString(t, word+"\n", 10)
	require.Len(t, report.Issues, 1)
	issue := report.Issues[0]
	assert.Equal(t, KindOverlongWord, issue.Kind)
	assert.Contains(t, issue.Detail, "…")
	assert.Contains(t, issue.Detail, "width 500")
	assert.Less(t, len(issue.Detail), 200)
}

func TestCheckContent(t *testing.T) {
	cases := []struct {
		name     string
		original string
		output   string
		want     []Kind
	}{
		{"same", "a  b\n\n\nc", "a b\n\nc\n", nil},
		{"reordered", "b a", "a b\n", []Kind{KindContentReordered}},
		{"missing bytes", "a b c", "a b\n", []Kind{KindContentMismatch}},
		{"different bytes", "a b", "a a\n", []Kind{KindContentMismatch}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Check(Request{
				Output:   strings.NewReader(tc.output),
				Original: strings.NewReader(tc.original),
				Width:    80,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, kinds(report))
		})
	}
}

func TestCheckContentMismatchDetail(t *testing.T) {
	report, err := Check(Request{
		Output:   strings.NewReader("a a\n"),
		Original: strings.NewReader("a b"),
		Width:    80,
	})
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 0, report.Issues[0].Line)
	assert.Equal(t, "byte 'a' appears 1 times in input, 2 times in output", report.Issues[0].Detail)
}

func TestCheckMaxIssues(t *testing.T) {
	report, err := Check(Request{
		Output:    strings.NewReader("a  b  c  d\n"),
		Width:     80,
		MaxIssues: 1,
	})
	require.NoError(t, err)
	assert.Len(t, report.Issues, 1)
	assert.Equal(t, 2, report.Dropped)
	assert.False(t, report.OK())
}

func TestCheckValidatesRequest(t *testing.T) {
	_, err := Check(Request{Width: 10})
	assert.Error(t, err)
	_, err = Check(Request{Output: strings.NewReader(""), Width: 0})
	assert.Error(t, err)
}

func TestCheckAcceptsReflowedTestdata(t *testing.T) {
	for _, name := range []string{"prose", "lists", "overlong"} {
		src, err := os.ReadFile("../testdata/" + name + ".txt")
		require.NoError(t, err)
		for _, width := range []int{10, 20, 40} {
			out, err := Expected(bytes.NewReader(src), width)
			require.NoError(t, err)
			report, err := Check(Request{
				Output:   bytes.NewReader(out),
				Original: bytes.NewReader(src),
				Width:    width,
			})
			require.NoError(t, err)
			for _, issue := range report.Issues {
				assert.Equal(t, KindOverlongWord, issue.Kind, "%s width %d: %v", name, width, issue)
			}
		}
	}
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "line 3: overrun: too wide", Issue{Kind: KindOverrun, Line: 3, Detail: "too wide"}.String())
	assert.Equal(t, "content-mismatch: differs", Issue{Kind: KindContentMismatch, Detail: "differs"}.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
