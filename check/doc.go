// Package check verifies that text follows the output format produced by
// ww: no leading whitespace, single spaces between words, at most one blank
// line between paragraphs, greedily filled lines no wider than the column
// width, and no whitespace other than space and newline.
//
// Given the original input as well, it also confirms that every
// non-whitespace byte survived reflowing in the same order.
package check
