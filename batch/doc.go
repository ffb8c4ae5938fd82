// Package batch reflows every eligible file of a directory into a sibling
// file, isolating failures per file.
package batch
