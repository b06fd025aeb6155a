// Package analyze reports on dropped paths without moving anything.
//
// Extensions groups files by extension with counts, sizes, examples, MIME
// type and category. Sizes totals each input path recursively. Both skip
// symlinks and unreadable entries and honour doublestar ignore patterns.
package analyze
