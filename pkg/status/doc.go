/*
Package status formats organize outcomes for the console.

	+-------------+
	|   Result    |
	|  (organize) |
	+------+------+
	       |
	+------+------+
	|  Formatter  |
	| (emoji/row) |
	+------+------+
	       |
	+------+------+
	|   Console   |
	|  (pkg/log)  |
	+-------------+

🎯 Purpose:
- One-line messages per result (📦 Moved, 🔢 Renamed, ⏭️ Skipped, ...)
- Aligned table rows for batch output
- Progress and summary lines with human readable sizes

Nothing here writes anywhere; callers decide where the strings go.
*/
package status
