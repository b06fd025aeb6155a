/*
Package watch hands newly arrived entries of a folder to a handler.

	fsnotify ──▶ filter ──▶ settle timer ──▶ still there? ──▶ Handler
	             (ignore,    (reset on                       (one at
	              exclude)    every event)                    a time)

A path is handled once it has been quiet for the settle period, so a file
still being written is not moved halfway through. In recursive mode new
subdirectories are watched instead of handed off.
*/
package watch
