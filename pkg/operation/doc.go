/*
Package operation drives batches of organize calls.

	+-------------+
	|  Drop list  |
	| (paths...)  |
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (errgroup)  |
	+------+------+
	       |
	+------+------+------------+
	|  Organizer  |  Recorder  |
	| (move/plan) | (history)  |
	+-------------+------------+

🎯 Purpose:
- Turn a multi-file drop into independent organize calls
- Aggregate outcomes into a Summary
- Journal completed moves

🔄 Flow:
1. ParseDropList splits the raw payload
2. Run schedules one call per path, up to Jobs at a time
3. Each finished item goes to the Reporter
4. Non-skipped moves go to the Recorder

⚠️ Failures:
A failed item is counted and kept in Summary.Results; the batch continues.
Cancelling the context stops scheduling and Run returns the context error
along with the partial summary.
*/
package operation
