/*
Package organize moves dropped files into their category directories.

🎯 Purpose:
  - Classify each item and pick its destination directory
  - Resolve name collisions with a duplicate policy
  - Move the item, falling back to copy + delete across devices

🔄 Flow:

	┌──────────┐     ┌────────────┐     ┌─────────────┐
	│  source  │ ──▶ │  classify  │ ──▶ │ destination │
	└──────────┘     └────────────┘     └──────┬──────┘
	                                           │
	                   ┌───────────────────────┼───────────────────┐
	                   ▼                       ▼                   ▼
	              ┌─────────┐            ┌──────────┐         ┌─────────┐
	              │ rename  │            │   skip   │         │ replace │
	              │ name_N  │            │ no-op    │         │ rm + mv │
	              └─────────┘            └──────────┘         └─────────┘

📁 Destination:
  - A per-category override wins when one is set
  - Otherwise <root>/<category>
  - Directories are created on demand

🔒 Concurrency:
  - Calls targeting the same directory are serialized
  - Calls targeting different directories run in parallel
  - Two concurrent renames never pick the same name

⚠️ Errors:
  - ErrInvalidSource: the source is missing or unreadable
  - ErrDestinationUnwritable: the destination cannot be created or inspected
  - ErrMoveFailed: the move itself failed
  - ErrTooManyCollisions: every numbered name is taken
*/
package organize
