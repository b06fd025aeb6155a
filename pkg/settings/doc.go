/*
Package settings owns the organizer configuration and its persistence.

	┌──────────────┐   setters   ┌──────────┐   Save   ┌───────────┐
	│   caller     │ ──────────▶ │ Settings │ ───────▶ │   Store   │
	└──────────────┘             └────┬─────┘          └─────┬─────┘
	                                  │ getters              │
	                                  ▼                      ▼
	                           ┌────────────┐      ┌──────────────────┐
	                           │ Organizer  │      │ File / Memory    │
	                           └────────────┘      │ json yaml toml   │
	                                               │ hcl              │
	                                               └──────────────────┘

📦 Record:
  - rootDirectory: base output directory
  - duplicatePolicy: rename, skip or replace
  - customPaths: JSON object of category to directory, stored as a string
  - customCategories: JSON object of category to extensions, stored as a string

Legacy baseDir and duplicateHandling keys are read when the new keys are absent.

🔒 Writes:
  - Every setter persists before returning
  - A failed save restores the previous in-memory value
  - FileStore writes a temp file and renames it, under a lock file
*/
package settings
