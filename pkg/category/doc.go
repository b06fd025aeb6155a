/*
Package category maps files to named category buckets.

	+-------------+      +-------------+
	| Descriptor  | ---> | Classifier  |
	| (name, ext) |      |  (rules)    |
	+-------------+      +------+------+
	                            |
	                     +------+------+
	                     |    Table    |
	                     | (ext index) |
	                     +-------------+

🎯 Purpose:
- Holds the extension table (Images, Documents, Audio, ...)
- Applies the special rules ahead of the table lookup
- Falls back to Others for anything unknown

🔄 Rule order:
1. Directory bundles (.app, .vst3, .logicx)
2. Screenshot images and screen recordings, by filename marker
3. Plain directories go to Folders
4. Table lookup by extension
5. Others

📝 Table invariant:
An extension belongs to at most one category. NewTable and Table.Extend
reject conflicts with a *ConflictError instead of picking a winner, so the
lookup result never depends on iteration order.
*/
package category
