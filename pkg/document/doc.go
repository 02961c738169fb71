// Package document reads layout documents and writes solved frames.
//
// A document describes one container and its children in TOML or JSON:
//
//	id = "root"
//	width = 400
//	height = 200
//
//	[[widget]]
//	id = "title"
//	width = 120
//	height = 30
//	connect = [
//	  { from = "left", to = "parent.left" },
//	  { from = "right", to = "parent.right" },
//	  { from = "top", to = "parent.top", margin = 16 },
//	]
//
//	[[guideline]]
//	id = "half"
//	orientation = "vertical"
//	percent = 0.5
//
//	[[barrier]]
//	id = "labels"
//	side = "right"
//	refs = ["name", "email"]
//
//	[measure.title]
//	width = 96
//	height = 18
//
// Connection targets are written "id.anchor"; "parent" names the container.
// The [measure] table holds intrinsic content sizes for WRAP_CONTENT and
// MATCH_CONSTRAINT widgets and becomes a [measure.Table].
//
// [Build] turns a [Document] into a widget tree. [WriteFrames] and
// [ReadFrames] export and re-import the solved geometry.
package document
