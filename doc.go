// Package mimemagic classifies content into registered MIME types by file
// extension or by magic bytes.
//
// Types live in a [Registry]: each type has a list of extensions, a set of
// parent types and, optionally, a tree of magic rules. The package ships a
// built-in table that backs [Default]; custom registries can be built with
// [NewRegistry] and [LoadDefinitions].
//
// # Lookups
//
//	t, ok := mimemagic.ByExtension("png")       // "png", ".png" and "PNG" all work
//	t, ok = mimemagic.ByPath("photos/cat.JPG")
//
//	f, _ := os.Open("cat.jpg")
//	t, ok = mimemagic.ByMagic(f)                // any io.ReadSeeker
//	t, ok = mimemagic.ByMagicBytes(data)
//
// A miss is reported with ok == false, never with an error.
//
// # Magic Rules
//
// A rule checks a byte value at a [Fixed] position or anywhere inside a
// [Range]. A rule with children is satisfied only when its own bytes match
// and at least one child is satisfied:
//
//	riff := mimemagic.RuleString(mimemagic.Fixed(0), "RIFF",
//	    mimemagic.RuleString(mimemagic.Fixed(8), "WAVE"),
//	)
//	err := reg.Add("audio/x-wav", []string{"wav"}, nil, riff)
//
// Rule-trees are evaluated newest registration first and the first match
// wins. Seek and read errors make the affected rule fail; they never abort
// the scan.
//
// # Type Hierarchy
//
// Parent edges form a directed acyclic graph. [Type.IsDescendantOf] follows
// every path, and [Type.IsText] asks whether a type descends from
// text/plain:
//
//	t, _ := mimemagic.ByExtension("svg")
//	t.IsDescendantOf("application/xml") // true
//	t.IsText()                          // true
//
// Registrations that would introduce a cycle are rejected with
// [ErrCyclicParent].
//
// # Detector
//
// [Detector] layers an extension-then-content strategy, a generic fallback
// sniffer and a result cache over a registry:
//
//	d := mimemagic.NewDetector(nil)
//	t := d.Detect("upload", data)
//
// # Definitions
//
// Type tables are YAML documents, see [Definitions]:
//
//	reg, err := mimemagic.LoadDefinitions(strings.NewReader(doc))
//
// # Configuration
//
// Detector settings can be loaded from environment variables with the
// BEAVER_MIMEMAGIC_ prefix via [GetConfig], or set directly on a [Config].
//
// # Concurrency
//
// Registries are safe for concurrent use. Registration takes an exclusive
// lock, so lookups never see a partially registered type. A stream passed
// to ByMagic must not be used by anyone else during the call.
package mimemagic
