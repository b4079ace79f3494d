// Package layout handles the declarative Project Layout manifest: the ordered
// list of directories, the files written into them and the external
// generator tools each component delegates to. A default manifest and its
// templates are embedded in the binary; custom manifests are loaded from disk
// with templates resolved relative to the manifest file. Manifests are
// validated against an embedded JSON Schema before use.
package layout
