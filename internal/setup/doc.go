// Package setup implements the scaffolding pipeline: create the directory
// tree, write the common files, then set up the backend, web and mobile
// components in that order. Each step works on explicit paths below the
// invocation root; the process working directory is never changed.
//
// External generator failures are best-effort by default: they are recorded
// in the Report and printed as warnings, and the run still completes. With
// Options.Strict the first tool failure aborts the run. Filesystem errors are
// always fatal.
package setup
