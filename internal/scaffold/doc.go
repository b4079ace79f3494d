// Package scaffold materializes a resolved layout plan on disk. It owns the
// generic routines shared by every setup step: ensure a list of directories
// exists and write a list of rendered files, both anchored to an explicit
// root directory. Files are replaced atomically where the platform allows.
package scaffold
