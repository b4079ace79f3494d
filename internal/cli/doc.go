// Package cli defines the Cobra command tree for the aenzbi CLI. Each file
// in this package registers one top-level command (setup, doctor, layout,
// config, version) with the root command. Commands delegate to internal
// packages and only handle flag parsing, output formatting and exit status.
package cli
