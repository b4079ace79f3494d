// Package generator runs the external project generators a layout delegates
// to (create-react-app, npm, flutter). Every invocation produces an Output
// and, on failure, a *ToolError whose kind tells a missing tool apart from a
// failing or timed-out one. Version probing for host requirements lives here
// as well.
package generator
