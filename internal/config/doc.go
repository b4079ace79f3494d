// Package config manages user-level settings stored at ~/.aenzbi/config.yaml.
// Every key can also be supplied through an AENZBI_ prefixed environment
// variable, with dots replaced by underscores (tools.timeout → AENZBI_TOOLS_TIMEOUT).
package config
