// Package config reads textchunk.toml: bound overrides under [bounds], an
// optional ordered [[rules]] list (builtin names or custom patterns with
// {KEY} placeholders) and [scan] defaults for the CLI.
//
// The package only decodes and validates shape; grammar.Build owns pattern
// compilation and bound validation.
package config
