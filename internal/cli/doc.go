// Package cli implements the table-mapper command line.
//
// Commands:
//   - inspect: load Go packages, resolve their tables and print them
//   - check: validate a table configuration file and the resolution
//   - export: write the resolved tables into a SQLite catalog
//   - version: print version information
//
// Settings come from flags, TABLEMAPPER_* environment variables and an
// optional table-mapper.yaml project file, in that order of precedence.
package cli
