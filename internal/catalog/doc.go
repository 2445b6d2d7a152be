// Package catalog exports resolved tables.
//
// A Snapshot is a serializable copy of the tables a mapper.Builder publishes,
// ordered so that every table comes after the tables its foreign keys
// reference. Its canonical YAML encoding is hashed with xxh3 into a
// fingerprint that changes whenever a table, a column name or a metadata
// entry changes. A Store writes snapshots into a SQLite database.
package catalog
