// Package mapper resolves Go struct types into relational table descriptions.
//
// Types are registered on a Builder, configured through the fluent handle
// (string paths or typed accessors), struct tags, or both, and resolved once
// by an ordered pipeline of processors:
//
//   - DiscoveryProcessor: enumerate members, classify them as column,
//     relation (table) or nested value object, flatten nested objects and
//     detect cycles.
//   - AnnotationProcessor: fill unset configuration from struct tags.
//   - CoreProcessor: resolve inheritance flags, table names, primary keys,
//     columns, foreign keys and column names.
//   - MetadataProcessor: merge table and member metadata, with inheritance.
//   - custom processors added with Builder.AddProcessor.
//
// The first embedded struct of a type is its ancestor. Ancestors are
// registered automatically and always resolved before their descendants.
// Once resolved, the builder is read-only and the tables never change.
package mapper
