// Package model describes the Go types a table mapper works on.
//
// It is a small reflection-independent view of structs: TypeInfo, FieldInfo
// and the members a type exposes once embedding is taken into account. The
// first embedded struct of a type is its base (ancestor); the members it
// promotes are inherited, every other member is the type's own.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: kind, fields and the type-level marker tag
//   - Member: an exported field reachable on a type
//   - Property: a discovered member classified as column, table or nested
//   - Tag: a parsed "name,opt,key=value" struct tag
package model
