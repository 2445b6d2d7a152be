// Package match splits Go identifiers into words and suggests the closest
// known member or type name for one that failed to resolve, as shown in
// "did you mean" messages.
package match
