// Package diagnostic provides structured errors, warnings and notes produced
// while validating table configuration files.
//
// Each diagnostic carries a stable code, the configured type and member path
// it concerns, and optional "did you mean" suggestions.
package diagnostic
