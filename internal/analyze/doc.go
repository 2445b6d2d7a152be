// Package analyze loads Go packages from source and describes their types
// with the model package, the same way the mapper describes types obtained
// through reflection.
//
// It uses golang.org/x/tools/go/packages and go/types, so types can be
// mapped without being compiled into the calling program (the CLI works
// this way).
package analyze
