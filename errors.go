package hidl

import "fmt"

// ParseError is thrown when the lexer/parser can't finish
// successfully. It is always terminal for the file being parsed.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// PackageMismatchError fires when an AST's declared package/version
// disagrees with what the Coordinator expected to find at that path.
type PackageMismatchError struct {
	Path            string
	Expected        FQName
	DeclaredPackage string
	DeclaredVersion string
}

func (e PackageMismatchError) Error() string {
	return fmt.Sprintf(
		"%s: declares package %q version %q, expected %q version %q",
		e.Path, e.DeclaredPackage, e.DeclaredVersion, e.Expected.Package, e.Expected.versionString())
}

// InterfaceMismatchError fires when types.hal declares an interface,
// or I<Name>.hal declares the wrong interface (or a non-interface).
type InterfaceMismatchError struct {
	Path     string
	Expected string // expected tail, e.g. "types" or "IFoo"
	Found    string // what was actually declared, "" if none
}

func (e InterfaceMismatchError) Error() string {
	if e.Expected == "types" {
		return fmt.Sprintf("%s: declares interface %q instead of the expected types common to the package", e.Path, e.Found)
	}
	if e.Found == "" {
		return fmt.Sprintf("%s: declares types rather than the expected interface type %q", e.Path, e.Expected)
	}
	return fmt.Sprintf("%s: does not declare interface type %q (found %q)", e.Path, e.Expected, e.Found)
}

// DuplicateNameError fires when two types or constants share a name
// in the same Scope.
type DuplicateNameError struct {
	Scope string
	Name  string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate name %q in scope %s", e.Name, e.Scope)
}

// UnresolvedReferenceError fires when a use-site name can't be found
// in any enclosing scope or import.
type UnresolvedReferenceError struct {
	Name string
	File string
	Line int
}

func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s:%d: unresolved reference %q", e.File, e.Line, e.Name)
}

// TypeConstraintError reports a violation of one of the type-graph
// invariants (union with embedded pointers, struct/union holding an
// interface, non-integral enum storage, non-constant array dimension).
type TypeConstraintError struct {
	TypeName string
	Reason   string
}

func (e TypeConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.TypeName, e.Reason)
}

// TargetCompatibilityError is returned by the managed driver when
// asked to emit a type it cannot represent (a union or a handle). No
// partial output is written for the offending type when this fires.
type TargetCompatibilityError struct {
	TypeName string
	Reason   string
}

func (e TargetCompatibilityError) Error() string {
	return fmt.Sprintf("%s is not compatible with the managed target: %s", e.TypeName, e.Reason)
}

// isUserError reports whether err is one of the taxonomy above, as
// opposed to a wrapped I/O failure.
func isUserError(err error) bool {
	switch err.(type) {
	case ParseError, PackageMismatchError, InterfaceMismatchError,
		DuplicateNameError, UnresolvedReferenceError, TypeConstraintError,
		TargetCompatibilityError:
		return true
	default:
		return false
	}
}
