package hidl

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
)

// RootMapping binds a dotted package prefix to a filesystem directory
// it resolves under, the "-r prefix:path" command-line mapping (spec
// section 6). Roots are tried longest-prefix-first.
type RootMapping struct {
	Prefix string
	Path   string
}

// FileReader abstracts reading a .hal source file and is injected so
// tests can supply an in-memory filesystem rather than touching disk.
type FileReader func(path string) ([]byte, error)

// cacheEntry is either a fully parsed AST, or a nil sentinel meaning
// "currently being parsed" — the cycle marker Coordinator.parse
// installs before recursing into imports, mirroring
// original_source/Coordinator.cpp's nullptr-sentinel mCache entry.
type cacheEntry struct {
	ast  *AST
	done bool
}

// Coordinator resolves FQNames to parsed files and caches the result,
// detecting import cycles rather than recursing forever (spec section
// 4.6). It is the only component that touches the filesystem; every
// other component works purely on FQNames and Types.
type Coordinator struct {
	roots    []RootMapping
	readFile FileReader
	cache    *swiss.Map[string, *cacheEntry]
	lex      func(path string, src []byte) (*AST, error)
}

// NewCoordinator builds a Coordinator over roots, using readFile to
// load source text and lexParse to turn it into an AST (normally
// ParseFile from parser.go; a test may substitute a stub).
func NewCoordinator(roots []RootMapping, readFile FileReader, lexParse func(path string, src []byte) (*AST, error)) *Coordinator {
	return &Coordinator{
		roots:    roots,
		readFile: readFile,
		cache:    swiss.NewMap[string, *cacheEntry](8),
		lex:      lexParse,
	}
}

// getPackagePath maps fqn to the .hal source file it should live in,
// by matching the longest configured root prefix against fqn.Package
// (spec section 4.6's root-prefix lookup; original_source/
// Coordinator.cpp's getPackagePath does the same longest-prefix walk).
// Only the part of the package past the matched prefix becomes
// subdirectories — mapping "foo.bar" to "/src" resolves
// "foo.bar.nfc@1.0::INfc" to "/src/nfc/V1_0/INfc.hal" (spec section
// 8's S1 fixture), not a path with "foo/bar" doubled into it.
func (c *Coordinator) getPackagePath(fqn FQName) (string, error) {
	var best *RootMapping
	for i := range c.roots {
		r := &c.roots[i]
		if fqn.Package == r.Prefix || strings.HasPrefix(fqn.Package, r.Prefix+".") {
			if best == nil || len(r.Prefix) > len(best.Prefix) {
				best = r
			}
		}
	}
	if best == nil {
		return "", fmt.Errorf("hidl: no root mapping covers package %q", fqn.Package)
	}
	suffix := strings.TrimPrefix(fqn.Package, best.Prefix)
	suffix = strings.TrimPrefix(suffix, ".")
	dir := best.Path
	if suffix != "" {
		dir = best.Path + "/" + strings.ReplaceAll(suffix, ".", "/")
	}
	ver := fqn.VersionComponent(true)
	base := fqn.Tail
	if base == "" {
		base = "types"
	}
	return fmt.Sprintf("%s/%s/%s.hal", dir, ver, base), nil
}

// Parse resolves fqn to its AST, reading and lexing the backing file
// on first use and serving the cache afterward. It follows the
// file's own imports eagerly so that by the time Parse returns,
// every package the file depends on has itself been parsed. The
// package's types file is not parsed up front; LookupType parses it on
// demand when a pending reference needs it. A parse that fails removes
// its in-progress cache entry, so a later Parse of the same name tries
// again and reports the error instead of finding the sentinel.
//
// A re-entrant call that lands on a file already in progress (the S2
// cycle-break fixture: A imports B, B imports A) observes the
// in-progress sentinel cache entry and returns immediately rather than
// erroring or recursing again, matching
// original_source/Coordinator.cpp's plain cache-hit return (it never
// distinguishes a NULL sentinel from a finished entry) — the ast it
// hands back is nil in that case, which is fine, since the only
// callers of a re-entrant Parse (the import loop below, and
// resolvePendingRefs via LookupType) only care whether it errored.
func (c *Coordinator) Parse(fqn FQName) (*AST, error) {
	// getPackagePath defaults an empty tail to "types", the same
	// default spec section 4.6 uses for the on-disk filename; the rest
	// of Parse treats that defaulted tail as the FQName actually being
	// resolved, and the cache is keyed on it so a bare-package request
	// and an explicit "::types" request share one cache entry and one
	// parse.
	effective := fqn
	if effective.Tail == "" {
		effective = effective.WithTail("types")
	}
	key := effective.String()

	if entry, ok := c.cache.Get(key); ok {
		return entry.ast, nil
	}

	c.cache.Put(key, &cacheEntry{done: false})
	parsed := false
	defer func() {
		if !parsed {
			c.cache.Delete(key)
		}
	}()

	path, err := c.getPackagePath(effective)
	if err != nil {
		return nil, err
	}
	src, err := c.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("hidl: reading %s: %w", path, err)
	}
	ast, err := c.lex(path, src)
	if err != nil {
		return nil, err
	}
	// A file's own "package p@M.N;" line never spells its tail — that
	// comes from the path the Coordinator resolved fqn to — so the
	// declared-vs-expected check compares package and version only,
	// then SetPackage completes ast.FQN with the resolved tail for
	// every later tail-sensitive consumer (AST.IsTypesFile, the depfile
	// and code-generation drivers).
	if ast.FQN.Package != effective.Package || !ast.FQN.HasVersion() || ast.FQN.Major != effective.Major || ast.FQN.Minor != effective.Minor {
		return nil, PackageMismatchError{Path: path, Expected: effective, DeclaredPackage: ast.FQN.Package, DeclaredVersion: ast.FQN.VersionComponent(false)}
	}
	ast.SetPackage(effective)
	if err := validateFileTail(ast, effective, path); err != nil {
		return nil, err
	}

	for _, imp := range ast.Imports {
		if _, err := c.Parse(imp); err != nil {
			return nil, err
		}
	}

	if err := c.resolvePendingRefs(ast); err != nil {
		return nil, err
	}

	for _, t := range ast.Root.Types() {
		if err := validateTypeConstraints(t); err != nil {
			return nil, err
		}
	}

	parsed = true
	c.cache.Put(key, &cacheEntry{ast: ast, done: true})
	return ast, nil
}

// validateFileTail enforces spec section 4.6 step 6: a "types.hal"
// file declares only types, and an "I<Name>.hal" file declares exactly
// one root-scope type, the interface I<Name>.
func validateFileTail(ast *AST, fqn FQName, path string) error {
	types := ast.Root.Types()
	if fqn.Tail == "types" {
		for _, t := range types {
			if ifc, ok := t.(*InterfaceType); ok {
				return InterfaceMismatchError{Path: path, Expected: "types", Found: ifc.LocalName}
			}
		}
		return nil
	}
	if len(types) != 1 {
		found := ""
		if len(types) > 0 {
			found = types[0].TypeName()
		}
		return InterfaceMismatchError{Path: path, Expected: fqn.Tail, Found: found}
	}
	ifc, ok := types[0].(*InterfaceType)
	if !ok || ifc.LocalName != fqn.Tail {
		return InterfaceMismatchError{Path: path, Expected: fqn.Tail, Found: types[0].TypeName()}
	}
	return nil
}

// resolvePendingRefs binds every RefType parseTypeRef couldn't resolve
// against ast's own scope at parse time (spec section 9's "post-parse
// resolution pass"). A name is tried first against ast's own
// now-complete root scope, for a true same-file forward reference;
// failing that, it falls back to the same types.hal-then-interface-file
// lookup order LookupType uses, which is how a package's types.hal
// ends up implicitly imported (spec section 6) even though it never
// appears in ast.Imports.
func (c *Coordinator) resolvePendingRefs(ast *AST) error {
	for _, ref := range ast.PendingRefs {
		if t, ok := ast.Root.Lookup(ref.FQN); ok {
			ref.Resolve(t)
			continue
		}
		t, err := c.LookupType(ast.FQN.WithTail(ref.FQN))
		if err != nil {
			return UnresolvedReferenceError{Name: ref.FQN}
		}
		ref.Resolve(t)
	}
	return nil
}

// resolveInAST looks a reference's tail up directly in ast's root
// scope. Per the nested-type-path decision recorded in DESIGN.md, a
// multi-component tail ("Outer.Inner") is looked up as one flattened
// dotted name rather than by descending into Outer's own scope. The
// parser registers a nested declaration only in its enclosing body
// scope, under its local name, so a multi-component tail finds no
// match here. ast is nil when Parse returned the in-progress
// cycle sentinel; that's simply a miss here, not a match.
func resolveInAST(ast *AST, tail string) (Type, bool) {
	if ast == nil {
		return nil, false
	}
	return ast.Root.LookupLocal(tail)
}

// LookupType resolves a fully-qualified type reference to its Type,
// trying the package's shared "types" file first and then an
// interface file named after the reference's leading tail component
// (spec section 4.6's two-file resolution order).
func (c *Coordinator) LookupType(fqn FQName) (Type, error) {
	if fqn.Tail == "" {
		return nil, UnresolvedReferenceError{Name: fqn.String()}
	}

	typesFQN := fqn.WithTail("types")
	if ast, err := c.Parse(typesFQN); err == nil {
		if t, ok := resolveInAST(ast, fqn.Tail); ok {
			return t, nil
		}
	}

	comps := fqn.TailComponents()
	if len(comps) > 0 {
		ifaceFQN := fqn.WithTail(comps[0])
		if ast, err := c.Parse(ifaceFQN); err == nil {
			if t, ok := resolveInAST(ast, fqn.Tail); ok {
				return t, nil
			}
		}
	}

	return nil, UnresolvedReferenceError{Name: fqn.String()}
}

// SortedDeps returns every FQName ast transitively depends on
// (imports of imports), sorted canonically, for dependency-file
// emission (C6/depfile.go). It assumes every import has already been
// parsed into the cache by a prior Parse call.
func (c *Coordinator) SortedDeps(ast *AST) []FQName {
	seen := map[string]bool{}
	var out []FQName
	var walk func(a *AST)
	walk = func(a *AST) {
		for _, imp := range a.Imports {
			key := imp.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, imp)
			if entry, ok := c.cache.Get(key); ok && entry.done {
				walk(entry.ast)
			}
		}
	}
	walk(ast)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Less(out[i]) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
