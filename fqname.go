package hidl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FQName is a fully-qualified name: package + version + tail (spec
// section 3). Grounded on original_source/FQName.cpp: the same four
// regexes below accept any suffix of "(package)?(@ver)?(::tail)?",
// and default-apply/rendering follow that file's applyDefaults and
// cppName/javaName derivations, generalized to every target instead
// of baking in one language.
type FQName struct {
	Package string
	Major   int
	Minor   int
	Tail    string
	hasVer  bool
}

const (
	reComponent = `[a-zA-Z_][a-zA-Z_0-9]*`
	rePath      = reComponent + `(\.` + reComponent + `)*`
	reVersion   = `@([0-9]+)\.([0-9]+)`
)

var (
	fqnRe1 = regexp.MustCompile(`^(` + rePath + `)(` + reVersion + `)?::(` + rePath + `)$`)
	fqnRe2 = regexp.MustCompile(`^` + reVersion + `::(` + rePath + `)$`)
	fqnRe3 = regexp.MustCompile(`^(` + rePath + `)(` + reVersion + `)$`)
	fqnRe4 = regexp.MustCompile(`^` + rePath + `$`)
)

// ParseFQName parses s into an FQName, or reports that it does not
// match the grammar at all (spec section 4.1's "parse" operation).
// IsValid distinguishes this parse failure from a name that parsed
// but is not fully qualified.
func ParseFQName(s string) (FQName, bool) {
	if m := fqnRe1.FindStringSubmatch(s); m != nil {
		fq := FQName{Package: m[1], Tail: m[6]}
		if m[3] != "" {
			fq.hasVer = true
			fq.Major, _ = strconv.Atoi(m[4])
			fq.Minor, _ = strconv.Atoi(m[5])
		}
		return fq, true
	}
	if m := fqnRe2.FindStringSubmatch(s); m != nil {
		fq := FQName{Tail: m[3], hasVer: true}
		fq.Major, _ = strconv.Atoi(m[1])
		fq.Minor, _ = strconv.Atoi(m[2])
		return fq, true
	}
	if m := fqnRe3.FindStringSubmatch(s); m != nil {
		fq := FQName{Package: m[1], hasVer: true}
		fq.Major, _ = strconv.Atoi(m[4])
		fq.Minor, _ = strconv.Atoi(m[5])
		return fq, true
	}
	if fqnRe4.MatchString(s) {
		return FQName{Tail: s}, true
	}
	return FQName{}, false
}

// IsValid reports whether the FQName parsed successfully (as opposed
// to never having matched the grammar at all). Every value produced
// by ParseFQName or the constructors below is valid; the flag exists
// so zero-value FQName{} reads as invalid without a separate "ok"
// threaded through every call site.
func (f FQName) IsValid() bool { return f.Package != "" || f.hasVer || f.Tail != "" }

// IsFullyQualified reports whether all three components are present.
func (f FQName) IsFullyQualified() bool {
	return f.Package != "" && f.hasVer && f.Tail != ""
}

func (f FQName) HasVersion() bool { return f.hasVer }

// DefaultApply fills in a missing package/version from defaultPkg and
// (defaultMajor, defaultMinor), leaving an already-present component
// untouched. It is idempotent: applying the same defaults twice is a
// no-op the second time (spec section 8, property 2).
func (f FQName) DefaultApply(defaultPkg string, defaultMajor, defaultMinor int) FQName {
	out := f
	if out.Package == "" {
		out.Package = defaultPkg
	}
	if !out.hasVer {
		out.hasVer = true
		out.Major = defaultMajor
		out.Minor = defaultMinor
	}
	return out
}

func (f FQName) versionString() string {
	if !f.hasVer {
		return ""
	}
	return fmt.Sprintf("@%d.%d", f.Major, f.Minor)
}

// String renders the canonical form; ParseFQName(f.String()) == f for
// every fully-qualified f (spec section 8, property 1).
func (f FQName) String() string {
	var out strings.Builder
	out.WriteString(f.Package)
	out.WriteString(f.versionString())
	if f.Tail != "" {
		if f.Package != "" || f.hasVer {
			out.WriteString("::")
		}
		out.WriteString(f.Tail)
	}
	return out.String()
}

// Equal compares two FQNames by their canonical string form.
func (f FQName) Equal(other FQName) bool { return f.String() == other.String() }

// Less orders FQNames by their canonical string, giving a total order
// suitable for sorted diagnostics and dependency-file output.
func (f FQName) Less(other FQName) bool { return f.String() < other.String() }

// PackageComponents splits the dotted package into its parts.
func (f FQName) PackageComponents() []string {
	if f.Package == "" {
		return nil
	}
	return strings.Split(f.Package, ".")
}

// TailComponents splits the dotted tail into its parts.
func (f FQName) TailComponents() []string {
	if f.Tail == "" {
		return nil
	}
	return strings.Split(f.Tail, ".")
}

// VersionComponent renders the version as an identifier-safe
// "V<major>_<minor>" when asIdentifier is true (for use as a
// directory or namespace component in every target), or as
// "<major>.<minor>" otherwise.
func (f FQName) VersionComponent(asIdentifier bool) string {
	if !f.hasVer {
		return ""
	}
	if asIdentifier {
		return fmt.Sprintf("V%d_%d", f.Major, f.Minor)
	}
	return fmt.Sprintf("%d.%d", f.Major, f.Minor)
}

// PackageAndVersionComponents is PackageComponents with the version
// identifier appended, the path the native and managed drivers walk
// to build a namespace/package chain (FQName.cpp's
// getPackageAndVersionComponents).
func (f FQName) PackageAndVersionComponents() []string {
	out := append([]string{}, f.PackageComponents()...)
	if f.hasVer {
		out = append(out, f.VersionComponent(true))
	}
	return out
}

// WithTail returns a copy of f with a different tail, keeping the
// same package/version — used when the Coordinator derives the
// package's "types" FQName from an interface FQName.
func (f FQName) WithTail(tail string) FQName {
	out := f
	out.Tail = tail
	return out
}
