package hidl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// WriteDepFile renders a make-style dependency rule: outputPath
// depends on sourcePath and every file backing a transitively
// imported FQName, one rule per target file exactly as `hidl-gen -d`
// emits it, so a build system can skip regenerating a target whose
// inputs haven't changed (spec section 6's "-d" flag).
func WriteDepFile(coord *Coordinator, outputPath, sourcePath string, deps []FQName) (string, error) {
	var sb strings.Builder
	sb.WriteString(outputPath)
	sb.WriteString(": \\\n  ")
	sb.WriteString(sourcePath)

	paths := make([]string, 0, len(deps))
	for _, d := range deps {
		p, err := coord.getPackagePath(d)
		if err != nil {
			return "", fmt.Errorf("hidl: resolving dependency %s: %w", d.String(), err)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		sb.WriteString(" \\\n  ")
		sb.WriteString(p)
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

// DirLister abstracts listing every path under a root, injected the
// same way FileReader is so SweepRoots stays filesystem-agnostic and
// testable against an in-memory tree.
type DirLister func(root string) ([]string, error)

// SweepRoots walks every configured root and reports any ".hal" file
// whose parent directory is not a version directory in the
// "V<major>_<minor>" form getPackagePath resolves to (a file at
// "<root>/android/hardware/foo/V1_0/Bar.hal" passes). It checks the
// path only; it does not read the file or compare its declared package
// with the directories it sits in — a supplemented consistency check
// beyond what the distilled spec requires but present in the original
// tool's directory-scanning mode, useful for catching a misplaced
// file before it causes a confusing downstream resolution error.
func SweepRoots(roots []RootMapping, list DirLister) ([]string, error) {
	var problems []string
	for _, r := range roots {
		paths, err := list(r.Path)
		if err != nil {
			return nil, fmt.Errorf("hidl: listing root %q: %w", r.Path, err)
		}
		for _, p := range paths {
			ok, err := doublestar.PathMatch("**/*.hal", p)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			rel := strings.TrimPrefix(p, r.Path)
			rel = strings.TrimPrefix(rel, "/")
			segs := strings.Split(rel, "/")
			if len(segs) < 2 {
				problems = append(problems, fmt.Sprintf("%s: not nested under a version directory", p))
				continue
			}
			versionSeg := segs[len(segs)-2]
			if isVer, _ := doublestar.Match("V*_*", versionSeg); !isVer {
				problems = append(problems, fmt.Sprintf("%s: parent directory %q does not look like a version (expected V<major>_<minor>)", p, versionSeg))
			}
		}
	}
	return problems, nil
}
