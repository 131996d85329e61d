package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/10allday-kai/hidl-gen"
)

const defaultWritePermission = 0644 // -rw-r--r--

// rootFlags collects repeated "-r prefix:path" arguments into
// Coordinator root mappings.
type rootFlags []hidl.RootMapping

func (r *rootFlags) String() string {
	var parts []string
	for _, m := range *r {
		parts = append(parts, m.Prefix+":"+m.Path)
	}
	return strings.Join(parts, ",")
}

func (r *rootFlags) Set(value string) error {
	idx := strings.Index(value, ":")
	if idx < 0 {
		return fmt.Errorf("expected prefix:path, got %q", value)
	}
	*r = append(*r, hidl.RootMapping{Prefix: value[:idx], Path: value[idx+1:]})
	return nil
}

func main() {
	var roots rootFlags
	var (
		outputDir  = flag.String("o", ".", "Output directory for generated files")
		language   = flag.String("L", "native", "Output language: native-header-only, native, managed, descriptor")
		depFile    = flag.String("d", "", "Path to write a make-style dependency file")
		configPath = flag.String("c", "", "Path to a project YAML config file")
	)
	flag.Var(&roots, "r", "Package root mapping prefix:path (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: hidlgen -r prefix:path -L target -o outdir <package@version::Name>")
	}
	target := flag.Arg(0)

	cfg := hidl.NewConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %s", err)
		}
		pc, err := hidl.LoadProjectConfig(data)
		if err != nil {
			log.Fatalf("parsing config: %s", err)
		}
		roots = append(roots, pc.RootMappings()...)
	}

	fqn, ok := hidl.ParseFQName(target)
	if !ok || !fqn.IsFullyQualified() {
		log.Fatalf("invalid fully-qualified name: %q", target)
	}

	coord := hidl.NewCoordinator([]hidl.RootMapping(roots), os.ReadFile, hidl.ParseFile)

	ast, err := coord.Parse(fqn)
	if err != nil {
		log.Fatalf("parsing %s: %s", fqn.String(), err)
	}

	mode, err := hidl.ParseErrorMode(cfg.GetString("codegen.error_mode"))
	if err != nil {
		log.Fatalf("config: %s", err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("creating output directory: %s", err)
	}

	base := fqn.Tail
	if base == "" {
		base = "types"
	}

	switch *language {
	case "native-header-only", "native":
		kind := hidl.NativeFull
		if *language == "native-header-only" {
			kind = hidl.NativeHeaderOnly
		}
		header := hidl.GenNativeHeader(fqn, base, ast.Root.Types(), kind)
		writeFile(filepath.Join(*outputDir, base+".h"), header)
		if kind == hidl.NativeFull {
			for _, ifc := range ast.Interfaces() {
				src := hidl.GenNativeSource(fqn, base, ifc, mode)
				writeFile(filepath.Join(*outputDir, base+".cpp"), src)
			}
		}

	case "managed":
		for _, t := range ast.Root.Types() {
			src, err := hidl.GenManagedSource(fqn, t)
			if err != nil {
				log.Fatalf("generating managed source for %s: %s", t.TypeName(), err)
			}
			writeFile(filepath.Join(*outputDir, t.TypeName()+".java"), src)
		}

	case "descriptor":
		desc := hidl.GenDescriptor(fqn, ast.Root.Types())
		writeFile(filepath.Join(*outputDir, base+".desc"), desc)

	default:
		log.Fatalf("unsupported -L target %q", *language)
	}

	if *depFile != "" {
		deps := coord.SortedDeps(ast)
		out, err := hidl.WriteDepFile(coord, filepath.Join(*outputDir, base), target, deps)
		if err != nil {
			log.Fatalf("writing dependency file: %s", err)
		}
		writeFile(*depFile, out)
	}
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), defaultWritePermission); err != nil {
		log.Fatalf("writing %s: %s", path, err)
	}
}
