package hidl

import "fmt"

// GenDescriptor emits the verification-descriptor text rendering of
// one package's types: a field-oriented, language-neutral summary
// used to detect wire-incompatible changes between two versions of
// the same interface (spec section 4.9). Per the Open Question
// decision recorded in DESIGN.md, the format is one field per line,
// two-space indentation per nesting level, and double-quoted string
// literals — chosen for being trivially diffable line-by-line.
func GenDescriptor(pkg FQName, types []Type) string {
	s := NewSink()
	s.WriteLine(fmt.Sprintf("package: %q", pkg.String()))
	s.WriteLine("types:")
	s.Indent(1, func() {
		for _, t := range types {
			emitDescriptorType(s, t)
		}
	})
	return s.String()
}

func emitDescriptorType(s *Sink, t Type) {
	switch v := t.(type) {
	case *EnumType:
		s.WriteLine(fmt.Sprintf("- enum %q:", v.LocalName))
		s.Indent(1, func() {
			s.WriteLine(fmt.Sprintf("storage: %q", v.Storage.DescriptorType()))
			s.WriteLine("values:")
			s.Indent(1, func() {
				for _, val := range v.Values {
					s.WriteLine(fmt.Sprintf("- %q = %s", val.Name, val.Expr.String()))
				}
			})
		})

	case *CompoundType:
		kw := "struct"
		if v.IsUnion {
			kw = "union"
		}
		s.WriteLine(fmt.Sprintf("- %s %q:", kw, v.LocalName))
		s.Indent(1, func() {
			align, size, layout := v.Layout()
			s.WriteLine(fmt.Sprintf("align: %d", align))
			s.WriteLine(fmt.Sprintf("size: %d", size))
			s.WriteLine("fields:")
			s.Indent(1, func() {
				for _, fl := range layout {
					s.WriteLine(fmt.Sprintf("- %q: %q (offset: %d)", fl.Field.Name, fl.Field.Type.DescriptorType(), fl.Offset))
				}
			})
		})

	case *TypeDefType:
		s.WriteLine(fmt.Sprintf("- typedef %q: %q", v.LocalName, v.Aliased.DescriptorType()))

	case *InterfaceType:
		s.WriteLine(fmt.Sprintf("- interface %q:", v.LocalName))
		s.Indent(1, func() {
			if v.Super != nil {
				s.WriteLine(fmt.Sprintf("extends: %q", v.Super.LocalName))
			}
			s.WriteLine("methods:")
			s.Indent(1, func() {
				for _, m := range v.AllMethods() {
					emitDescriptorMethod(s, m)
				}
			})
		})
	}
}

func emitDescriptorMethod(s *Sink, m *Method) {
	s.WriteLine(fmt.Sprintf("- %q:", m.Name))
	s.Indent(1, func() {
		s.WriteLine(fmt.Sprintf("serial: %d", m.SerialID))
		s.WriteLine(fmt.Sprintf("oneway: %t", m.OneWay))
		s.WriteLine("inputs:")
		s.Indent(1, func() {
			for _, p := range m.Inputs {
				s.WriteLine(fmt.Sprintf("- %q: %q", p.Name, p.Type.DescriptorType()))
			}
		})
		s.WriteLine("outputs:")
		s.Indent(1, func() {
			for _, p := range m.Outputs {
				s.WriteLine(fmt.Sprintf("- %q: %q", p.Name, p.Type.DescriptorType()))
			}
		})
	})
}
