package hidl

import "fmt"

var managedWireOps = WireOps{
	ScalarWriteMethod: func(k ScalarKind) string {
		switch k {
		case ScalarI8, ScalarU8:
			return "writeByte"
		case ScalarI16, ScalarU16:
			return "writeInt16"
		case ScalarI32, ScalarU32:
			return "writeInt32"
		case ScalarI64, ScalarU64:
			return "writeInt64"
		case ScalarF32:
			return "writeFloat"
		case ScalarF64:
			return "writeDouble"
		case ScalarBool:
			return "writeBool"
		case ScalarChar:
			return "writeInt16"
		default:
			return "writeInt64"
		}
	},
	ScalarReadMethod: func(k ScalarKind) string {
		switch k {
		case ScalarI8, ScalarU8:
			return "readByte"
		case ScalarI16, ScalarU16:
			return "readInt16"
		case ScalarI32, ScalarU32:
			return "readInt32"
		case ScalarI64, ScalarU64:
			return "readInt64"
		case ScalarF32:
			return "readFloat"
		case ScalarF64:
			return "readDouble"
		case ScalarBool:
			return "readBool"
		case ScalarChar:
			return "readInt16"
		default:
			return "readInt64"
		}
	},
	WriteString: func(sink *Sink, parcel, valueExpr string) {
		sink.WriteLine(fmt.Sprintf("%s.writeString(%s);", parcel, valueExpr))
	},
	ReadString: func(sink *Sink, parcel, destExpr string) {
		sink.WriteLine(fmt.Sprintf("%s = %s.readString();", destExpr, parcel))
	},
	WriteHandle: func(sink *Sink, parcel, valueExpr string) {
		sink.WriteLine(fmt.Sprintf("// unreachable: %s rejected before reaching here", parcel))
	},
	ReadHandle: func(sink *Sink, parcel, destExpr string) {
		sink.WriteLine(fmt.Sprintf("// unreachable: %s rejected before reaching here", destExpr))
	},
	WriteVector: func(sink *Sink, parcel, valueExpr string, elem Type, emitElem func(string)) {
		sink.WriteLine(fmt.Sprintf("%s.writeInt32(%s.size());", parcel, valueExpr))
		sink.WriteLine(fmt.Sprintf("for (int _i = 0; _i < %s.size(); ++_i) {", valueExpr))
		sink.Indent(1, func() { emitElem(fmt.Sprintf("%s.get(_i)", valueExpr)) })
		sink.WriteLine("}")
	},
	ReadVector: func(sink *Sink, parcel, destExpr string, elem Type, emitElem func(string)) {
		sink.WriteLine(fmt.Sprintf("int _n = %s.readInt32();", parcel))
		sink.WriteLine(fmt.Sprintf("for (int _i = 0; _i < _n; ++_i) {"))
		sink.Indent(1, func() { emitElem("_item") })
		sink.WriteLine(fmt.Sprintf("%s.add(_item);", destExpr))
		sink.WriteLine("}")
	},
}

// javaPackage renders fqn's dotted package plus its version
// identifier as a single Java package path, the spelling
// original_source/FQName.cpp's javaPackage() produces.
func javaPackage(fqn FQName) string {
	comps := append([]string{}, fqn.PackageComponents()...)
	comps = append(comps, fqn.VersionComponent(true))
	out := ""
	for i, c := range comps {
		if i > 0 {
			out += "."
		}
		out += c
	}
	return out
}

// GenManagedSource emits the managed/JVM-style target's rendering of
// one declared type, per spec section 4.8. Unlike the native driver,
// this one refuses anything IsJavaCompatible reports false for —
// unions and native handles, and any interface whose method surface
// touches one. An interface is checked method by method, so its
// TargetCompatibilityError names the exact member at fault; any other
// kind is rejected up front with a generic message naming the type.
func GenManagedSource(pkg FQName, t Type) (string, error) {
	// Interfaces get their own per-method validation in
	// emitManagedInterface, which names the exact offending member;
	// every other kind is rejected here by the same leaf-and-chain
	// IsJavaCompatible check the validation pass would otherwise
	// duplicate.
	if _, ok := t.(*InterfaceType); !ok && !t.IsJavaCompatible() {
		return "", TargetCompatibilityError{TypeName: t.TypeName(), Reason: "type (or one of its members) is not representable in the managed target"}
	}

	s := NewSink()
	s.WriteLine(fmt.Sprintf("package %s;", javaPackage(pkg)))
	s.WriteLine("")

	switch v := t.(type) {
	case *EnumType:
		emitManagedEnum(s, v)
	case *CompoundType:
		emitManagedStruct(s, v)
	case *TypeDefType:
		s.WriteLine(fmt.Sprintf("// typedef %s = %s (erased: managed target has no alias declarations)", v.LocalName, v.Aliased.ManagedType()))
	case *InterfaceType:
		if err := emitManagedInterface(s, v); err != nil {
			return "", err
		}
	default:
		return "", TargetCompatibilityError{TypeName: t.TypeName(), Reason: "this type kind has no managed-target rendering"}
	}
	return s.String(), nil
}

func emitManagedEnum(s *Sink, e *EnumType) {
	s.WriteLine(fmt.Sprintf("public final class %s {", e.LocalName))
	s.Indent(1, func() {
		for _, v := range e.Values {
			s.WriteLine(fmt.Sprintf("public static final %s %s = %s;", e.ManagedType(), v.Name, RenderManaged(v.Expr.Value(), e.ResolveToScalarOrDefault())))
		}
	})
	s.WriteLine("}")
}

func emitManagedStruct(s *Sink, c *CompoundType) {
	s.WriteLine(fmt.Sprintf("public final class %s {", c.LocalName))
	s.Indent(1, func() {
		for _, f := range c.Fields {
			s.WriteLine(fmt.Sprintf("public %s %s;", f.Type.ManagedType(), f.Name))
		}
	})
	s.WriteLine("}")
}

func emitManagedInterface(s *Sink, ifc *InterfaceType) error {
	extends := "IBase"
	if ifc.Super != nil {
		extends = ifc.Super.LocalName
	}
	s.WriteLine(fmt.Sprintf("public interface %s extends %s {", ifc.LocalName, extends))
	s.Indent(1, func() {
	methodLoop:
		for _, m := range ifc.Methods {
			for _, p := range m.Inputs {
				if !p.Type.IsJavaCompatible() {
					continue methodLoop
				}
			}
			returnType := "void"
			if m.ElidableCallback() {
				returnType = m.Outputs[0].Type.ManagedType()
			}
			s.WriteString(fmt.Sprintf("%s %s(", returnType, m.Name))
			for i, p := range m.Inputs {
				if i > 0 {
					s.WriteString(", ")
				}
				s.WriteString(fmt.Sprintf("%s %s", p.Type.ManagedType(), p.Name))
			}
			if !m.ElidableCallback() && len(m.Outputs) > 0 {
				if len(m.Inputs) > 0 {
					s.WriteString(", ")
				}
				s.WriteString(fmt.Sprintf("%sCallback _hidl_cb", m.Name))
			}
			s.WriteLine(");")
		}
	})
	s.WriteLine("}")

	for _, m := range ifc.Methods {
		for _, p := range m.Inputs {
			if !p.Type.IsJavaCompatible() {
				return TargetCompatibilityError{TypeName: ifc.LocalName, Reason: fmt.Sprintf("method %q has a non-Java-compatible input %q", m.Name, p.Name)}
			}
		}
		for _, p := range m.Outputs {
			if !p.Type.IsJavaCompatible() {
				return TargetCompatibilityError{TypeName: ifc.LocalName, Reason: fmt.Sprintf("method %q has a non-Java-compatible output %q", m.Name, p.Name)}
			}
		}
	}
	return nil
}
