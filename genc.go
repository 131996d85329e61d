package hidl

import (
	"fmt"
	"strings"
)

// NativeOutputKind selects how much of the native driver's usual
// output a package produces: the full header+source split, or just
// the header (the "native-header-only" -L mode, for packages that
// only need declarations wired into a larger native build).
type NativeOutputKind int

const (
	NativeFull NativeOutputKind = iota
	NativeHeaderOnly
)

var nativeWireOps = WireOps{
	ScalarWriteMethod: func(k ScalarKind) string {
		switch k {
		case ScalarI8, ScalarU8:
			return "writeUint8"
		case ScalarI16, ScalarU16:
			return "writeUint16"
		case ScalarI32, ScalarU32:
			return "writeUint32"
		case ScalarI64, ScalarU64:
			return "writeUint64"
		case ScalarF32:
			return "writeFloat"
		case ScalarF64:
			return "writeDouble"
		case ScalarBool:
			return "writeBool"
		case ScalarChar:
			return "writeUint8"
		default:
			return "writeUint64"
		}
	},
	ScalarReadMethod: func(k ScalarKind) string {
		switch k {
		case ScalarI8, ScalarU8:
			return "readUint8"
		case ScalarI16, ScalarU16:
			return "readUint16"
		case ScalarI32, ScalarU32:
			return "readUint32"
		case ScalarI64, ScalarU64:
			return "readUint64"
		case ScalarF32:
			return "readFloat"
		case ScalarF64:
			return "readDouble"
		case ScalarBool:
			return "readBool"
		case ScalarChar:
			return "readUint8"
		default:
			return "readUint64"
		}
	},
	WriteString: func(sink *Sink, parcel, valueExpr string) {
		sink.WriteLine(fmt.Sprintf("%s.writeString(%s);", parcel, valueExpr))
	},
	ReadString: func(sink *Sink, parcel, destExpr string) {
		sink.WriteLine(fmt.Sprintf("%s = %s.readString();", destExpr, parcel))
	},
	WriteHandle: func(sink *Sink, parcel, valueExpr string) {
		sink.WriteLine(fmt.Sprintf("%s.writeNativeHandleNoDup(%s);", parcel, valueExpr))
	},
	ReadHandle: func(sink *Sink, parcel, destExpr string) {
		sink.WriteLine(fmt.Sprintf("%s = %s.readNativeHandleNoDup();", destExpr, parcel))
	},
	WriteVector: func(sink *Sink, parcel, valueExpr string, elem Type, emitElem func(string)) {
		sink.WriteLine(fmt.Sprintf("%s.writeUint64(%s.size());", parcel, valueExpr))
		sink.WriteLine(fmt.Sprintf("for (size_t _i = 0; _i < %s.size(); ++_i) {", valueExpr))
		sink.Indent(1, func() { emitElem(fmt.Sprintf("%s[_i]", valueExpr)) })
		sink.WriteLine("}")
	},
	ReadVector: func(sink *Sink, parcel, destExpr string, elem Type, emitElem func(string)) {
		sink.WriteLine(fmt.Sprintf("{ uint64_t _n = %s.readUint64(); %s.resize(_n);", parcel, destExpr))
		sink.WriteLine(fmt.Sprintf("for (size_t _i = 0; _i < _n; ++_i) {"))
		sink.Indent(1, func() { emitElem(fmt.Sprintf("%s[_i]", destExpr)) })
		sink.WriteLine("} }")
	},
}

// headerGuard derives "HIDL_GENERATED_<PKG>_<VER>_<BASE>_H_" from a
// file's FQName, the include-guard spelling original_source's code
// generator uses for every emitted header.
func headerGuard(fqn FQName, base string) string {
	pkg := strings.ToUpper(strings.ReplaceAll(fqn.Package, ".", "_"))
	ver := strings.ToUpper(strings.ReplaceAll(fqn.VersionComponent(true), ".", "_"))
	return fmt.Sprintf("HIDL_GENERATED_%s_%s_%s_H_", pkg, ver, strings.ToUpper(base))
}

func cppNamespace(fqn FQName) string {
	parts := append([]string{}, fqn.PackageComponents()...)
	parts = append(parts, fqn.VersionComponent(true))
	return "::" + strings.Join(parts, "::")
}

// GenNativeHeader emits the C-family header for a file's declared
// types (a struct/union gets its fields, an enum its values, a typedef
// its alias; an interface gets its pure-virtual class followed, unless
// kind is NativeHeaderOnly, by a separate Bp<Interface> proxy
// declaration; no stub is declared), per spec section 4.7/4.8. The two-space Sink indent
// and header-guard/namespace wrapping follow original_source's
// AST::emitCppHeader structure, adapted here to the Type capability
// interface instead of a class-per-node visitor.
func GenNativeHeader(fqn FQName, base string, types []Type, kind NativeOutputKind) string {
	s := NewSink()
	guard := headerGuard(fqn, base)
	s.WriteLine(fmt.Sprintf("#ifndef %s", guard))
	s.WriteLine(fmt.Sprintf("#define %s", guard))
	s.WriteLine("")
	s.WriteLine("#include <hidl/HidlSupport.h>")
	s.WriteLine("#include <utils/StrongPointer.h>")
	s.WriteLine("")
	for _, ns := range fqn.PackageComponents() {
		s.WriteLine(fmt.Sprintf("namespace %s {", ns))
	}
	s.WriteLine(fmt.Sprintf("namespace %s {", fqn.VersionComponent(true)))
	s.WriteLine("")

	for _, t := range types {
		emitNativeTypeDecl(s, t, kind)
		s.WriteLine("")
	}

	s.WriteLine(fmt.Sprintf("}  // namespace %s", fqn.VersionComponent(true)))
	for i := len(fqn.PackageComponents()) - 1; i >= 0; i-- {
		s.WriteLine(fmt.Sprintf("}  // namespace %s", fqn.PackageComponents()[i]))
	}
	s.WriteLine("")
	s.WriteLine(fmt.Sprintf("#endif  // %s", guard))
	return s.String()
}

func emitNativeTypeDecl(s *Sink, t Type, kind NativeOutputKind) {
	switch v := t.(type) {
	case *EnumType:
		s.WriteLine(fmt.Sprintf("enum class %s : %s {", v.LocalName, v.Storage.NativeType(StorageStack)))
		s.Indent(1, func() {
			for _, val := range v.Values {
				s.WriteLine(fmt.Sprintf("%s = %s,", val.Name, RenderNative(val.Expr.Value(), v.ResolveToScalarOrDefault())))
			}
		})
		s.WriteLine("};")

	case *CompoundType:
		kw := "struct"
		if v.IsUnion {
			kw = "union"
		}
		s.WriteLine(fmt.Sprintf("%s %s {", kw, v.LocalName))
		s.Indent(1, func() {
			for _, f := range v.Fields {
				s.WriteLine(fmt.Sprintf("%s %s;", f.Type.NativeType(StorageStack), f.Name))
			}
		})
		s.WriteLine("};")

	case *TypeDefType:
		s.WriteLine(fmt.Sprintf("typedef %s %s;", v.Aliased.NativeType(StorageStack), v.LocalName))

	case *InterfaceType:
		emitNativeInterface(s, v, kind)
	}
}

func emitNativeInterface(s *Sink, ifc *InterfaceType, kind NativeOutputKind) {
	extends := "::android::hidl::base::V1_0::IBase"
	if ifc.Super != nil {
		extends = ifc.Super.LocalName
	}
	s.WriteLine(fmt.Sprintf("struct %s : public %s {", ifc.LocalName, extends))
	s.Indent(1, func() {
		for _, m := range ifc.Methods {
			returnType := "::android::hardware::Return<void>"
			if m.ElidableCallback() {
				returnType = fmt.Sprintf("::android::hardware::Return<%s>", m.Outputs[0].Type.NativeType(StorageResult))
			}
			EmitMethodSignature(s, m, fmt.Sprintf("virtual %s", returnType))
			s.WriteLine("    = 0;")
		}
	})
	s.WriteLine("};")

	if kind == NativeHeaderOnly {
		return
	}

	s.WriteLine("")
	s.WriteLine(fmt.Sprintf("struct Bp%s : public %s {", ifc.LocalName, ifc.LocalName))
	s.Indent(1, func() {
		for _, m := range ifc.Methods {
			returnType := "::android::hardware::Return<void>"
			if m.ElidableCallback() {
				returnType = fmt.Sprintf("::android::hardware::Return<%s>", m.Outputs[0].Type.NativeType(StorageResult))
			}
			EmitMethodSignature(s, m, returnType)
			s.WriteLine("  override;")
		}
	})
	s.WriteLine("};")
}

// ResolveToScalarOrDefault is ResolveToScalar falling back to
// uint32_t, used when rendering an enum value whose storage chain
// failed validation (the Coordinator already reports that as a
// TypeConstraintError; this keeps the header emitter total).
func (e *EnumType) ResolveToScalarOrDefault() ScalarKind {
	if s := e.ResolveToScalar(); s != nil {
		return s.K
	}
	return ScalarU32
}

// GenNativeSource emits the .cpp companion to GenNativeHeader: the
// BpInterface proxy method bodies, each marshaling its inputs to the
// wire and its outputs back, via serialize.go's two-pass EmitWrite/
// EmitRead.
func GenNativeSource(fqn FQName, base string, ifc *InterfaceType, mode ErrorMode) string {
	s := NewSink()
	s.WriteLine(fmt.Sprintf("#include %q", base+".h"))
	s.WriteLine("")
	for _, m := range ifc.AllMethods() {
		returnType := "::android::hardware::Return<void>"
		if m.ElidableCallback() {
			returnType = fmt.Sprintf("::android::hardware::Return<%s>", m.Outputs[0].Type.NativeType(StorageResult))
		}
		s.WriteString(fmt.Sprintf("%s Bp%s::", returnType, ifc.LocalName))
		EmitMethodSignature(s, m, "")
		s.WriteLine("{")
		s.Indent(1, func() {
			s.WriteLine("::android::hardware::Parcel _hidl_data, _hidl_reply;")
			s.WriteLine(fmt.Sprintf("_hidl_data.writeInterfaceToken(%s::descriptor);", ifc.LocalName))
			for _, p := range m.Inputs {
				EmitWrite(s, nativeWireOps, p.Type, p.Name, "_hidl_data", true, mode)
			}
			s.WriteLine(fmt.Sprintf("remote()->transact(%d /* %s */, _hidl_data, &_hidl_reply);", m.SerialID, m.Name))
			if m.ElidableCallback() {
				out := m.Outputs[0]
				s.WriteLine(fmt.Sprintf("%s _hidl_out_%s;", out.Type.NativeType(StorageStack), out.Name))
				EmitRead(s, nativeWireOps, out.Type, "_hidl_out_"+out.Name, "_hidl_reply", true, mode)
				s.WriteLine(fmt.Sprintf("return ::android::hardware::Return<%s>(_hidl_out_%s);", out.Type.NativeType(StorageResult), out.Name))
			} else if len(m.Outputs) > 0 {
				for _, out := range m.Outputs {
					s.WriteLine(fmt.Sprintf("%s _hidl_out_%s;", out.Type.NativeType(StorageStack), out.Name))
					EmitRead(s, nativeWireOps, out.Type, "_hidl_out_"+out.Name, "_hidl_reply", true, mode)
				}
				s.WriteString("_hidl_cb(")
				for i, out := range m.Outputs {
					if i > 0 {
						s.WriteString(", ")
					}
					s.WriteString("_hidl_out_" + out.Name)
				}
				s.WriteLine(");")
				s.WriteLine("return ::android::hardware::Return<void>();")
			} else {
				s.WriteLine("return ::android::hardware::Return<void>();")
			}
		})
		s.WriteLine("}")
		s.WriteLine("")
	}
	return s.String()
}
