package hidl

import "fmt"

// ErrorMode names how a generated read/write call sequence reacts to a
// failed individual step (spec section 4.7 / codegen.error_mode in
// config.go). EmitWrite and EmitRead accept a mode and pass it down,
// but the code they emit has no per-step error check, and
// WireOps.OnError is not called.
type ErrorMode int

const (
	ErrorModeGotoLabel ErrorMode = iota
	ErrorModeBreak
	ErrorModeReturn
	ErrorModeIgnore
)

func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "goto-label":
		return ErrorModeGotoLabel, nil
	case "break":
		return ErrorModeBreak, nil
	case "return":
		return ErrorModeReturn, nil
	case "ignore":
		return ErrorModeIgnore, nil
	}
	return 0, fmt.Errorf("hidl: unknown error mode %q", s)
}

// WireOps names the per-target method/identifier spellings the
// serializer plugs into its otherwise type-graph-driven emission —
// the seam genc.go and gen_go.go each fill in differently. Scalar,
// string, vector and handle calls go through it; the enum cast, the
// array loop and the interface binder calls are written by
// serialize.go itself in C-family syntax.
type WireOps struct {
	// ScalarWriteMethod/ScalarReadMethod return the parcel method name
	// for a scalar kind, e.g. "writeUint32"/"readUint32".
	ScalarWriteMethod func(k ScalarKind) string
	ScalarReadMethod  func(k ScalarKind) string

	WriteString func(sink *Sink, parcel, valueExpr string)
	ReadString  func(sink *Sink, parcel, destExpr string)

	WriteVector func(sink *Sink, parcel, valueExpr string, elem Type, emitElem func(itemExpr string))
	ReadVector  func(sink *Sink, parcel, destExpr string, elem Type, emitElem func(itemExpr string))

	WriteHandle func(sink *Sink, parcel, valueExpr string)
	ReadHandle  func(sink *Sink, parcel, destExpr string)

	OnError func(sink *Sink, mode ErrorMode, label string)
}

// EmitWrite emits a call sequence that serializes valueExpr (of type
// t) into parcel, following the type graph recursively. topLevel
// distinguishes the outer call — which must also write the object's
// own embedded (pointer-bearing) children after its flat fields, the
// two-pass discipline spec section 4.7 requires — from a recursive
// call already inside that second pass.
func EmitWrite(sink *Sink, ops WireOps, t Type, valueExpr, parcel string, topLevel bool, mode ErrorMode) {
	switch v := t.(type) {
	case *ScalarType:
		sink.WriteLine(fmt.Sprintf("%s.%s(%s);", parcel, ops.ScalarWriteMethod(v.K), valueExpr))

	case *EnumType:
		EmitWrite(sink, ops, v.Storage, fmt.Sprintf("static_cast<%s>(%s)", v.Storage.NativeType(StorageStack), valueExpr), parcel, topLevel, mode)

	case *StringType:
		ops.WriteString(sink, parcel, valueExpr)

	case *HandleType:
		ops.WriteHandle(sink, parcel, valueExpr)

	case *VectorType:
		ops.WriteVector(sink, parcel, valueExpr, v.Element, func(itemExpr string) {
			EmitWrite(sink, ops, v.Element, itemExpr, parcel, false, mode)
		})

	case *ArrayType:
		sink.WriteLine(fmt.Sprintf("for (size_t i = 0; i < %d; ++i) {", v.DimValue()))
		sink.Indent(1, func() {
			EmitWrite(sink, ops, v.Element, fmt.Sprintf("%s[i]", valueExpr), parcel, false, mode)
		})
		sink.WriteLine("}")

	case *CompoundType:
		emitCompoundWrite(sink, ops, v, valueExpr, parcel, topLevel, mode)

	case *TypeDefType:
		EmitWrite(sink, ops, v.Aliased, valueExpr, parcel, topLevel, mode)

	case *RefType:
		if v.Target != nil {
			EmitWrite(sink, ops, v.Target, valueExpr, parcel, topLevel, mode)
		}

	case *InterfaceType:
		sink.WriteLine(fmt.Sprintf("%s.writeStrongBinder(%s != nullptr ? %s->asBinder() : nullptr);", parcel, valueExpr, valueExpr))

	default:
		sink.WriteLine(fmt.Sprintf("/* unhandled type in write: %T */", t))
	}
}

// emitCompoundWrite writes every flat (non-pointer-bearing) field in
// layout order, then — only at the top level — every pointer-bearing
// field's embedded content, matching the struct's own
// NeedsEmbeddedReadWrite split. The second pass writes each
// pointer-bearing field with topLevel set, so a nested struct field
// that carries pointers gets its own flat-then-embedded split; with
// topLevel false only the flat fields are written (spec section 4.7,
// scenario S5).
func emitCompoundWrite(sink *Sink, ops WireOps, ct *CompoundType, valueExpr, parcel string, topLevel bool, mode ErrorMode) {
	_, _, layout := ct.Layout()
	for _, fl := range layout {
		if !fl.Field.Type.NeedsEmbeddedReadWrite() {
			EmitWrite(sink, ops, fl.Field.Type, fmt.Sprintf("%s.%s", valueExpr, fl.Field.Name), parcel, false, mode)
		}
	}
	if !topLevel {
		return
	}
	for _, fl := range layout {
		if fl.Field.Type.NeedsEmbeddedReadWrite() {
			EmitWrite(sink, ops, fl.Field.Type, fmt.Sprintf("%s.%s", valueExpr, fl.Field.Name), parcel, true, mode)
		}
	}
}

// EmitRead is EmitWrite's mirror image: it emits a call sequence that
// deserializes destExpr (of type t) from parcel.
func EmitRead(sink *Sink, ops WireOps, t Type, destExpr, parcel string, topLevel bool, mode ErrorMode) {
	switch v := t.(type) {
	case *ScalarType:
		sink.WriteLine(fmt.Sprintf("%s = %s.%s();", destExpr, parcel, ops.ScalarReadMethod(v.K)))

	case *EnumType:
		tmp := destExpr + "_raw"
		EmitRead(sink, ops, v.Storage, tmp, parcel, topLevel, mode)
		sink.WriteLine(fmt.Sprintf("%s = static_cast<%s>(%s);", destExpr, v.LocalName, tmp))

	case *StringType:
		ops.ReadString(sink, parcel, destExpr)

	case *HandleType:
		ops.ReadHandle(sink, parcel, destExpr)

	case *VectorType:
		ops.ReadVector(sink, parcel, destExpr, v.Element, func(itemExpr string) {
			EmitRead(sink, ops, v.Element, itemExpr, parcel, false, mode)
		})

	case *ArrayType:
		sink.WriteLine(fmt.Sprintf("for (size_t i = 0; i < %d; ++i) {", v.DimValue()))
		sink.Indent(1, func() {
			EmitRead(sink, ops, v.Element, fmt.Sprintf("%s[i]", destExpr), parcel, false, mode)
		})
		sink.WriteLine("}")

	case *CompoundType:
		emitCompoundRead(sink, ops, v, destExpr, parcel, topLevel, mode)

	case *TypeDefType:
		EmitRead(sink, ops, v.Aliased, destExpr, parcel, topLevel, mode)

	case *RefType:
		if v.Target != nil {
			EmitRead(sink, ops, v.Target, destExpr, parcel, topLevel, mode)
		}

	case *InterfaceType:
		sink.WriteLine(fmt.Sprintf("%s = %s::asInterface(%s.readStrongBinder());", destExpr, v.LocalName, parcel))

	default:
		sink.WriteLine(fmt.Sprintf("/* unhandled type in read: %T */", t))
	}
}

func emitCompoundRead(sink *Sink, ops WireOps, ct *CompoundType, destExpr, parcel string, topLevel bool, mode ErrorMode) {
	_, _, layout := ct.Layout()
	for _, fl := range layout {
		if !fl.Field.Type.NeedsEmbeddedReadWrite() {
			EmitRead(sink, ops, fl.Field.Type, fmt.Sprintf("%s.%s", destExpr, fl.Field.Name), parcel, false, mode)
		}
	}
	if !topLevel {
		return
	}
	for _, fl := range layout {
		if fl.Field.Type.NeedsEmbeddedReadWrite() {
			EmitRead(sink, ops, fl.Field.Type, fmt.Sprintf("%s.%s", destExpr, fl.Field.Name), parcel, true, mode)
		}
	}
}

// MethodDispatchKind selects which side of a method call a piece of
// generated dispatch code implements.
type MethodDispatchKind int

const (
	DispatchProxy MethodDispatchKind = iota
	DispatchStub
	DispatchPassthrough
)

// PassthroughQueueCapacity returns the configured bound on queued
// oneway calls for a passthrough adapter, read from
// codegen.passthrough_queue_capacity (default 3000,
// matching the real daemon's AsyncCallbackJniBase/PassthroughFifo
// bound — a supplemented feature from original_source/ not carried by
// the distilled spec). No driver in this package emits passthrough
// code, so nothing but the caller reads this value.
func PassthroughQueueCapacity(cfg *Config) int {
	return cfg.GetInt("codegen.passthrough_queue_capacity")
}

// EmitMethodSignature renders a method's C-family declaration line
// (used by the interface class, its Bp proxy declaration and the proxy
// method bodies): returnType (omitted when empty), the name, the
// inputs, then a "<name>_cb _hidl_cb" continuation parameter when the
// method has outputs that cannot be returned directly (spec section 3).
func EmitMethodSignature(sink *Sink, m *Method, returnType string) {
	if returnType != "" {
		sink.WriteString(returnType + " ")
	}
	sink.WriteString(m.Name + "(")
	for i, p := range m.Inputs {
		if i > 0 {
			sink.WriteString(", ")
		}
		sink.WriteString(fmt.Sprintf("%s %s", p.Type.NativeType(StorageArgument), p.Name))
	}
	if !m.OneWay && len(m.Outputs) > 0 && !m.ElidableCallback() {
		if len(m.Inputs) > 0 {
			sink.WriteString(", ")
		}
		sink.WriteString(fmt.Sprintf("%s_cb _hidl_cb", m.Name))
	}
	sink.WriteLine(")")
}
