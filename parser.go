package hidl

import (
	"fmt"
	"strings"
)

// Parser consumes a flat token slice and builds an AST, using one
// token of lookahead except where isMethodStart and parseBinary peek
// at the next token — a hand-rolled recursive-descent
// parser rather than a PEG/VM interpreter, since HIDL's surface
// grammar (spec sections 3-4) is a fixed, small set of top-level
// declaration shapes with no need for backtracking. Grounded on the
// teacher's base_parser.go for the cursor/Location idiom, narrowed
// from general backtracking expressions to a direct descent over a
// pre-lexed token stream.
type Parser struct {
	file string
	toks []Token
	li   *LineIndex
	pos  int
	ast  *AST
	pend []string // pending annotation names attached to the next declaration
}

// ParseFile lexes and parses one .hal source file into an AST. It is
// the lexParse callback Coordinator.Parse calls.
func ParseFile(path string, src []byte) (*AST, error) {
	lx := NewLexer(path, src)
	toks, err := lx.Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{file: path, toks: toks, li: NewLineIndex(path, src)}
	return p.parseFile()
}

func (p *Parser) cur() Token { return p.toks[p.pos] }

func (p *Parser) at(kind TokKind, text string) bool { return p.cur().is(kind, text) }

func (p *Parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) loc() Location { return p.li.LocationAt(p.cur().Range.Start) }

func (p *Parser) errorf(format string, args ...any) error {
	loc := p.loc()
	return ParseError{File: p.file, Line: loc.Line, Column: loc.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) expectSymbol(sym string) error {
	if !p.at(TokSymbol, sym) {
		return p.errorf("expected %q, got %s", sym, p.cur())
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if p.cur().Kind != TokIdent {
		return "", p.errorf("expected identifier, got %s", p.cur())
	}
	return p.advance().Text, nil
}

// takeAnnotations drains any run of @Name tokens into p.pend, to be
// consumed by the next declaration's parse function.
func (p *Parser) takeAnnotations() {
	for p.cur().Kind == TokAnnotation {
		p.pend = append(p.pend, strings.TrimPrefix(p.advance().Text, "@"))
	}
}

func (p *Parser) consumeAnnotations() map[string]string {
	out := map[string]string{}
	for _, name := range p.pend {
		out[name] = ""
	}
	p.pend = nil
	return out
}

// parseDottedPath consumes a run of "ident (. ident)*" and returns it
// joined with dots; it may consume zero identifiers.
func (p *Parser) parseDottedPath() string {
	var sb strings.Builder
	first := true
	for p.cur().Kind == TokIdent {
		if !first {
			sb.WriteByte('.')
		}
		sb.WriteString(p.advance().Text)
		first = false
		if p.at(TokSymbol, ".") {
			p.advance()
			continue
		}
		break
	}
	return sb.String()
}

// parseFQName parses "path(@major.minor)?(::tail)?", the shape
// package and import declarations use. The lexer only emits '@' as
// part of a TokAnnotation when immediately followed by a letter, so a
// version marker like "pkg@1.0" always reaches here as a bare
// TokSymbol "@" followed by a TokNumber "1.0".
func (p *Parser) parseFQName() (FQName, error) {
	var sb strings.Builder
	sb.WriteString(p.parseDottedPath())

	if p.at(TokSymbol, "@") {
		p.advance()
		if p.cur().Kind != TokNumber {
			return FQName{}, p.errorf("expected a version number after '@', got %s", p.cur())
		}
		sb.WriteByte('@')
		sb.WriteString(p.advance().Text)
	}

	if p.at(TokSymbol, "::") {
		p.advance()
		sb.WriteString("::")
		sb.WriteString(p.parseDottedPath())
	}

	fq, ok := ParseFQName(sb.String())
	if !ok {
		return FQName{}, p.errorf("invalid package/version name %q", sb.String())
	}
	return fq, nil
}

func (p *Parser) parseFile() (*AST, error) {
	if err := p.expectIdentKeyword("package"); err != nil {
		return nil, err
	}
	pkg, err := p.parseFQName()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}

	ast := NewAST(pkg)
	p.ast = ast

	for p.at(TokIdent, "import") {
		p.advance()
		imp, err := p.parseFQName()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		ast.AddImport(imp)
	}

	for p.cur().Kind != TokEOF {
		if err := p.parseTopLevelDecl(); err != nil {
			return nil, err
		}
	}
	return ast, nil
}

func (p *Parser) expectIdentKeyword(kw string) error {
	if !p.at(TokIdent, kw) {
		return p.errorf("expected %q, got %s", kw, p.cur())
	}
	p.advance()
	return nil
}

func (p *Parser) parseTopLevelDecl() error {
	p.takeAnnotations()
	switch {
	case p.at(TokIdent, "interface"):
		return p.parseInterface()
	case p.at(TokIdent, "struct"):
		return p.parseCompound(false)
	case p.at(TokIdent, "union"):
		return p.parseCompound(true)
	case p.at(TokIdent, "enum"):
		return p.parseEnum()
	case p.at(TokIdent, "typedef"):
		return p.parseTypedef()
	case p.at(TokIdent, "const"):
		return p.parseConst()
	default:
		return p.errorf("expected a declaration, got %s", p.cur())
	}
}

func (p *Parser) parseInterface() error {
	annotations := p.consumeAnnotations()
	p.advance() // "interface"
	name, err := p.expectIdent()
	if err != nil {
		return err
	}

	var super *InterfaceType
	if p.at(TokIdent, "extends") {
		p.advance()
		superName, err := p.expectIdent()
		if err != nil {
			return err
		}
		t, ok := p.ast.LookupType(superName)
		if !ok {
			return p.errorf("unknown super-interface %q", superName)
		}
		ifc, ok := t.(*InterfaceType)
		if !ok {
			return p.errorf("%q does not name an interface", superName)
		}
		super = ifc
	}

	ifc := NewInterfaceType(name, super)
	ifc.Annotations = annotations
	if err := p.ast.AddScopedType(ifc); err != nil {
		return err
	}

	ifc.Body = p.ast.EnterScope()
	defer p.ast.LeaveScope()

	if err := p.expectSymbol("{"); err != nil {
		return err
	}
	for !p.at(TokSymbol, "}") {
		p.takeAnnotations()
		switch {
		case p.at(TokIdent, "oneway") || (p.cur().Kind == TokIdent && p.isMethodStart()):
			if err := p.parseMethod(ifc); err != nil {
				return err
			}
		case p.at(TokIdent, "struct"):
			if err := p.parseCompound(false); err != nil {
				return err
			}
		case p.at(TokIdent, "union"):
			if err := p.parseCompound(true); err != nil {
				return err
			}
		case p.at(TokIdent, "enum"):
			if err := p.parseEnum(); err != nil {
				return err
			}
		case p.at(TokIdent, "typedef"):
			if err := p.parseTypedef(); err != nil {
				return err
			}
		case p.at(TokIdent, "const"):
			if err := p.parseConst(); err != nil {
				return err
			}
		default:
			return p.errorf("expected a method or nested declaration, got %s", p.cur())
		}
	}
	if err := p.expectSymbol("}"); err != nil {
		return err
	}
	return p.expectSymbol(";")
}

// isMethodStart reports whether the identifier under the cursor looks
// like "Name (" rather than the start of a nested type/const
// declaration, since both start with a bare identifier token.
func (p *Parser) isMethodStart() bool {
	save := p.pos
	defer func() { p.pos = save }()
	if p.cur().Kind != TokIdent {
		return false
	}
	p.advance()
	return p.at(TokSymbol, "(")
}

func (p *Parser) parseMethod(ifc *InterfaceType) error {
	annotations := p.consumeAnnotations()
	oneway := false
	if p.at(TokIdent, "oneway") {
		oneway = true
		p.advance()
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("("); err != nil {
		return err
	}
	inputs, err := p.parseParamList()
	if err != nil {
		return err
	}
	var outputs []Param
	if p.at(TokIdent, "generates") {
		p.advance()
		if err := p.expectSymbol("("); err != nil {
			return err
		}
		outputs, err = p.parseParamList()
		if err != nil {
			return err
		}
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	m := &Method{Name: name, Inputs: inputs, Outputs: outputs, OneWay: oneway, Annotations: annotations}
	ifc.AddMethod(m)
	return nil
}

func (p *Parser) parseParamList() ([]Param, error) {
	var out []Param
	if p.at(TokSymbol, ")") {
		p.advance()
		return out, nil
	}
	for {
		t, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		out = append(out, Param{Name: name, Type: t})
		if p.at(TokSymbol, ",") {
			p.advance()
			continue
		}
		break
	}
	return out, p.expectSymbol(")")
}

func (p *Parser) parseCompound(isUnion bool) error {
	p.advance() // "struct" / "union"
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	ct := NewCompoundType(name, isUnion)
	if err := p.ast.AddScopedType(ct); err != nil {
		return err
	}
	if err := p.expectSymbol("{"); err != nil {
		return err
	}
	for !p.at(TokSymbol, "}") {
		t, err := p.parseTypeRef()
		if err != nil {
			return err
		}
		fname, err := p.expectIdent()
		if err != nil {
			return err
		}
		if err := p.expectSymbol(";"); err != nil {
			return err
		}
		ct.AddField(fname, t)
	}
	if err := p.expectSymbol("}"); err != nil {
		return err
	}
	return p.expectSymbol(";")
}

func (p *Parser) parseEnum() error {
	p.advance() // "enum"
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	var storage Type
	if p.at(TokSymbol, ":") {
		p.advance()
		storage, err = p.parseTypeRef()
		if err != nil {
			return err
		}
	}
	et := NewEnumType(name, storage)
	if err := p.ast.AddScopedType(et); err != nil {
		return err
	}
	body := p.ast.EnterScope()
	if err := p.expectSymbol("{"); err != nil {
		p.ast.LeaveScope()
		return err
	}
	for !p.at(TokSymbol, "}") {
		mname, err := p.expectIdent()
		if err != nil {
			p.ast.LeaveScope()
			return err
		}
		var expr ConstExpr
		if p.at(TokSymbol, "=") {
			p.advance()
			expr, err = p.parseConstExpr()
			if err != nil {
				p.ast.LeaveScope()
				return err
			}
		}
		v := et.AddValue(mname, expr)
		body.AddConstant(ScopedConstant{Name: mname, Type: et, Expr: v.Expr})
		if p.at(TokSymbol, ",") {
			p.advance()
			continue
		}
		break
	}
	p.ast.LeaveScope()
	if err := p.expectSymbol("}"); err != nil {
		return err
	}
	return p.expectSymbol(";")
}

func (p *Parser) parseTypedef() error {
	p.advance() // "typedef"
	aliased, err := p.parseTypeRef()
	if err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	return p.ast.AddScopedType(NewTypeDefType(name, aliased))
}

func (p *Parser) parseConst() error {
	p.advance() // "const"
	t, err := p.parseTypeRef()
	if err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("="); err != nil {
		return err
	}
	expr, err := p.parseConstExpr()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	return p.ast.CurrentScope().AddConstant(ScopedConstant{Name: name, Type: t, Expr: expr})
}

var scalarKeywords = map[string]ScalarKind{
	"int8_t": ScalarI8, "uint8_t": ScalarU8,
	"int16_t": ScalarI16, "uint16_t": ScalarU16,
	"int32_t": ScalarI32, "uint32_t": ScalarU32,
	"int64_t": ScalarI64, "uint64_t": ScalarU64,
	"float": ScalarF32, "double": ScalarF64,
	"bool": ScalarBool, "char": ScalarChar,
}

// parseTypeRef parses a type reference: a scalar keyword, "string",
// "memory", "handle", "vec<T>", a local/imported name, followed by
// any number of "[N]" array suffixes (spec section 4.4).
func (p *Parser) parseTypeRef() (Type, error) {
	var base Type

	switch {
	case p.cur().Kind == TokIdent && isScalarKeyword(p.cur().Text):
		k := scalarKeywords[p.cur().Text]
		p.advance()
		base = NewScalarType(k)

	case p.at(TokIdent, "string"):
		p.advance()
		base = NewStringType()

	case p.at(TokIdent, "handle"), p.at(TokIdent, "memory"):
		p.advance()
		base = NewHandleType()

	case p.at(TokIdent, "vec"):
		p.advance()
		if err := p.expectSymbol("<"); err != nil {
			return nil, err
		}
		elem, err := p.parseTypeRef()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(">"); err != nil {
			return nil, err
		}
		base = NewVectorType(elem)

	case p.cur().Kind == TokIdent:
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		for p.at(TokSymbol, ".") {
			p.advance()
			next, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			name = name + "." + next
		}
		if t, ok := p.ast.LookupType(name); ok {
			base = t
		} else {
			ref := NewRefType(name, nil)
			p.ast.PendingRefs = append(p.ast.PendingRefs, ref)
			base = ref
		}

	default:
		return nil, p.errorf("expected a type, got %s", p.cur())
	}

	for p.at(TokSymbol, "[") {
		p.advance()
		dim, err := p.parseConstExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		base = NewArrayType(base, dim)
	}
	return base, nil
}

func isScalarKeyword(s string) bool {
	_, ok := scalarKeywords[s]
	return ok
}

// ---- constant expressions ----
//
// Precedence climbs from ternary (lowest) down to unary (highest),
// the standard C-family ladder spec section 4.3 mirrors:
// ternary > || > && > | > ^ > & > == != > < <= > >= > << >> > + - > * / %

func (p *Parser) parseConstExpr() (ConstExpr, error) { return p.parseTernary() }

func (p *Parser) parseTernary() (ConstExpr, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.at(TokSymbol, "?") {
		p.advance()
		then, err := p.parseConstExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		els, err := p.parseConstExpr()
		if err != nil {
			return nil, err
		}
		return NewTernaryExpr(cond, then, els), nil
	}
	return cond, nil
}

var precLevels = [][]string{
	{"||"}, {"&&"}, {"|"}, {"^"}, {"&"},
	{"==", "!="}, {"<", "<=", ">", ">="}, {"<<", ">>"},
	{"+", "-"}, {"*", "/", "%"},
}

func (p *Parser) parseBinary(level int) (ConstExpr, error) {
	if level >= len(precLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == TokSymbol {
		// The lexer emits single-character symbols, so a two-character
		// operator ("<<", "==", "&&", ...) arrives as two adjacent tokens.
		op, n := p.cur().Text, 1
		if nx := p.toks[p.pos+1]; nx.Kind == TokSymbol && nx.Range.Start == p.cur().Range.End &&
			containsOp([]string{"||", "&&", "==", "!=", "<=", ">=", "<<", ">>"}, op+nx.Text) {
			op, n = op+nx.Text, 2
		}
		if !containsOp(precLevels[level], op) {
			break
		}
		for ; n > 0; n-- {
			p.advance()
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = NewBinaryExpr(op, left, right)
	}
	return left, nil
}

func containsOp(ops []string, s string) bool {
	for _, o := range ops {
		if o == s {
			return true
		}
	}
	return false
}

var unaryOps = []string{"+", "-", "~", "!"}

func (p *Parser) parseUnary() (ConstExpr, error) {
	if p.cur().Kind == TokSymbol && containsOp(unaryOps, p.cur().Text) {
		op := p.advance().Text
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(op, inner), nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ConstExpr, error) {
	switch {
	case p.cur().Kind == TokNumber:
		return ParseLiteral(p.advance().Text)

	case p.at(TokSymbol, "("):
		p.advance()
		inner, err := p.parseConstExpr()
		if err != nil {
			return nil, err
		}
		return inner, p.expectSymbol(")")

	case p.cur().Kind == TokIdent:
		name := p.advance().Text
		if c, ok := p.ast.CurrentScope().LookupConstant(name); ok {
			return NewIdentExpr(name, c.Expr.Value()), nil
		}
		return nil, p.errorf("unknown constant %q", name)

	default:
		return nil, p.errorf("expected a constant expression, got %s", p.cur())
	}
}
