package assemble

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/fragment"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/semantics"
)

// Assembler turns resolved types into TypeFragments. It never mutates the
// fragment set: every spliced body is a deep copy.
type Assembler struct {
	table    *semantics.Table
	prog     *model.Program
	frags    *fragment.Set
	reporter diag.Reporter
}

func New(table *semantics.Table, frags *fragment.Set, r diag.Reporter) *Assembler {
	if frags == nil {
		frags = fragment.NewSet()
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Assembler{table: table, prog: table.Program(), frags: frags, reporter: r}
}

// Module assembles every type of the module that generates code, in
// declaration order.
func (a *Assembler) Module(id model.ModuleID) []*TypeFragments {
	mod := a.prog.Module(id)
	if mod == nil {
		return nil
	}
	var out []*TypeFragments
	for _, tid := range mod.Types {
		if f, ok := a.Type(tid); ok {
			f.Order = len(out)
			out = append(out, f)
		}
	}
	a.reportOrphans(mod)
	return out
}

// reportOrphans flags compiled bodies of members that produce no code.
func (a *Assembler) reportOrphans(mod *model.Module) {
	for _, mid := range a.frags.Members() {
		m := a.prog.Member(mid)
		if m == nil || a.prog.Type(m.Owner).Module != mod.ID {
			continue
		}
		if !a.generates(mid) {
			diag.ReportWarning(a.reporter, diag.LnkOrphanFragment, m.Span,
				fmt.Sprintf("compiled body of %s is not used: the member generates no code", a.prog.MemberName(mid))).Emit()
		}
	}
}

// generates reports whether a member's record asks for a body.
func (a *Assembler) generates(mid model.MemberID) bool {
	if !a.typeGenerates(a.prog.Member(mid).Owner) {
		return false
	}
	switch rec := a.table.Member(mid).(type) {
	case semantics.NormalMethod:
		return rec.GenerateCode
	case semantics.StaticWithReceiverFirst:
		return rec.GenerateCode
	case semantics.InlineCode:
		return rec.GeneratedName != ""
	case semantics.UnnamedCtor:
		return rec.GenerateCode
	case semantics.NamedCtor:
		return rec.GenerateCode
	case semantics.StaticFactory:
		return rec.GenerateCode
	case semantics.FieldBacked, semantics.FieldBackedProperty:
		return true
	}
	return false
}

func (a *Assembler) typeGenerates(id model.TypeID) bool {
	nt, ok := a.table.Type(id).(semantics.NormalType)
	return ok && nt.GenerateCode
}

// builder accumulates the fragments of one type.
type builder struct {
	a    *Assembler
	t    *model.Type
	info semantics.TypeInfo
	self jsast.Expr
	out  *TypeFragments

	ctorPrologue []jsast.Stmt
}

func (b *builder) selfRef() jsast.Expr {
	if id, ok := b.self.(*jsast.EIdentifier); ok {
		return jsast.Ident(id.Name)
	}
	return &jsast.ETypeRef{Type: b.t.ID}
}

// Type assembles one type. It returns false for types that generate no code.
func (a *Assembler) Type(id model.TypeID) (*TypeFragments, bool) {
	rec, ok := a.table.Type(id).(semantics.NormalType)
	if !ok || !rec.GenerateCode {
		return nil, false
	}
	t := a.prog.Type(id)
	b := &builder{
		a:    a,
		t:    t,
		info: a.table.Info(id),
		self: &jsast.ETypeRef{Type: id},
		out:  &TypeFragments{Type: id, Name: rec.Name},
	}
	generic := t.IsGeneric() && !rec.IgnoreGenericArgs
	if generic {
		b.self = jsast.Ident("$type")
	}

	switch b.info.Strategy {
	case semantics.TypeGlobalMethods, semantics.TypeMixin:
		b.out.External = true
		b.members()
		return b.out, true
	case semantics.TypeResources:
		b.resources()
		return b.out, true
	}

	b.instanceFieldInits()
	b.members()
	b.definition()
	b.defaultValue()
	b.registration()
	b.reflection()
	b.staticInit()
	if generic {
		b.genericFactory()
	}
	return b.out, true
}

func (b *builder) what(m *model.Member) string { return b.a.prog.MemberName(m.ID) }

// body returns a copy of the compiled body of m, or an empty function with
// a diagnostic when the code generator produced none.
func (b *builder) body(m *model.Member) *jsast.Function {
	if fn, ok := b.a.frags.Body(m.ID); ok {
		return jsast.CloneFunction(fn)
	}
	diag.ReportWarning(b.a.reporter, diag.LnkMissingBody, m.Span,
		fmt.Sprintf("%s generates code but has no compiled body", b.what(m))).Emit()
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Name
	}
	return &jsast.Function{Params: params}
}

func (b *builder) installStatic(name string, fn *jsast.Function) {
	b.out.StaticMethods = append(b.out.StaticMethods,
		jsast.Assign(jsast.Dot(b.selfRef(), name), &jsast.EFunction{Fn: fn}))
}

func (b *builder) installInstance(name string, fn *jsast.Function) {
	b.out.Instance = append(b.out.Instance, jsast.Property{Key: name, Value: &jsast.EFunction{Fn: fn}})
}

func (b *builder) installMethod(m *model.Member, name string) {
	fn := b.body(m)
	if m.IsStatic() {
		b.installStatic(name, fn)
	} else {
		b.installInstance(name, fn)
	}
}

func (b *builder) method(m *model.Member, rec semantics.MethodSemantics) {
	switch rec := rec.(type) {
	case semantics.NormalMethod:
		if rec.GenerateCode {
			b.installMethod(m, rec.Name)
		}
	case semantics.InlineCode:
		if rec.GeneratedName != "" {
			b.installMethod(m, rec.GeneratedName)
		}
	case semantics.StaticWithReceiverFirst:
		if rec.GenerateCode {
			b.installStatic(rec.Name, b.body(m))
		}
	}
}

// members installs methods, accessors and static factories.
func (b *builder) members() {
	tab := b.a.table
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		switch m.Kind {
		case model.MemberMethod:
			b.method(m, tab.Method(mid))
		case model.MemberConstructor:
			if rec, ok := tab.Constructor(mid).(semantics.StaticFactory); ok && rec.GenerateCode {
				b.installStatic(rec.Name, b.body(m))
			}
		}
	}
}

// definition emits the constructor function, its type name and named
// constructors sharing its prototype.
func (b *builder) definition() {
	tab := b.a.table
	var ctor *jsast.Function
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		if m.Kind != model.MemberConstructor {
			continue
		}
		switch rec := tab.Constructor(mid).(type) {
		case semantics.UnnamedCtor:
			if rec.GenerateCode {
				ctor = b.withFieldInits(b.body(m))
			}
		case semantics.NamedCtor:
			if !rec.GenerateCode {
				continue
			}
			fn := b.withFieldInits(b.body(m))
			b.out.NamedCtors = append(b.out.NamedCtors,
				jsast.Assign(jsast.Dot(b.selfRef(), rec.Name), &jsast.EFunction{Fn: fn}),
				jsast.Assign(jsast.Dot(b.selfRef(), rec.Name, "prototype"), jsast.Dot(b.selfRef(), "prototype")))
		}
	}
	if ctor == nil {
		ctor = b.withFieldInits(&jsast.Function{})
	}
	b.out.Definition = append(b.out.Definition, b.define(&jsast.EFunction{Fn: ctor})...)
	b.out.Definition = append(b.out.Definition,
		jsast.Assign(jsast.Dot(b.selfRef(), "__typeName"), jsast.Str(b.out.Name)))
}

// define binds the type's script name to value. Single-segment names of
// non-generic types are module variables exported by name; everything else
// is assigned through the type reference.
func (b *builder) define(value jsast.Expr) []jsast.Stmt {
	if id, ok := b.self.(*jsast.EIdentifier); ok {
		return []jsast.Stmt{&jsast.SVar{Decls: []jsast.Decl{{Name: id.Name, Value: value}}}}
	}
	if !strings.Contains(b.out.Name, ".") {
		return []jsast.Stmt{
			&jsast.SVar{Decls: []jsast.Decl{{Name: b.out.Name, Value: value}}},
			jsast.Assign(jsast.Dot(jsast.Ident(ExportsName), b.out.Name), jsast.Ident(b.out.Name)),
		}
	}
	return []jsast.Stmt{jsast.Assign(b.selfRef(), value)}
}

// instanceFieldInits collects "this.f = value" for every instance field.
func (b *builder) instanceFieldInits() {
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		if m.IsStatic() {
			continue
		}
		name, ok := b.fieldName(m)
		if !ok {
			continue
		}
		b.ctorPrologue = append(b.ctorPrologue,
			jsast.Assign(jsast.Dot(&jsast.EThis{}, name), b.fieldValue(m)))
	}
}

func (b *builder) withFieldInits(fn *jsast.Function) *jsast.Function {
	if len(b.ctorPrologue) == 0 {
		return fn
	}
	body := jsast.CloneStmts(b.ctorPrologue)
	fn.Body = append(body, fn.Body...)
	return fn
}

// fieldName returns the storage name of a field or field-backed property.
func (b *builder) fieldName(m *model.Member) (string, bool) {
	switch m.Kind {
	case model.MemberField:
		if rec, ok := b.a.table.Field(m.ID).(semantics.FieldBacked); ok {
			return rec.Name, true
		}
	case model.MemberProperty:
		if rec, ok := b.a.table.Property(m.ID).(semantics.FieldBackedProperty); ok {
			return rec.Name, true
		}
	}
	return "", false
}

func (b *builder) fieldValue(m *model.Member) jsast.Expr {
	if e, ok := b.a.frags.FieldInit(m.ID); ok {
		return jsast.CloneExpr(e)
	}
	if m.Constant != nil {
		return ConstantExpr(*m.Constant)
	}
	return DefaultValue(m.Return)
}

func (b *builder) defaultValue() {
	var value jsast.Expr
	switch {
	case b.t.Kind == model.TypeEnum && b.info.NamedValues:
		value = &jsast.ENull{}
	case b.t.Kind == model.TypeEnum:
		value = &jsast.ENumber{Value: 0}
	case b.t.Kind == model.TypeStruct:
		value = &jsast.ENew{Target: b.selfRef()}
	default:
		return
	}
	b.out.DefaultValue = append(b.out.DefaultValue, jsast.Assign(
		jsast.Dot(b.selfRef(), "getDefaultValue"),
		jsast.Fn(nil, &jsast.SReturn{Value: value})))
}

// usableRef returns a reference to a usable type.
func (b *builder) usableRef(id model.TypeID) (jsast.Expr, bool) {
	if _, ok := b.a.table.Type(id).(semantics.NormalType); !ok {
		return nil, false
	}
	if t := b.a.prog.Type(id); t == nil || t.Has(model.TypeRoot) {
		return nil, false
	}
	return &jsast.ETypeRef{Type: id}, true
}

func (b *builder) interfaces() *jsast.EArray {
	arr := &jsast.EArray{}
	for _, iface := range b.t.Interfaces {
		if ref, ok := b.usableRef(iface); ok {
			arr.Items = append(arr.Items, ref)
		}
	}
	return arr
}

func (b *builder) registration() {
	var call *jsast.ECall
	switch b.t.Kind {
	case model.TypeInterface:
		call = jsast.Call(&jsast.ERuntime{Member: "initInterface"}, b.selfRef(), &jsast.EObject{Props: b.out.Instance}, b.interfaces())
	case model.TypeEnum:
		call = jsast.Call(&jsast.ERuntime{Member: "initEnum"}, b.selfRef(), b.enumValues())
	default:
		call = jsast.Call(&jsast.ERuntime{Member: "initClass"}, b.selfRef(), &jsast.EObject{Props: b.out.Instance})
		base, hasBase := b.usableRef(b.t.Base)
		ifaces := b.interfaces()
		switch {
		case hasBase:
			call.Args = append(call.Args, base)
		case len(ifaces.Items) > 0:
			call.Args = append(call.Args, &jsast.ENull{})
		}
		if len(ifaces.Items) > 0 {
			call.Args = append(call.Args, ifaces)
		}
	}
	b.out.Registration = append(b.out.Registration, &jsast.SExpr{Value: call})
}

func (b *builder) enumValues() *jsast.EObject {
	obj := &jsast.EObject{}
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		if m.Kind != model.MemberField {
			continue
		}
		switch rec := b.a.table.Field(mid).(type) {
		case semantics.FieldBacked:
			value := DefaultValue("int")
			if m.Constant != nil {
				value = ConstantExpr(*m.Constant)
			}
			obj.Props = append(obj.Props, jsast.Property{Key: rec.Name, Value: value})
		case semantics.LiteralConstant:
			if rec.Value.Kind == model.ConstString && b.info.NamedValues {
				obj.Props = append(obj.Props, jsast.Property{Key: rec.Value.Str, Value: ConstantExpr(rec.Value)})
			}
		}
	}
	return obj
}

// reflection describes members carrying the Reflectable marker.
func (b *builder) reflection() {
	var items []jsast.Expr
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		if !m.Markers.Has(model.MarkerReflectable) {
			continue
		}
		rec := b.a.table.Member(mid)
		if _, nu := rec.(semantics.NotUsableMethod); nu {
			continue
		}
		desc := &jsast.EObject{Props: []jsast.Property{
			{Key: "name", Value: jsast.Str(m.Name)},
			{Key: "type", Value: jsast.Str(m.Kind.String())},
		}}
		if sname := semantics.NameOf(rec); sname != "" {
			desc.Props = append(desc.Props, jsast.Property{Key: "sname", Value: jsast.Str(sname)})
		}
		if m.IsStatic() {
			desc.Props = append(desc.Props, jsast.Property{Key: "isStatic", Value: &jsast.EBoolean{Value: true}})
		}
		if len(m.Params) > 0 {
			params := &jsast.EArray{}
			for _, p := range m.Params {
				params.Items = append(params.Items, jsast.Str(p.Type))
			}
			desc.Props = append(desc.Props, jsast.Property{Key: "params", Value: params})
		}
		items = append(items, desc)
	}
	if len(items) == 0 {
		return
	}
	meta := &jsast.EObject{Props: []jsast.Property{{Key: "members", Value: &jsast.EArray{Items: items}}}}
	b.out.Reflection = append(b.out.Reflection, &jsast.SExpr{
		Value: jsast.Call(&jsast.ERuntime{Member: "setMetadata"}, b.selfRef(), meta),
	})
}

func (b *builder) staticInit() {
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		if !m.IsStatic() || b.t.Kind == model.TypeEnum {
			continue
		}
		name, ok := b.fieldName(m)
		if !ok {
			continue
		}
		b.out.StaticInit = append(b.out.StaticInit, jsast.Assign(jsast.Dot(b.selfRef(), name), b.fieldValue(m)))
	}
	b.out.StaticInit = append(b.out.StaticInit, jsast.CloneStmts(b.a.frags.StaticInit(b.t.ID))...)
}

// resources emits a plain object of the constant values.
func (b *builder) resources() {
	obj := &jsast.EObject{}
	for _, mid := range b.t.Members {
		m := b.a.prog.Member(mid)
		rec, ok := b.a.table.Field(mid).(semantics.FieldBacked)
		if !ok || m.Constant == nil {
			continue
		}
		obj.Props = append(obj.Props, jsast.Property{Key: rec.Name, Value: ConstantExpr(*m.Constant)})
	}
	b.out.Definition = b.define(obj)
	b.out.Inline = true
}

// genericFactory folds everything into a factory over the type arguments
// that builds and registers one instantiation.
func (b *builder) genericFactory() {
	f := b.out
	params := make([]string, b.t.Arity)
	for i := range params {
		params[i] = "T" + strconv.Itoa(i+1)
	}
	inner := f.Statements()
	inner = append(inner, &jsast.SReturn{Value: jsast.Ident("$type")})
	factory := jsast.Fn(params, inner...)
	*f = TypeFragments{Type: f.Type, Name: f.Name, Order: f.Order, Inline: true}
	b.self = &jsast.ETypeRef{Type: b.t.ID}
	f.Definition = append(b.define(factory), &jsast.SExpr{Value: jsast.Call(
		&jsast.ERuntime{Member: "initGenericClass"}, b.selfRef(), &jsast.ENumber{Value: float64(b.t.Arity)})})
}

// ConstantExpr renders a compile-time constant.
func ConstantExpr(c model.Constant) jsast.Expr {
	switch c.Kind {
	case model.ConstString:
		return jsast.Str(c.Str)
	case model.ConstNumber:
		return &jsast.ENumber{Value: c.Num}
	case model.ConstBool:
		return &jsast.EBoolean{Value: c.Bool}
	}
	return &jsast.ENull{}
}

var numericTypes = map[string]bool{
	"byte": true, "sbyte": true, "short": true, "ushort": true, "int": true, "uint": true,
	"long": true, "ulong": true, "float": true, "double": true, "decimal": true, "char": true,
	"System.Byte": true, "System.SByte": true, "System.Int16": true, "System.UInt16": true,
	"System.Int32": true, "System.UInt32": true, "System.Int64": true, "System.UInt64": true,
	"System.Single": true, "System.Double": true, "System.Decimal": true, "System.Char": true,
}

// DefaultValue is the zero value of a declared type name.
func DefaultValue(typeName string) jsast.Expr {
	switch {
	case numericTypes[typeName]:
		return &jsast.ENumber{Value: 0}
	case typeName == "bool" || typeName == "System.Boolean":
		return &jsast.EBoolean{Value: false}
	}
	return &jsast.ENull{}
}
