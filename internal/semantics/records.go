package semantics

import (
	"fmt"
	"strconv"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// Record is the resolved decision for one symbol. Every variant below is
// one of a closed set per symbol kind.
type Record interface {
	fmt.Stringer
	record()
}

// TypeSemantics is implemented by NotUsableType and NormalType.
type TypeSemantics interface {
	Record
	isType()
}

// MethodSemantics is implemented by the method variants, including the
// accessor methods of properties and events.
type MethodSemantics interface {
	Record
	isMethod()
}

type ConstructorSemantics interface {
	Record
	isConstructor()
}

type PropertySemantics interface {
	Record
	isProperty()
}

type FieldSemantics interface {
	Record
	isField()
}

type EventSemantics interface {
	Record
	isEvent()
}

// Types.

type NotUsableType struct{}

// NormalType places the type under Name, a dotted path. An empty Name puts
// the members on the module's export surface.
type NormalType struct {
	Name              string
	IgnoreGenericArgs bool
	GenerateCode      bool
}

func (NotUsableType) record() {}
func (NotUsableType) isType() {}
func (NormalType) record()    {}
func (NormalType) isType()    {}

func (NotUsableType) String() string { return "not-usable" }
func (t NormalType) String() string {
	return fmt.Sprintf("type %s%s%s", quoteName(t.Name), flag(t.IgnoreGenericArgs, " ignore-generic-args"), flag(!t.GenerateCode, " no-code"))
}

// Methods.

type NotUsableMethod struct{}

type NormalMethod struct {
	Name              string
	GenerateCode      bool
	IgnoreGenericArgs bool
	ExpandParams      bool
}

// InlineCode substitutes Template at call sites. A non-empty GeneratedName
// still emits the body under that name.
type InlineCode struct {
	Template      string
	GeneratedName string
}

// StaticWithReceiverFirst implements an instance method as a static
// function that takes the receiver as its first argument.
type StaticWithReceiverFirst struct {
	Name         string
	GenerateCode bool
}

// InstanceOnFirstArgument invokes a static method as a method of its first argument.
type InstanceOnFirstArgument struct{ Name string }

// NativeIndexerAccessor reads or writes receiver[index] directly.
type NativeIndexerAccessor struct{}

func (NotUsableMethod) record()           {}
func (NotUsableMethod) isMethod()         {}
func (NormalMethod) record()              {}
func (NormalMethod) isMethod()            {}
func (InlineCode) record()                {}
func (InlineCode) isMethod()              {}
func (StaticWithReceiverFirst) record()   {}
func (StaticWithReceiverFirst) isMethod() {}
func (InstanceOnFirstArgument) record()   {}
func (InstanceOnFirstArgument) isMethod() {}
func (NativeIndexerAccessor) record()     {}
func (NativeIndexerAccessor) isMethod()   {}

func (NotUsableMethod) String() string { return "not-usable" }
func (m NormalMethod) String() string {
	return fmt.Sprintf("method %s%s%s%s", quoteName(m.Name), flag(!m.GenerateCode, " no-code"),
		flag(m.IgnoreGenericArgs, " ignore-generic-args"), flag(m.ExpandParams, " expand-params"))
}
func (m InlineCode) String() string {
	s := "inline " + strconv.Quote(m.Template)
	if m.GeneratedName != "" {
		s += " as " + quoteName(m.GeneratedName)
	}
	return s
}
func (m StaticWithReceiverFirst) String() string {
	return "static-with-receiver " + quoteName(m.Name) + flag(!m.GenerateCode, " no-code")
}
func (m InstanceOnFirstArgument) String() string { return "instance-on-first-arg " + quoteName(m.Name) }
func (NativeIndexerAccessor) String() string     { return "native-indexer" }

// Constructors.

type NotUsableCtor struct{}

// UnnamedCtor is the type function itself, reported as $ctor.
type UnnamedCtor struct{ GenerateCode bool }

type NamedCtor struct {
	Name         string
	GenerateCode bool
}

// StaticFactory builds instances through a static function returning a plain object.
type StaticFactory struct {
	Name         string
	GenerateCode bool
}

type InlineCtor struct{ Template string }

// ObjectLiteralCtor builds an object literal whose keys are the parameter names.
type ObjectLiteralCtor struct{ Keys []string }

func (NotUsableCtor) record()            {}
func (NotUsableCtor) isConstructor()     {}
func (UnnamedCtor) record()              {}
func (UnnamedCtor) isConstructor()       {}
func (NamedCtor) record()                {}
func (NamedCtor) isConstructor()         {}
func (StaticFactory) record()            {}
func (StaticFactory) isConstructor()     {}
func (InlineCtor) record()               {}
func (InlineCtor) isConstructor()        {}
func (ObjectLiteralCtor) record()        {}
func (ObjectLiteralCtor) isConstructor() {}

// UnnamedCtorName is the name reported for the type function constructor.
const UnnamedCtorName = "$ctor"

func (NotUsableCtor) String() string { return "not-usable" }
func (c UnnamedCtor) String() string {
	return "ctor " + quoteName(UnnamedCtorName) + " unnamed" + flag(!c.GenerateCode, " no-code")
}
func (c NamedCtor) String() string {
	return "ctor " + quoteName(c.Name) + flag(!c.GenerateCode, " no-code")
}
func (c StaticFactory) String() string {
	return "static-factory " + quoteName(c.Name) + flag(!c.GenerateCode, " no-code")
}
func (c InlineCtor) String() string        { return "inline " + strconv.Quote(c.Template) }
func (c ObjectLiteralCtor) String() string { return fmt.Sprintf("object-literal %q", c.Keys) }

// Properties.

type NotUsableProperty struct{}

// Accessors implements a property through its accessor methods; Setter is
// nil for read-only properties.
type Accessors struct {
	Getter MethodSemantics
	Setter MethodSemantics
}

type FieldBackedProperty struct{ Name string }

// NativeAccessor makes an indexer read and write receiver[index].
type NativeAccessor struct{}

func (NotUsableProperty) record()       {}
func (NotUsableProperty) isProperty()   {}
func (Accessors) record()               {}
func (Accessors) isProperty()           {}
func (FieldBackedProperty) record()     {}
func (FieldBackedProperty) isProperty() {}
func (NativeAccessor) record()          {}
func (NativeAccessor) isProperty()      {}

func (NotUsableProperty) String() string { return "not-usable" }
func (p Accessors) String() string {
	s := "accessors get=" + p.Getter.String()
	if p.Setter != nil {
		s += " set=" + p.Setter.String()
	}
	return s
}
func (p FieldBackedProperty) String() string { return "field " + quoteName(p.Name) }
func (NativeAccessor) String() string        { return "native-accessor" }

// Fields.

type NotUsableField struct{}

type FieldBacked struct{ Name string }

// LiteralConstant inlines Value at every use.
type LiteralConstant struct{ Value model.Constant }

func (NotUsableField) record()   {}
func (NotUsableField) isField()  {}
func (FieldBacked) record()      {}
func (FieldBacked) isField()     {}
func (LiteralConstant) record()  {}
func (LiteralConstant) isField() {}

func (NotUsableField) String() string { return "not-usable" }
func (f FieldBacked) String() string  { return "field " + quoteName(f.Name) }
func (f LiteralConstant) String() string {
	return "constant " + ConstantString(f.Value)
}

// ConstantString renders a constant as a script literal.
func ConstantString(c model.Constant) string {
	switch c.Kind {
	case model.ConstString:
		return strconv.Quote(c.Str)
	case model.ConstNumber:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case model.ConstBool:
		return strconv.FormatBool(c.Bool)
	}
	return "null"
}

// Events.

type NotUsableEvent struct{}

type AddRemove struct {
	Adder   MethodSemantics
	Remover MethodSemantics
}

func (NotUsableEvent) record()  {}
func (NotUsableEvent) isEvent() {}
func (AddRemove) record()       {}
func (AddRemove) isEvent()      {}

func (NotUsableEvent) String() string { return "not-usable" }
func (e AddRemove) String() string {
	return "add=" + e.Adder.String() + " remove=" + e.Remover.String()
}

func quoteName(s string) string { return "'" + s + "'" }

func flag(on bool, s string) string {
	if on {
		return s
	}
	return ""
}

// NameOf returns the output name a member record occupies in its partition,
// or "" when the record does not claim one.
func NameOf(r Record) string {
	switch r := r.(type) {
	case NormalMethod:
		return r.Name
	case InlineCode:
		return r.GeneratedName
	case StaticWithReceiverFirst:
		return r.Name
	case InstanceOnFirstArgument:
		return r.Name
	case UnnamedCtor:
		return UnnamedCtorName
	case NamedCtor:
		return r.Name
	case StaticFactory:
		return r.Name
	case FieldBackedProperty:
		return r.Name
	case FieldBacked:
		return r.Name
	case NormalType:
		return r.Name
	}
	return ""
}
