package model

import (
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// ModuleFlags carries module-level options and markers.
type ModuleFlags uint8

const (
	// ModuleAsync marks a module emitted as an asynchronous module definition.
	ModuleAsync ModuleFlags = 1 << iota
	// ModuleMinimize enables short names for non-externally-visible symbols.
	ModuleMinimize
	// ModulePreserveMemberCase keeps declared member case for every type in the module.
	ModulePreserveMemberCase
)

// Module is one compilation unit of the program.
type Module struct {
	ID   ModuleID
	Name string
	// ScriptModule is the name importers use to load the module; empty means
	// the module is a global script without a loader name.
	ScriptModule string
	Flags        ModuleFlags
	References   []ModuleID
	Types        []TypeID
	Span         source.Span
}

func (m *Module) Has(f ModuleFlags) bool { return m.Flags&f != 0 }

// TypeKind classifies declared types.
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeInterface
	TypeStruct
	TypeEnum
	TypeDelegate
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeInterface:
		return "interface"
	case TypeStruct:
		return "struct"
	case TypeEnum:
		return "enum"
	case TypeDelegate:
		return "delegate"
	}
	return "unknown"
}

// TypeFlags encode modifiers of a type.
type TypeFlags uint8

const (
	TypePublic TypeFlags = 1 << iota
	TypeStatic
	TypeAbstract
	TypeSealed
	// TypeRoot marks the root object type every class derives from.
	TypeRoot
)

// Type is a declared type of the source program.
type Type struct {
	ID         TypeID
	Key        string
	Name       string
	Namespace  string
	Module     ModuleID
	Kind       TypeKind
	Flags      TypeFlags
	Arity      int
	Declaring  TypeID
	Base       TypeID
	Interfaces []TypeID
	Members    []MemberID
	Markers    Markers
	Span       source.Span
	// Order is the declaration index across the whole program.
	Order int
}

func (t *Type) Has(f TypeFlags) bool { return t.Flags&f != 0 }

// IsGeneric reports whether the type declares type parameters.
func (t *Type) IsGeneric() bool { return t.Arity > 0 }

// MemberKind classifies members.
type MemberKind uint8

const (
	MemberMethod MemberKind = iota
	MemberConstructor
	MemberProperty
	MemberIndexer
	MemberField
	MemberEvent
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberConstructor:
		return "constructor"
	case MemberProperty:
		return "property"
	case MemberIndexer:
		return "indexer"
	case MemberField:
		return "field"
	case MemberEvent:
		return "event"
	}
	return "unknown"
}

// Access is the declared accessibility of a member.
type Access uint8

const (
	AccessPrivate Access = iota
	AccessInternal
	AccessProtected
	AccessProtectedInternal
	AccessPublic
)

// MemberFlags encode member modifiers.
type MemberFlags uint16

const (
	MemberStatic MemberFlags = 1 << iota
	MemberVirtual
	MemberAbstract
	MemberOverride
	MemberSealed
	MemberConst
	// MemberExplicitImpl marks an explicit capability implementation.
	MemberExplicitImpl
	// MemberParamArray marks a trailing parameter array.
	MemberParamArray
	MemberReadOnly
)

// Origin tells declared members apart from manufactured ones.
type Origin uint8

const (
	OriginDeclared Origin = iota
	// OriginSynthetic marks accessor methods manufactured for properties and
	// events the front end reported without explicit accessor symbols.
	OriginSynthetic
)

// AccessorRole identifies the role of an accessor method.
type AccessorRole uint8

const (
	RoleNone AccessorRole = iota
	RoleGetter
	RoleSetter
	RoleAdder
	RoleRemover
)

// Prefix is the accessor-pattern name prefix for the role.
func (r AccessorRole) Prefix() string {
	switch r {
	case RoleGetter:
		return "get_"
	case RoleSetter:
		return "set_"
	case RoleAdder:
		return "add_"
	case RoleRemover:
		return "remove_"
	}
	return ""
}

// Param is a declared parameter.
type Param struct {
	Name string
	Type string
}

// ConstKind tags a constant value.
type ConstKind uint8

const (
	ConstNull ConstKind = iota
	ConstString
	ConstNumber
	ConstBool
)

// Constant is a compile-time value of a const field or enum member.
type Constant struct {
	Kind ConstKind
	Str  string
	Num  float64
	Bool bool
}

// Member is a declared or synthetic member of a type.
type Member struct {
	ID     MemberID
	Key    string
	Name   string
	Kind   MemberKind
	Owner  TypeID
	Access Access
	Flags  MemberFlags
	Params []Param
	// Return is the return type for methods and the value type for fields,
	// properties and events.
	Return     string
	Arity      int
	Overrides  MemberID
	Implements []MemberID
	Getter     MemberID
	Setter     MemberID
	Adder      MemberID
	Remover    MemberID
	// Accessor links an accessor method back to its property or event.
	Accessor MemberID
	Role     AccessorRole
	Origin   Origin
	Constant *Constant
	Markers  Markers
	Span     source.Span
	// Order is the declaration index inside the owner.
	Order int
}

func (m *Member) Has(f MemberFlags) bool { return m.Flags&f != 0 }

// IsStatic reports whether the member lives in the static partition.
func (m *Member) IsStatic() bool { return m.Has(MemberStatic) || m.Has(MemberConst) }
