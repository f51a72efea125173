package semantics

import "github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"

// The decision tables map the markers present on a symbol, plus a few
// shape facts, to a strategy. Rows are ordered by precedence: the first
// applicable row wins. A marker row is applicable when the marker is present
// and its condition (if any) holds.

type rule[F any, S comparable] struct {
	marker model.MarkerKind
	when   func(F) bool
	then   S
}

// Decision is the outcome of a table lookup.
type Decision[S comparable] struct {
	Strategy S
	// Marker is the marker of the winning row, MarkerInvalid for fact rows
	// and the fallback.
	Marker model.MarkerKind
	// Ignored lists present markers of applicable rows that lost to a
	// higher-precedence row.
	Ignored []model.MarkerKind
	// Misapplied lists present markers whose rows never applied because the
	// symbol has the wrong shape.
	Misapplied []model.MarkerKind
}

func decide[F any, S comparable](table []rule[F, S], present model.MarkerSet, facts F, fallback S) Decision[S] {
	d := Decision[S]{Strategy: fallback}
	won := false
	var applied, tried model.MarkerSet
	for _, r := range table {
		if r.marker != model.MarkerInvalid && !present.Has(r.marker) {
			continue
		}
		if r.marker != model.MarkerInvalid {
			tried |= model.Of(r.marker)
		}
		if r.when != nil && !r.when(facts) {
			continue
		}
		if r.marker != model.MarkerInvalid {
			if applied.Has(r.marker) {
				continue
			}
			applied |= model.Of(r.marker)
		}
		if !won {
			d.Strategy, d.Marker, won = r.then, r.marker, true
			continue
		}
		if r.marker != model.MarkerInvalid && r.marker != d.Marker {
			d.Ignored = append(d.Ignored, r.marker)
		}
	}
	for _, k := range tried.Kinds() {
		if !applied.Has(k) {
			d.Misapplied = append(d.Misapplied, k)
		}
	}
	return d
}

// Type strategies.

type TypeStrategy uint8

const (
	TypeNormal TypeStrategy = iota
	TypeNotUsable
	TypeImported
	TypeGlobalMethods
	TypeMixin
	TypeResources
)

var typeStrategyNames = [...]string{"normal", "not-usable", "imported", "global-methods", "mixin", "resources"}

func (s TypeStrategy) String() string { return typeStrategyNames[s] }

type TypeFacts struct {
	Markers            model.MarkerSet
	DeclaringNotUsable bool
	Delegate           bool
}

var typeTable = []rule[TypeFacts, TypeStrategy]{
	{marker: model.MarkerNonScriptable, then: TypeNotUsable},
	{when: func(f TypeFacts) bool { return f.DeclaringNotUsable }, then: TypeNotUsable},
	{marker: model.MarkerImported, then: TypeImported},
	{when: func(f TypeFacts) bool { return f.Delegate }, then: TypeImported},
	{marker: model.MarkerGlobalMethods, then: TypeGlobalMethods},
	{marker: model.MarkerMixin, then: TypeMixin},
	{marker: model.MarkerResources, then: TypeResources},
}

func DecideType(f TypeFacts) Decision[TypeStrategy] {
	return decide(typeTable, f.Markers, f, TypeNormal)
}

// Method strategies.

type MethodStrategy uint8

const (
	MethodNormal MethodStrategy = iota
	MethodNotUsable
	MethodInlineCode
	MethodScriptSkip
	MethodScriptAlias
	MethodInstanceOnFirstArgument
	MethodAlternateSignature
	MethodNativeIndexer
	MethodStaticWithReceiver
)

var methodStrategyNames = [...]string{
	"normal", "not-usable", "inline-code", "script-skip", "script-alias",
	"instance-on-first-arg", "alternate-signature", "native-indexer", "static-with-receiver",
}

func (s MethodStrategy) String() string { return methodStrategyNames[s] }

type MethodFacts struct {
	Markers model.MarkerSet
	Static  bool
	// Params counts declared parameters.
	Params            int
	OwnerSerializable bool
	OwnerImported     bool
	// NativeIndexerAccessor marks accessors of an intrinsic indexer.
	NativeIndexerAccessor bool
}

var methodTable = []rule[MethodFacts, MethodStrategy]{
	{marker: model.MarkerNonScriptable, then: MethodNotUsable},
	{marker: model.MarkerInlineCode, then: MethodInlineCode},
	{marker: model.MarkerScriptSkip, when: func(f MethodFacts) bool {
		return (f.Static && f.Params == 1) || (!f.Static && f.Params == 0)
	}, then: MethodScriptSkip},
	{marker: model.MarkerScriptAlias, when: func(f MethodFacts) bool { return f.Static }, then: MethodScriptAlias},
	{marker: model.MarkerInstanceMethodOnFirstArgument, when: func(f MethodFacts) bool { return f.Static && f.Params > 0 }, then: MethodInstanceOnFirstArgument},
	{marker: model.MarkerAlternateSignature, then: MethodAlternateSignature},
	{when: func(f MethodFacts) bool { return f.NativeIndexerAccessor }, then: MethodNativeIndexer},
	{when: func(f MethodFacts) bool { return f.OwnerSerializable && !f.Static }, then: MethodStaticWithReceiver},
}

func DecideMethod(f MethodFacts) Decision[MethodStrategy] {
	return decide(methodTable, f.Markers, f, MethodNormal)
}

// Constructor strategies.

type CtorStrategy uint8

const (
	// CtorDefault takes the unnamed slot when free, a numbered name otherwise.
	CtorDefault CtorStrategy = iota
	CtorNotUsable
	CtorInlineCode
	CtorObjectLiteral
	CtorNamed
	CtorStaticFactory
)

var ctorStrategyNames = [...]string{"default", "not-usable", "inline-code", "object-literal", "named", "static-factory"}

func (s CtorStrategy) String() string { return ctorStrategyNames[s] }

type CtorFacts struct {
	Markers           model.MarkerSet
	OwnerSerializable bool
	OwnerImported     bool
}

var ctorTable = []rule[CtorFacts, CtorStrategy]{
	{marker: model.MarkerNonScriptable, then: CtorNotUsable},
	{marker: model.MarkerInlineCode, then: CtorInlineCode},
	{marker: model.MarkerObjectLiteral, when: func(f CtorFacts) bool { return f.OwnerSerializable || f.OwnerImported }, then: CtorObjectLiteral},
	{when: func(f CtorFacts) bool { return f.OwnerSerializable }, then: CtorStaticFactory},
	{marker: model.MarkerScriptName, then: CtorNamed},
}

func DecideConstructor(f CtorFacts) Decision[CtorStrategy] {
	return decide(ctorTable, f.Markers, f, CtorDefault)
}

// Property strategies.

type PropertyStrategy uint8

const (
	PropertyAccessors PropertyStrategy = iota
	PropertyNotUsable
	PropertyNativeIndexer
	PropertyField
)

var propertyStrategyNames = [...]string{"accessors", "not-usable", "native-indexer", "field"}

func (s PropertyStrategy) String() string { return propertyStrategyNames[s] }

type PropertyFacts struct {
	Markers           model.MarkerSet
	Indexer           bool
	Params            int
	Static            bool
	Virtual           bool
	OwnerInterface    bool
	OwnerSerializable bool
}

var propertyTable = []rule[PropertyFacts, PropertyStrategy]{
	{marker: model.MarkerNonScriptable, then: PropertyNotUsable},
	{marker: model.MarkerIntrinsicProperty, when: func(f PropertyFacts) bool {
		return f.Indexer && f.Params == 1 && !f.Virtual
	}, then: PropertyNativeIndexer},
	{marker: model.MarkerIntrinsicProperty, when: func(f PropertyFacts) bool {
		return !f.Indexer && !f.Virtual && !f.OwnerInterface
	}, then: PropertyField},
	{when: func(f PropertyFacts) bool { return f.OwnerSerializable && !f.Static && !f.Indexer }, then: PropertyField},
}

func DecideProperty(f PropertyFacts) Decision[PropertyStrategy] {
	return decide(propertyTable, f.Markers, f, PropertyAccessors)
}

// Field strategies.

type FieldStrategy uint8

const (
	FieldNormal FieldStrategy = iota
	FieldNotUsable
	FieldNamedValue
	FieldConstant
)

var fieldStrategyNames = [...]string{"normal", "not-usable", "named-value", "constant"}

func (s FieldStrategy) String() string { return fieldStrategyNames[s] }

type FieldFacts struct {
	Markers          model.MarkerSet
	Const            bool
	HasConstant      bool
	OwnerNamedValues bool
}

var fieldTable = []rule[FieldFacts, FieldStrategy]{
	{marker: model.MarkerNonScriptable, then: FieldNotUsable},
	{when: func(f FieldFacts) bool { return f.OwnerNamedValues }, then: FieldNamedValue},
	{marker: model.MarkerInlineConstant, when: func(f FieldFacts) bool { return f.HasConstant }, then: FieldConstant},
	{when: func(f FieldFacts) bool { return f.Const && f.HasConstant }, then: FieldConstant},
}

func DecideField(f FieldFacts) Decision[FieldStrategy] {
	return decide(fieldTable, f.Markers, f, FieldNormal)
}

// Event strategies.

type EventStrategy uint8

const (
	EventAddRemove EventStrategy = iota
	EventNotUsable
)

func (s EventStrategy) String() string {
	if s == EventNotUsable {
		return "not-usable"
	}
	return "add-remove"
}

type EventFacts struct {
	Markers model.MarkerSet
}

var eventTable = []rule[EventFacts, EventStrategy]{
	{marker: model.MarkerNonScriptable, then: EventNotUsable},
}

func DecideEvent(f EventFacts) Decision[EventStrategy] {
	return decide(eventTable, f.Markers, f, EventAddRemove)
}

// Name sources, shared by every member kind.

type NameSource uint8

const (
	NameCamelCase NameSource = iota
	NameExplicit
	NamePreserveCase
	NameAccessorPattern
	NameMinimized
)

var nameSourceNames = [...]string{"camel-case", "explicit", "preserve-case", "accessor-pattern", "minimized"}

func (s NameSource) String() string { return nameSourceNames[s] }

type NameFacts struct {
	Markers            model.MarkerSet
	OwnerPreservesCase bool
	Accessor           bool
	// AccessorOfMinimized marks accessors whose property or event got a
	// minimized name; they are minimized on their own, without a prefix.
	AccessorOfMinimized bool
	Minimize            bool
	Visible             bool
	Static              bool
	OwnerInterface      bool
}

func (f NameFacts) minimizable() bool {
	return f.Minimize && !f.Visible && !f.Static && !f.OwnerInterface && !f.Markers.Has(model.MarkerPreserveName)
}

var nameTable = []rule[NameFacts, NameSource]{
	{marker: model.MarkerScriptName, then: NameExplicit},
	{marker: model.MarkerPreserveCase, then: NamePreserveCase},
	{when: func(f NameFacts) bool { return f.OwnerPreservesCase && !f.Accessor }, then: NamePreserveCase},
	{when: func(f NameFacts) bool { return f.AccessorOfMinimized && f.minimizable() }, then: NameMinimized},
	{when: func(f NameFacts) bool { return f.Accessor }, then: NameAccessorPattern},
	{when: NameFacts.minimizable, then: NameMinimized},
}

// DecideName picks where a member's preferred name comes from.
func DecideName(f NameFacts) Decision[NameSource] {
	return decide(nameTable, f.Markers, f, NameCamelCase)
}

// Type name sources.

type TypeNameSource uint8

const (
	TypeNameDefault TypeNameSource = iota
	TypeNameExplicit
	TypeNameMinimized
)

type TypeNameFacts struct {
	Markers  model.MarkerSet
	Minimize bool
	Visible  bool
	Imported bool
}

var typeNameTable = []rule[TypeNameFacts, TypeNameSource]{
	{marker: model.MarkerScriptName, then: TypeNameExplicit},
	{when: func(f TypeNameFacts) bool {
		return f.Minimize && !f.Visible && !f.Imported && !f.Markers.Has(model.MarkerPreserveName)
	}, then: TypeNameMinimized},
}

func DecideTypeName(f TypeNameFacts) Decision[TypeNameSource] {
	return decide(typeNameTable, f.Markers, f, TypeNameDefault)
}
