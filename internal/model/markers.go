package model

import (
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// MarkerKind enumerates the declarative markers the front end attaches to
// types and members.
type MarkerKind uint8

const (
	MarkerInvalid MarkerKind = iota
	MarkerNonScriptable
	MarkerScriptName
	MarkerPreserveName
	MarkerPreserveCase
	MarkerPreserveMemberCase
	MarkerIgnoreNamespace
	MarkerScriptNamespace
	MarkerImported
	MarkerSerializable
	MarkerMixin
	MarkerGlobalMethods
	MarkerResources
	MarkerInlineCode
	MarkerInstanceMethodOnFirstArgument
	MarkerScriptSkip
	MarkerScriptAlias
	MarkerIntrinsicProperty
	MarkerExpandParams
	MarkerIgnoreGenericArguments
	MarkerAlternateSignature
	MarkerObjectLiteral
	MarkerInlineConstant
	MarkerNamedValues
	MarkerReflectable
	markerCount
)

var markerNames = [...]string{
	MarkerInvalid:                       "invalid",
	MarkerNonScriptable:                 "NonScriptable",
	MarkerScriptName:                    "ScriptName",
	MarkerPreserveName:                  "PreserveName",
	MarkerPreserveCase:                  "PreserveCase",
	MarkerPreserveMemberCase:            "PreserveMemberCase",
	MarkerIgnoreNamespace:               "IgnoreNamespace",
	MarkerScriptNamespace:               "ScriptNamespace",
	MarkerImported:                      "Imported",
	MarkerSerializable:                  "Serializable",
	MarkerMixin:                         "Mixin",
	MarkerGlobalMethods:                 "GlobalMethods",
	MarkerResources:                     "Resources",
	MarkerInlineCode:                    "InlineCode",
	MarkerInstanceMethodOnFirstArgument: "InstanceMethodOnFirstArgument",
	MarkerScriptSkip:                    "ScriptSkip",
	MarkerScriptAlias:                   "ScriptAlias",
	MarkerIntrinsicProperty:             "IntrinsicProperty",
	MarkerExpandParams:                  "ExpandParams",
	MarkerIgnoreGenericArguments:        "IgnoreGenericArguments",
	MarkerAlternateSignature:            "AlternateSignature",
	MarkerObjectLiteral:                 "ObjectLiteral",
	MarkerInlineConstant:                "InlineConstant",
	MarkerNamedValues:                   "NamedValues",
	MarkerReflectable:                   "Reflectable",
}

func (k MarkerKind) String() string {
	if int(k) < len(markerNames) {
		return markerNames[k]
	}
	return "invalid"
}

// ParseMarkerKind maps a marker name (case-insensitive, optional "Attribute"
// suffix) to its kind.
func ParseMarkerKind(s string) (MarkerKind, bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Attribute")
	for k := MarkerNonScriptable; k < markerCount; k++ {
		if strings.EqualFold(markerNames[k], s) {
			return k, true
		}
	}
	return MarkerInvalid, false
}

// Marker is one declarative marker instance. Arg carries the primary
// argument (a script name, template, alias); Arg2 a secondary one (the
// generated method name of an inline-code template).
type Marker struct {
	Kind   MarkerKind
	Arg    string
	Arg2   string
	HasArg bool
	Span   source.Span
}

// Markers is the marker list of one symbol in declaration order.
type Markers []Marker

// Has reports whether a marker of kind k is present.
func (ms Markers) Has(k MarkerKind) bool {
	_, ok := ms.Get(k)
	return ok
}

// Get returns the first marker of kind k.
func (ms Markers) Get(k MarkerKind) (Marker, bool) {
	for _, m := range ms {
		if m.Kind == k {
			return m, true
		}
	}
	return Marker{}, false
}

// Set is the presence bitset used by the decision tables.
func (ms Markers) Set() MarkerSet {
	var set MarkerSet
	for _, m := range ms {
		set |= 1 << MarkerSet(m.Kind)
	}
	return set
}

// MarkerSet is a bitset over MarkerKind.
type MarkerSet uint32

// Of builds a set from kinds.
func Of(kinds ...MarkerKind) MarkerSet {
	var set MarkerSet
	for _, k := range kinds {
		set |= 1 << MarkerSet(k)
	}
	return set
}

// Has reports whether k is in the set.
func (s MarkerSet) Has(k MarkerKind) bool { return s&(1<<MarkerSet(k)) != 0 }

// Kinds lists the kinds in the set in ascending order.
func (s MarkerSet) Kinds() []MarkerKind {
	var out []MarkerKind
	for k := MarkerNonScriptable; k < markerCount; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}
