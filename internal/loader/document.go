// Package loader reads symbol-model documents produced by the front end and
// turns them into a model.Program plus the generated body fragments.
package loader

import "github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"

// Document is the on-disk shape of a compilation, in JSON or msgpack.
// Cross references are document keys.
type Document struct {
	Files   []string    `json:"files,omitempty" msgpack:"files,omitempty"`
	Modules []ModuleDoc `json:"modules" msgpack:"modules"`
	Types   []TypeDoc   `json:"types" msgpack:"types"`
	Members []MemberDoc `json:"members" msgpack:"members"`
}

type SpanDoc struct {
	File    int `json:"file" msgpack:"file"`
	Line    int `json:"line" msgpack:"line"`
	Col     int `json:"col" msgpack:"col"`
	EndLine int `json:"endLine,omitempty" msgpack:"endLine,omitempty"`
	EndCol  int `json:"endCol,omitempty" msgpack:"endCol,omitempty"`
}

type MarkerDoc struct {
	Kind string   `json:"kind" msgpack:"kind"`
	Arg  *string  `json:"arg,omitempty" msgpack:"arg,omitempty"`
	Arg2 string   `json:"arg2,omitempty" msgpack:"arg2,omitempty"`
	Span *SpanDoc `json:"span,omitempty" msgpack:"span,omitempty"`
}

type ModuleDoc struct {
	Name               string   `json:"name" msgpack:"name"`
	ScriptModule       string   `json:"scriptModule,omitempty" msgpack:"scriptModule,omitempty"`
	Async              bool     `json:"async,omitempty" msgpack:"async,omitempty"`
	Minimize           bool     `json:"minimize,omitempty" msgpack:"minimize,omitempty"`
	PreserveMemberCase bool     `json:"preserveMemberCase,omitempty" msgpack:"preserveMemberCase,omitempty"`
	References         []string `json:"references,omitempty" msgpack:"references,omitempty"`
	Span               *SpanDoc `json:"span,omitempty" msgpack:"span,omitempty"`
}

type TypeDoc struct {
	Key        string        `json:"key" msgpack:"key"`
	Name       string        `json:"name" msgpack:"name"`
	Namespace  string        `json:"namespace,omitempty" msgpack:"namespace,omitempty"`
	Module     string        `json:"module" msgpack:"module"`
	Kind       string        `json:"kind" msgpack:"kind"`
	Flags      []string      `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Arity      int           `json:"arity,omitempty" msgpack:"arity,omitempty"`
	Declaring  string        `json:"declaring,omitempty" msgpack:"declaring,omitempty"`
	Base       string        `json:"base,omitempty" msgpack:"base,omitempty"`
	Interfaces []string      `json:"interfaces,omitempty" msgpack:"interfaces,omitempty"`
	Markers    []MarkerDoc   `json:"markers,omitempty" msgpack:"markers,omitempty"`
	Span       *SpanDoc      `json:"span,omitempty" msgpack:"span,omitempty"`
	StaticInit []*jsast.Node `json:"staticInit,omitempty" msgpack:"staticInit,omitempty"`
}

type ParamDoc struct {
	Name string `json:"name" msgpack:"name"`
	Type string `json:"type" msgpack:"type"`
}

type ConstDoc struct {
	Kind string  `json:"kind" msgpack:"kind"`
	Str  string  `json:"str,omitempty" msgpack:"str,omitempty"`
	Num  float64 `json:"num,omitempty" msgpack:"num,omitempty"`
	Bool bool    `json:"bool,omitempty" msgpack:"bool,omitempty"`
}

// BodyDoc is a compiled function body.
type BodyDoc struct {
	Params []string      `json:"params,omitempty" msgpack:"params,omitempty"`
	Stmts  []*jsast.Node `json:"stmts" msgpack:"stmts"`
}

type MemberDoc struct {
	Key        string      `json:"key" msgpack:"key"`
	Owner      string      `json:"owner" msgpack:"owner"`
	Name       string      `json:"name" msgpack:"name"`
	Kind       string      `json:"kind" msgpack:"kind"`
	Access     string      `json:"access,omitempty" msgpack:"access,omitempty"`
	Flags      []string    `json:"flags,omitempty" msgpack:"flags,omitempty"`
	Params     []ParamDoc  `json:"params,omitempty" msgpack:"params,omitempty"`
	Return     string      `json:"return,omitempty" msgpack:"return,omitempty"`
	Arity      int         `json:"arity,omitempty" msgpack:"arity,omitempty"`
	Overrides  string      `json:"overrides,omitempty" msgpack:"overrides,omitempty"`
	Implements []string    `json:"implements,omitempty" msgpack:"implements,omitempty"`
	Getter     string      `json:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter     string      `json:"setter,omitempty" msgpack:"setter,omitempty"`
	Adder      string      `json:"adder,omitempty" msgpack:"adder,omitempty"`
	Remover    string      `json:"remover,omitempty" msgpack:"remover,omitempty"`
	Constant   *ConstDoc   `json:"constant,omitempty" msgpack:"constant,omitempty"`
	Markers    []MarkerDoc `json:"markers,omitempty" msgpack:"markers,omitempty"`
	Span       *SpanDoc    `json:"span,omitempty" msgpack:"span,omitempty"`
	Body       *BodyDoc    `json:"body,omitempty" msgpack:"body,omitempty"`
	Init       *jsast.Node `json:"init,omitempty" msgpack:"init,omitempty"`
}
