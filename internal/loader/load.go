package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/fragment"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// Format selects the document encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
)

var (
	// ErrUnknownFormat is returned for unrecognized document extensions.
	ErrUnknownFormat = errors.New("unknown document format")
	// ErrUnknownKey is returned for references to keys the document does not define.
	ErrUnknownKey = errors.New("unknown key")
	// ErrInvalidField is returned for malformed enum-like fields.
	ErrInvalidField = errors.New("invalid field")
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Result is a loaded compilation.
type Result struct {
	Program   *model.Program
	Fragments *fragment.Set
}

// LoadFile reads and decodes the document at path.
func LoadFile(path string, files *source.FileSet) (*Result, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	res, err := Load(data, format, files)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Load decodes raw document bytes.
func Load(data []byte, format Format, files *source.FileSet) (*Result, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := decodeJSON(data, &doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode msgpack: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	return Build(&doc, files)
}

func decodeJSON(data []byte, doc *Document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(doc)
}

// Encode writes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	}
	return nil, ErrUnknownFormat
}

type builder struct {
	b       *model.Builder
	files   []source.FileID
	modules map[string]model.ModuleID
	types   map[string]model.TypeID
	members map[string]model.MemberID
	errs    []error
}

// Build interns the document into a Program. Modules, types and members are
// allocated first; cross references are resolved in a second pass so the
// document order does not matter.
func Build(doc *Document, files *source.FileSet) (*Result, error) {
	if files == nil {
		files = source.NewFileSet()
	}
	ld := &builder{
		b:       model.NewBuilder(files),
		modules: make(map[string]model.ModuleID, len(doc.Modules)),
		types:   make(map[string]model.TypeID, len(doc.Types)),
		members: make(map[string]model.MemberID, len(doc.Members)),
	}
	for _, path := range doc.Files {
		ld.files = append(ld.files, files.Add(path))
	}

	for i := range doc.Modules {
		ld.addModule(&doc.Modules[i])
	}
	for i := range doc.Types {
		ld.addType(&doc.Types[i])
	}
	for i := range doc.Members {
		ld.addMember(&doc.Members[i])
	}
	if len(ld.errs) > 0 {
		return nil, errors.Join(ld.errs...)
	}

	for i := range doc.Modules {
		ld.linkModule(&doc.Modules[i])
	}
	for i := range doc.Types {
		ld.linkType(&doc.Types[i])
	}
	for i := range doc.Members {
		ld.linkMember(&doc.Members[i])
	}
	frags := ld.fragments(doc)
	if len(ld.errs) > 0 {
		return nil, errors.Join(ld.errs...)
	}
	prog, err := ld.b.Build()
	if err != nil {
		return nil, err
	}
	return &Result{Program: prog, Fragments: frags}, nil
}

func (ld *builder) fail(format string, args ...any) {
	ld.errs = append(ld.errs, fmt.Errorf(format, args...))
}

func (ld *builder) span(d *SpanDoc) source.Span {
	if d == nil {
		return source.Span{}
	}
	var file source.FileID
	if d.File >= 0 && d.File < len(ld.files) {
		file = ld.files[d.File]
	} else {
		ld.fail("%w: file index %d", ErrInvalidField, d.File)
	}
	end := source.LineCol{Line: d.EndLine, Col: d.EndCol}
	if end.IsZero() {
		end = source.LineCol{Line: d.Line, Col: d.Col}
	}
	return source.Span{File: file, Start: source.LineCol{Line: d.Line, Col: d.Col}, End: end}
}

func (ld *builder) markers(docs []MarkerDoc, owner string) model.Markers {
	var out model.Markers
	for _, md := range docs {
		kind, ok := model.ParseMarkerKind(md.Kind)
		if !ok {
			ld.fail("%s: %w: marker %q", owner, ErrInvalidField, md.Kind)
			continue
		}
		m := model.Marker{Kind: kind, Arg2: md.Arg2, Span: ld.span(md.Span)}
		if md.Arg != nil {
			m.Arg, m.HasArg = *md.Arg, true
		}
		out = append(out, m)
	}
	return out
}

func (ld *builder) addModule(d *ModuleDoc) {
	m := model.Module{Name: d.Name, ScriptModule: d.ScriptModule, Span: ld.span(d.Span)}
	if d.Async {
		m.Flags |= model.ModuleAsync
	}
	if d.Minimize {
		m.Flags |= model.ModuleMinimize
	}
	if d.PreserveMemberCase {
		m.Flags |= model.ModulePreserveMemberCase
	}
	ld.modules[d.Name] = ld.b.AddModule(m)
}

var typeKinds = map[string]model.TypeKind{
	"class":     model.TypeClass,
	"interface": model.TypeInterface,
	"struct":    model.TypeStruct,
	"enum":      model.TypeEnum,
	"delegate":  model.TypeDelegate,
}

var typeFlags = map[string]model.TypeFlags{
	"public":   model.TypePublic,
	"static":   model.TypeStatic,
	"abstract": model.TypeAbstract,
	"sealed":   model.TypeSealed,
	"root":     model.TypeRoot,
}

func (ld *builder) addType(d *TypeDoc) {
	if d.Key == "" {
		ld.fail("type %q: %w: missing key", d.Name, ErrInvalidField)
		return
	}
	kind, ok := typeKinds[d.Kind]
	if !ok {
		ld.fail("type %s: %w: kind %q", d.Key, ErrInvalidField, d.Kind)
	}
	var flags model.TypeFlags
	for _, f := range d.Flags {
		v, ok := typeFlags[f]
		if !ok {
			ld.fail("type %s: %w: flag %q", d.Key, ErrInvalidField, f)
		}
		flags |= v
	}
	mod, ok := ld.modules[d.Module]
	if !ok {
		ld.fail("type %s: %w: module %q", d.Key, ErrUnknownKey, d.Module)
		return
	}
	ld.types[d.Key] = ld.b.AddType(model.Type{
		Key:       d.Key,
		Name:      d.Name,
		Namespace: d.Namespace,
		Module:    mod,
		Kind:      kind,
		Flags:     flags,
		Arity:     d.Arity,
		Markers:   ld.markers(d.Markers, d.Key),
		Span:      ld.span(d.Span),
	})
}

var memberKinds = map[string]model.MemberKind{
	"method":      model.MemberMethod,
	"constructor": model.MemberConstructor,
	"property":    model.MemberProperty,
	"indexer":     model.MemberIndexer,
	"field":       model.MemberField,
	"event":       model.MemberEvent,
}

var accesses = map[string]model.Access{
	"":                   model.AccessPrivate,
	"private":            model.AccessPrivate,
	"internal":           model.AccessInternal,
	"protected":          model.AccessProtected,
	"protected internal": model.AccessProtectedInternal,
	"public":             model.AccessPublic,
}

var memberFlags = map[string]model.MemberFlags{
	"static":   model.MemberStatic,
	"virtual":  model.MemberVirtual,
	"abstract": model.MemberAbstract,
	"override": model.MemberOverride,
	"sealed":   model.MemberSealed,
	"const":    model.MemberConst,
	"explicit": model.MemberExplicitImpl,
	"params":   model.MemberParamArray,
	"readonly": model.MemberReadOnly,
}

var constKinds = map[string]model.ConstKind{
	"null":   model.ConstNull,
	"string": model.ConstString,
	"number": model.ConstNumber,
	"bool":   model.ConstBool,
}

func (ld *builder) addMember(d *MemberDoc) {
	if d.Key == "" {
		ld.fail("member %q: %w: missing key", d.Name, ErrInvalidField)
		return
	}
	owner, ok := ld.types[d.Owner]
	if !ok {
		ld.fail("member %s: %w: owner %q", d.Key, ErrUnknownKey, d.Owner)
		return
	}
	kind, ok := memberKinds[d.Kind]
	if !ok {
		ld.fail("member %s: %w: kind %q", d.Key, ErrInvalidField, d.Kind)
	}
	access, ok := accesses[d.Access]
	if !ok {
		ld.fail("member %s: %w: access %q", d.Key, ErrInvalidField, d.Access)
	}
	var flags model.MemberFlags
	for _, f := range d.Flags {
		v, ok := memberFlags[f]
		if !ok {
			ld.fail("member %s: %w: flag %q", d.Key, ErrInvalidField, f)
		}
		flags |= v
	}
	m := model.Member{
		Key:     d.Key,
		Name:    d.Name,
		Kind:    kind,
		Owner:   owner,
		Access:  access,
		Flags:   flags,
		Return:  d.Return,
		Arity:   d.Arity,
		Markers: ld.markers(d.Markers, d.Key),
		Span:    ld.span(d.Span),
	}
	for _, p := range d.Params {
		m.Params = append(m.Params, model.Param{Name: p.Name, Type: p.Type})
	}
	if d.Constant != nil {
		ck, ok := constKinds[d.Constant.Kind]
		if !ok {
			ld.fail("member %s: %w: constant kind %q", d.Key, ErrInvalidField, d.Constant.Kind)
		}
		m.Constant = &model.Constant{Kind: ck, Str: d.Constant.Str, Num: d.Constant.Num, Bool: d.Constant.Bool}
	}
	ld.members[d.Key] = ld.b.AddMember(m)
}

func (ld *builder) typeRef(key, from string) model.TypeID {
	if key == "" {
		return model.NoTypeID
	}
	id, ok := ld.types[key]
	if !ok {
		ld.fail("%s: %w: type %q", from, ErrUnknownKey, key)
	}
	return id
}

func (ld *builder) memberRef(key, from string) model.MemberID {
	if key == "" {
		return model.NoMemberID
	}
	id, ok := ld.members[key]
	if !ok {
		ld.fail("%s: %w: member %q", from, ErrUnknownKey, key)
	}
	return id
}

func (ld *builder) linkModule(d *ModuleDoc) {
	mod := ld.b.Module(ld.modules[d.Name])
	refs := append([]string(nil), d.References...)
	sort.Strings(refs)
	for _, r := range refs {
		id, ok := ld.modules[r]
		if !ok {
			ld.fail("module %s: %w: reference %q", d.Name, ErrUnknownKey, r)
			continue
		}
		mod.References = append(mod.References, id)
	}
}

func (ld *builder) linkType(d *TypeDoc) {
	id, ok := ld.types[d.Key]
	if !ok {
		return
	}
	t := ld.b.Type(id)
	t.Declaring = ld.typeRef(d.Declaring, d.Key)
	t.Base = ld.typeRef(d.Base, d.Key)
	for _, i := range d.Interfaces {
		t.Interfaces = append(t.Interfaces, ld.typeRef(i, d.Key))
	}
}

func (ld *builder) linkMember(d *MemberDoc) {
	id, ok := ld.members[d.Key]
	if !ok {
		return
	}
	m := ld.b.Member(id)
	m.Overrides = ld.memberRef(d.Overrides, d.Key)
	for _, i := range d.Implements {
		m.Implements = append(m.Implements, ld.memberRef(i, d.Key))
	}
	m.Getter = ld.memberRef(d.Getter, d.Key)
	m.Setter = ld.memberRef(d.Setter, d.Key)
	m.Adder = ld.memberRef(d.Adder, d.Key)
	m.Remover = ld.memberRef(d.Remover, d.Key)
}

func (ld *builder) resolveType(key string) (model.TypeID, error) {
	id, ok := ld.types[key]
	if !ok {
		return model.NoTypeID, fmt.Errorf("%w: type %q", ErrUnknownKey, key)
	}
	return id, nil
}

func (ld *builder) fragments(doc *Document) *fragment.Set {
	set := fragment.NewSet()
	for i := range doc.Types {
		d := &doc.Types[i]
		if len(d.StaticInit) == 0 {
			continue
		}
		stmts, err := jsast.DecodeStmts(d.StaticInit, ld.resolveType)
		if err != nil {
			ld.fail("type %s static init: %w", d.Key, err)
			continue
		}
		set.AddStaticInit(ld.types[d.Key], stmts...)
	}
	for i := range doc.Members {
		d := &doc.Members[i]
		id := ld.members[d.Key]
		if d.Body != nil {
			stmts, err := jsast.DecodeStmts(d.Body.Stmts, ld.resolveType)
			if err != nil {
				ld.fail("member %s body: %w", d.Key, err)
				continue
			}
			set.SetBody(id, &jsast.Function{Params: d.Body.Params, Body: stmts})
		}
		if d.Init != nil {
			e, err := jsast.DecodeExpr(d.Init, ld.resolveType)
			if err != nil {
				ld.fail("member %s init: %w", d.Key, err)
				continue
			}
			set.SetFieldInit(id, e)
		}
	}
	return set
}
