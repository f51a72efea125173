package model

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

var (
	// ErrDuplicateModule is returned when two modules share a name.
	ErrDuplicateModule = errors.New("duplicate module")
	// ErrDuplicateKey is returned when two types or members share a key.
	ErrDuplicateKey = errors.New("duplicate symbol key")
	// ErrDanglingReference is returned for links to unallocated symbols.
	ErrDanglingReference = errors.New("dangling symbol reference")
)

// Builder assembles a Program. It is used by the document loader and by
// tests; the resulting Program is immutable.
type Builder struct {
	prog *Program
	errs []error
}

// NewBuilder starts an empty program. files may be nil.
func NewBuilder(files *source.FileSet) *Builder {
	if files == nil {
		files = source.NewFileSet()
	}
	return &Builder{prog: &Program{
		Files:        files,
		modules:      make([]Module, 1, 4),
		types:        make([]Type, 1, 64),
		members:      make([]Member, 1, 256),
		moduleByName: make(map[string]ModuleID),
		typeByKey:    make(map[string]TypeID),
		memberByKey:  make(map[string]MemberID),
	}}
}

func nextID[T ~uint32](n int, what string) T {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("%s arena overflow: %w", what, err))
	}
	return T(v)
}

// AddModule registers a module and returns its id.
func (b *Builder) AddModule(m Module) ModuleID {
	if _, dup := b.prog.moduleByName[m.Name]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrDuplicateModule, m.Name))
	}
	id := nextID[ModuleID](len(b.prog.modules), "module")
	m.ID = id
	m.Types = nil
	b.prog.modules = append(b.prog.modules, m)
	b.prog.moduleByName[m.Name] = id
	return id
}

// AddType registers a type in its module and returns its id. An empty Key
// defaults to the fully qualified name.
func (b *Builder) AddType(t Type) TypeID {
	id := nextID[TypeID](len(b.prog.types), "type")
	t.ID = id
	t.Members = nil
	t.Order = len(b.prog.types) - 1
	b.prog.types = append(b.prog.types, t)
	mod := b.prog.Module(t.Module)
	if mod == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: type %q has no module", ErrDanglingReference, t.Name))
	} else {
		mod.Types = append(mod.Types, id)
	}
	key := t.Key
	if key == "" {
		key = b.prog.FullName(id)
		b.prog.types[id].Key = key
	}
	if _, dup := b.prog.typeByKey[key]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: type %q", ErrDuplicateKey, key))
	}
	b.prog.typeByKey[key] = id
	return id
}

// AddMember registers a member on its owner and returns its id. An empty
// Key defaults to "Owner::Name(ParamTypes)".
func (b *Builder) AddMember(m Member) MemberID {
	id := nextID[MemberID](len(b.prog.members), "member")
	m.ID = id
	owner := b.prog.Type(m.Owner)
	if owner == nil {
		b.errs = append(b.errs, fmt.Errorf("%w: member %q has no owner", ErrDanglingReference, m.Name))
	} else {
		m.Order = len(owner.Members)
		owner.Members = append(owner.Members, id)
	}
	if m.Key == "" {
		ownerKey := ""
		if owner != nil {
			ownerKey = owner.Key
		}
		m.Key = ownerKey + "::" + m.Name + "(" + m.ParamTypes() + ")"
		for i := 2; ; i++ {
			if _, dup := b.prog.memberByKey[m.Key]; !dup {
				break
			}
			m.Key = fmt.Sprintf("%s::%s(%s)#%d", ownerKey, m.Name, m.ParamTypes(), i)
		}
	}
	if _, dup := b.prog.memberByKey[m.Key]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: member %q", ErrDuplicateKey, m.Key))
	}
	b.prog.members = append(b.prog.members, m)
	b.prog.memberByKey[m.Key] = id
	return id
}

// Type exposes a type for wiring while building.
func (b *Builder) Type(id TypeID) *Type { return b.prog.Type(id) }

// Member exposes a member for wiring while building.
func (b *Builder) Member(id MemberID) *Member { return b.prog.Member(id) }

// Module exposes a module for wiring while building.
func (b *Builder) Module(id ModuleID) *Module { return b.prog.Module(id) }

// Build validates links, manufactures missing accessor methods and returns
// the finished program.
func (b *Builder) Build() (*Program, error) {
	b.validate()
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	b.synthesizeAccessors()
	prog := b.prog
	b.prog = nil
	return prog, nil
}

func (b *Builder) validate() {
	p := b.prog
	checkType := func(id TypeID, what string) {
		if id.IsValid() && p.Type(id) == nil {
			b.errs = append(b.errs, fmt.Errorf("%w: %s -> type #%d", ErrDanglingReference, what, id))
		}
	}
	checkMember := func(id MemberID, what string) {
		if id.IsValid() && p.Member(id) == nil {
			b.errs = append(b.errs, fmt.Errorf("%w: %s -> member #%d", ErrDanglingReference, what, id))
		}
	}
	for i := 1; i < len(p.types); i++ {
		t := &p.types[i]
		checkType(t.Base, t.Key+" base")
		checkType(t.Declaring, t.Key+" declaring")
		for _, iface := range t.Interfaces {
			checkType(iface, t.Key+" interface")
		}
	}
	for i := 1; i < len(p.members); i++ {
		m := &p.members[i]
		checkMember(m.Overrides, m.Key+" overrides")
		for _, impl := range m.Implements {
			checkMember(impl, m.Key+" implements")
		}
		checkMember(m.Getter, m.Key+" getter")
		checkMember(m.Setter, m.Key+" setter")
		checkMember(m.Adder, m.Key+" adder")
		checkMember(m.Remover, m.Key+" remover")
	}
}

// synthesizeAccessors gives every property, indexer and event a full set of
// accessor methods. Accessors the front end declared are linked back to
// their owner; missing ones are manufactured as OriginSynthetic members.
func (b *Builder) synthesizeAccessors() {
	p := b.prog
	count := len(p.members)
	for i := 1; i < count; i++ {
		switch p.members[i].Kind {
		case MemberProperty, MemberIndexer:
			id := p.members[i].ID
			b.ensureAccessor(id, RoleGetter)
			if !p.members[id].Has(MemberReadOnly) {
				b.ensureAccessor(id, RoleSetter)
			}
		case MemberEvent:
			id := p.members[i].ID
			b.ensureAccessor(id, RoleAdder)
			b.ensureAccessor(id, RoleRemover)
		}
	}
	// Override and implementation links of accessors follow their owners.
	for i := 1; i < len(p.members); i++ {
		acc := &p.members[i]
		if acc.Role == RoleNone || acc.Origin != OriginSynthetic {
			continue
		}
		owner := p.Member(acc.Accessor)
		if base := p.Member(owner.Overrides); base != nil {
			acc.Overrides = accessorFor(base, acc.Role)
		}
		for _, implID := range owner.Implements {
			if impl := p.Member(implID); impl != nil {
				if a := accessorFor(impl, acc.Role); a.IsValid() {
					acc.Implements = append(acc.Implements, a)
				}
			}
		}
	}
}

func accessorFor(m *Member, role AccessorRole) MemberID {
	switch role {
	case RoleGetter:
		return m.Getter
	case RoleSetter:
		return m.Setter
	case RoleAdder:
		return m.Adder
	case RoleRemover:
		return m.Remover
	}
	return NoMemberID
}

func (b *Builder) ensureAccessor(owner MemberID, role AccessorRole) {
	p := b.prog
	m := p.Member(owner)
	if existing := accessorFor(m, role); existing.IsValid() {
		acc := p.Member(existing)
		acc.Accessor = owner
		acc.Role = role
		return
	}
	acc := Member{
		Key:      m.Key + "#" + role.Prefix(),
		Name:     role.Prefix() + m.Name,
		Kind:     MemberMethod,
		Owner:    m.Owner,
		Access:   m.Access,
		Flags:    m.Flags & (MemberStatic | MemberVirtual | MemberAbstract | MemberOverride | MemberSealed | MemberExplicitImpl),
		Accessor: owner,
		Role:     role,
		Origin:   OriginSynthetic,
		Span:     m.Span,
	}
	params := append([]Param(nil), m.Params...)
	switch role {
	case RoleGetter:
		acc.Return = m.Return
	case RoleSetter, RoleAdder, RoleRemover:
		params = append(params, Param{Name: "value", Type: m.Return})
		acc.Return = "void"
	}
	acc.Params = params
	id := b.AddMember(acc)
	// AddMember may have grown the arena; re-fetch the owner.
	m = p.Member(owner)
	switch role {
	case RoleGetter:
		m.Getter = id
	case RoleSetter:
		m.Setter = id
	case RoleAdder:
		m.Adder = id
	case RoleRemover:
		m.Remover = id
	}
}
