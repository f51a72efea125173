package semantics

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// memberScope is the working state of member resolution for one type.
type memberScope struct {
	r        *resolver
	t        *model.Type
	info     TypeInfo
	static   *usedNames
	instance *usedNames

	minimize      bool
	preserveCase  bool
	generatesCode bool
}

// plan is a member together with its preferred name.
type plan struct {
	m        *model.Member
	name     string
	source   NameSource
	explicit bool
}

func notUsableFor(k model.MemberKind) Record {
	switch k {
	case model.MemberConstructor:
		return NotUsableCtor{}
	case model.MemberProperty, model.MemberIndexer:
		return NotUsableProperty{}
	case model.MemberField:
		return NotUsableField{}
	case model.MemberEvent:
		return NotUsableEvent{}
	}
	return NotUsableMethod{}
}

func kindRank(k model.MemberKind) int {
	switch k {
	case model.MemberMethod:
		return 0
	case model.MemberProperty, model.MemberIndexer:
		return 1
	case model.MemberField:
		return 2
	case model.MemberEvent:
		return 3
	}
	return 4
}

func (r *resolver) resolveMembers(id model.TypeID) {
	if r.memberState[id] != unvisited {
		return
	}
	r.memberState[id] = visiting
	defer func() { r.memberState[id] = visited }()
	for _, a := range r.prog.Ancestors(id) {
		r.resolveMembers(a)
	}

	t := r.prog.Type(id)
	rec, usable := r.table.Type(id).(NormalType)
	if !usable {
		for _, mid := range t.Members {
			r.table.setMember(mid, notUsableFor(r.prog.Member(mid).Kind))
		}
		return
	}
	s := &memberScope{
		r:             r,
		t:             t,
		info:          r.table.Info(id),
		static:        newUsedNames(reservedStatic),
		instance:      newUsedNames(reservedInstance),
		minimize:      r.minimize(t.Module),
		generatesCode: rec.GenerateCode,
	}
	s.preserveCase = r.prog.PreservesMemberCase(id) || s.info.Serializable
	for _, a := range r.prog.Ancestors(id) {
		for _, mid := range r.prog.Type(a).Members {
			m := r.prog.Member(mid)
			if m.IsStatic() || m.Kind == model.MemberConstructor {
				continue
			}
			if n := NameOf(r.table.Member(mid)); n != "" {
				s.instance.inherit(n)
			}
		}
	}

	s.checkInheritedCollisions()
	s.resolveConstructors()
	s.resolveOthers()

	for _, mid := range t.Members {
		if !r.table.hasMember(mid) {
			r.table.setMember(mid, notUsableFor(r.prog.Member(mid).Kind))
		}
	}
}

func (s *memberScope) what(m *model.Member) string {
	return "member " + s.r.prog.MemberName(m.ID)
}

func (s *memberScope) partition(m *model.Member) *usedNames {
	if m.IsStatic() || m.Kind == model.MemberConstructor {
		return s.static
	}
	return s.instance
}

func (s *memberScope) generates(m *model.Member) bool {
	return s.generatesCode && s.t.Kind != model.TypeInterface && !m.Has(model.MemberAbstract)
}

// closure is the member with everything it overrides or implements, transitively.
func (s *memberScope) closure(id model.MemberID) map[model.MemberID]bool {
	out := make(map[model.MemberID]bool)
	var walk func(model.MemberID)
	walk = func(cur model.MemberID) {
		if !cur.IsValid() || out[cur] {
			return
		}
		out[cur] = true
		m := s.r.prog.Member(cur)
		walk(m.Overrides)
		for _, impl := range m.Implements {
			walk(impl)
		}
	}
	walk(id)
	return out
}

// checkInheritedCollisions reports names that two unrelated direct bases
// introduce for different members, unless some member of the type or its
// base classes implements both.
func (s *memberScope) checkInheritedCollisions() {
	p := s.r.prog
	bases := p.DirectBases(s.t.ID)
	if len(bases) < 2 {
		return
	}
	branches := make([]map[string]model.MemberID, len(bases))
	for i, b := range bases {
		names := make(map[string]model.MemberID)
		for _, a := range append([]model.TypeID{b}, p.Ancestors(b)...) {
			for _, mid := range p.Type(a).Members {
				m := p.Member(mid)
				if m.IsStatic() || m.Kind == model.MemberConstructor {
					continue
				}
				n := NameOf(s.r.table.Member(mid))
				if _, seen := names[n]; n != "" && !seen {
					names[n] = mid
				}
			}
		}
		branches[i] = names
	}
	var implementers []map[model.MemberID]bool
	for cur := s.t.ID; cur.IsValid(); cur = p.Type(cur).Base {
		for _, mid := range p.Type(cur).Members {
			implementers = append(implementers, s.closure(mid))
		}
	}
	related := func(a, b model.MemberID) bool {
		if s.closure(a)[b] || s.closure(b)[a] {
			return true
		}
		for _, c := range implementers {
			if c[a] && c[b] {
				return true
			}
		}
		return false
	}
	reported := make(map[string]bool)
	for i := range bases {
		for j := i + 1; j < len(bases); j++ {
			if p.DerivesFrom(bases[i], bases[j]) || p.DerivesFrom(bases[j], bases[i]) {
				continue
			}
			names := make([]string, 0, len(branches[i]))
			for n := range branches[i] {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				a := branches[i][n]
				b, ok := branches[j][n]
				if !ok || a == b || reported[n] || related(a, b) {
					continue
				}
				reported[n] = true
				ma, mb := p.Member(a), p.Member(b)
				s.r.report(diag.SemCollidingInheritedMember, diag.SevWarning, s.t.Span,
					"type %s inherits %q from both %s and %s", p.FullName(s.t.ID), n, p.FullName(ma.Owner), p.FullName(mb.Owner)).
					WithNote(ma.Span, "declared as "+p.MemberName(a)).
					WithNote(mb.Span, "declared as "+p.MemberName(b)).
					Emit()
			}
		}
	}
}

// preferred computes where m's name comes from. owner is the plan of the
// property or event when m is one of its accessors.
func (s *memberScope) preferred(m *model.Member, owner *plan) plan {
	facts := NameFacts{
		Markers:            m.Markers.Set(),
		OwnerPreservesCase: s.preserveCase,
		Minimize:           s.minimize,
		Visible:            s.r.prog.IsMemberExternallyVisible(m.ID),
		Static:             m.IsStatic(),
		OwnerInterface:     s.t.Kind == model.TypeInterface,
	}
	if owner != nil {
		facts.Accessor = true
		facts.AccessorOfMinimized = owner.source == NameMinimized
	}
	first := true
	for {
		d := DecideName(facts)
		if first {
			reportMarkers(s.r, d, m.Markers, s.what(m), nil)
			first = false
		}
		switch d.Strategy {
		case NameExplicit:
			mk, _ := m.Markers.Get(model.MarkerScriptName)
			if !jsname.IsValidIdentifier(mk.Arg) {
				s.r.report(diag.SemInvalidScriptName, diag.SevError, mk.Span, "%s: %q is not a valid script name", s.what(m), mk.Arg).Emit()
				facts.Markers &^= model.Of(model.MarkerScriptName)
				continue
			}
			return plan{m: m, name: mk.Arg, source: NameExplicit, explicit: true}
		case NamePreserveCase:
			return plan{m: m, name: m.Name, source: NamePreserveCase}
		case NameAccessorPattern:
			return plan{m: m, name: m.Role.Prefix() + owner.name, source: NameAccessorPattern, explicit: owner.explicit}
		case NameMinimized:
			return plan{m: m, source: NameMinimized}
		}
		return plan{m: m, name: jsname.CamelCase(m.Name), source: NameCamelCase}
	}
}

// claimName reserves the name of p in u. Explicit names are kept unless
// another member of the type or a reserved name already holds them; default
// names are made unique against everything visible.
func (s *memberScope) claimName(p plan, u *usedNames) string {
	if p.explicit && p.name != "" {
		holder, dup := u.ownedBy(p.name)
		switch {
		case dup && holder != p.m.ID:
			name := u.unique(p.name)
			s.r.report(diag.SemDuplicateScriptName, diag.SevError, p.m.Span,
				"%s: script name %q is already used by %s; using %q", s.what(p.m), p.name, s.r.prog.MemberName(holder), name).
				WithNote(s.r.prog.Member(holder).Span, "previous use").Emit()
			u.claim(name, true, p.m.ID)
			return name
		case u.reserved[p.name]:
			name := u.unique(p.name)
			s.r.report(diag.SemDuplicateScriptName, diag.SevError, p.m.Span,
				"%s: script name %q is reserved; using %q", s.what(p.m), p.name, name).Emit()
			u.claim(name, true, p.m.ID)
			return name
		}
		u.claim(p.name, true, p.m.ID)
		return p.name
	}
	name := u.unique(p.name)
	u.claim(name, false, p.m.ID)
	return name
}

// reuse records that m takes over an ancestor's name.
func (s *memberScope) reuse(m *model.Member, u *usedNames, name string) {
	if holder, dup := u.ownedBy(name); dup && holder != m.ID {
		s.r.report(diag.SemDuplicateScriptName, diag.SevError, m.Span,
			"%s: inherited script name %q is already used by %s", s.what(m), name, s.r.prog.MemberName(holder)).Emit()
		return
	}
	u.claim(name, false, m.ID)
}

func (s *memberScope) resolveConstructors() {
	var ctors []*model.Member
	for _, mid := range s.t.Members {
		if m := s.r.prog.Member(mid); m.Kind == model.MemberConstructor {
			ctors = append(ctors, m)
		}
	}
	sort.SliceStable(ctors, func(i, j int) bool {
		a, b := ctors[i], ctors[j]
		ea, eb := a.Markers.Has(model.MarkerScriptName), b.Markers.Has(model.MarkerScriptName)
		if ea != eb {
			return ea
		}
		if len(a.Params) != len(b.Params) {
			return len(a.Params) < len(b.Params)
		}
		if pa, pb := a.ParamTypes(), b.ParamTypes(); pa != pb {
			return pa < pb
		}
		return a.Order < b.Order
	})
	for _, c := range ctors {
		s.r.table.setMember(c.ID, s.resolveConstructor(c))
	}
}

func (s *memberScope) nextCtorName(id model.MemberID) (string, bool) {
	if !s.static.taken(UnnamedCtorName) {
		s.static.claim(UnnamedCtorName, false, id)
		return UnnamedCtorName, true
	}
	for i := 1; ; i++ {
		n := UnnamedCtorName + strconv.Itoa(i)
		if !s.static.taken(n) {
			s.static.claim(n, false, id)
			return n, false
		}
	}
}

func (s *memberScope) resolveConstructor(c *model.Member) ConstructorSemantics {
	d := DecideConstructor(CtorFacts{
		Markers:           c.Markers.Set(),
		OwnerSerializable: s.info.Serializable,
		OwnerImported:     !s.generatesCode,
	})
	if d.Strategy == CtorStaticFactory {
		// A factory keeps its explicit name.
		d.Ignored = slices.DeleteFunc(d.Ignored, func(k model.MarkerKind) bool { return k == model.MarkerScriptName })
	}
	reportMarkers(s.r, d, c.Markers, s.what(c), func(k model.MarkerKind) diag.Code {
		if k == model.MarkerObjectLiteral {
			return diag.SemObjectLiteralShape
		}
		return diag.SemMarkerConflict
	})
	gen := s.generatesCode
	explicitName := func() (string, bool) {
		mk, ok := c.Markers.Get(model.MarkerScriptName)
		if !ok {
			return "", false
		}
		if !jsname.IsValidIdentifier(mk.Arg) {
			s.r.report(diag.SemInvalidScriptName, diag.SevError, mk.Span, "%s: %q is not a valid script name", s.what(c), mk.Arg).Emit()
			return "", false
		}
		return s.claimName(plan{m: c, name: mk.Arg, source: NameExplicit, explicit: true}, s.static), true
	}
	switch d.Strategy {
	case CtorNotUsable:
		return NotUsableCtor{}
	case CtorInlineCode:
		mk, _ := c.Markers.Get(model.MarkerInlineCode)
		err := checkTemplate(mk.Arg, c)
		if err == nil {
			return InlineCtor{Template: mk.Arg}
		}
		s.r.report(diag.SemInvalidInlineCode, diag.SevError, mk.Span, "%s: %v", s.what(c), err).Emit()
	case CtorObjectLiteral:
		keys := make([]string, len(c.Params))
		for i, p := range c.Params {
			keys[i] = p.Name
		}
		return ObjectLiteralCtor{Keys: keys}
	case CtorStaticFactory:
		if name, ok := explicitName(); ok {
			return StaticFactory{Name: name, GenerateCode: gen}
		}
		name, _ := s.nextCtorName(c.ID)
		return StaticFactory{Name: name, GenerateCode: gen}
	case CtorNamed:
		if name, ok := explicitName(); ok {
			return NamedCtor{Name: name, GenerateCode: gen}
		}
	}
	name, unnamed := s.nextCtorName(c.ID)
	if unnamed {
		return UnnamedCtor{GenerateCode: gen}
	}
	return NamedCtor{Name: name, GenerateCode: gen}
}

func (s *memberScope) resolveOthers() {
	var plans []plan
	for _, mid := range s.t.Members {
		m := s.r.prog.Member(mid)
		if m.Kind == model.MemberConstructor || m.Role != model.RoleNone {
			continue
		}
		plans = append(plans, s.preferred(m, nil))
	}
	sort.SliceStable(plans, func(i, j int) bool {
		a, b := plans[i], plans[j]
		if a.explicit != b.explicit {
			return a.explicit
		}
		if a.name != b.name {
			return a.name < b.name
		}
		if ka, kb := kindRank(a.m.Kind), kindRank(b.m.Kind); ka != kb {
			return ka < kb
		}
		if len(a.m.Params) != len(b.m.Params) {
			return len(a.m.Params) < len(b.m.Params)
		}
		if pa, pb := a.m.ParamTypes(), b.m.ParamTypes(); pa != pb {
			return pa < pb
		}
		if a.m.Return != b.m.Return {
			return a.m.Return < b.m.Return
		}
		return a.m.Order < b.m.Order
	})

	var alternates []plan
	for _, p := range plans {
		switch p.m.Kind {
		case model.MemberMethod:
			d := DecideMethod(s.methodFacts(p.m))
			if d.Strategy == MethodAlternateSignature {
				reportMarkers(s.r, d, p.m.Markers, s.what(p.m), methodShape)
				alternates = append(alternates, p)
				continue
			}
			s.r.table.setMember(p.m.ID, s.resolveMethod(p, d))
		case model.MemberProperty, model.MemberIndexer:
			s.resolveProperty(p)
		case model.MemberField:
			s.r.table.setMember(p.m.ID, s.resolveField(p))
		case model.MemberEvent:
			s.resolveEvent(p)
		}
	}
	for _, p := range alternates {
		s.r.table.setMember(p.m.ID, s.resolveAlternate(p))
	}
}

func (s *memberScope) methodFacts(m *model.Member) MethodFacts {
	return MethodFacts{
		Markers:           m.Markers.Set(),
		Static:            m.IsStatic(),
		Params:            len(m.Params),
		OwnerSerializable: s.info.Serializable,
		OwnerImported:     !s.generatesCode,
	}
}

func methodShape(k model.MarkerKind) diag.Code {
	if k == model.MarkerScriptSkip {
		return diag.SemScriptSkipShape
	}
	return diag.SemMarkerConflict
}

func (s *memberScope) resolveMethod(p plan, d Decision[MethodStrategy]) MethodSemantics {
	m := p.m
	reportMarkers(s.r, d, m.Markers, s.what(m), methodShape)
	switch d.Strategy {
	case MethodNotUsable:
		if base := s.r.table.Method(m.Overrides); base != nil {
			if _, nu := base.(NotUsableMethod); !nu {
				s.r.report(diag.SemOverrideNotUsable, diag.SevWarning, m.Span,
					"%s: overrides %s but is not usable from script", s.what(m), s.r.prog.MemberName(m.Overrides)).Emit()
			}
		}
		return NotUsableMethod{}
	case MethodInlineCode:
		mk, _ := m.Markers.Get(model.MarkerInlineCode)
		if err := checkTemplate(mk.Arg, m); err != nil {
			s.r.report(diag.SemInvalidInlineCode, diag.SevError, mk.Span, "%s: %v", s.what(m), err).Emit()
			break
		}
		rec := InlineCode{Template: mk.Arg}
		if mk.Arg2 != "" {
			if jsname.IsValidIdentifier(mk.Arg2) {
				rec.GeneratedName = s.claimName(plan{m: m, name: mk.Arg2, explicit: true}, s.partition(m))
			} else {
				s.r.report(diag.SemInvalidScriptName, diag.SevError, mk.Span, "%s: %q is not a valid generated method name", s.what(m), mk.Arg2).Emit()
			}
		}
		return rec
	case MethodScriptSkip:
		if m.IsStatic() {
			return InlineCode{Template: "{" + m.Params[0].Name + "}"}
		}
		return InlineCode{Template: "{this}"}
	case MethodScriptAlias:
		mk, _ := m.Markers.Get(model.MarkerScriptAlias)
		args := make([]string, len(m.Params))
		for i, prm := range m.Params {
			if i == len(m.Params)-1 && m.Has(model.MemberParamArray) {
				args[i] = "{*" + prm.Name + "}"
			} else {
				args[i] = "{" + prm.Name + "}"
			}
		}
		return InlineCode{Template: mk.Arg + "(" + strings.Join(args, ", ") + ")"}
	case MethodInstanceOnFirstArgument:
		name := p.name
		if name == "" {
			name = jsname.CamelCase(m.Name)
		}
		return InstanceOnFirstArgument{Name: name}
	case MethodNativeIndexer:
		return NativeIndexerAccessor{}
	case MethodStaticWithReceiver:
		return StaticWithReceiverFirst{Name: s.claimName(p, s.static), GenerateCode: s.generates(m)}
	}
	return s.normalMethod(p)
}

func (s *memberScope) expandParams(m *model.Member) bool {
	mk, ok := m.Markers.Get(model.MarkerExpandParams)
	if !ok {
		return false
	}
	if !m.Has(model.MemberParamArray) {
		s.r.report(diag.SemExpandParamsShape, diag.SevWarning, mk.Span, "%s: expanded parameters need a trailing parameter array", s.what(m)).Emit()
		return false
	}
	return true
}

func (s *memberScope) normalMethod(p plan) MethodSemantics {
	m := p.m
	u := s.partition(m)
	rec := NormalMethod{
		GenerateCode:      s.generates(m),
		IgnoreGenericArgs: m.Markers.Has(model.MarkerIgnoreGenericArguments),
		ExpandParams:      s.expandParams(m),
	}
	if m.Overrides.IsValid() {
		switch base := s.r.table.Method(m.Overrides).(type) {
		case NormalMethod:
			if p.explicit && p.name != base.Name {
				s.r.report(diag.SemOverrideRename, diag.SevWarning, m.Span,
					"%s: script name %q differs from %q of overridden %s", s.what(m), p.name, base.Name, s.r.prog.MemberName(m.Overrides)).
					WithNote(s.r.prog.Member(m.Overrides).Span, "overridden member").Emit()
				rec.Name = s.claimName(p, u)
				return rec
			}
			base.GenerateCode = rec.GenerateCode
			s.reuse(m, u, base.Name)
			return base
		case nil, NotUsableMethod:
			s.r.report(diag.SemOverrideNotUsable, diag.SevWarning, m.Span,
				"%s: overridden %s is not usable from script", s.what(m), s.r.prog.MemberName(m.Overrides)).Emit()
		default:
			return base
		}
	}
	if len(m.Implements) > 0 {
		if name, ok := s.implementedName(p, u); ok {
			rec.Name = name
			return rec
		}
	}
	rec.Name = s.claimName(p, u)
	return rec
}

// implementedName picks the name an implementation must carry. When the
// implemented members disagree, the first one in (type name, key) order wins.
func (s *memberScope) implementedName(p plan, u *usedNames) (string, bool) {
	prog := s.r.prog
	m := p.m
	targets := append([]model.MemberID(nil), m.Implements...)
	sort.Slice(targets, func(i, j int) bool {
		a, b := prog.Member(targets[i]), prog.Member(targets[j])
		if fa, fb := prog.FullName(a.Owner), prog.FullName(b.Owner); fa != fb {
			return fa < fb
		}
		return a.Key < b.Key
	})
	type candidate struct {
		id   model.MemberID
		name string
	}
	var cands []candidate
	seen := make(map[string]bool)
	for _, id := range targets {
		n := NameOf(s.r.table.Member(id))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		cands = append(cands, candidate{id: id, name: n})
	}
	if len(cands) == 0 {
		return "", false
	}
	winner := cands[0]
	if len(cands) > 1 {
		parts := make([]string, len(cands))
		for i, c := range cands {
			parts[i] = fmt.Sprintf("%q (%s)", c.name, prog.MemberName(c.id))
		}
		b := s.r.report(diag.SemDifferingScriptName, diag.SevError, m.Span,
			"%s implements members with differing script names %s; using %q", s.what(m), strings.Join(parts, ", "), winner.name)
		for _, c := range cands {
			b.WithNote(prog.Member(c.id).Span, "implemented member "+prog.MemberName(c.id))
		}
		b.Emit()
	}
	if p.explicit && p.name != winner.name {
		s.r.report(diag.SemImplementationRename, diag.SevWarning, m.Span,
			"%s: script name %q differs from %q of implemented %s", s.what(m), p.name, winner.name, prog.MemberName(winner.id)).
			WithNote(prog.Member(winner.id).Span, "implemented member").Emit()
		return s.claimName(p, u), true
	}
	if holder, dup := u.ownedBy(winner.name); dup && holder != m.ID {
		name := u.unique(winner.name)
		s.r.report(diag.SemDifferingScriptName, diag.SevError, m.Span,
			"%s must be named %q to implement %s, but %s already uses that name; using %q",
			s.what(m), winner.name, prog.MemberName(winner.id), prog.MemberName(holder), name).
			WithNote(prog.Member(holder).Span, "name taken here").Emit()
		u.claim(name, false, m.ID)
		return name, true
	}
	u.claim(winner.name, false, m.ID)
	return winner.name, true
}

func (s *memberScope) resolveAlternate(p plan) MethodSemantics {
	m := p.m
	var mains []model.MemberID
	for _, mid := range s.t.Members {
		x := s.r.prog.Member(mid)
		if x.ID != m.ID && x.Kind == model.MemberMethod && x.Role == model.RoleNone &&
			x.Name == m.Name && !x.Markers.Has(model.MarkerAlternateSignature) {
			mains = append(mains, mid)
		}
	}
	if len(mains) == 1 {
		switch main := s.r.table.Method(mains[0]).(type) {
		case NormalMethod:
			main.GenerateCode = false
			return main
		case nil:
		default:
			return main
		}
	}
	mk, _ := m.Markers.Get(model.MarkerAlternateSignature)
	s.r.report(diag.SemAlternateSignatureMain, diag.SevError, mk.Span,
		"%s: alternate signature needs exactly one main overload, found %d", s.what(m), len(mains)).Emit()
	rec := s.normalMethod(p)
	if nm, ok := rec.(NormalMethod); ok {
		nm.GenerateCode = false
		return nm
	}
	return rec
}

func (s *memberScope) resolveProperty(p plan) {
	m := p.m
	tab := s.r.table
	setAccessors := func(rec MethodSemantics) {
		for _, id := range []model.MemberID{m.Getter, m.Setter} {
			if id.IsValid() {
				tab.setMember(id, rec)
			}
		}
	}
	if m.Overrides.IsValid() {
		switch base := tab.Property(m.Overrides).(type) {
		case FieldBackedProperty:
			s.reuse(m, s.partition(m), base.Name)
			tab.setMember(m.ID, base)
			setAccessors(NotUsableMethod{})
			return
		case NativeAccessor:
			tab.setMember(m.ID, base)
			setAccessors(NativeIndexerAccessor{})
			return
		}
	}
	d := DecideProperty(PropertyFacts{
		Markers:           m.Markers.Set(),
		Indexer:           m.Kind == model.MemberIndexer,
		Params:            len(m.Params),
		Static:            m.IsStatic(),
		Virtual:           m.Has(model.MemberVirtual) || m.Has(model.MemberAbstract) || m.Has(model.MemberOverride),
		OwnerInterface:    s.t.Kind == model.TypeInterface,
		OwnerSerializable: s.info.Serializable,
	})
	reportMarkers(s.r, d, m.Markers, s.what(m), func(k model.MarkerKind) diag.Code {
		if k == model.MarkerIntrinsicProperty {
			return diag.SemIntrinsicPropertyShape
		}
		return diag.SemMarkerConflict
	})
	switch d.Strategy {
	case PropertyNotUsable:
		tab.setMember(m.ID, NotUsableProperty{})
		setAccessors(NotUsableMethod{})
	case PropertyNativeIndexer:
		tab.setMember(m.ID, NativeAccessor{})
		setAccessors(NativeIndexerAccessor{})
	case PropertyField:
		tab.setMember(m.ID, FieldBackedProperty{Name: s.claimName(p, s.partition(m))})
		setAccessors(NotUsableMethod{})
	default:
		rec := Accessors{Getter: s.resolveAccessor(m.Getter, p)}
		if m.Setter.IsValid() {
			rec.Setter = s.resolveAccessor(m.Setter, p)
		}
		tab.setMember(m.ID, rec)
	}
}

func (s *memberScope) resolveAccessor(id model.MemberID, owner plan) MethodSemantics {
	acc := s.r.prog.Member(id)
	ap := s.preferred(acc, &owner)
	rec := s.resolveMethod(ap, DecideMethod(s.methodFacts(acc)))
	s.r.table.setMember(id, rec)
	return rec
}

func (s *memberScope) resolveField(p plan) FieldSemantics {
	m := p.m
	// Enum members and resources keep a storage name; their values are
	// emitted as tables rather than inlined.
	stored := s.t.Kind == model.TypeEnum || s.info.Strategy == TypeResources
	d := DecideField(FieldFacts{
		Markers:          m.Markers.Set(),
		Const:            m.Has(model.MemberConst) && !stored,
		HasConstant:      m.Constant != nil,
		OwnerNamedValues: s.info.NamedValues,
	})
	reportMarkers(s.r, d, m.Markers, s.what(m), func(k model.MarkerKind) diag.Code {
		if k == model.MarkerInlineConstant {
			return diag.SemInvalidInlineCode
		}
		return diag.SemMarkerConflict
	})
	switch d.Strategy {
	case FieldNotUsable:
		return NotUsableField{}
	case FieldNamedValue:
		name := s.claimName(p, s.partition(m))
		return LiteralConstant{Value: model.Constant{Kind: model.ConstString, Str: name}}
	case FieldConstant:
		return LiteralConstant{Value: *m.Constant}
	}
	return FieldBacked{Name: s.claimName(p, s.partition(m))}
}

func (s *memberScope) resolveEvent(p plan) {
	m := p.m
	tab := s.r.table
	d := DecideEvent(EventFacts{Markers: m.Markers.Set()})
	reportMarkers(s.r, d, m.Markers, s.what(m), nil)
	if d.Strategy == EventNotUsable {
		tab.setMember(m.ID, NotUsableEvent{})
		for _, id := range []model.MemberID{m.Adder, m.Remover} {
			if id.IsValid() {
				tab.setMember(id, NotUsableMethod{})
			}
		}
		return
	}
	tab.setMember(m.ID, AddRemove{
		Adder:   s.resolveAccessor(m.Adder, p),
		Remover: s.resolveAccessor(m.Remover, p),
	})
}

// checkTemplate validates the placeholders of an inline-code template:
// {this}, {param}, {*param} for expanded parameter arrays and {$Type} for
// type references. Doubled braces are literal.
func checkTemplate(tmpl string, m *model.Member) error {
	params := make(map[string]bool, len(m.Params))
	for _, p := range m.Params {
		params[p.Name] = true
	}
	for i := 0; i < len(tmpl); i++ {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return fmt.Errorf("unterminated placeholder in %q", tmpl)
			}
			name := tmpl[i+1 : i+end]
			switch {
			case name == "this":
				if m.IsStatic() && m.Kind != model.MemberConstructor {
					return fmt.Errorf("{this} in a static member template %q", tmpl)
				}
			case strings.HasPrefix(name, "$"):
				if !jsname.IsValidNestedIdentifier(strings.ReplaceAll(name[1:], "`", "_")) {
					return fmt.Errorf("invalid type placeholder {%s}", name)
				}
			case strings.HasPrefix(name, "*"):
				if !params[name[1:]] || !m.Has(model.MemberParamArray) || m.Params[len(m.Params)-1].Name != name[1:] {
					return fmt.Errorf("{%s} does not name the parameter array", name)
				}
			case !params[name]:
				return fmt.Errorf("unknown placeholder {%s}", name)
			}
			i += end
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				i++
				continue
			}
			return fmt.Errorf("unbalanced '}' in %q", tmpl)
		}
	}
	return nil
}
