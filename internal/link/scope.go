package link

import (
	"slices"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsast"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
)

// scope is one lexical scope: the module root, a function or a catch clause.
type scope struct {
	parent   *scope
	children []*scope
	catch    bool
	declared map[string]bool
	refs     map[string]bool
	// used is every name declared or referenced in the scope or below.
	used    map[string]bool
	renames map[string]string
}

func newScope(parent *scope, catch bool) *scope {
	s := &scope{parent: parent, catch: catch, declared: map[string]bool{}, refs: map[string]bool{}, renames: map[string]string{}}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// lookup returns the nearest scope declaring name, or nil.
func (s *scope) lookup(name string) *scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.declared[name] {
			return cur
		}
	}
	return nil
}

// varScope is where a var-style binding made in s lands.
func (s *scope) varScope() *scope {
	cur := s
	for cur.catch {
		cur = cur.parent
	}
	return cur
}

func (s *scope) collectUsed() map[string]bool {
	s.used = make(map[string]bool, len(s.declared)+len(s.refs))
	for n := range s.declared {
		s.used[n] = true
	}
	for n := range s.refs {
		s.used[n] = true
	}
	for _, c := range s.children {
		for n := range c.collectUsed() {
			s.used[n] = true
		}
	}
	return s.used
}

// tracker follows the walker through the scope tree. The first walk builds
// the tree; later walks replay it in the same order.
type tracker struct {
	root    *scope
	cur     *scope
	order   []*scope
	next    int
	build   bool
	pending bool // the next binding is the catch parameter
}

func newTracker() *tracker {
	root := newScope(nil, false)
	return &tracker{root: root, cur: root, order: []*scope{root}, next: 1, build: true}
}

func (t *tracker) replay() {
	t.cur, t.next, t.build, t.pending = t.root, 1, false, false
}

func (t *tracker) enter(catch bool) {
	if t.build {
		s := newScope(t.cur, catch)
		t.order = append(t.order, s)
		t.cur = s
	} else {
		t.cur = t.order[t.next]
	}
	t.next++
}

func (t *tracker) leave() { t.cur = t.cur.parent }

// bindScope returns the scope a binding belongs to and consumes a pending
// catch parameter.
func (t *tracker) bindScope() *scope {
	if t.pending {
		t.pending = false
		return t.cur
	}
	return t.cur.varScope()
}

// visitor wires the tracker into a jsast.Visitor; bind and expr run inside
// the current scope.
func (t *tracker) visitor(bind func(s *scope, name string) string, expr func(s *scope, e jsast.Expr) jsast.Expr) *jsast.Visitor {
	return &jsast.Visitor{
		EnterFunction: func(*jsast.Function) { t.enter(false) },
		LeaveFunction: func(*jsast.Function) { t.leave() },
		EnterCatch: func(s *jsast.STry) {
			t.enter(true)
			t.pending = s.CatchParam != ""
		},
		LeaveCatch: func(*jsast.STry) { t.leave() },
		Bind: func(name string) string {
			return bind(t.bindScope(), name)
		},
		Expr: func(e jsast.Expr) jsast.Expr {
			return expr(t.cur, e)
		},
	}
}

// renamer picks replacements for locals that would hide an introduced name.
type renamer struct {
	introduced map[string]bool
	chosen     map[string]bool
}

// rename records that name, declared in s, must be replaced.
func (r *renamer) rename(s *scope, name string) {
	if _, done := s.renames[name]; done {
		return
	}
	s.renames[name] = ""
}

// assign chooses the replacements in scope pre-order and sorted name order.
func (r *renamer) assign(order []*scope) {
	for _, s := range order {
		names := make([]string, 0, len(s.renames))
		for n := range s.renames {
			names = append(names, n)
		}
		slices.Sort(names)
		for _, n := range names {
			repl := jsname.UniqueName(n, func(c string) bool {
				return s.used[c] || r.introduced[c] || r.chosen[c] || jsname.IsReservedWord(c)
			})
			r.chosen[repl] = true
			s.renames[n] = repl
		}
	}
}
