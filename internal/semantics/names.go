package semantics

import (
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// Names every type function and every prototype already carries.
var (
	reservedStatic   = []string{"prototype", "name", "length", "caller", "arguments", "call", "apply", "bind", "__typeName", "__baseType", "__interfaces", "__metadata"}
	reservedInstance = []string{"constructor"}
)

// usedNames is the used-name table of one partition (static or instance) of
// one type. Values record whether a name was explicitly specified.
type usedNames struct {
	names    map[string]bool
	own      map[string]model.MemberID
	reserved map[string]bool
}

func newUsedNames(reserved []string) *usedNames {
	u := &usedNames{
		names:    make(map[string]bool),
		own:      make(map[string]model.MemberID),
		reserved: make(map[string]bool, len(reserved)),
	}
	for _, n := range reserved {
		u.names[n] = true
		u.reserved[n] = true
	}
	return u
}

func (u *usedNames) taken(name string) bool {
	_, ok := u.names[name]
	return ok
}

// inherit marks a name used by an ancestor.
func (u *usedNames) inherit(name string) {
	if _, ok := u.names[name]; !ok {
		u.names[name] = false
	}
}

func (u *usedNames) claim(name string, explicit bool, id model.MemberID) {
	u.names[name] = u.names[name] || explicit
	u.own[name] = id
}

// ownedBy returns the own member already holding name.
func (u *usedNames) ownedBy(name string) (model.MemberID, bool) {
	id, ok := u.own[name]
	return id, ok
}

func (u *usedNames) unique(preferred string) string {
	return jsname.UniqueName(preferred, u.taken)
}
