package semantics

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
)

// TypeInfo holds the effective type-level facts after marker validation.
// A marker that failed validation is not reflected here.
type TypeInfo struct {
	Strategy     TypeStrategy
	Serializable bool
	NamedValues  bool
}

// Table is the published result of resolution: one record per type and
// member. It is read-only once Resolve returns and safe for concurrent reads.
type Table struct {
	prog    *model.Program
	types   []TypeSemantics
	info    []TypeInfo
	members []Record
}

func newTable(prog *model.Program) *Table {
	return &Table{
		prog:    prog,
		types:   make([]TypeSemantics, prog.TypeCount()+1),
		info:    make([]TypeInfo, prog.TypeCount()+1),
		members: make([]Record, prog.MemberCount()+1),
	}
}

func (t *Table) Program() *model.Program { return t.prog }

func (t *Table) setType(id model.TypeID, rec TypeSemantics, info TypeInfo) {
	if t.types[id] != nil {
		panic(fmt.Sprintf("semantics: type %s resolved twice", t.prog.FullName(id)))
	}
	t.types[id] = rec
	t.info[id] = info
}

func (t *Table) setMember(id model.MemberID, rec Record) {
	if t.members[id] != nil {
		panic(fmt.Sprintf("semantics: member %s resolved twice", t.prog.MemberName(id)))
	}
	t.members[id] = rec
}

func (t *Table) hasMember(id model.MemberID) bool { return t.members[id] != nil }

// Type returns the record of a type.
func (t *Table) Type(id model.TypeID) TypeSemantics {
	if int(id) >= len(t.types) {
		return nil
	}
	return t.types[id]
}

func (t *Table) Info(id model.TypeID) TypeInfo {
	if int(id) >= len(t.info) {
		return TypeInfo{}
	}
	return t.info[id]
}

// Member returns the record of any member.
func (t *Table) Member(id model.MemberID) Record {
	if int(id) >= len(t.members) {
		return nil
	}
	return t.members[id]
}

// Method returns the record of a method or accessor; nil for other kinds.
func (t *Table) Method(id model.MemberID) MethodSemantics {
	r, _ := t.Member(id).(MethodSemantics)
	return r
}

func (t *Table) Constructor(id model.MemberID) ConstructorSemantics {
	r, _ := t.Member(id).(ConstructorSemantics)
	return r
}

func (t *Table) Property(id model.MemberID) PropertySemantics {
	r, _ := t.Member(id).(PropertySemantics)
	return r
}

func (t *Table) Field(id model.MemberID) FieldSemantics {
	r, _ := t.Member(id).(FieldSemantics)
	return r
}

func (t *Table) Event(id model.MemberID) EventSemantics {
	r, _ := t.Member(id).(EventSemantics)
	return r
}

// TypeName returns the script name of a usable type.
func (t *Table) TypeName(id model.TypeID) (string, bool) {
	nt, ok := t.Type(id).(NormalType)
	return nt.Name, ok
}

// Dump writes every record in resolver order: types by module and full
// name, members in declaration order.
func (t *Table) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range t.prog.SortedTypes() {
		typ := t.prog.Type(id)
		mod := t.prog.Module(typ.Module)
		fmt.Fprintf(bw, "%s %s [%s] => %s\n", typ.Kind, t.prog.FullName(id), mod.Name, t.Type(id))
		for _, mid := range typ.Members {
			m := t.prog.Member(mid)
			name := m.Name
			switch m.Kind {
			case model.MemberMethod, model.MemberConstructor, model.MemberIndexer:
				name += "(" + m.ParamTypes() + ")"
			}
			fmt.Fprintf(bw, "  %s %s => %s\n", m.Kind, name, t.Member(mid))
		}
	}
	return bw.Flush()
}
