package testkit

import (
	"errors"
	"fmt"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/jsname"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/model"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/semantics"
)

// CheckTable runs a minimal set of invariants on a resolved semantics table:
// 1) every type and every member carries a record
// 2) every usable type name is empty or a dotted path of identifiers
// 3) every name a member record claims is a legal identifier
//
// All violations are joined into the returned error.
func CheckTable(tab *semantics.Table) error {
	if tab == nil {
		return fmt.Errorf("nil table")
	}
	prog := tab.Program()
	if prog == nil {
		return fmt.Errorf("table has no program")
	}

	var errs []error
	for _, id := range prog.Types() {
		rec := tab.Type(id)
		if rec == nil {
			errs = append(errs, fmt.Errorf("type %s: no record", prog.FullName(id)))
			continue
		}
		if nt, ok := rec.(semantics.NormalType); ok && nt.Name != "" && !jsname.IsValidNestedIdentifier(nt.Name) {
			errs = append(errs, fmt.Errorf("type %s: invalid script name %q", prog.FullName(id), nt.Name))
		}
		for _, mid := range prog.Type(id).Members {
			if err := checkMember(tab, mid); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func checkMember(tab *semantics.Table, id model.MemberID) error {
	prog := tab.Program()
	rec := tab.Member(id)
	if rec == nil {
		return fmt.Errorf("member %s: no record", prog.MemberName(id))
	}
	name := semantics.NameOf(rec)
	if name == "" {
		return nil
	}
	if !jsname.IsValidIdentifier(name) {
		return fmt.Errorf("member %s: invalid script name %q", prog.MemberName(id), name)
	}
	return nil
}
