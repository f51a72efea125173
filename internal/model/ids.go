package model

// ModuleID identifies a module (compilation unit) in the program arena.
type ModuleID uint32

// TypeID identifies a declared type in the program arena.
type TypeID uint32

// MemberID identifies a member (method, constructor, property, field, event).
type MemberID uint32

const (
	NoModuleID ModuleID = 0
	NoTypeID   TypeID   = 0
	NoMemberID MemberID = 0
)

// IsValid reports whether the id refers to an allocated module.
func (id ModuleID) IsValid() bool { return id != NoModuleID }

// IsValid reports whether the id refers to an allocated type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// IsValid reports whether the id refers to an allocated member.
func (id MemberID) IsValid() bool { return id != NoMemberID }
