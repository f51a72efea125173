package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Semantics resolver
	SemInfo                     Code = 3000
	SemInvalidScriptName        Code = 3001
	SemMarkerConflict           Code = 3002
	SemSerializableBase         Code = 3003
	SemSerializableInterfaces   Code = 3004
	SemSerializableVirtual      Code = 3005
	SemSerializableInstanceEvnt Code = 3006
	SemMixinNotStatic           Code = 3007
	SemMixinNonMethod           Code = 3008
	SemGlobalMethodsNotStatic   Code = 3009
	SemCollidingInheritedMember Code = 3010
	SemOverrideRename           Code = 3011
	SemDifferingScriptName      Code = 3012
	SemImplementationRename     Code = 3013
	SemDuplicateScriptName      Code = 3014
	SemResourcesShape           Code = 3015
	SemInvalidInlineCode        Code = 3016
	SemIntrinsicPropertyShape   Code = 3017
	SemExpandParamsShape        Code = 3018
	SemObjectLiteralShape       Code = 3019
	SemScriptSkipShape          Code = 3020
	SemAlternateSignatureMain   Code = 3021
	SemOverrideNotUsable        Code = 3022

	// Assembler, scheduler, linker
	LnkInfo                  Code = 4000
	LnkInternalTypeSemantics Code = 4001
	LnkInitCycle             Code = 4002
	LnkOrphanFragment        Code = 4003
	LnkMissingBody           Code = 4004
	LnkUnknownModule         Code = 4005

	// Project
	ProjInfo             Code = 5000
	ProjDuplicateModule  Code = 5001
	ProjMissingModule    Code = 5002
	ProjSelfImport       Code = 5003
	ProjImportCycle      Code = 5004
	ProjDependencyFailed Code = 5005
	ProjManifest         Code = 5006

	// Input
	IOInfo           Code = 6000
	IOLoadModelError Code = 6001

	// Observability
	ObsInfo    Code = 7000
	ObsTimings Code = 7001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	SemInfo:                     "Semantics information",
	SemInvalidScriptName:        "Invalid script name",
	SemMarkerConflict:           "Conflicting markers",
	SemSerializableBase:         "Serializable type must derive from Object or a serializable type",
	SemSerializableInterfaces:   "Serializable type cannot implement interfaces",
	SemSerializableVirtual:      "Serializable type cannot declare virtual or override members",
	SemSerializableInstanceEvnt: "Serializable type cannot declare instance events",
	SemMixinNotStatic:           "Mixin type must be static",
	SemMixinNonMethod:           "Mixin type may only declare methods",
	SemGlobalMethodsNotStatic:   "Global methods type must be static",
	SemCollidingInheritedMember: "Colliding inherited member",
	SemOverrideRename:           "Override specifies a different script name",
	SemDifferingScriptName:      "Member implements members with differing script names",
	SemImplementationRename:     "Implementation name differs from implemented member",
	SemDuplicateScriptName:      "Duplicate script name",
	SemResourcesShape:           "Resources type may only declare constant fields",
	SemInvalidInlineCode:        "Invalid inline code or constant",
	SemIntrinsicPropertyShape:   "Intrinsic property has an invalid shape",
	SemExpandParamsShape:        "Expanded parameters require a trailing parameter array",
	SemObjectLiteralShape:       "Object literal constructor has an invalid shape",
	SemScriptSkipShape:          "Skipped method has an invalid shape",
	SemAlternateSignatureMain:   "Alternate signature without a main overload",
	SemOverrideNotUsable:        "Override of a member that is not usable from script",
	LnkInfo:                     "Linker information",
	LnkInternalTypeSemantics:    "Internal error: type reference to non-normal type",
	LnkInitCycle:                "Static initialization cycle",
	LnkOrphanFragment:           "Fragment for a member without generated code",
	LnkMissingBody:              "Generated member has no body fragment",
	LnkUnknownModule:            "Unknown module",
	ProjInfo:                    "Project information",
	ProjDuplicateModule:         "Duplicate module definition",
	ProjMissingModule:           "Missing module",
	ProjSelfImport:              "Module imports itself",
	ProjImportCycle:             "Import cycle detected",
	ProjDependencyFailed:        "Referenced module has errors",
	ProjManifest:                "Invalid project manifest",
	IOInfo:                      "Input information",
	IOLoadModelError:            "Symbol model load error",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LNK%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
