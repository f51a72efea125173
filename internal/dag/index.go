package dag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

// NodeID is a dense node index in a Graph.
type NodeID uint32

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}

// Node converts a slice index into a NodeID.
func Node(i int) NodeID { return nodeID(i) }

type ModuleIndex struct {
	NameToID map[string]NodeID
	IDToName []string
}

// BuildIndex collects every module name, declared or referenced, sorts them
// and hands out ids in that order.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Name != "" {
			uniq[meta.Name] = struct{}{}
		}
		for _, ref := range meta.References {
			if ref.Name == "" {
				continue
			}
			uniq[ref.Name] = struct{}{}
		}
	}

	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]NodeID, len(names))
	for i, name := range names {
		nameToID[name] = nodeID(i)
	}

	return ModuleIndex{
		NameToID: nameToID,
		IDToName: names,
	}
}
