package catalog

import "sort"

// Namespace name table, adapted from the runtime's CLONE_NEW* namespace
// table: there it chose which namespaces a container process entered or
// created, here it validates and enumerates RestrictNamespaces= candidates.
var namespaceMap = map[string]struct{}{
	"cgroup": {},
	"ipc":    {},
	"net":    {},
	"mnt":    {},
	"pid":    {},
	"user":   {},
	"uts":    {},
}

// IsKnownNamespace reports whether name is a recognized systemd namespace
// short name (the vocabulary accepted by RestrictNamespaces=).
func IsKnownNamespace(name string) bool {
	_, ok := namespaceMap[name]
	return ok
}

// AllNamespaceNames returns every known namespace short name in sorted order, so
// catalog output built from it is deterministic.
func AllNamespaceNames() []string {
	names := make([]string, 0, len(namespaceMap))
	for name := range namespaceMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
