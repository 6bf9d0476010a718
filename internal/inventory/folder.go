package inventory

import "sort"

// Folder is one entry in a connector's flat folder inventory, identified by
// its storage path. CollectionGUID is non-empty when the folder is already
// mapped to an existing collection.
type Folder struct {
	GUID           string
	Path           string
	ObjectCount    int64
	TotalSize      int64
	CollectionGUID string
}

// IsMapped reports whether the folder is already bound to a collection.
func (f Folder) IsMapped() bool {
	return f.CollectionGUID != ""
}

// Snapshot is the immutable folder inventory a single mapping session works
// against. Folders are sorted by path and de-duplicated; the first record
// wins on a duplicate path.
type Snapshot struct {
	folders []Folder
	byPath  map[string]Folder
}

// NewSnapshot builds a snapshot from a flat folder list.
func NewSnapshot(folders []Folder) *Snapshot {
	sorted := make([]Folder, len(folders))
	copy(sorted, folders)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Path < sorted[j].Path
	})

	s := &Snapshot{
		folders: make([]Folder, 0, len(sorted)),
		byPath:  make(map[string]Folder, len(sorted)),
	}

	for _, f := range sorted {
		if _, dup := s.byPath[f.Path]; dup {
			continue
		}
		s.byPath[f.Path] = f
		s.folders = append(s.folders, f)
	}

	return s
}

// Folders returns the records sorted by path. The returned slice must not be
// modified.
func (s *Snapshot) Folders() []Folder {
	return s.folders
}

// ByPath looks up the folder record for an exact path.
func (s *Snapshot) ByPath(path string) (Folder, bool) {
	f, ok := s.byPath[path]
	return f, ok
}

// MappedPaths returns the sorted paths of folders already bound to a
// collection.
func (s *Snapshot) MappedPaths() []string {
	var paths []string
	for _, f := range s.folders {
		if f.IsMapped() {
			paths = append(paths, f.Path)
		}
	}

	return paths
}

// Len returns the number of folder records.
func (s *Snapshot) Len() int {
	return len(s.folders)
}
