package takeout

import "time"

// Media accumulates everything the first pass has learned about one
// logical photo, keyed only by its canonical name: the recorded capture
// time (from a JSON sidecar, if any), whether an original and/or edited
// variant were seen anywhere in the archive, and every album directory
// that referenced it — duplicates included, since the same photo can sit
// in more than one album export.
type Media struct {
	Name        string
	DateTaken   time.Time
	HasOriginal bool
	HasEdited   bool
	Albums      []string
}

// MediaStore is the result of the first pass over a takeout archive: a map
// from canonical name to everything known about that photo, built once and
// consulted read-only during the second, streaming pass.
type MediaStore struct {
	byName map[string]*Media
	order  []string
}

func newMediaStore() *MediaStore {
	return &MediaStore{byName: make(map[string]*Media)}
}

func (s *MediaStore) getOrInsert(name string) *Media {
	m, ok := s.byName[name]
	if !ok {
		m = &Media{Name: name}
		s.byName[name] = m
		s.order = append(s.order, name)
	}
	return m
}

func (s *MediaStore) get(name string) (*Media, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// addMetadata records a sidecar's capture time against name and appends
// album to its album list (duplicates preserved).
func (s *MediaStore) addMetadata(name, album string, dateTaken time.Time) {
	m := s.getOrInsert(name)
	m.DateTaken = dateTaken
	m.Albums = append(m.Albums, album)
}

// addOriginal marks name as having an original variant and appends album.
func (s *MediaStore) addOriginal(name, album string) {
	m := s.getOrInsert(name)
	m.HasOriginal = true
	m.Albums = append(m.Albums, album)
}

// addEdited marks name as having an edited variant and appends album.
func (s *MediaStore) addEdited(name, album string) {
	m := s.getOrInsert(name)
	m.HasEdited = true
	m.Albums = append(m.Albums, album)
}

// Len reports how many distinct canonical names the first pass found.
func (s *MediaStore) Len() int { return len(s.order) }
