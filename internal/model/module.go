package model

// Module is one loaded executable image (main binary or dynamic library)
// observed in the target. It is created on the first debug event
// indicating that image's load, and is never destroyed for the lifetime
// of the Run — even if it later unloads, its accumulated coverage persists.
type Module struct {
	Path  string
	Rate  Rate
	files []*File
	byKey map[string]*File
}

func newModule(path string) *Module {
	return &Module{Path: path, byKey: make(map[string]*File)}
}

// AddFile returns the File for path, creating it (in first-seen order) if
// this is the first time the Module has been told about it.
func (m *Module) AddFile(path string) *File {
	if f, ok := m.byKey[path]; ok {
		return f
	}
	f := newFile(path)
	m.byKey[path] = f
	m.files = append(m.files, f)
	return f
}

// Files returns the Module's Files in the order they were first added.
func (m *Module) Files() []*File {
	return m.files
}

func (m *Module) computeRate() Rate {
	var r Rate
	for _, f := range m.files {
		r = r.add(f.computeRate())
	}
	m.Rate = r
	return r
}
