package words

import (
	"log/slog"
	"strings"
	"sync"

	"forthic/internal/errors"
	"forthic/internal/value"
)

// Module is a namespace of words and variables. Modules can import other
// modules, optionally under a prefix, and only exported words are visible
// through an import.
type Module struct {
	name string

	mu        sync.RWMutex
	words     map[string]Word
	variables map[string]*Variable
	exported  map[string]struct{}
	imports   []moduleImport
	registry  map[string]*Module
}

type moduleImport struct {
	module *Module
	prefix string
}

func NewModule(name string) *Module {
	return &Module{
		name:      name,
		words:     map[string]Word{},
		variables: map[string]*Variable{},
		exported:  map[string]struct{}{},
		registry:  map[string]*Module{},
	}
}

func (m *Module) Name() string { return m.name }

// AddWord registers a word under its name, shadowing any previous word with
// the same name.
func (m *Module) AddWord(w Word) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[w.Name()] = w
}

// AddExportableWord registers a word and marks it exported.
func (m *Module) AddExportableWord(w Word) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.words[w.Name()] = w
	m.exported[w.Name()] = struct{}{}
}

// AddMemoWords wraps a word in a memo and registers it together with its
// "NAME!" and "NAME!@" companions. The companions share the word's export
// status.
func (m *Module) AddMemoWords(inner Word, exported bool) *MemoWord {
	memo := NewMemoWord(inner)
	bang := NewMemoBangWord(memo)
	bangAt := NewMemoBangAtWord(memo)
	if exported {
		m.AddExportableWord(memo)
		m.AddExportableWord(bang)
		m.AddExportableWord(bangAt)
	} else {
		m.AddWord(memo)
		m.AddWord(bang)
		m.AddWord(bangAt)
	}
	return memo
}

// ExportWord marks a word name as visible through imports.
func (m *Module) ExportWord(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exported[name] = struct{}{}
}

func (m *Module) IsExported(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.exported[name]
	return ok
}

// ImportModule adds other to the import list under the given prefix. An
// empty prefix imports without qualification. Re-importing a module already
// on the list updates its prefix instead of adding a duplicate.
func (m *Module) ImportModule(other *Module, prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, imp := range m.imports {
		if imp.module == other {
			m.imports[i].prefix = prefix
			return
		}
	}
	m.imports = append(m.imports, moduleImport{module: other, prefix: prefix})
	slog.Debug("module import", "into", m.name, "imported", other.name, "prefix", prefix)
}

// FindWord resolves a word name. Local words win; then imports are tried in
// order. A prefixed import only matches names of the form "prefix.rest" and
// the rest must be exported by the imported module; an unprefixed import
// matches the name directly, again requiring export.
func (m *Module) FindWord(name string) (Word, error) {
	m.mu.RLock()
	if w, ok := m.words[name]; ok {
		m.mu.RUnlock()
		return w, nil
	}
	imports := make([]moduleImport, len(m.imports))
	copy(imports, m.imports)
	m.mu.RUnlock()

	for _, imp := range imports {
		target := name
		if imp.prefix != "" {
			rest, ok := strings.CutPrefix(name, imp.prefix+".")
			if !ok {
				continue
			}
			target = rest
		}
		if !imp.module.IsExported(target) {
			continue
		}
		if _, err := imp.module.FindWord(target); err != nil {
			continue
		}
		return NewImportedWord(name, imp.module, target), nil
	}
	return nil, &errors.UnknownWord{Word: name}
}

// DeclareVariable creates a variable holding NULL if it does not exist yet.
func (m *Module) DeclareVariable(name string) *Variable {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.variables[name]; ok {
		return v
	}
	v := NewVariable(name)
	m.variables[name] = v
	return v
}

// GetVariable returns a declared variable or UnknownVariable.
func (m *Module) GetVariable(name string) (*Variable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.variables[name]; ok {
		return v, nil
	}
	return nil, &errors.UnknownVariable{Name: name}
}

// SetVariable assigns to a declared variable; assigning to an undeclared
// name fails with UnknownVariable.
func (m *Module) SetVariable(name string, val value.Value) error {
	v, err := m.GetVariable(name)
	if err != nil {
		return err
	}
	v.Set(val)
	return nil
}

// RegisterModule records a module in this module's registry so it can be
// found by name later.
func (m *Module) RegisterModule(other *Module) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[other.name] = other
}

// FindModule returns a registered module or UnknownModule.
func (m *Module) FindModule(name string) (*Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mod, ok := m.registry[name]; ok {
		return mod, nil
	}
	return nil, &errors.UnknownModule{Name: name}
}

// WordNames returns the names of all locally defined words.
func (m *Module) WordNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.words))
	for name := range m.words {
		names = append(names, name)
	}
	return names
}
