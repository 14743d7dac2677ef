package db

import "sync"

// Schema is a named set of models that are created together
type Schema struct {
	// Name identifies the schema when opening a store
	Name string
	// TablePrefix is prepended to the table name of every model
	TablePrefix string
	// Models are passed to AutoMigrate in order
	Models []any
}

var (
	schemasMu sync.RWMutex
	schemas   = make(map[string]Schema)
)

// RegisterSchema makes a schema available by name
// It panics if the name is empty or already registered
func RegisterSchema(s Schema) {
	schemasMu.Lock()
	defer schemasMu.Unlock()

	if s.Name == "" {
		panic("db: RegisterSchema with empty name")
	}
	if _, dup := schemas[s.Name]; dup {
		panic("db: RegisterSchema called twice for " + s.Name)
	}
	schemas[s.Name] = s
}

// LookupSchema returns the schema registered under name
func LookupSchema(name string) (Schema, error) {
	schemasMu.RLock()
	defer schemasMu.RUnlock()

	s, ok := schemas[name]
	if !ok {
		return Schema{}, ErrSchemaNotFound(name)
	}
	return s, nil
}
