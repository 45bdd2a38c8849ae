package entitystore

import (
	"github.com/ZxMYS/ml-metadata/internal/query"
	"github.com/ZxMYS/ml-metadata/internal/typeregistry"
)

// Store is the Entity Store, scoped to one executor (the Request
// Dispatcher's transaction in normal operation).
type Store struct {
	Exec  query.Executor
	Types typeregistry.Registry
}

func New(exec query.Executor) Store {
	return Store{Exec: exec, Types: typeregistry.New(exec)}
}

// ListOptions pages over a "get all" query, grounded in the teacher's
// created_at/id keyset-pagination cursor (internal/repo.ListIterationsWithCursor).
type ListOptions struct {
	Limit   int
	AfterID int64
}
