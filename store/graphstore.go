package store

import (
	"github.com/cayleygraph/cayley"
	"github.com/cayleygraph/cayley/graph"
	_ "github.com/cayleygraph/cayley/graph/kv/bolt"
)

// InitGraph opens (creating if needed) a quad store of dbType, "memstore" ignores filepath
func InitGraph(dbType, filepath string) (*cayley.Handle, error) {
	if dbType == "memstore" {
		return cayley.NewMemoryGraph()
	}

	err := graph.InitQuadStore(dbType, filepath, nil)
	if err != nil && err != graph.ErrDatabaseExists {
		return nil, err
	}

	return cayley.NewGraph(dbType, filepath, nil)
}
