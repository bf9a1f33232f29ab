package merkle

import (
	"context"
	"errors"
	"fmt"
)

// Storer persists and retrieves nodes of the archive DAG.
// Deduplication happens through content-addressing: the same bucket under the same
// parent always has the same hash and is stored once.
type Storer interface {
	// Put stores a node and reports whether it was new.
	Put(ctx context.Context, node *Node) (bool, error)

	// Get retrieves a node by its hash. Returns ErrNotFound if the node doesn't exist.
	Get(ctx context.Context, hash string) (*Node, error)

	// Has checks if a node exists by its hash.
	Has(ctx context.Context, hash string) (bool, error)

	// List returns all nodes in insertion order.
	List(ctx context.Context) ([]*Node, error)

	// Roots returns all root nodes (nodes with no parent).
	Roots(ctx context.Context) ([]*Node, error)

	// Leaves returns all leaf nodes (nodes with no children).
	Leaves(ctx context.Context) ([]*Node, error)

	// Ancestry returns the path from a node back to its root (node first, root last).
	Ancestry(ctx context.Context, hash string) ([]*Node, error)

	// Close closes the store and releases any resources.
	Close() error
}

// ErrNotFound is returned when a node doesn't exist in the store.
type ErrNotFound struct {
	Hash string
}

func (e ErrNotFound) Error() string {
	if e.Hash == "" {
		return "node not found"
	}

	return "node not found: " + e.Hash
}

// ErrCycle is returned by Ancestry when parent links lead back to a node already
// on the path. Only tampered archives can contain one.
var ErrCycle = errors.New("ancestry cycle")

// ancestry walks parent links starting at hash using get.
func ancestry(ctx context.Context, hash string, get func(context.Context, string) (*Node, error)) ([]*Node, error) {
	var path []*Node
	seen := make(map[string]struct{})
	current := hash
	for {
		if _, ok := seen[current]; ok {
			return nil, fmt.Errorf("%w: %s revisits %s", ErrCycle, hash, current)
		}
		seen[current] = struct{}{}

		node, err := get(ctx, current)
		if err != nil {
			return nil, err
		}
		path = append(path, node)
		if node.ParentHash == nil {
			return path, nil
		}
		current = *node.ParentHash
	}
}
