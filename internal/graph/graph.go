// Package graph reconstructs the linear message thread of a ChatGPT
// conversation from its exported node DAG. Nodes live in an arena keyed by
// id; traversal works on ids and looks nodes up through the arena, so
// malformed exports (dangling parents, stale children lists, cycles) can be
// detected or repaired instead of crashing pointer chases.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"chatdig/internal/export"
)

var (
	// ErrMalformedGraph marks a mapping with zero or multiple roots.
	ErrMalformedGraph = errors.New("malformed graph")
	// ErrCyclicGraph marks a traversal that revisited a node.
	ErrCyclicGraph = errors.New("cyclic graph")
)

// Graph indexes one conversation's node table. Children lists are derived
// from parent pointers during Parse; the export's own children arrays are
// used only to preserve sibling order.
type Graph struct {
	nodes    map[string]export.RawNode
	children map[string][]string
	rootID   string
}

// Parse validates and indexes a conversation's mapping. It fails with
// ErrMalformedGraph unless exactly one root exists. Parent/child mismatches
// are repaired by trusting the parent pointer and logged, not fatal.
func Parse(mapping map[string]export.RawNode, logger *zap.Logger) (*Graph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrMalformedGraph)
	}

	g := &Graph{
		nodes:    make(map[string]export.RawNode, len(mapping)),
		children: make(map[string][]string, len(mapping)),
	}

	// Deterministic iteration: the export's map order is not stable.
	ids := make([]string, 0, len(mapping))
	for id, node := range mapping {
		if node.ID == "" {
			node.ID = id
		}
		g.nodes[id] = node
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var roots []string
	derived := make(map[string][]string, len(mapping))
	for _, id := range ids {
		node := g.nodes[id]
		if node.Parent == "" {
			roots = append(roots, id)
			continue
		}
		if _, ok := g.nodes[node.Parent]; !ok {
			logger.Warn("node parent missing from mapping, treating node as root",
				zap.String("node", id),
				zap.String("parent", node.Parent))
			roots = append(roots, id)
			continue
		}
		derived[node.Parent] = append(derived[node.Parent], id)
	}

	switch len(roots) {
	case 0:
		return nil, fmt.Errorf("%w: no root node", ErrMalformedGraph)
	case 1:
		g.rootID = roots[0]
	default:
		return nil, fmt.Errorf("%w: %d root nodes", ErrMalformedGraph, len(roots))
	}

	// Order each child set by the node's declared children list, which
	// carries the regeneration order (newer siblings appended). Entries the
	// declared list misses are appended in id order; entries it invents are
	// dropped. Either case is a repair worth logging.
	for _, id := range ids {
		actual := derived[id]
		if len(actual) == 0 {
			continue
		}
		actualSet := make(map[string]bool, len(actual))
		for _, c := range actual {
			actualSet[c] = true
		}

		var ordered []string
		seen := make(map[string]bool, len(actual))
		for _, c := range g.nodes[id].Children {
			if actualSet[c] && !seen[c] {
				ordered = append(ordered, c)
				seen[c] = true
			} else if !actualSet[c] {
				logger.Warn("children list names a node that does not declare this parent, dropping",
					zap.String("node", id),
					zap.String("child", c))
			}
		}
		for _, c := range actual {
			if !seen[c] {
				logger.Warn("child missing from declared children list, appending",
					zap.String("node", id),
					zap.String("child", c))
				ordered = append(ordered, c)
			}
		}
		g.children[id] = ordered
	}

	return g, nil
}

// RootID returns the id of the single root node.
func (g *Graph) RootID() string { return g.rootID }

// Root returns the root node.
func (g *Graph) Root() export.RawNode { return g.nodes[g.rootID] }

// Node looks a node up by id.
func (g *Graph) Node(id string) (export.RawNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Children returns the repaired, ordered child ids of a node.
func (g *Graph) Children(id string) []string { return g.children[id] }

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int { return len(g.nodes) }

// PathToRoot returns the ancestor chain from leafID up to and including the
// root. Fails with ErrCyclicGraph if the chain revisits a node.
func (g *Graph) PathToRoot(leafID string) ([]string, error) {
	if _, ok := g.nodes[leafID]; !ok {
		return nil, fmt.Errorf("node %s not in mapping", leafID)
	}

	var path []string
	visited := make(map[string]bool)
	id := leafID
	for id != "" {
		if visited[id] {
			return nil, fmt.Errorf("%w: revisited node %s", ErrCyclicGraph, id)
		}
		visited[id] = true
		path = append(path, id)

		node := g.nodes[id]
		if node.Parent == "" {
			break
		}
		if _, ok := g.nodes[node.Parent]; !ok {
			break // repaired root, see Parse
		}
		id = node.Parent
	}
	return path, nil
}
