package graph

import (
	"go.uber.org/zap"

	"chatdig/internal/export"
)

// Thread returns the conversation's active path in root-to-leaf order.
//
// When currentID resolves, the thread is exactly the ancestor chain of that
// node reversed: the branch the export considered active, with no guessing
// at forks. A currentID that is empty or unknown is tolerated and triggers
// lastChildDescent instead.
func (g *Graph) Thread(currentID string, logger *zap.Logger) ([]export.RawNode, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if currentID != "" {
		if _, ok := g.nodes[currentID]; ok {
			path, err := g.PathToRoot(currentID)
			if err != nil {
				return nil, err
			}
			thread := make([]export.RawNode, len(path))
			for i, id := range path {
				thread[len(path)-1-i] = g.nodes[id]
			}
			return thread, nil
		}
		logger.Warn("current_node does not resolve, falling back to last-child descent",
			zap.String("current_node", currentID))
	}

	return g.lastChildDescent()
}

// lastChildDescent walks from the root picking the last child at every
// fork. The export appends newer regenerations to the children list, so the
// last child approximates the most recent branch. This is a best-effort
// policy for exports without a usable current_node, not a guarantee of
// matching what the user last saw.
func (g *Graph) lastChildDescent() ([]export.RawNode, error) {
	var thread []export.RawNode
	visited := make(map[string]bool)

	id := g.rootID
	for id != "" {
		if visited[id] {
			return nil, ErrCyclicGraph
		}
		visited[id] = true
		thread = append(thread, g.nodes[id])

		kids := g.children[id]
		if len(kids) == 0 {
			break
		}
		id = kids[len(kids)-1]
	}
	return thread, nil
}
