package egraph

import "github.com/authzed/rpqplan/pkg/plan"

// unionFind maps every class id ever created to its canonical id.
type unionFind struct {
	parents []plan.ID
}

func (uf *unionFind) makeSet() plan.ID {
	id := plan.ID(len(uf.parents))
	uf.parents = append(uf.parents, id)
	return id
}

func (uf *unionFind) size() int {
	return len(uf.parents)
}

// find returns the canonical id, halving the path as it goes.
func (uf *unionFind) find(id plan.ID) plan.ID {
	for uf.parents[id] != id {
		grandparent := uf.parents[uf.parents[id]]
		uf.parents[id] = grandparent
		id = grandparent
	}
	return id
}

// union makes root the parent of other. Both must be canonical.
func (uf *unionFind) union(root, other plan.ID) {
	uf.parents[other] = root
}
