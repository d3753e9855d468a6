package domain

// MaxCategoryDepth bounds the parent walk of a category chain.
const MaxCategoryDepth = 32

// CategoryChain returns the chain from c up to its root ancestor, leaf first.
// ok is false when c is nil, when the chain revisits a node, or when it is
// deeper than MaxCategoryDepth.
func CategoryChain(c *Category) (chain []*Category, ok bool) {
	if c == nil {
		return nil, false
	}
	visited := make(map[*Category]bool)
	for node := c; node != nil; node = node.Parent {
		if visited[node] || len(chain) >= MaxCategoryDepth {
			return nil, false
		}
		visited[node] = true
		chain = append(chain, node)
	}
	return chain, true
}

// RootCategory walks the parent chain of c and returns the root ancestor.
func RootCategory(c *Category) (*Category, bool) {
	chain, ok := CategoryChain(c)
	if !ok {
		return nil, false
	}
	return chain[len(chain)-1], true
}

// RootCategorySlug returns the slug of the root ancestor of c, or "" when the
// chain cannot be resolved.
func RootCategorySlug(c *Category) string {
	root, ok := RootCategory(c)
	if !ok {
		return ""
	}
	return root.Slug
}
