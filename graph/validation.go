package graph

// reaches reports whether dst is reachable from src by following child
// edges. Iterative DFS; called with g.mu held.
func (g *Graph) reaches(src, dst int) bool {
	if src == dst {
		return true
	}
	visited := make(map[int]bool, len(g.nodes))
	stack := []int{src}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, child := range g.nodes[current].Children {
			if child == dst {
				return true
			}
			if !visited[child] {
				stack = append(stack, child)
			}
		}
	}
	return false
}
