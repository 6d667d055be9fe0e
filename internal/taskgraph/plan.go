package taskgraph

const (
	white = iota
	gray
	black
)

// findCycle runs a depth-first search from each root, following
// prerequisites in declaration order, and returns the first cycle found as
// [a, b, ..., a]. It returns nil when the reachable graph is acyclic.
func findCycle(tasks map[string]*Task, roots []string) []string {
	color := make(map[string]int, len(tasks))
	var stack []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		stack = append(stack, name)
		for _, p := range tasks[name].Prerequisites {
			switch color[p] {
			case white:
				if visit(p) {
					return true
				}
			case gray:
				// back edge: the cycle is the stack suffix starting at p
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == p {
						cycle = append(append([]string(nil), stack[i:]...), p)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return false
	}

	for _, root := range roots {
		if color[root] != white {
			continue
		}
		if visit(root) {
			return cycle
		}
	}
	return nil
}

// Plan returns the prerequisite closure of names in execution order:
// every task appears once, after all of its prerequisites. The order is
// deterministic, following prerequisite declaration order.
func (g *Graph) Plan(names ...string) ([]string, error) {
	return plan(g.snapshot(), names)
}

func plan(tasks map[string]*Task, names []string) ([]string, error) {
	for _, name := range names {
		if _, ok := tasks[name]; !ok {
			return nil, &UnknownTaskError{Task: name}
		}
	}
	if cycle := findCycle(tasks, names); cycle != nil {
		return nil, &CyclicDependencyError{Cycle: cycle}
	}

	seen := make(map[string]bool)
	var order []string
	var visit func(name string)
	visit = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		for _, p := range tasks[name].Prerequisites {
			visit(p)
		}
		order = append(order, name)
	}
	for _, name := range names {
		visit(name)
	}
	return order, nil
}
