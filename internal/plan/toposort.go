package plan

import "sort"

// topoSort returns artifact ids ordered so every id appears after all of its
// InputIDs (inputs before dependents), per spec.md §8's determinism
// requirement. Ties are broken lexicographically by id so two planning runs
// over the same graph always produce byte-identical output.
func topoSort(artifacts map[string]*Artifact) ([]string, error) {
	inDegree := make(map[string]int, len(artifacts))
	dependents := make(map[string][]string, len(artifacts))

	for id := range artifacts {
		inDegree[id] = 0
	}
	for id, a := range artifacts {
		for _, dep := range a.InputIDs {
			if _, ok := artifacts[dep]; !ok {
				// Dangling input reference would also be a Planner bug;
				// treat as an edge from a phantom node so the cycle/missing
				// detection below still surfaces it rather than panicking.
				inDegree[id]++
				continue
			}
			inDegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []string
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		children := append([]string{}, dependents[next]...)
		sort.Strings(children)
		for _, child := range children {
			inDegree[child]--
			if inDegree[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(order) != len(artifacts) {
		var remaining []string
		for id, deg := range inDegree {
			if deg > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, &DependencyCycle{Path: remaining}
	}

	return order, nil
}
