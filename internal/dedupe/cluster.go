package dedupe

import "sort"

// Cluster groups signal ids into transitive components: if A matches
// B and B matches C, all three form one cluster even though A and C
// never matched directly. Every id pair inside a signal becomes an
// edge. Ids are sorted within a cluster and clusters come back
// ordered by their first id.
func Cluster(signals []MatchSignal) [][]string {
	adjacency := make(map[string]map[string]bool)
	link := func(a, b string) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[string]bool)
		}
		adjacency[a][b] = true
	}
	for _, signal := range signals {
		ids := signal.ContactIDs
		if len(ids) < 2 {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				link(ids[i], ids[j])
				link(ids[j], ids[i])
			}
		}
	}

	nodes := make([]string, 0, len(adjacency))
	for id := range adjacency {
		nodes = append(nodes, id)
	}
	sort.Strings(nodes)

	visited := make(map[string]bool)
	var clusters [][]string
	for _, start := range nodes {
		if visited[start] {
			continue
		}
		visited[start] = true
		component := []string{}
		queue := []string{start}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			component = append(component, id)
			for neighbor := range adjacency[id] {
				if !visited[neighbor] {
					visited[neighbor] = true
					queue = append(queue, neighbor)
				}
			}
		}
		if len(component) < 2 {
			continue
		}
		sort.Strings(component)
		clusters = append(clusters, component)
	}
	return clusters
}
