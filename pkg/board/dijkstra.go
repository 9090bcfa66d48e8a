package board

// Priority orders equally distant predecessors; lower wins.
type Priority []int

// Compare compares two priorities lexicographically.
func (p Priority) Compare(o Priority) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		switch {
		case p[i] < o[i]:
			return -1
		case p[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// Tiebreaker computes the priority of a land when it is popped from the
// queue. dist and prev hold every land settled so far.
type Tiebreaker func(land *Land, dist map[string]int, prev map[string]string) (Priority, error)

// Distances runs Dijkstra from src and returns the distance and predecessor
// maps. When two predecessors offer the same distance, the one with the lower
// tiebreaker priority is kept; on equal priority the last one found wins.
// Ocean lands are not traversed.
func Distances(src *Land, tb Tiebreaker) (map[string]int, map[string]string, error) {
	if tb == nil {
		tb = func(*Land, map[string]int, map[string]string) (Priority, error) { return nil, nil }
	}

	var (
		visited  = make(map[string]bool)
		queued   = make(map[string]bool)
		queue    []*Land
		dist     = map[string]int{src.Key: 0}
		prev     = make(map[string]string)
		priority = make(map[string]Priority)
	)
	queue = append(queue, src)
	queued[src.Key] = true
	p, err := tb(src, dist, prev)
	if err != nil {
		return nil, nil, err
	}
	priority[src.Key] = p

	for len(queue) > 0 {
		// Linear scan keeps insertion order on equal distance.
		best := 0
		for i, l := range queue[1:] {
			if dist[l.Key] < dist[queue[best].Key] {
				best = i + 1
			}
		}
		vertex := queue[best]
		queue = append(queue[:best], queue[best+1:]...)
		delete(queued, vertex.Key)

		if _, ok := priority[vertex.Key]; !ok {
			p, err := tb(vertex, dist, prev)
			if err != nil {
				return nil, nil, err
			}
			priority[vertex.Key] = p
		}
		visited[vertex.Key] = true
		base := dist[vertex.Key]

		for _, ln := range vertex.links {
			key := ln.Land.Key
			if visited[key] || ln.Land.Terrain == Ocean {
				continue
			}
			if !queued[key] {
				queue = append(queue, ln.Land)
				queued[key] = true
			}
			alt := base + ln.Distance
			if d, ok := dist[key]; ok {
				if alt > d {
					continue
				}
				if alt == d && priority[vertex.Key].Compare(priority[prev[key]]) > 0 {
					continue
				}
			}
			dist[key] = alt
			prev[key] = vertex.Key
		}
	}
	return dist, prev, nil
}

// Path reconstructs the land keys from src to dst, both included.
func Path(prev map[string]string, src, dst string) ([]string, bool) {
	path := []string{dst}
	for dst != src {
		p, ok := prev[dst]
		if !ok {
			return nil, false
		}
		dst = p
		path = append(path, dst)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// NearestDistances returns, for every land reachable from any of srcs, the
// distance to the closest one.
func NearestDistances(srcs []*Land) (map[string]int, error) {
	out := make(map[string]int)
	for _, src := range srcs {
		dist, _, err := Distances(src, nil)
		if err != nil {
			return nil, err
		}
		for key, d := range dist {
			if cur, ok := out[key]; !ok || d < cur {
				out[key] = d
			}
		}
	}
	return out, nil
}
