package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/client9/acrewrite/expr"
)

// NodeID is a stable handle into a Graph's arena. Handles never change
// once issued, since the arena is insert-only: graph edges hold these
// directly, keyed by NodeID rather than by a pointer into a slice that
// might reallocate.
type NodeID int

// Edge is a directed transition produced by saturating under one named
// ruleset.
type Edge struct {
	To      NodeID
	Ruleset string
}

// Graph is the content-addressed, insert-only arena for identity search:
// nodes are expressions de-duplicated by their canonical printed form, and
// once inserted a NodeID is valid for the lifetime of the Graph.
//
// Grounded on the teacher's unique.Handle-style interning (expr.Ident),
// generalized here from identifiers to whole expressions keyed by their
// String() form, which is already canonical because AC nodes print their
// terms in the MultiSet's total order.
type Graph struct {
	nodes []expr.Expr
	index map[string]NodeID
	edges map[NodeID][]Edge
}

// NewGraph returns an empty arena.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]NodeID),
		edges: make(map[NodeID][]Edge),
	}
}

// intern returns the stable NodeID for e, inserting it if new.
func (g *Graph) intern(e expr.Expr) (id NodeID, isNew bool) {
	key := e.String()
	if id, ok := g.index[key]; ok {
		return id, false
	}
	id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, e)
	g.index[key] = id
	return id, true
}

func (g *Graph) addEdge(from, to NodeID, label string) {
	g.edges[from] = append(g.edges[from], Edge{To: to, Ruleset: label})
}

// Expr returns the expression stored at id.
func (g *Graph) Expr(id NodeID) expr.Expr { return g.nodes[id] }

// AlwaysApplyRuleset is the conventional name of the ruleset that
// identity search folds into every other ruleset as a common normalizer.
const AlwaysApplyRuleset = "simplify"

// Explore builds the reachability graph seeded with {l, r}: for each
// popped node e and each named ruleset other than AlwaysApplyRuleset,
// saturate under rs union the always-apply ruleset; a changed result
// becomes an edge (and a new node, if unseen). Returns the graph and the
// NodeIDs of l and r.
func Explore(l, r expr.Expr, rulesets map[string][]Rule) (*Graph, NodeID, NodeID, error) {
	g := NewGraph()
	lid, _ := g.intern(l)
	rid, _ := g.intern(r)

	queue := []NodeID{lid}
	if rid != lid {
		queue = append(queue, rid)
	}
	seen := map[NodeID]bool{lid: true, rid: true}

	always := rulesets[AlwaysApplyRuleset]

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		e := g.Expr(id)

		names := make([]string, 0, len(rulesets))
		for name := range rulesets {
			if name == AlwaysApplyRuleset {
				continue
			}
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			combined := append(append([]Rule{}, rulesets[name]...), always...)
			next, err := ApplyRuleset(e, combined)
			if err != nil {
				return nil, 0, 0, err
			}
			if next.Equal(e) {
				continue
			}
			nid, isNew := g.intern(next)
			g.addEdge(id, nid, name)
			if !seen[nid] {
				seen[nid] = true
				queue = append(queue, nid)
			}
			_ = isNew
		}
	}
	return g, lid, rid, nil
}

// Dump renders the full reachability graph as a plain adjacency listing,
// one line per node in ascending NodeID (insertion) order, followed by its
// outgoing edges in insertion order. Grounded on the reference CLI's
// "process graph:\n{}" dump via petgraph's Dot formatter: petgraph has no
// Go equivalent in the retrieved pack, so this renders the same
// information (every node, every labelled transition) as a plain listing
// instead of Graphviz's dot syntax.
func (g *Graph) Dump() string {
	var b strings.Builder
	for id := NodeID(0); int(id) < len(g.nodes); id++ {
		fmt.Fprintf(&b, "[%d] %s\n", id, g.nodes[id])
		for _, e := range g.edges[id] {
			fmt.Fprintf(&b, "    --%s--> [%d] %s\n", e.Ruleset, e.To, g.nodes[e.To])
		}
	}
	return b.String()
}

// Path is a sequence of edges from one node to the next along a simple
// path (no repeated node).
type Path struct {
	Nodes []NodeID
	Labels []string // Labels[i] connects Nodes[i] to Nodes[i+1]
}

// SimplePaths enumerates all simple paths from -> to (no repeated node),
// sorted by length ascending, and returns at most limit of them.
func SimplePaths(g *Graph, from, to NodeID, limit int) []Path {
	var results []Path
	visited := map[NodeID]bool{from: true}
	var walk func(cur NodeID, nodes []NodeID, labels []string)
	walk = func(cur NodeID, nodes []NodeID, labels []string) {
		if cur == to {
			results = append(results, Path{Nodes: append([]NodeID{}, nodes...), Labels: append([]string{}, labels...)})
			return
		}
		for _, e := range g.edges[cur] {
			if visited[e.To] {
				continue
			}
			visited[e.To] = true
			walk(e.To, append(nodes, e.To), append(labels, e.Ruleset))
			visited[e.To] = false
		}
	}
	walk(from, []NodeID{from}, nil)

	sort.SliceStable(results, func(i, j int) bool {
		return len(results[i].Labels) < len(results[j].Labels)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
