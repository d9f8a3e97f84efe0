package graph

import (
	"math"
	"testing"

	"mapgen/vector"
)

func TestBuild_CrossRoadsProducesCenterNode(t *testing.T) {
	horizontal := Polyline{
		Points: []vector.Vector{{X: -10, Y: 0}, {X: 10, Y: 0}},
		Class:  "main",
	}
	vertical := Polyline{
		Points: []vector.Vector{{X: 0, Y: -10}, {X: 0, Y: 10}},
		Class:  "major",
	}

	g := Build([]Polyline{horizontal, vertical}, 0.1)

	centerIdx := -1
	for i, p := range g.Nodes {
		if p.DistanceSquared(vector.Vector{}) < 1e-6 {
			centerIdx = i
		}
	}
	if centerIdx < 0 {
		t.Fatalf("expected a node at the crossing point, nodes=%v", g.Nodes)
	}
	if len(g.Neighbors[centerIdx]) != 4 {
		t.Fatalf("center node has %d neighbours, want 4", len(g.Neighbors[centerIdx]))
	}
}

func TestBuild_NeighboursAreCCWSorted(t *testing.T) {
	horizontal := Polyline{Points: []vector.Vector{{X: -10, Y: 0}, {X: 10, Y: 0}}, Class: "main"}
	vertical := Polyline{Points: []vector.Vector{{X: 0, Y: -10}, {X: 0, Y: 10}}, Class: "major"}
	g := Build([]Polyline{horizontal, vertical}, 0.1)

	for i, neighbors := range g.Neighbors {
		if len(neighbors) < 2 {
			continue
		}
		prevAngle := math.Inf(-1)
		for _, n := range neighbors {
			angle := g.Nodes[n].Sub(g.Nodes[i]).Angle()
			if angle < prevAngle {
				t.Errorf("node %d neighbours not CCW sorted: %v", i, neighbors)
			}
			prevAngle = angle
		}
	}
}

func TestBuild_EveryEdgeAppearsTwice(t *testing.T) {
	horizontal := Polyline{Points: []vector.Vector{{X: -10, Y: 0}, {X: 0, Y: 0}, {X: 10, Y: 0}}, Class: "main"}
	g := Build([]Polyline{horizontal}, 0.1)

	count := map[[2]int]int{}
	for a, neighbors := range g.Neighbors {
		for _, b := range neighbors {
			count[edgeKey(a, b)]++
		}
	}
	for k, c := range count {
		if c != 2 {
			t.Errorf("edge %v appears %d times, want 2", k, c)
		}
	}
}

func TestBuild_DeduplicatesNearCoincidentEndpoints(t *testing.T) {
	a := Polyline{Points: []vector.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}}, Class: "main"}
	b := Polyline{Points: []vector.Vector{{X: 10.001, Y: 0.001}, {X: 20, Y: 0}}, Class: "main"}

	g := Build([]Polyline{a, b}, 0.1)
	if len(g.Nodes) != 3 {
		t.Fatalf("expected 3 merged nodes, got %d: %v", len(g.Nodes), g.Nodes)
	}
}

func TestBuild_RecordsEdgeClass(t *testing.T) {
	a := Polyline{Points: []vector.Vector{{X: 0, Y: 0}, {X: 10, Y: 0}}, Class: "coastline"}
	g := Build([]Polyline{a}, 0.1)

	class, ok := g.EdgeClass(0, 1)
	if !ok || class != "coastline" {
		t.Errorf("EdgeClass(0,1) = %q, %v; want coastline, true", class, ok)
	}
}
