package models

import (
	"math"
	"time"
)

// Rect is the bounding rectangle a city is known to lie in
type Rect struct {
	LX int `json:"lx"`
	RX int `json:"rx"`
	LY int `json:"ly"`
	RY int `json:"ry"`
}

// Midpoint returns the integer midpoint of the rectangle
func (r Rect) Midpoint() (int, int) {
	return (r.LX + r.RX) / 2, (r.LY + r.RY) / 2
}

// Contains reports whether the point lies inside the rectangle (inclusive)
func (r Rect) Contains(x, y int) bool {
	return x >= r.LX && x <= r.RX && y >= r.LY && y <= r.RY
}

// City is a point estimate of a city's true location
type City struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Dist returns the Euclidean distance between two cities
func Dist(a, b City) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Group is an ordered list of city ids. The order is the group's path.
type Group []int

// Clone returns a copy of the group
func (g Group) Clone() Group {
	out := make(Group, len(g))
	copy(out, g)
	return out
}

// CloneGroups deep-copies a tour
func CloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.Clone()
	}
	return out
}

// Edge is an unordered pair of city ids
type Edge struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Canonical returns the edge with A <= B
func (e Edge) Canonical() Edge {
	if e.A > e.B {
		return Edge{A: e.B, B: e.A}
	}
	return e
}

// Instance is one problem as read from the judge
type Instance struct {
	N     int    `json:"n"`
	M     int    `json:"m"`
	Q     int    `json:"q"`
	L     int    `json:"l"`
	W     int    `json:"w"`
	Sizes []int  `json:"sizes"`
	Rects []Rect `json:"rects"`
}

// Cities derives the midpoint of every rectangle
func (in *Instance) Cities() []City {
	cities := make([]City, len(in.Rects))
	for i, r := range in.Rects {
		x, y := r.Midpoint()
		cities[i] = City{ID: i, X: float64(x), Y: float64(y)}
	}
	return cities
}

// Answer is the final output: groups in path order and their edges
type Answer struct {
	Groups []Group  `json:"groups"`
	Edges  [][]Edge `json:"edges"`
}

// Point is an exact integer location, known only to the judge
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Run is a recorded tester run
type Run struct {
	ID            int64     `json:"id"`
	InstanceName  string    `json:"instance_name"`
	Command       string    `json:"command"`
	GroundTruth   bool      `json:"ground_truth"`
	Score         int64     `json:"score"`
	Cost          float64   `json:"cost"`
	Queries       int       `json:"queries"`
	FailureReason string    `json:"failure_reason,omitempty"`
	ElapsedMillis int64     `json:"elapsed_millis"`
	CreatedAt     time.Time `json:"created_at"`
}

// RunGroup is a snapshot of one answered group of a run
type RunGroup struct {
	ID         int64   `json:"id"`
	RunID      int64   `json:"run_id"`
	GroupIndex int     `json:"group_index"`
	Cities     []int   `json:"cities"`
	Edges      []Edge  `json:"edges"`
	Cost       float64 `json:"cost"`
}

// RunSummary contains aggregate stats for a run
type RunSummary struct {
	RunID       int64   `json:"run_id"`
	TotalCities int     `json:"total_cities"`
	TotalGroups int     `json:"total_groups"`
	TotalEdges  int     `json:"total_edges"`
	Reference   float64 `json:"reference"`
}
