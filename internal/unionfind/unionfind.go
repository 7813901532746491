package unionfind

// Forest is a disjoint-set forest over ids [0, n).
// Roots carry a weight (number of members); unions attach the lighter root
// under the heavier one.
type Forest struct {
	parent []int
	weight []int
}

// New creates a forest of n singleton sets
func New(n int) *Forest {
	f := &Forest{
		parent: make([]int, n),
		weight: make([]int, n),
	}
	for i := 0; i < n; i++ {
		f.parent[i] = i
		f.weight[i] = 1
	}
	return f
}

// Find returns the root of x, compressing the path on the way.
// Iterative so deep chains cannot overflow the stack.
func (f *Forest) Find(x int) int {
	root := x
	for f.parent[root] != root {
		root = f.parent[root]
	}
	for f.parent[x] != root {
		next := f.parent[x]
		f.parent[x] = root
		x = next
	}
	return root
}

// Union joins the sets of x and y. It returns false when they were already joined.
func (f *Forest) Union(x, y int) bool {
	rx := f.Find(x)
	ry := f.Find(y)
	if rx == ry {
		return false
	}
	if f.weight[rx] > f.weight[ry] {
		rx, ry = ry, rx
	}
	f.parent[rx] = ry
	f.weight[ry] += f.weight[rx]
	return true
}

// Same reports whether x and y are in one set
func (f *Forest) Same(x, y int) bool {
	return f.Find(x) == f.Find(y)
}

// Size returns the number of members in x's set
func (f *Forest) Size(x int) int {
	return f.weight[f.Find(x)]
}
