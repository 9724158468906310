package inkwell

// DisplayRegion binds a camera to a rectangle of a render surface. Regions
// of one surface render in ascending sort order; regions with equal sort
// render in creation order.
type DisplayRegion struct {
	// Name is informational and shows up in debug output.
	Name string
	// Active regions render; inactive ones are skipped.
	Active bool

	sort       int
	order      int
	camera     *Camera
	dimensions Rect
	clearColor Color
	clearSet   bool
	owner      *regionList
}

// Sort returns the region's sort value.
func (r *DisplayRegion) Sort() int {
	return r.sort
}

// SetSort changes the region's sort value.
func (r *DisplayRegion) SetSort(sort int) {
	if r.sort == sort {
		return
	}
	r.sort = sort
	if r.owner != nil {
		r.owner.sorted = false
	}
}

// Camera returns the bound camera, or nil.
func (r *DisplayRegion) Camera() *Camera {
	return r.camera
}

// SetCamera binds c to the region. A nil camera leaves the region empty.
func (r *DisplayRegion) SetCamera(c *Camera) {
	if r.camera == c {
		return
	}
	if r.camera != nil {
		r.camera.removeRegion(r)
	}
	r.camera = c
	if c != nil {
		c.regions = append(c.regions, r)
	}
}

// Dimensions returns the region rectangle in fractions of the surface.
func (r *DisplayRegion) Dimensions() Rect {
	return r.dimensions
}

// SetDimensions sets the region rectangle in fractions of the surface
// (0..1, origin top-left).
func (r *DisplayRegion) SetDimensions(d Rect) {
	r.dimensions = d
}

// SetClearColor makes the region clear its rectangle before drawing.
func (r *DisplayRegion) SetClearColor(c Color) {
	r.clearColor = c
	r.clearSet = true
}

// ClearColorActive reports whether the region clears before drawing.
func (r *DisplayRegion) ClearColorActive() bool {
	return r.clearSet
}

// removeRegion forgets r. Called when a region is rebound or removed.
func (c *Camera) removeRegion(r *DisplayRegion) {
	for i, cr := range c.regions {
		if cr == r {
			c.regions = append(c.regions[:i], c.regions[i+1:]...)
			return
		}
	}
}

// Regions returns the display regions the camera is bound to.
// The returned slice MUST NOT be mutated by the caller.
func (c *Camera) Regions() []*DisplayRegion {
	return c.regions
}

// --- Region list ---

// regionList owns the display regions of one render surface.
type regionList struct {
	regions   []*DisplayRegion
	sorted    bool
	nextOrder int
}

// make creates a full-surface region.
func (l *regionList) make(name string) *DisplayRegion {
	l.nextOrder++
	r := &DisplayRegion{
		Name:       name,
		Active:     true,
		order:      l.nextOrder,
		dimensions: FullRect,
		owner:      l,
	}
	l.regions = append(l.regions, r)
	l.sorted = false
	return r
}

// remove drops r from the list. Reports whether r was present.
func (l *regionList) remove(r *DisplayRegion) bool {
	for i, lr := range l.regions {
		if lr == r {
			copy(l.regions[i:], l.regions[i+1:])
			l.regions[len(l.regions)-1] = nil
			l.regions = l.regions[:len(l.regions)-1]
			r.SetCamera(nil)
			r.owner = nil
			return true
		}
	}
	return false
}

// inOrder returns the regions sorted by (sort, creation order).
// Uses insertion sort: stable, zero allocations, and O(n) when already sorted.
func (l *regionList) inOrder() []*DisplayRegion {
	if l.sorted {
		return l.regions
	}
	rs := l.regions
	for i := 1; i < len(rs); i++ {
		key := rs[i]
		j := i - 1
		for j >= 0 && regionAfter(rs[j], key) {
			rs[j+1] = rs[j]
			j--
		}
		rs[j+1] = key
	}
	l.sorted = true
	return rs
}

func regionAfter(a, b *DisplayRegion) bool {
	if a.sort != b.sort {
		return a.sort > b.sort
	}
	return a.order > b.order
}
