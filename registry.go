package inkwell

import "weak"

// paintEntry relates a painted node to its instance under the shadow scene.
// The original is held weakly; the instance is owned by the registry.
type paintEntry struct {
	original   weak.Pointer[Node]
	originalID uint32
	name       string
	instance   *Node
}

// paintRegistry holds at most one entry per original, in paint order.
type paintRegistry struct {
	entries []*paintEntry
	index   map[weak.Pointer[Node]]*paintEntry
}

// lookup returns the entry for n, or nil.
func (r *paintRegistry) lookup(n *Node) *paintEntry {
	if r.index == nil {
		return nil
	}
	return r.index[weak.Make(n)]
}

// add records n as painted with instance inst.
func (r *paintRegistry) add(n, inst *Node) *paintEntry {
	if r.index == nil {
		r.index = make(map[weak.Pointer[Node]]*paintEntry)
	}
	e := &paintEntry{
		original:   weak.Make(n),
		originalID: n.ID,
		name:       n.Name,
		instance:   inst,
	}
	r.entries = append(r.entries, e)
	r.index[e.original] = e
	return e
}

// remove drops e. Reports whether e was present.
func (r *paintRegistry) remove(e *paintEntry) bool {
	for i, re := range r.entries {
		if re == e {
			copy(r.entries[i:], r.entries[i+1:])
			r.entries[len(r.entries)-1] = nil
			r.entries = r.entries[:len(r.entries)-1]
			if r.index[e.original] == e {
				delete(r.index, e.original)
			}
			return true
		}
	}
	return false
}

// len returns the number of entries, stale ones included.
func (r *paintRegistry) len() int {
	return len(r.entries)
}

// stale reports whether e can no longer be synchronized: its original was
// collected or disposed, or its instance was disposed from outside.
func (e *paintEntry) stale() bool {
	o := e.original.Value()
	return o == nil || o.disposed || e.instance.disposed
}
