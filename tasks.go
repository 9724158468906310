package inkwell

// TaskStatus tells the TaskManager what to do with a task after it ran.
type TaskStatus uint8

const (
	TaskCont TaskStatus = iota // run again next frame
	TaskDone                   // remove the task
)

// TaskFunc is the body of a task. dt is the frame time in seconds.
type TaskFunc func(dt float64) TaskStatus

// Task is a named per-frame callback.
type Task struct {
	Name string
	Fn   TaskFunc

	sort  int
	order uint32
}

// Sort returns the task's sort value.
func (t *Task) Sort() int {
	return t.sort
}

// TaskManager runs tasks once per frame in ascending sort order. Tasks with
// equal sort run in the order they were added.
type TaskManager struct {
	tasks     []*Task
	nextOrder uint32
	running   bool
	pending   []*Task
	removed   map[*Task]bool
}

// Add schedules fn under name with sort 0.
func (m *TaskManager) Add(name string, fn TaskFunc) *Task {
	return m.AddSorted(name, 0, fn)
}

// AddSorted schedules fn under name with the given sort value. Tasks added
// while the manager is stepping first run on the next frame.
func (m *TaskManager) AddSorted(name string, sort int, fn TaskFunc) *Task {
	m.nextOrder++
	t := &Task{Name: name, Fn: fn, sort: sort, order: m.nextOrder}
	if m.running {
		m.pending = append(m.pending, t)
		return t
	}
	m.insert(t)
	return t
}

// insert places t after every task that sorts before or with it.
func (m *TaskManager) insert(t *Task) {
	i := len(m.tasks)
	for i > 0 && m.tasks[i-1].sort > t.sort {
		i--
	}
	m.tasks = append(m.tasks, nil)
	copy(m.tasks[i+1:], m.tasks[i:])
	m.tasks[i] = t
}

// Remove removes every task named name and reports whether any was found.
func (m *TaskManager) Remove(name string) bool {
	found := false
	for _, t := range m.tasks {
		if t.Name == name {
			m.drop(t)
			found = true
		}
	}
	for i := 0; i < len(m.pending); i++ {
		if m.pending[i].Name == name {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			i--
			found = true
		}
	}
	if !m.running {
		m.compact()
	}
	return found
}

// RemoveTask removes t.
func (m *TaskManager) RemoveTask(t *Task) {
	for i, p := range m.pending {
		if p == t {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
	for _, mt := range m.tasks {
		if mt == t {
			m.drop(t)
			break
		}
	}
	if !m.running {
		m.compact()
	}
}

// Has reports whether a task named name is scheduled.
func (m *TaskManager) Has(name string) bool {
	for _, t := range m.tasks {
		if t.Name == name && !m.removed[t] {
			return true
		}
	}
	for _, t := range m.pending {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Len returns the number of scheduled tasks.
func (m *TaskManager) Len() int {
	return len(m.tasks) - len(m.removed) + len(m.pending)
}

// Step runs every task once.
func (m *TaskManager) Step(dt float64) {
	m.running = true
	for i := 0; i < len(m.tasks); i++ {
		t := m.tasks[i]
		if m.removed[t] {
			continue
		}
		if t.Fn(dt) == TaskDone {
			m.drop(t)
		}
	}
	m.running = false
	m.compact()
	for _, t := range m.pending {
		m.insert(t)
	}
	clear(m.pending)
	m.pending = m.pending[:0]
}

func (m *TaskManager) drop(t *Task) {
	if m.removed == nil {
		m.removed = make(map[*Task]bool)
	}
	m.removed[t] = true
}

// compact drops removed tasks from the list.
func (m *TaskManager) compact() {
	if len(m.removed) == 0 {
		return
	}
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if !m.removed[t] {
			kept = append(kept, t)
		}
	}
	clear(m.tasks[len(kept):])
	m.tasks = kept
	clear(m.removed)
}
