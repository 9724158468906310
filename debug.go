package inkwell

import (
	"fmt"
	"io"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// Only populated when Engine.debug is true.
type debugStats struct {
	traverseTime  time.Duration
	sortTime      time.Duration
	submitTime    time.Duration
	regionCount   int
	triangleCount int
	drawCallCount int
}

// debugLog prints timing and draw-call stats for one frame.
func debugLog(w io.Writer, stats debugStats) {
	total := stats.traverseTime + stats.sortTime + stats.submitTime
	_, _ = fmt.Fprintf(w,
		"[inkwell] traverse: %v | sort: %v | submit: %v | total: %v\n",
		stats.traverseTime, stats.sortTime, stats.submitTime, total)
	_, _ = fmt.Fprintf(w,
		"[inkwell] regions: %d | triangles: %d | draw calls: %d\n",
		stats.regionCount, stats.triangleCount, stats.drawCallCount)
}

// globalDebug mirrors the most recently set Engine debug flag so that node
// operations (which lack an Engine pointer) can check it cheaply.
var globalDebug bool

// debugOut receives debug warnings. Replaced in tests.
var debugOut io.Writer = os.Stderr

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. In release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("inkwell debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(debugOut, "[inkwell] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(debugOut, "[inkwell] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
