package production

import (
	"bytes"
	"fmt"

	"github.com/outpace/corotick"
)

// DescribeThread renders a one-line-per-frame textual summary of a
// thread's current stack, innermost (top) frame last, for logging and
// debugging.
func DescribeThread(th *corotick.CoroutineThread, frames []corotick.FrameSnapshot) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "thread %d [%s] elapsed=%s\n", th.ID(), th.Status(), th.Elapsed())
	for i, f := range frames {
		fmt.Fprintf(&buf, "  #%d %s state=%d\n", i, f.MethodID, f.State)
	}
	return buf.String()
}

// ExportDOT renders an ExecutorSnapshot as Graphviz DOT source: one
// subgraph cluster per thread, one node per frame, edges running from the
// bottom (outermost) frame to the top (innermost, currently suspended) one.
func ExportDOT(snap corotick.ExecutorSnapshot) string {
	var buf bytes.Buffer
	buf.WriteString("digraph CoroutineExecutor {\n")
	buf.WriteString("  rankdir=TB;\n  node [shape=box, fontsize=10, style=rounded];\n")

	for ti, frames := range snap.Threads {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", ti)
		fmt.Fprintf(&buf, "    label=\"thread %d\";\n", ti)

		for fi, f := range frames {
			nodeID := fmt.Sprintf("t%d_f%d", ti, fi)
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeID, fmt.Sprintf("%s\\nstate=%d", f.MethodID, f.State))
			if fi > 0 {
				fmt.Fprintf(&buf, "    %q -> %q;\n", fmt.Sprintf("t%d_f%d", ti, fi-1), nodeID)
			}
		}

		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}
