package enhance

import (
	"fmt"
	"strings"
)

// Behavior scripts are opaque source-text blobs for the host runtime. The
// converter never parses or executes them; it only guarantees a stable shape:
// a hook header, a named entry point, and an onFailure guard.

func renderScript(hook, name string, body ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// hook: %s\n", hook)
	fmt.Fprintf(&b, "function %s(actor, item, state) {\n", name)
	for _, line := range body {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	b.WriteString("}\n")
	return b.String()
}

func guard(condition, reason string) string {
	return fmt.Sprintf("if (!(%s)) return onFailure(%q);", condition, reason)
}
