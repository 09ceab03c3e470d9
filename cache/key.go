package cache

import (
	"fmt"
	"strings"

	"github.com/karlssberg/terminus"
)

// Key builds the deterministic cache key for an invocation: the
// qualified method name followed by the ordered argument list in
// each argument's default string form, "null" for nil, joined by
// commas — e.g. "UserService.GetUser(42)".
func Key(inv *terminus.Invocation) string {
	var b strings.Builder
	b.WriteString(inv.Method.Qualified())
	b.WriteByte('(')
	for i, arg := range inv.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		if arg.Value == nil {
			b.WriteString("null")
		} else {
			fmt.Fprintf(&b, "%v", arg.Value)
		}
	}
	b.WriteByte(')')
	return b.String()
}
