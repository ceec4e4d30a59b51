package tree

import (
	"fmt"
	"strings"

	"github.com/benz9527/xtree/lib/infra"
)

const (
	printIndent     = "    "
	printRootLabel  = "Root:"
	printRightLabel = "R──"
	printLeftLabel  = "L──"
	printEmptyTree  = "(empty tree)"
)

// render prints the tree rotated by 90 degrees, the right subtree above
// its parent and the left subtree below.
func render[T infra.OrderedKey](root *Node[T], suffix func(*Node[T]) string) string {
	if root == nil {
		return printEmptyTree
	}
	builder := &strings.Builder{}
	var walk func(node *Node[T], level int, label string)
	walk = func(node *Node[T], level int, label string) {
		if node == nil {
			return
		}
		walk(node.right, level+1, printRightLabel)
		if builder.Len() > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(strings.Repeat(printIndent, level))
		builder.WriteString(label)
		builder.WriteByte(' ')
		_, _ = fmt.Fprint(builder, node.value)
		if suffix != nil {
			builder.WriteString(suffix(node))
		}
		walk(node.left, level+1, printLeftLabel)
	}
	walk(root, 0, printRootLabel)
	return builder.String()
}
