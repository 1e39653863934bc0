package patch

import (
	"fmt"
	"strings"
)

// DescribeChanges renders a one-line human readable summary of a batch
// outcome. A single change yields its own description verbatim; multiple
// changes are grouped by kind, e.g. "Made 2 replaces, 1 insert".
func DescribeChanges(changes []ChangeRecord) string {
	switch len(changes) {
	case 0:
		return "No changes made"
	case 1:
		return changes[0].Description
	}

	counts := make(map[Kind]int, len(changes))
	var order []Kind
	for _, change := range changes {
		if counts[change.Kind] == 0 {
			order = append(order, change.Kind)
		}
		counts[change.Kind]++
	}

	parts := make([]string, 0, len(order))
	for _, kind := range order {
		name := string(kind)
		if counts[kind] > 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", counts[kind], name))
	}
	return "Made " + strings.Join(parts, ", ")
}
