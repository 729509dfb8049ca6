package traverse

import (
	"fmt"
	"sort"
	"strings"
)

// RenderStorageReport renders a storage summary as a Markdown table with one
// row per endpoint, sorted by "<contract>.<name>". Rows whose endpoint is not
// in the graph sort first. IDs missing from the graph render as UnknownVar(<id>).
func RenderStorageReport(g *CallGraph, summary StorageSummary, fileCount int) string {
	var sb strings.Builder
	sb.WriteString("# Storage Access Analysis\n\n")
	sb.WriteString(fmt.Sprintf("**Files analyzed:** %d Solidity files\n\n", fileCount))
	sb.WriteString("| Endpoint | Reads | Writes |\n")
	sb.WriteString("|----------|-------|--------|\n")

	entries := make([]StorageAccess, len(summary))
	copy(entries, summary)
	sort.SliceStable(entries, func(i, j int) bool {
		return endpointKey(g, entries[i].NodeID) < endpointKey(g, entries[j].NodeID)
	})

	for _, entry := range entries {
		endpoint := endpointKey(g, entry.NodeID)
		if endpoint == "" {
			endpoint = unknownVar(entry.NodeID)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			endpoint,
			accessList(g, entry.Reads),
			accessList(g, entry.Writes)))
	}

	return sb.String()
}

// endpointKey returns the sort key for an endpoint, or "" if the node is unknown.
func endpointKey(g *CallGraph, id int) string {
	n, ok := g.Node(id)
	if !ok {
		return ""
	}
	contract := n.Contract
	if contract == "" {
		contract = "Global"
	}
	return contract + "." + n.Name
}

func accessList(g *CallGraph, ids []int) string {
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			labels = append(labels, unknownVar(id))
			continue
		}
		contract := n.Contract
		if contract == "" {
			contract = "?"
		}
		labels = append(labels, contract+"."+n.Name)
	}
	return strings.Join(labels, ", ")
}

func unknownVar(id int) string {
	return fmt.Sprintf("UnknownVar(%d)", id)
}
