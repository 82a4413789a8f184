package workflow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
)

// GraphSpec describes one flowchart render.
type GraphSpec struct {
	Transitions []domain.Transition
	Statuses    []domain.Status
	FlowTypes   []domain.FlowType
	// FlowTypeFilter scopes the graph to one flow type; nil renders all
	// transitions with internal ones marked on their edge labels.
	FlowTypeFilter *int64
	// Direction is a mermaid layout direction (TD, TB, LR, RL, BT).
	// Anything else falls back to TD.
	Direction string
	// HighlightStatusID marks the ticket's current status, when set and
	// present among the included nodes.
	HighlightStatusID *int64
	LockKind          domain.LockKind
}

const (
	fallbackEdgeStyle = "stroke:#e67e22,stroke-width:2px"
	successEdgeStyle  = "stroke:#2ecc71,stroke-width:2px"
	neutralNodeStyle  = "fill:#e8e8e8,stroke:#9e9e9e"
)

var lockClassDefs = map[domain.LockKind]string{
	domain.LockObservation: "fill:#fff3bf,stroke:#e67700,stroke-width:3px",
	domain.LockOnHold:      "fill:#d0ebff,stroke:#1971c2,stroke-width:3px",
	domain.LockRejected:    "fill:#ffe3e3,stroke:#c92a2a,stroke-width:3px",
}

// BuildFlowchart renders the transition table as mermaid flowchart text.
// Output is deterministic for identical inputs: nodes are emitted in status
// id order, edges in transition input order with duplicates dropped. The
// builder performs no I/O and always returns a renderable graph.
func BuildFlowchart(spec GraphSpec) string {
	transitions := filterTransitions(spec.Transitions, spec.FlowTypeFilter)

	included := map[int64]bool{}
	for _, t := range transitions {
		included[t.CurrentStatusID] = true
		included[t.NextStatusID] = true
	}

	var b strings.Builder
	b.WriteString("flowchart " + normalizeDirection(spec.Direction) + "\n")

	if len(included) == 0 {
		// callers always receive a renderable graph
		b.WriteString("    empty[\"No transitions for this type\"]\n")
		return b.String()
	}

	nodeIDs := make([]int64, 0, len(included))
	for id := range included {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	width := 2
	if w := len(fmt.Sprintf("%d", nodeIDs[len(nodeIDs)-1])); w > width {
		width = w
	}
	node := func(id int64) string {
		return fmt.Sprintf("%0*d", width, id)
	}

	statusByID := make(map[int64]domain.Status, len(spec.Statuses))
	for _, status := range spec.Statuses {
		statusByID[status.ID] = status
	}
	internalFlows := map[int64]bool{}
	for _, ft := range spec.FlowTypes {
		if ft.IsInternal() {
			internalFlows[ft.ID] = true
		}
	}

	for _, id := range nodeIDs {
		label := fmt.Sprintf("Status %d", id)
		if status, ok := statusByID[id]; ok {
			label = sanitizeNodeLabel(status.Name)
		}
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", node(id), label)
	}

	type edgeStyle struct {
		index int
		style string
	}
	var styles []edgeStyle
	seen := map[string]bool{}
	emitted := 0
	for _, t := range transitions {
		if !included[t.CurrentStatusID] || !included[t.NextStatusID] {
			continue
		}
		label := sanitizeEdgeLabel(t.ButtonLabel)
		if spec.FlowTypeFilter == nil && internalFlows[t.FlowTypeID] {
			label = strings.TrimSpace(label + " (Internal)")
		}

		src, dst := node(t.CurrentStatusID), node(t.NextStatusID)
		key := src + "\x00" + dst + "\x00" + label
		if seen[key] {
			// identical arrows from different roles collapse into one;
			// dropped duplicates do not consume a style index
			continue
		}
		seen[key] = true

		if label == "" {
			fmt.Fprintf(&b, "    %s --> %s\n", src, dst)
		} else {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", src, dst, label)
		}
		switch t.EdgeKind {
		case domain.EdgeKindFallback:
			styles = append(styles, edgeStyle{index: emitted, style: fallbackEdgeStyle})
		case domain.EdgeKindSuccess:
			styles = append(styles, edgeStyle{index: emitted, style: successEdgeStyle})
		}
		emitted++
	}

	for _, s := range styles {
		fmt.Fprintf(&b, "    linkStyle %d %s\n", s.index, s.style)
	}

	for _, id := range nodeIDs {
		style := neutralNodeStyle
		if status, ok := statusByID[id]; ok && wellFormedColor(status.ColorCode) {
			style = "fill:" + *status.ColorCode
		}
		fmt.Fprintf(&b, "    style %s %s\n", node(id), style)
	}

	if spec.HighlightStatusID != nil && included[*spec.HighlightStatusID] {
		class := "current"
		def := "stroke:#1c7ed6,stroke-width:3px"
		if lockDef, ok := lockClassDefs[spec.LockKind]; ok {
			class = "lock" + string(spec.LockKind)
			def = lockDef
		}
		fmt.Fprintf(&b, "    classDef %s %s\n", class, def)
		fmt.Fprintf(&b, "    class %s %s\n", node(*spec.HighlightStatusID), class)
	}

	return b.String()
}

func filterTransitions(transitions []domain.Transition, flowTypeID *int64) []domain.Transition {
	if flowTypeID == nil {
		return transitions
	}
	filtered := make([]domain.Transition, 0, len(transitions))
	for _, t := range transitions {
		if t.FlowTypeID == *flowTypeID {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func normalizeDirection(dir string) string {
	switch strings.ToUpper(strings.TrimSpace(dir)) {
	case "TB":
		return "TB"
	case "LR":
		return "LR"
	case "RL":
		return "RL"
	case "BT":
		return "BT"
	default:
		return "TD"
	}
}

var nodeLabelSanitizer = strings.NewReplacer(
	`"`, " ", "'", " ", "`", " ",
	"[", " ", "]", " ",
	"{", " ", "}", " ",
	"(", " ", ")", " ",
	"|", " ", `\`, " ",
)

func sanitizeNodeLabel(name string) string {
	return collapseWhitespace(nodeLabelSanitizer.Replace(name))
}

var edgeLabelSanitizer = strings.NewReplacer(
	"-->", " ", "==>", " ", "->", " ", "=>", " ",
	`"`, " ", "'", " ", "`", " ",
	"[", " ", "]", " ",
	"{", " ", "}", " ",
	"|", " ", `\`, " ", "%", " ",
)

func sanitizeEdgeLabel(label string) string {
	return collapseWhitespace(edgeLabelSanitizer.Replace(label))
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func wellFormedColor(color *string) bool {
	return color != nil && strings.HasPrefix(*color, "#") && len(*color) > 1
}
