package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/syllabus/pkg/domain"
)

// Overlay contains ledger state to visualize on the graph.
type Overlay struct {
	Completed []string
	Current   string
}

// ClassifyFunc resolves the workspace strategy of a topic.
type ClassifyFunc func(domain.Topic) (domain.Strategy, error)

// GenerateMermaid produces a Mermaid flowchart of the curriculum in catalog order.
// Node shapes follow the workspace strategy:
// - Consolidated project: [[Subroutine]]
// - Conceptual folder: [Rectangle]
// - Unclassified: >Flag]
// Topics of the same sprint are grouped in a subgraph and a change of sprint
// is drawn as a dotted edge.
func GenerateMermaid(topics []domain.Topic, classify ClassifyFunc, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var unclassified []string
	sprint := ""
	open := false
	for _, topic := range topics {
		if topic.Sprint != sprint || !open {
			if open && sprint != "" {
				sb.WriteString("    end\n")
			}
			sprint = topic.Sprint
			open = true
			if sprint != "" {
				sb.WriteString(fmt.Sprintf("    subgraph sprint_%s[\"Sprint %s\"]\n", sanitizeMermaidID(sprint), escapeLabel(sprint)))
			}
		}

		safeID := sanitizeMermaidID(topic.ID)
		opener, closer := "[", "]"
		label := topic.ID

		if classify != nil {
			strategy, err := classify(topic)
			switch {
			case err != nil:
				opener, closer = ">", "]"
				unclassified = append(unclassified, safeID)
			case strategy.IsProject():
				opener, closer = "[[", "]]"
				label = fmt.Sprintf("%s <br/> %s", topic.ID, strategy.Name)
			default:
				label = fmt.Sprintf("%s <br/> %s", topic.ID, strategy.Name)
			}
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))
	}
	if open && sprint != "" {
		sb.WriteString("    end\n")
	}

	for i := 1; i < len(topics); i++ {
		from, to := topics[i-1], topics[i]
		arrow := "-->"
		if from.Sprint != to.Sprint {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(from.ID), arrow, sanitizeMermaidID(to.ID)))
	}

	if len(unclassified) > 0 {
		sb.WriteString("    classDef unclassified fill:#ffebee,stroke:#c62828,stroke-dasharray:4,color:#000;\n")
		for _, id := range unclassified {
			sb.WriteString(fmt.Sprintf("    class %s unclassified;\n", id))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef completed fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		known := make(map[string]bool, len(topics))
		for _, t := range topics {
			known[t.ID] = true
		}

		// Stale ledger entries have no node to style.
		seen := make(map[string]bool)
		for _, id := range overlay.Completed {
			if !known[id] || seen[id] {
				continue
			}
			seen[id] = true
			sb.WriteString(fmt.Sprintf("    class %s completed;\n", sanitizeMermaidID(id)))
		}

		if overlay.Current != "" && known[overlay.Current] {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
