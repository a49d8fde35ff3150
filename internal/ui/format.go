// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for layers, features, and edit status

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/session"
)

// FormatLayer formats a layer with its feature count.
func FormatLayer(layer *models.Layer, featureCount int) string {
	if layer == nil {
		return color.New(color.Faint).Sprint("(invalid layer)")
	}
	access := ""
	if !layer.Editable {
		access = " " + color.YellowString("read-only")
	}
	noun := "features"
	if featureCount == 1 {
		noun = "feature"
	}
	return fmt.Sprintf("%s %s%s - %d %s",
		color.GreenString(layer.Name),
		color.New(color.Faint).Sprintf("[%s]", layer.Kind),
		access,
		featureCount, noun)
}

// FormatPoints formats a vertex list, abbreviating long lists.
func FormatPoints(points []models.Point) string {
	if len(points) == 0 {
		return color.New(color.Faint).Sprint("(no points)")
	}
	const maxShown = 4
	parts := make([]string, 0, maxShown+1)
	for i, p := range points {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("... %d more", len(points)-maxShown))
			break
		}
		parts = append(parts, fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y))
	}
	return strings.Join(parts, " ")
}

// FormatFeature formats a saved feature for listing.
func FormatFeature(f *models.Feature) string {
	if f == nil {
		return color.New(color.Faint).Sprint("(invalid feature)")
	}
	return fmt.Sprintf("  %s %s %s - %s",
		color.New(color.Faint).Sprint(f.ID.String()[:8]),
		color.CyanString(f.Kind.String()),
		FormatPoints(f.Points),
		color.New(color.Faint).Sprint(FormatRelativeTime(f.CreatedAt)))
}

// FormatTapResult describes a handled tap.
func FormatTapResult(res editing.TapResult) string {
	switch res {
	case editing.TapAdded:
		return "vertex added"
	case editing.TapMidpointSelected:
		return "midpoint selected, tap again to insert"
	case editing.TapVertexSelected:
		return "vertex selected, tap again to move"
	case editing.TapMoved:
		return "point moved"
	default:
		return res.String()
	}
}

// FormatStatus renders an edit status block.
func FormatStatus(st session.Status) string {
	var sb strings.Builder
	layer := st.Layer
	if layer == "" {
		layer = "(none)"
	}
	fmt.Fprintf(&sb, "%s %s  mode: %s  history: %d\n",
		color.New(color.Bold).Sprint("Layer:"), color.GreenString(layer), st.Mode, st.HistoryCount)

	for i, p := range st.Points {
		marker := " "
		if st.VertexSelected && st.InsertingIndex == i {
			marker = color.RedString("*")
		}
		fmt.Fprintf(&sb, "  %s %d %s\n", marker, i, color.CyanString("(%.4f, %.4f)", p.X, p.Y))
	}
	if len(st.Points) == 0 {
		fmt.Fprintf(&sb, "  %s\n", color.New(color.Faint).Sprint("(no points)"))
	}
	if st.MidpointSelected && st.InsertingIndex < len(st.Midpoints) {
		m := st.Midpoints[st.InsertingIndex]
		fmt.Fprintf(&sb, "  midpoint %d selected at (%.4f, %.4f)\n", st.InsertingIndex, m.X, m.Y)
	}

	var actions []string
	if st.Actions.Save {
		actions = append(actions, "save")
	}
	if st.Actions.DeletePoint {
		actions = append(actions, "delete")
	}
	if st.Actions.Undo {
		actions = append(actions, "undo")
	}
	if len(actions) == 0 {
		actions = append(actions, "none")
	}
	fmt.Fprintf(&sb, "  actions: %s", strings.Join(actions, ", "))
	return sb.String()
}

// FormatRelativeTime formats a time as relative to now.
func FormatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	// Handle future times (clock skew, bad data)
	if diff < 0 {
		return color.YellowString("in the future")
	}

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	}
	if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}
	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
