// Package timeline turns a product's tracking history into display-ready view
// records. It is pure: ordering comes from the backend and is preserved as-is,
// never re-sorted by label or anything else.
package timeline

import (
	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/permissions"
)

// TimePlaceholder is shown for stages the backend has not stamped yet.
const TimePlaceholder = "pending"

// stageIcons maps the fixed stage vocabulary to its markers. Free-form labels
// are legal, so lookups must fall back to GenericIcon rather than fail.
var stageIcons = map[string]string{
	permissions.StageFarm:         "🌾",
	permissions.StageProcessing:   "⚙️",
	permissions.StageQualityCheck: "✅",
	permissions.StageWarehouse:    "📦",
	permissions.StageDistribution: "🚚",
	permissions.StageRetail:       "🏪",
}

// GenericIcon marks stages with labels outside the fixed vocabulary.
const GenericIcon = "📍"

// Entry is one rendered tracking stage.
type Entry struct {
	Stage    string
	Icon     string
	Location string
	Handler  string
	// Notes is empty when the stage carries none; HasNotes distinguishes
	// "no notes" from an empty string the renderer should still show.
	Notes    string
	HasNotes bool
	Date     string
	Time     string
}

// View is the rendered timeline for one product.
//
// An empty history is an explicit state, not a zero-length list: Empty is set
// and CanAdd tells the caller whether to invite the viewer to record the first
// stage or merely explain that none exist yet.
type View struct {
	Entries []Entry
	Empty   bool
	CanAdd  bool
}

// Icon returns the marker for a stage label, falling back to GenericIcon for
// labels outside the fixed vocabulary.
func Icon(stage string) string {
	if icon, ok := stageIcons[stage]; ok {
		return icon
	}
	return GenericIcon
}

// Render builds the display timeline for the given history. canAdd is whether
// the viewer's permitted stage set is non-empty; it only matters for the empty
// state's call to action.
func Render(history []models.TrackingStage, canAdd bool) View {
	if len(history) == 0 {
		return View{Empty: true, CanAdd: canAdd}
	}

	entries := make([]Entry, 0, len(history))
	for _, stage := range history {
		entry := Entry{
			Stage:    stage.Stage,
			Icon:     Icon(stage.Stage),
			Location: stage.Location,
			Handler:  stage.Handler,
			Notes:    stage.Notes,
			HasNotes: stage.Notes != "",
			Date:     TimePlaceholder,
			Time:     TimePlaceholder,
		}
		if !stage.Timestamp.IsZero() {
			entry.Date = stage.Timestamp.Format("Jan 2, 2006")
			entry.Time = stage.Timestamp.Format("15:04")
		}
		entries = append(entries, entry)
	}
	return View{Entries: entries, CanAdd: canAdd}
}
