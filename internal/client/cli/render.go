package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/timeline"
	"github.com/agritrack/agritrack-cli/internal/common"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	stageStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	notesStyle   = lipgloss.NewStyle().Italic(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	emptyStyle   = lipgloss.NewStyle().Faint(true)
)

// userMessage converts service errors into the line shown to the user.
// Sentinel matches come first; anything unmatched is shown as-is.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "Session expired, please log in again."
	case errors.Is(err, common.ErrUnauthorized):
		return "Not authorized, please log in."
	case errors.Is(err, common.ErrPermissionDenied):
		return "You are not authorized to add this tracking stage."
	case errors.Is(err, common.ErrNotFound):
		return "Not found."
	case errors.Is(err, common.ErrValidation):
		return fmt.Sprintf("Invalid input: %s", err)
	case errors.Is(err, common.ErrUnavailable):
		return "Server unavailable, try again later."
	default:
		return err.Error()
	}
}

func (a *App) printError(err error) {
	fmt.Fprintln(a.out, errorStyle.Render(userMessage(err)))
}

func (a *App) printSuccess(msg string) {
	fmt.Fprintln(a.out, successStyle.Render(msg))
}

// renderTimeline writes the product header and its tracking timeline, oldest
// stage first.
func renderTimeline(w io.Writer, p *models.Product, view timeline.View) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s (%s)", p.Name, p.ID)))
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("type %s · batch %s · status %s", p.Type, p.BatchID, p.Status)))
	if p.CurrentLocation != "" {
		fmt.Fprintln(w, metaStyle.Render("currently at "+p.CurrentLocation))
	}
	fmt.Fprintln(w)

	if view.Empty {
		fmt.Fprintln(w, emptyStyle.Render("No tracking stages recorded yet."))
		if view.CanAdd {
			fmt.Fprintln(w, emptyStyle.Render("Use 'addstage "+p.ID+"' to record the first one."))
		}
		return
	}

	for _, e := range view.Entries {
		fmt.Fprintf(w, "%s %s\n", e.Icon, stageStyle.Render(e.Stage))
		fmt.Fprintln(w, "   "+metaStyle.Render(fmt.Sprintf("%s · handled by %s", e.Location, e.Handler)))
		fmt.Fprintln(w, "   "+metaStyle.Render(e.Date+" "+e.Time))
		if e.HasNotes {
			fmt.Fprintln(w, "   "+notesStyle.Render(e.Notes))
		}
	}
}

func renderProductList(w io.Writer, page *models.ProductPage) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %-24s %-12s %-14s %s", "ID", "NAME", "TYPE", "STATUS", "LOCATION")))
	for _, p := range page.Products {
		fmt.Fprintf(w, "%-12s %-24s %-12s %-14s %s\n", p.ID, p.Name, p.Type, p.Status, p.CurrentLocation)
	}
	fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("page %d/%d · %d products total",
		page.CurrentPage+1, page.TotalPages, page.TotalItems)))
}

func renderFarms(w io.Writer, farms []models.Farm) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-12s %-24s %-20s %s", "ID", "NAME", "LOCATION", "OWNER")))
	for _, f := range farms {
		fmt.Fprintf(w, "%-12s %-24s %-20s %s\n", f.ID, f.Name, f.Location, f.Owner)
	}
}

func renderStats(w io.Writer, s *models.DashboardStats) {
	fmt.Fprintln(w, headerStyle.Render("Dashboard"))
	fmt.Fprintf(w, "products: %d  types: %d  farms: %d  tracking stages: %d\n",
		s.TotalProducts, s.UniqueTypes, s.UniqueFarms, s.TotalTrackingStages)
	if len(s.ProductsByType) > 0 {
		fmt.Fprintln(w, metaStyle.Render("by type:"))
		for typ, count := range s.ProductsByType {
			fmt.Fprintf(w, "  %-16s %d\n", typ, count)
		}
	}
	if len(s.RecentProducts) > 0 {
		fmt.Fprintln(w, metaStyle.Render("recent:"))
		for _, p := range s.RecentProducts {
			fmt.Fprintf(w, "  %s (%s)\n", p.Name, p.ID)
		}
	}
}
