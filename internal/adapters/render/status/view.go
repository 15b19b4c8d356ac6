package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/tackcheck/internal/application"
	"github.com/bnema/tackcheck/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Now time.Time
	// List narrows the horse table to one list key. Empty shows every list
	// flagged for navigation.
	List string
}

func renderView(state application.State, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Tack Check"),
		s.header.Render(fmt.Sprintf("lists: %s  catalog: %s  horses in catalog: %d",
			statusLabel(state.ListsStatus), statusLabel(state.CatalogStatus), len(state.Catalog.Items))),
	}
	if !state.StorageOK {
		lines = append(lines, s.warning.Render("storage unavailable: changes are not being saved"))
	}

	if !state.Session.Present() {
		lines = append(lines, s.empty.Render("No active session. Run `tack session new` to start one."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines,
		s.detail.Render(sessionLine(state.Session, opts.Now)),
		s.section.Render(renderSummary(state, s)),
		s.section.Render(renderHorses(state, opts, s)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sessionLine(session *domain.Session, now time.Time) string {
	lastEdit := "never"
	if session.LastUpdated != nil {
		lastEdit = formatClock(*session.LastUpdated, now)
	}
	return fmt.Sprintf("session %s  %s  last edit: %s", session.ID, formatExpiry(session.ExpiresAt, now), lastEdit)
}

func renderSummary(state application.State, s styles) string {
	total := len(state.Session.Horses)
	parts := make([]string, 0, len(state.ListsConfig))

	for _, def := range state.ListsConfig {
		if !def.InSummary {
			continue
		}
		done := 0
		for _, horse := range state.Session.Horses {
			if flagFor(horse, def) {
				done++
			}
		}
		label := s.listKey.Render(fmt.Sprintf("%-14s", def.Label))
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			label,
			" ",
			renderProgressBar(done, total, 20, s),
			" ",
			s.detail.Render(fmt.Sprintf("%d/%d", done, total)),
		))
	}

	if len(parts) == 0 {
		return s.empty.Render("No lists in summary.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHorses(state application.State, opts RenderOptions, s styles) string {
	columns := tableColumns(state.ListsConfig, opts.List)
	rows := make([]string, 0, len(state.Session.Horses))

	for _, horse := range state.Session.Horses {
		nameStyle := s.horse
		if horse.BarnActive {
			nameStyle = s.horseBarn
		}
		cells := []string{
			s.header.Render(fmt.Sprintf("%-4s", horse.HorseID)),
			nameStyle.Render(fmt.Sprintf("%-16s", horse.HorseName)),
		}
		for _, def := range columns {
			cells = append(cells, " ", checkCell(def.Label, flagFor(horse, def), s))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func tableColumns(cfg domain.ListsConfig, only string) []domain.ListDef {
	columns := make([]domain.ListDef, 0, len(cfg))
	for _, def := range cfg {
		if only != "" {
			if def.Key == only {
				columns = append(columns, def)
			}
			continue
		}
		if def.InNav {
			columns = append(columns, def)
		}
	}
	return columns
}

func flagFor(horse domain.HorseRecord, def domain.ListDef) bool {
	if def.Type == domain.ListTypeState {
		return horse.State
	}
	return horse.Lists[def.Key]
}

func checkCell(label string, checked bool, s styles) string {
	if checked {
		return s.checked.Render("[x] " + label)
	}
	return s.unchecked.Render("[ ] " + label)
}

func statusLabel(status domain.ResourceStatus) string {
	if status == "" {
		return string(domain.ResourceStatusLoading)
	}
	return string(status)
}

func renderProgressBar(done, total, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(width) * float64(done) / float64(total)))
	}
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func formatClock(t, now time.Time) string {
	if now.IsZero() {
		return t.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := t.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return t.Format("15:04")
	}

	return t.Format("15:04 on 02 Jan")
}

func formatExpiry(expiresAt *time.Time, now time.Time) string {
	if expiresAt == nil {
		return "no expiry"
	}
	if now.IsZero() {
		return "expires " + formatClock(*expiresAt, now)
	}
	if !expiresAt.After(now) {
		return "expired"
	}

	hours := int(math.Ceil(expiresAt.Sub(now).Hours()))
	if hours < 1 {
		hours = 1
	}
	suffix := "hours"
	if hours == 1 {
		suffix = "hour"
	}
	return fmt.Sprintf("expires in %d %s (%s)", hours, suffix, formatClock(*expiresAt, now))
}
