// Package dashboard holds the per-role home screens.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/ui/components"
)

// logout signs out in the background. The app reacts to the session change.
func logout(deps *appctx.Deps) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			if err := deps.Session.Logout(context.Background()); err != nil {
				deps.Log.Warn("logout", zap.Error(err))
			}
			return nil
		}
	}
}

func nav(p guard.Path) func() tea.Cmd {
	return func() tea.Cmd { return router.Navigate(p, router.ModePush, nil) }
}

// formatNumber prints whole numbers without decimals.
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// humanize turns "total_questions" into "Total Questions".
func humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Stat is one labelled figure on a dashboard.
type Stat struct {
	Label string
	Value string
}

// StatsOf lists the numeric stats of a count map, keys sorted.
func StatsOf(m api.Stats) []Stat {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]Stat, len(keys))
	for i, k := range keys {
		out[i] = Stat{humanize(k), formatNumber(m[k])}
	}
	return out
}

// statCards renders stats as rows of up to three cards fitting cw.
func statCards(stats []Stat, cw int) string {
	const perRow = 3
	cardWidth := cw/perRow - 2
	var rows []string
	for start := 0; start < len(stats); start += perRow {
		end := min(start+perRow, len(stats))
		row := make([]string, 0, perRow)
		for _, st := range stats[start:end] {
			row = append(row, components.StatCard(st.Label, st.Value, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
