// Package report formats level listings, records and simulation results
// for the command line.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/storage"
	"github.com/milk9111/platformer/system"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// Title renders a heading line.
func Title(s string) string { return titleStyle.Render(s) }

// Note renders secondary text.
func Note(s string) string { return dimStyle.Render(s) }

// Seconds formats a tick count as seconds of play.
func Seconds(ticks int) string {
	d := time.Duration(ticks) * common.TickDuration
	return strconv.FormatFloat(d.Seconds(), 'f', 2, 64) + "s"
}

// LevelRow is one line of the level listing.
type LevelRow struct {
	ID    string
	Level *levels.Level
	Err   error
	Stats *storage.LevelStats
}

// Levels renders the level listing. Levels that fail to load are listed
// with their error.
func Levels(rows []LevelRow) string {
	t := newTable("Level", "Name", "Platforms", "Hazards", "Checkpoints", "Runs", "Best")
	for _, r := range rows {
		if r.Err != nil {
			t.Row(r.ID, "error: "+r.Err.Error(), "", "", "", "", "")
			continue
		}
		runs, best := "-", "-"
		if r.Stats != nil && r.Stats.Runs > 0 {
			runs = strconv.Itoa(r.Stats.Runs)
			if r.Stats.Wins > 0 {
				best = Seconds(r.Stats.BestTicks)
			}
		}
		l := r.Level.Layout
		t.Row(r.ID, r.Level.Name,
			strconv.Itoa(len(l.Platforms)),
			strconv.Itoa(len(l.DeathZones)),
			strconv.Itoa(len(l.RespawnZones)),
			runs, best)
	}
	return t.Render()
}

// Runs renders a ranked list of runs.
func Runs(runs []storage.Run) string {
	t := newTable("Rank", "Deaths", "Jumps", "Time", "Date")
	for i, r := range runs {
		t.Row(strconv.Itoa(i+1), strconv.Itoa(r.Deaths), strconv.Itoa(r.Jumps),
			Seconds(r.Ticks), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return t.Render()
}

// Stats renders per-level aggregates, sorted by level.
func Stats(all map[string]*storage.LevelStats) string {
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	t := newTable("Level", "Runs", "Wins", "Deaths", "Jumps", "Best", "Last played")
	for _, id := range ids {
		s := all[id]
		best := "-"
		if s.Wins > 0 {
			best = Seconds(s.BestTicks)
		}
		last := "-"
		if !s.LastPlayed.IsZero() {
			last = s.LastPlayed.Format("2006-01-02 15:04")
		}
		t.Row(id, strconv.Itoa(s.Runs), strconv.Itoa(s.Wins), strconv.Itoa(s.TotalDeaths),
			strconv.Itoa(s.TotalJumps), best, last)
	}
	return t.Render()
}

// Sim renders the outcome of a headless run.
func Sim(res system.SimResult) string {
	var b strings.Builder
	b.WriteString(Title("Simulation - "+res.Level) + "\n")

	t := newTable("Field", "Value")
	t.Row("state", res.State.String())
	t.Row("steps", strconv.Itoa(res.Steps))
	t.Row("play time", Seconds(res.Ticks))
	t.Row("deaths", strconv.Itoa(res.Deaths))
	t.Row("jumps", strconv.Itoa(res.Jumps))
	t.Row("marker", fmt.Sprintf("(%.2f, %.2f)", res.Marker.X, res.Marker.Y))
	t.Row("spawn", fmt.Sprintf("(%.2f, %.2f)", res.Spawn.X, res.Spawn.Y))
	t.Row("left", strconv.FormatBool(res.Left))
	b.WriteString(t.Render() + "\n")

	if len(res.Events) > 0 {
		et := newTable("Event", "Deaths", "Jumps", "Tick")
		for _, e := range res.Events {
			et.Row(string(e.Kind), strconv.Itoa(e.Deaths), strconv.Itoa(e.Jumps), strconv.Itoa(e.Ticks))
		}
		b.WriteString(et.Render() + "\n")
	}
	return b.String()
}
