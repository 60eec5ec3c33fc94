package builder

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/openingtools/pgnc/internal/utils"
)

// GameStat tracks one game's variation count before and after curation.
type GameStat struct {
	Index  int
	Name   string
	Before int
	After  int
}

// ColorStats aggregates the output of a single color build.
type ColorStats struct {
	Color            string
	OutputGames      int
	OutputVariations int
	OutputAvgDepth   float64
	OutputSize       int64
	OutputFiles      []string
	GameStats        []GameStat
}

// Stats aggregates a whole build run.
type Stats struct {
	InputGames      int
	InputVariations int
	InputAvgDepth   float64
	InputSize       int64

	ColorStats []*ColorStats

	TotalOutputGames      int
	TotalOutputVariations int
	TotalOutputSize       int64
}

// PrintStatistics renders the build statistics as tables.
func PrintStatistics(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "\nInput:")
	t := newTable(w, "Metric", "Value")
	t.Append([]string{"Games", strconv.Itoa(stats.InputGames)})
	t.Append([]string{"Variations", strconv.Itoa(stats.InputVariations)})
	t.Append([]string{"Avg Depth (plies)", fmt.Sprintf("%.1f", stats.InputAvgDepth)})
	t.Append([]string{"File Size", utils.FormatBytes(stats.InputSize)})
	t.Render()

	for _, cs := range stats.ColorStats {
		fmt.Fprintf(w, "\n%s repertoire:\n", strings.ToUpper(cs.Color))
		t := newTable(w, "Metric", "Value")
		t.Append([]string{"Games", strconv.Itoa(cs.OutputGames)})
		t.Append([]string{"Variations", strconv.Itoa(cs.OutputVariations)})
		t.Append([]string{"Avg Depth (plies)", fmt.Sprintf("%.1f", cs.OutputAvgDepth)})
		t.Append([]string{"File Size", utils.FormatBytes(cs.OutputSize)})
		t.Append([]string{"Output Files", strconv.Itoa(len(cs.OutputFiles))})
		t.Render()

		if len(cs.GameStats) > 0 {
			fmt.Fprintln(w, "\nPer-game details:")
			gt := newTable(w, "Game", "Name", "Before", "After", "Change")
			for _, gs := range cs.GameStats {
				gt.Append([]string{
					fmt.Sprintf("[%d]", gs.Index),
					gs.Name,
					strconv.Itoa(gs.Before),
					strconv.Itoa(gs.After),
					formatChange(gs.Before, gs.After),
				})
			}
			gt.Render()
		}

		if len(cs.OutputFiles) > 0 {
			fmt.Fprintf(w, "\nFiles: %s\n", strings.Join(cs.OutputFiles, ", "))
		}
	}

	fmt.Fprintln(w, "\nCombined totals:")
	t = newTable(w, "Metric", "Value")
	t.Append([]string{"Total Output Games", strconv.Itoa(stats.TotalOutputGames)})
	t.Append([]string{"Total Output Variations", strconv.Itoa(stats.TotalOutputVariations)})
	t.Append([]string{"Total Output Size", utils.FormatBytes(stats.TotalOutputSize)})
	t.Render()
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(headers)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func formatChange(before, after int) string {
	change := after - before
	if change == 0 || before == 0 {
		return "-"
	}
	return fmt.Sprintf("%+d (%+.1f%%)", change, float64(change)/float64(before)*100)
}
