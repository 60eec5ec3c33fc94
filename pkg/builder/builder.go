// Package builder orchestrates a full curation run: read the source PGN
// once, derive one curated game set per color config, write the outputs and
// collect statistics.
package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/openingtools/pgnc/internal/utils"
	"github.com/openingtools/pgnc/pkg/config"
	"github.com/openingtools/pgnc/pkg/filter"
	"github.com/openingtools/pgnc/pkg/history"
	"github.com/openingtools/pgnc/pkg/movetree"
)

const curatorTag = "pgnc v1.0.0"

// Options control a build run.
type Options struct {
	DryRun      bool
	Verbose     bool
	Split       bool   // one output file per game
	Depth       int    // move pairs to keep
	Output      string // overrides the config's output prefix when set
	HistoryPath string // when set, completed runs are recorded here
}

// Build executes the whole configuration. The source PGN is read once and
// shared read-only across color configs; every transformation yields new
// trees.
func Build(cfg *config.Config, opts Options) (*Stats, error) {
	outputPrefix := cfg.Output
	if opts.Output != "" {
		outputPrefix = opts.Output
	}

	if opts.Verbose {
		utils.Log.Infof("reading source PGN: %s", cfg.Source)
	}
	sourceGames, err := movetree.ReadFile(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", cfg.Source, err)
	}

	stats := &Stats{InputGames: len(sourceGames)}
	if fi, err := os.Stat(cfg.Source); err == nil {
		stats.InputSize = fi.Size()
	}
	for _, g := range sourceGames {
		stats.InputVariations += movetree.CountVariations(g)
	}
	if len(sourceGames) > 0 {
		var total float64
		for _, g := range sourceGames {
			total += movetree.AverageDepth(g)
		}
		stats.InputAvgDepth = total / float64(len(sourceGames))
	}
	if opts.Verbose {
		utils.Log.Infof("loaded %d game(s), %d variations", stats.InputGames, stats.InputVariations)
	}

	for i := range cfg.Configs {
		colorStats, err := buildColor(&cfg.Configs[i], sourceGames, outputPrefix, opts)
		if err != nil {
			return nil, err
		}
		stats.ColorStats = append(stats.ColorStats, colorStats)
		stats.TotalOutputGames += colorStats.OutputGames
		stats.TotalOutputVariations += colorStats.OutputVariations
		stats.TotalOutputSize += colorStats.OutputSize
	}

	if opts.HistoryPath != "" && !opts.DryRun {
		if err := recordRuns(cfg.Name, opts, stats); err != nil {
			utils.Log.Warnf("could not record build history: %v", err)
		}
	}

	return stats, nil
}

// ColorPlyBound converts a move-pair depth into the ply bound for a color: a
// white repertoire ends on its own move, so it keeps one extra half-move.
func ColorPlyBound(color string, depth int) int {
	if color == "white" {
		return 2*depth + 1
	}
	return 2 * depth
}

func buildColor(cc *config.ColorConfig, sourceGames []*movetree.Game, outputPrefix string, opts Options) (*ColorStats, error) {
	colorStats := &ColorStats{Color: cc.Color}
	settings := cc.EffectiveSettings()
	calculatedMaxDepth := ColorPlyBound(cc.Color, opts.Depth)

	if opts.Verbose {
		utils.Log.Infof("processing %s repertoire", cc.Color)
	}

	games, err := cc.ResolveGames(len(sourceGames))
	if err != nil {
		return nil, err
	}

	var outputGames []*movetree.Game
	var outputIndices []int // original 1-based source indices

	for _, gc := range games {
		if gc.Index > len(sourceGames) {
			utils.Log.Warnf("game index %d out of range (only %d games), skipping", gc.Index, len(sourceGames))
			continue
		}
		source := sourceGames[gc.Index-1]
		name := displayName(gc, source, cc.Color)
		sourceVariations := movetree.CountVariations(source)

		if gc.Action == string(filter.ActionSkip) {
			if opts.Verbose {
				utils.Log.Infof("game [%d] %s: skipped completely", gc.Index, name)
			}
			continue
		}

		rs := compileRuleSet(gc)
		filtered, skipped := filter.Apply(source, rs)
		if skipped {
			continue
		}

		if gc.Action == string(filter.ActionSkipKeepHeaders) {
			outputGames = append(outputGames, filtered)
			outputIndices = append(outputIndices, gc.Index)
			colorStats.GameStats = append(colorStats.GameStats, GameStat{
				Index: gc.Index, Name: name, Before: sourceVariations, After: 0,
			})
			if opts.Verbose {
				utils.Log.Infof("game [%d] %s: headers preserved, variations removed", gc.Index, name)
			}
			continue
		}

		maxDepth := gc.MaxDepth
		if maxDepth == 0 {
			maxDepth = calculatedMaxDepth
		}
		filtered = filter.Trim(filtered, maxDepth)

		variationsAfter := movetree.CountVariations(filtered)
		if settings.RemoveEmptyGames && len(filtered.Root.Children) == 0 {
			if opts.Verbose {
				utils.Log.Infof("game [%d] %s: removed (no variations after filtering)", gc.Index, name)
			}
			continue
		}

		outputGames = append(outputGames, filtered)
		outputIndices = append(outputIndices, gc.Index)
		colorStats.GameStats = append(colorStats.GameStats, GameStat{
			Index: gc.Index, Name: name, Before: sourceVariations, After: variationsAfter,
		})
		if opts.Verbose {
			utils.Log.Infof("game [%d] %s: %d variation(s), %d remove filter(s), %d add filter(s), trimmed to %d plies",
				gc.Index, name, variationsAfter, len(rs.Remove), len(rs.Add), maxDepth)
		}
	}

	colorStats.OutputGames = len(outputGames)
	for _, g := range outputGames {
		colorStats.OutputVariations += movetree.CountVariations(g)
	}
	if len(outputGames) > 0 {
		var total float64
		for _, g := range outputGames {
			total += movetree.AverageDepth(g)
		}
		colorStats.OutputAvgDepth = total / float64(len(outputGames))
	}

	if settings.AddCurationComment && len(outputGames) > 0 && outputGames[0].Tag("Curator") == "" {
		outputGames[0].SetTag("Curator", curatorTag)
	}

	if err := writeOutputs(colorStats, outputGames, outputIndices, cc.Color, outputPrefix, opts); err != nil {
		return nil, err
	}
	return colorStats, nil
}

// compileRuleSet turns a game config into a compiled rule set, dropping
// filters whose move sequence cannot be resolved. One bad rule must not
// abort the build.
func compileRuleSet(gc config.GameConfig) filter.RuleSet {
	rs := filter.RuleSet{Action: filter.Action(gc.Action)}
	for _, f := range gc.RemoveVariations {
		rule, err := filter.CompileRule(f.Moves, f.Depth, f.Reason)
		if err != nil {
			utils.Log.Warnf("game %d: ignoring remove filter %q: %v", gc.Index, f.Moves, err)
			continue
		}
		rs.Remove = append(rs.Remove, rule)
	}
	for _, f := range gc.AddVariations {
		rule, err := filter.CompileRule(f.Moves, f.Depth, f.Reason)
		if err != nil {
			utils.Log.Warnf("game %d: ignoring add filter %q: %v", gc.Index, f.Moves, err)
			continue
		}
		rs.Add = append(rs.Add, rule)
	}
	return rs
}

func displayName(gc config.GameConfig, source *movetree.Game, color string) string {
	if gc.Name != "" {
		return gc.Name
	}
	headerField := "White"
	if color == "black" {
		headerField = "Black"
	}
	if name := source.Tag(headerField); name != "" {
		return name
	}
	return fmt.Sprintf("Game %d", gc.Index)
}

func writeOutputs(colorStats *ColorStats, outputGames []*movetree.Game, outputIndices []int, color, prefix string, opts Options) error {
	if opts.Split {
		for i, g := range outputGames {
			path := fmt.Sprintf("%s_%s_%d_%d.pgn", prefix, color, opts.Depth, outputIndices[i])
			colorStats.OutputFiles = append(colorStats.OutputFiles, path)
			if opts.DryRun {
				continue
			}
			if err := movetree.WriteFile(path, []*movetree.Game{g}); err != nil {
				return err
			}
			if fi, err := os.Stat(path); err == nil {
				colorStats.OutputSize += fi.Size()
			}
			if opts.Verbose {
				utils.Log.Infof("wrote %s", path)
			}
		}
		if opts.DryRun && opts.Verbose {
			utils.Log.Infof("[dry run] would write %d files", len(outputGames))
		}
		return nil
	}

	path := fmt.Sprintf("%s_%s_%d.pgn", prefix, color, opts.Depth)
	colorStats.OutputFiles = append(colorStats.OutputFiles, path)
	if opts.DryRun {
		if opts.Verbose {
			utils.Log.Infof("[dry run] would write to: %s", path)
		}
		return nil
	}
	if err := movetree.WriteFile(path, outputGames); err != nil {
		return err
	}
	if fi, err := os.Stat(path); err == nil {
		colorStats.OutputSize = fi.Size()
	}
	if opts.Verbose {
		utils.Log.Infof("wrote %s", path)
	}
	return nil
}

func recordRuns(configName string, opts Options, stats *Stats) error {
	db, err := history.Open(opts.HistoryPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	for _, cs := range stats.ColorStats {
		outputFile := ""
		if len(cs.OutputFiles) > 0 {
			outputFile = cs.OutputFiles[0]
		}
		run := history.Run{
			ConfigName:   configName,
			Color:        cs.Color,
			Depth:        opts.Depth,
			OutputFile:   outputFile,
			Games:        cs.OutputGames,
			Variations:   cs.OutputVariations,
			AverageDepth: cs.OutputAvgDepth,
		}
		if err := db.RecordRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}
