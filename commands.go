package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/platformer/input"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/report"
	"github.com/milk9111/platformer/storage"
	"github.com/milk9111/platformer/system"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List available levels",
	Long: `List every embedded level and every level file in the levels
directory, with saved run counts when the records database is available.`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	src := levelSource()

	var stats map[string]*storage.LevelStats
	if store, err := storage.Open(settings.Records.Path); err == nil {
		stats, _ = store.AllStats()
		store.Close()
	}

	var rows []report.LevelRow
	for _, name := range src.Names() {
		lvl, err := src.Load(name)
		rows = append(rows, report.LevelRow{ID: name, Level: lvl, Err: err, Stats: stats[name]})
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No levels found.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Title("Levels"))
	fmt.Fprintln(cmd.OutOrStdout(), report.Levels(rows))
	return nil
}

var recordsLimit int

var recordsCmd = &cobra.Command{
	Use:   "records [level]",
	Short: "Show saved runs",
	Long: `Without a level, show totals for every level played. With a level,
show its best won runs, fewest deaths first.

Examples:
  platformer records
  platformer records 03_tower`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&recordsLimit, "limit", 10, "Number of runs to show")
}

func runRecords(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(settings.Records.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		all, err := store.AllStats()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(out, "No runs recorded yet.")
			return nil
		}
		fmt.Fprintln(out, report.Title("Records"))
		fmt.Fprintln(out, report.Stats(all))
		return nil
	}

	level := args[0]
	runs, err := store.BestRuns(level, recordsLimit)
	if err != nil {
		return err
	}
	stats, err := store.Stats(level)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, report.Title("Records - "+level))
	if len(runs) == 0 {
		fmt.Fprintln(out, "No wins recorded yet.")
	} else {
		fmt.Fprintln(out, report.Runs(runs))
	}
	fmt.Fprintln(out, report.Note(fmt.Sprintf("%d runs, %d wins, %d deaths in total", stats.Runs, stats.Wins, stats.TotalDeaths)))
	return nil
}

var simSteps int

var simCmd = &cobra.Command{
	Use:   "sim <level> [cue...]",
	Short: "Run a level headless with scripted input",
	Long: `Run a level without a window at the fixed tick rate and print the
final state. Cues are action@tick or action@tick+hold, with actions left,
right, jump, pause, quit, restart and menu.

Examples:
  platformer sim 01_first_steps jump@0 right@1+600 jump@200
  platformer sim 03_tower --steps 2400 jump@0 jump@40`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&simSteps, "steps", 1200, "Ticks to simulate")
}

func runSim(cmd *cobra.Command, args []string) error {
	tl, err := input.ParseTimeline(args[1:])
	if err != nil {
		return err
	}
	bundle, err := prefabs.LoadBundle()
	if err != nil {
		return err
	}
	world := system.NewWorld(levelSource(), bundle.LevelOptions(&system.EventQueue{}))
	res, err := world.Simulate(args[0], tl, simSteps)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Sim(res))
	return nil
}
