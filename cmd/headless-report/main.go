package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Soccer-Sense/internal/config"
	"github.com/Garsondee/Soccer-Sense/internal/logging"
	"github.com/Garsondee/Soccer-Sense/internal/soccer"
)

type runStats struct {
	runIndex int
	seed     int64
	matchID  string
	ticks    int

	redGoals  int
	blueGoals int

	firstKickTick int
	firstShotTick int
	firstGoalTick int

	shots       [2]int
	passes      [2]int
	passAsks    [2]int
	possession  [2]int
	keeperSaves [2]int
	kickoffs    int

	stateChanges int
	states       map[string]int // entered state name -> count
}

func main() {
	var (
		runs       int
		ticks      int
		seedBase   int64
		seedStep   int64
		parallel   int
		configPath string
		logLevel   string
	)
	flag.IntVar(&runs, "runs", 5, "number of headless matches")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per match")
	flag.Int64Var(&seedBase, "seed-base", 42, "RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&parallel, "parallel", 4, "matches simulated at once")
	flag.StringVar(&configPath, "config", "", "YAML parameter file (defaults when empty)")
	flag.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(2)
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	if parallel <= 0 {
		parallel = 1
	}

	logger, err := logging.New(logLevel, "console")
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	params := config.Default()
	if configPath != "" {
		if params, err = config.Load(configPath); err != nil {
			logger.Fatal("load params", zap.Error(err))
		}
	}

	all, err := runAll(context.Background(), params, runs, ticks, seedBase, seedStep, parallel, logger)
	if err != nil {
		logger.Fatal("report", zap.Error(err))
	}

	out := os.Stdout
	fmt.Fprintf(out, "=== Headless Match Report ===\n")
	fmt.Fprintf(out, "runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)
	for _, rs := range all {
		printRun(out, rs)
	}
	printAggregate(out, all)
}

// runAll simulates every run, at most parallel at a time, and returns the
// results in run order.
func runAll(ctx context.Context, params config.Params, runs, ticks int, seedBase, seedStep int64, parallel int, log *zap.Logger) ([]runStats, error) {
	all := make([]runStats, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		g.Go(func() error {
			rs, err := runMatch(ctx, params, i+1, seed, ticks, log)
			if err != nil {
				return fmt.Errorf("run %d: %w", i+1, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runMatch(ctx context.Context, params config.Params, runIndex int, seed int64, ticks int, log *zap.Logger) (runStats, error) {
	m, err := soccer.NewMatch(
		soccer.WithParams(params),
		soccer.WithSeed(seed),
		soccer.WithLogger(log.With(zap.Int("run", runIndex))),
	)
	if err != nil {
		return runStats{}, err
	}
	for i := 0; i < ticks; i++ {
		if i%600 == 0 && ctx.Err() != nil {
			return runStats{}, ctx.Err()
		}
		m.Update()
	}
	rs := collectStats(m.Events().Entries())
	rs.runIndex = runIndex
	rs.seed = seed
	rs.matchID = m.ID()
	rs.ticks = ticks
	return rs, nil
}

// collectStats tallies a match log.
func collectStats(entries []soccer.MatchLogEntry) runStats {
	rs := runStats{
		firstKickTick: firstTick(entries, "", "kick", ""),
		firstShotTick: firstTick(entries, "shot", "kick", ""),
		firstGoalTick: firstTick(entries, "goal", "scored", ""),
		states:        map[string]int{},
	}
	for _, e := range entries {
		side, team := teamIndex(e.Team)
		switch e.Category {
		case "goal":
			if e.Key == "scored" {
				if e.Team == "red" {
					rs.redGoals++
				} else {
					rs.blueGoals++
				}
			}
		case "shot":
			if team {
				rs.shots[side]++
			}
		case "pass":
			if !team {
				continue
			}
			switch e.Key {
			case "kick":
				rs.passes[side]++
			case "request":
				rs.passAsks[side]++
			}
		case "possession":
			if !team {
				continue
			}
			switch e.Key {
			case "gained":
				rs.possession[side]++
			case "keeper":
				rs.keeperSaves[side]++
			}
		case "team":
			if e.Key == "kickoff" {
				rs.kickoffs++
			}
		case "state":
			if e.Key != "change" {
				continue
			}
			rs.stateChanges++
			if _, to, ok := strings.Cut(e.Value, " -> "); ok {
				rs.states[to]++
			}
		}
	}
	return rs
}

func teamIndex(team string) (int, bool) {
	switch team {
	case "red":
		return int(soccer.Red), true
	case "blue":
		return int(soccer.Blue), true
	}
	return 0, false
}

func firstTick(entries []soccer.MatchLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if category != "" && e.Category != category {
			continue
		}
		if e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d match=%s) ---\n", rs.runIndex, rs.seed, rs.matchID)
	fmt.Fprintf(w, "score: red %d - %d blue\n", rs.redGoals, rs.blueGoals)
	fmt.Fprintf(w, "phase_markers: first_kick=%d first_shot=%d first_goal=%d kickoffs=%d\n",
		rs.firstKickTick, rs.firstShotTick, rs.firstGoalTick, rs.kickoffs)
	fmt.Fprintf(w, "red:  shots=%d passes=%d pass_requests=%d possession=%d keeper_saves=%d\n",
		rs.shots[soccer.Red], rs.passes[soccer.Red], rs.passAsks[soccer.Red], rs.possession[soccer.Red], rs.keeperSaves[soccer.Red])
	fmt.Fprintf(w, "blue: shots=%d passes=%d pass_requests=%d possession=%d keeper_saves=%d\n",
		rs.shots[soccer.Blue], rs.passes[soccer.Blue], rs.passAsks[soccer.Blue], rs.possession[soccer.Blue], rs.keeperSaves[soccer.Blue])
	fmt.Fprintf(w, "state_changes=%d entered: %s\n", rs.stateChanges, joinCounts(rs.states))
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, all []runStats) {
	var (
		redGoals, blueGoals int
		redWins, blueWins   int
		shots, passes       [2]int
		possession          [2]int
		kickoffs            int
		shotTicks           []int
		goalTicks           []int
	)
	states := map[string]int{}

	for _, rs := range all {
		redGoals += rs.redGoals
		blueGoals += rs.blueGoals
		switch {
		case rs.redGoals > rs.blueGoals:
			redWins++
		case rs.blueGoals > rs.redGoals:
			blueWins++
		}
		for side := range shots {
			shots[side] += rs.shots[side]
			passes[side] += rs.passes[side]
			possession[side] += rs.possession[side]
		}
		kickoffs += rs.kickoffs
		if rs.firstShotTick >= 0 {
			shotTicks = append(shotTicks, rs.firstShotTick)
		}
		if rs.firstGoalTick >= 0 {
			goalTicks = append(goalTicks, rs.firstGoalTick)
		}
		for name, n := range rs.states {
			states[name] += n
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d red_wins=%d blue_wins=%d draws=%d\n", n, redWins, blueWins, n-redWins-blueWins)
	fmt.Fprintf(w, "avg_goals_per_run: red=%.2f blue=%.2f\n", avg(redGoals, n), avg(blueGoals, n))
	fmt.Fprintf(w, "avg_shots_per_run: red=%.1f blue=%.1f\n", avg(shots[soccer.Red], n), avg(shots[soccer.Blue], n))
	fmt.Fprintf(w, "avg_passes_per_run: red=%.1f blue=%.1f\n", avg(passes[soccer.Red], n), avg(passes[soccer.Blue], n))
	fmt.Fprintf(w, "avg_possession_changes_per_run: red=%.1f blue=%.1f\n", avg(possession[soccer.Red], n), avg(possession[soccer.Blue], n))
	fmt.Fprintf(w, "avg_kickoffs_per_run=%.1f\n", avg(kickoffs, n))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_shot=%s first_goal=%s\n", avgTickString(shotTicks), avgTickString(goalTicks))
	fmt.Fprintf(w, "states_entered: %s\n", joinCounts(states))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

// joinCounts renders counts as name=n pairs sorted by name.
func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
