// zdsolver - exact two-player Zombie Dice analysis from the command line
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/zdengine/internal/dicestate"
	"github.com/yourusername/zdengine/pkg/solver"
	"github.com/yourusername/zdengine/pkg/yellow"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "solve":
		cmdSolve(args)
	case "query":
		cmdQuery(args)
	case "simulate":
		cmdSimulate(args)
	case "evaluate":
		cmdEvaluate(args)
	case "reach":
		cmdReach(args)
	case "yellow":
		cmdYellow(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`zdsolver - Zombie Dice solver

Usage: zdsolver <command> [options]

Commands:
  solve     Solve the game and save the tables
  query     Look up the optimal action and win probability for a state
  simulate  Play simulated games between two policies
  evaluate  Exactly evaluate a policy matchup
  reach     Export reachable tied states as CSV
  yellow    Solve the reduced all-yellow game and export its policy

Use "zdsolver <command> -h" for command-specific help.

Dice State Format:
  Nine comma-separated counters: shotguns, footprints and cup dice,
  green/yellow/red each. A fresh turn is "0,0,0,0,0,0,6,4,3".`)
}

// gameFlags registers the shared game parameters on a flag set.
func gameFlags(fs *flag.FlagSet) (goal, ceiling *int, epsilon *float64, dir *string) {
	goal = fs.Int("goal", solver.DefaultGoal, "Winning score")
	ceiling = fs.Int("ceiling", 0, "Score ceiling (0 = 2*goal)")
	epsilon = fs.Float64("epsilon", solver.DefaultEpsilon, "Convergence threshold")
	dir = fs.String("dir", ".", "Directory for solution files")
	return
}

func loadOrSolve(goal, ceiling int, epsilon float64, dir string) *solver.Solver {
	s, err := solver.LoadOrSolve(solver.Config{
		Goal:    goal,
		Ceiling: ceiling,
		Epsilon: epsilon,
		Verbose: true,
	}, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return s
}

func parseDiceState(diceStr string) (dicestate.Counts, error) {
	parts := strings.Split(diceStr, ",")
	if len(parts) != 9 {
		return dicestate.Counts{}, fmt.Errorf("dice state needs 9 comma-separated counters")
	}
	vals := make([]int, 9)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return dicestate.Counts{}, fmt.Errorf("bad counter %q", p)
		}
		vals[i] = v
	}
	return dicestate.Counts{
		Shotgun:   [dicestate.NumColors]int{vals[0], vals[1], vals[2]},
		Footprint: [dicestate.NumColors]int{vals[3], vals[4], vals[5]},
		Supply:    [dicestate.NumColors]int{vals[6], vals[7], vals[8]},
	}, nil
}

func cmdSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	goal, ceiling, epsilon, dir := gameFlags(fs)
	fs.Parse(args)

	start := time.Now()
	s := loadOrSolve(*goal, *ceiling, *epsilon, *dir)
	cfg := s.Config()

	fmt.Printf("Solved goal=%d ceiling=%d epsilon=%g in %v\n",
		cfg.Goal, cfg.Ceiling, cfg.Epsilon, time.Since(start).Round(time.Millisecond))
	fmt.Printf("First-player win probability: %.17g\n",
		s.WinProb(0, 0, 0, 0, s.Universe().InitialIndex()))
	fmt.Printf("Solution file: %s\n", solver.SolutionFilename(cfg))
}

func cmdQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	goal, ceiling, epsilon, dir := gameFlags(fs)
	player := fs.Int("player", 0, "Seat to move (0 opens each round)")
	score := fs.Int("score", 0, "Banked score of the seat to move")
	opponent := fs.Int("opponent", 0, "Banked score of the other seat")
	turnTotal := fs.Int("turn", 0, "Brains rolled so far this turn")
	diceStr := fs.String("dice", "0,0,0,0,0,0,6,4,3", "Dice state counters")
	fs.Parse(args)

	dice, err := parseDiceState(*diceStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := loadOrSolve(*goal, *ceiling, *epsilon, *dir)
	if s.Universe().Index(dicestate.Encode(dice)) < 0 {
		fmt.Fprintln(os.Stderr, "Error: dice state cannot occur in a live turn")
		os.Exit(1)
	}

	action := "hold"
	if s.WillRoll(*player, *score, *opponent, *turnTotal, dice) {
		action = "roll"
	}
	ds := s.Universe().Index(dicestate.Encode(dice))
	fmt.Printf("Action:          %s\n", action)
	fmt.Printf("Win probability: %.17g\n", s.WinProb(*player, *score, *opponent, *turnTotal, ds))
}

func policyByName(name string, s *solver.Solver) (solver.Policy, error) {
	switch name {
	case "optimal":
		return s, nil
	case "thresholds":
		return solver.HoldThresholds{Goal: s.Config().Goal}, nil
	case "yellow":
		y := yellow.New(yellow.Config{Goal: s.Config().Goal})
		return y.FullGamePolicy(), nil
	}
	return nil, fmt.Errorf("unknown policy %q (want optimal, thresholds or yellow)", name)
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	goal, ceiling, epsilon, dir := gameFlags(fs)
	games := fs.Int("games", 100000, "Number of games, split across both seatings")
	seed := fs.Int64("seed", 1, "Random seed")
	a := fs.String("a", "optimal", "First policy: optimal, thresholds or yellow")
	b := fs.String("b", "thresholds", "Second policy: optimal, thresholds or yellow")
	fs.Parse(args)

	s := loadOrSolve(*goal, *ceiling, *epsilon, *dir)
	pa, err := policyByName(*a, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	pb, err := policyByName(*b, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	res := solver.Compare(pa, pb, s.Config(), *games, *seed)
	lo, hi := res.ConfidenceInterval(0)
	fmt.Printf("%d games in %v\n", res.Games, time.Since(start).Round(time.Millisecond))
	fmt.Printf("%s: %d wins (%.4f, 95%% CI %.4f-%.4f)\n", *a, res.Wins[0], res.WinRate(0), lo, hi)
	fmt.Printf("%s: %d wins (%.4f)\n", *b, res.Wins[1], res.WinRate(1))
	gap, stderr := res.Gap()
	fmt.Printf("Gap: %.4f +/- %.4f\n", gap, stderr)
}

func cmdEvaluate(args []string) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	goal, ceiling, epsilon, dir := gameFlags(fs)
	a := fs.String("a", "optimal", "First policy: optimal, thresholds or yellow")
	b := fs.String("b", "thresholds", "Second policy: optimal, thresholds or yellow")
	fs.Parse(args)

	s := loadOrSolve(*goal, *ceiling, *epsilon, *dir)
	pa, err := policyByName(*a, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	pb, err := policyByName(*b, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	sum := solver.EvaluateWith(s, pa, pb).Summarize()
	fmt.Printf("Exact matchup in %v\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("%s going first:  %.17g\n", *a, sum.FirstA)
	fmt.Printf("%s going second: %.17g\n", *a, sum.SecondA)
	fmt.Printf("%s going first:  %.17g\n", *b, sum.FirstB)
	fmt.Printf("%s going second: %.17g\n", *b, sum.SecondB)
	fmt.Printf("Seat-averaged: %s %.17g, %s %.17g\n", *a, sum.AverageA, *b, sum.AverageB)
}

func cmdReach(args []string) {
	fs := flag.NewFlagSet("reach", flag.ExitOnError)
	goal, ceiling, epsilon, dir := gameFlags(fs)
	seat := fs.Int("seat", 0, "Seat bound to optimal play")
	tie := fs.Int("tie", -1, "Tied score to export (-1 = goal)")
	onlyRoll := fs.Bool("only-roll", false, "Export only states where the action is roll")
	out := fs.String("out", "", "Output CSV file (default stdout)")
	fs.Parse(args)

	s := loadOrSolve(*goal, *ceiling, *epsilon, *dir)
	tieScore := *tie
	if tieScore < 0 {
		tieScore = s.Config().Goal
	}

	r := solver.Reach(s, *seat)
	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := r.WriteTieCSV(w, tieScore, *onlyRoll); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdYellow(args []string) {
	fs := flag.NewFlagSet("yellow", flag.ExitOnError)
	goal := fs.Int("goal", yellow.DefaultGoal, "Winning score")
	epsilon := fs.Float64("epsilon", yellow.DefaultEpsilon, "Convergence threshold")
	out := fs.String("out", "", "Output CSV file (default stdout)")
	fs.Parse(args)

	start := time.Now()
	y := yellow.New(yellow.Config{Goal: *goal, Epsilon: *epsilon})
	y.ComputeReachability(0, 0, 0, 0, 0)
	fmt.Fprintf(os.Stderr, "Solved reduced game goal=%d in %v\n", *goal, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "First-player win probability: %.17g\n", y.WinProb(0, 0, 0, 0, 0))
	fmt.Fprintf(os.Stderr, "Roll regions nest by shotgun count: %v\n", y.RollInclusionHolds())
	fmt.Fprintf(os.Stderr, "Max reachable score: %d (ceiling %d)\n", y.MaxReachableScore(), y.Ceiling())

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := y.ExportCSV(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
