// Command zdserver runs the Zombie Dice query API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/yourusername/zdengine/pkg/api"
	"github.com/yourusername/zdengine/pkg/solver"
)

const version = "0.1.0"

func main() {
	// Command line flags; ZD_* environment variables cover the HTTP tuning.
	host := flag.String("host", "", "Host to bind to (overrides ZD_HOST; use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 0, "Port to listen on (overrides ZD_PORT)")
	dir := flag.String("dir", ".", "Directory for solution files")
	goal := flag.Int("goal", solver.DefaultGoal, "Winning score")
	ceiling := flag.Int("ceiling", 0, "Score ceiling (0 = 2*goal)")
	epsilon := flag.Float64("epsilon", solver.DefaultEpsilon, "Convergence threshold")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("zdengine API Server v%s\n", version)
		os.Exit(0)
	}

	config, err := api.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}
	if *host != "" {
		config.Host = *host
	}
	if *port != 0 {
		config.Port = *port
	}

	log.Printf("zdengine API Server v%s", version)
	log.Printf("Loading solved tables...")

	s, err := solver.LoadOrSolve(solver.Config{
		Goal:    *goal,
		Ceiling: *ceiling,
		Epsilon: *epsilon,
		Verbose: true,
	}, *dir)
	if err != nil {
		log.Fatalf("Failed to load or solve: %v", err)
	}

	log.Printf("Tables ready: goal=%d ceiling=%d", s.Config().Goal, s.Config().Ceiling)

	server := api.NewServer(s, config, version)
	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
