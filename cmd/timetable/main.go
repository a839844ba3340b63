package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/timetable/engine/internal/domain"
	"github.com/timetable/engine/internal/export"
	"github.com/timetable/engine/internal/loader"
	"github.com/timetable/engine/internal/solve"
)

const (
	exitOK               = 0
	exitFeasibilityError = 2
	exitInfeasible       = 3
	exitInternalError    = 1
)

var (
	inputsDir    string
	outputDir    string
	timeLimit    time.Duration
	optimizeGaps bool
	workers      int
	seed         int64
)

func main() {
	root := &cobra.Command{
		Use:   "timetable",
		Short: "Weekly timetable constraint solver",
		Long:  "Builds and solves a weekly section/faculty/room timetable from a directory of CSV inputs.",
	}

	cmdSolve := &cobra.Command{
		Use:   "solve",
		Short: "solve a timetabling problem and write the resulting schedule",
		Run:   runSolve,
	}
	cmdSolve.Flags().StringVar(&inputsDir, "inputs", ".", "directory holding the input CSV files")
	cmdSolve.Flags().StringVar(&outputDir, "output", "out", "directory to write the resulting grids/CSVs to")
	cmdSolve.Flags().DurationVar(&timeLimit, "time-limit", 60*time.Second, "wall-clock budget for the solve")
	cmdSolve.Flags().BoolVar(&optimizeGaps, "optimize-gaps", false, "minimize total student idle-period gaps")
	cmdSolve.Flags().IntVar(&workers, "workers", 0, "search worker count (0 = engine default)")
	cmdSolve.Flags().Int64Var(&seed, "seed", 0, "search seed, for deterministic output")
	root.AddCommand(cmdSolve)

	if err := root.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func runSolve(cmd *cobra.Command, args []string) {
	problem, err := loader.LoadDirectory(inputsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input error: %v\n", err)
		os.Exit(exitFeasibilityError)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeLimit+10*time.Second)
	defer cancel()

	result := solve.Run(ctx, problem, solve.Options{
		TimeLimit:    timeLimit,
		OptimizeGaps: optimizeGaps,
		Workers:      workers,
		Seed:         seed,
	})

	if !result.Report.OK() {
		for _, e := range result.Report.Errors {
			fmt.Fprintf(os.Stderr, "feasibility error: %s\n", e)
		}
		os.Exit(exitFeasibilityError)
	}
	for _, w := range result.Report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if result.Solve.Status == domain.StatusInfeasible {
		fmt.Fprintln(os.Stderr, "no feasible schedule found within the time limit")
		os.Exit(exitInfeasible)
	}

	if err := export.WriteAll(result.Solve, outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write results: %v\n", err)
		os.Exit(exitInternalError)
	}

	fmt.Printf("solve finished: status=%s\n", result.Solve.Status)
	os.Exit(exitOK)
}
