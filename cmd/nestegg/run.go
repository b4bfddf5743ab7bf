package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/nestegg/retirement-simulator/internal/calculation"
	"github.com/nestegg/retirement-simulator/internal/config"
	"github.com/nestegg/retirement-simulator/internal/output"
)

func runCmd() *cobra.Command {
	var (
		inputFile string
		format    string
		outFile   string
		reportDir string
		paths     int
		seed      int64
		noBar     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Monte Carlo simulation for an input file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parser := config.NewInputParser()
			in, err := parser.LoadFromFile(inputFile)
			if err != nil {
				return err
			}
			if paths > 0 {
				in.Parameters.NumPaths = paths
			}
			if cmd.Flags().Changed("seed") {
				in.Parameters.Seed = seed
			}
			if err := parser.Validate(in); err != nil {
				return err
			}

			engine := calculation.NewEngine(slogAdapter{})
			if !noBar {
				bar := progressbar.NewOptions(in.Parameters.NumPaths,
					progressbar.OptionSetDescription("simulating"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				engine.Progress = func(done, total int) {
					_ = bar.Set(done)
				}
			}

			result, err := engine.Run(cmd.Context(), &in.Profile, in.Parameters)
			if err != nil {
				return err
			}

			if reportDir != "" {
				f := output.GetFormatterByName(format)
				if f == nil {
					return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
				}
				name, err := output.WriteFormatted(f, result, reportDir, output.Extension(f))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "report written to", name)
				return nil
			}

			data, err := output.Render(result, format)
			if err != nil {
				return err
			}
			if outFile != "" {
				return os.WriteFile(outFile, data, 0644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "input YAML file (required)")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, json)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "write a timestamped report file into the given directory")
	cmd.Flags().IntVarP(&paths, "paths", "p", 0, "override number of simulation paths")
	cmd.Flags().Int64Var(&seed, "seed", 0, "override random seed")
	cmd.Flags().BoolVar(&noBar, "no-progress", false, "disable the progress bar")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
