package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/gyropulse/internal/recon"
)

var (
	reconOut     string
	reconWorkers int
	reconTimeout time.Duration
	reportFormat string
	reportPretty bool
	reportOut    string
)

func reconCommand() *cobra.Command {
	reconCmd := &cobra.Command{
		Use:   "recon [target...]",
		Short: "run external recon tools against targets and save raw reports",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRecon,
	}
	reconCmd.Flags().StringVarP(&reconOut, "out", "d", ".", "directory for recon_<target> reports")
	reconCmd.Flags().IntVarP(&reconWorkers, "workers", "w", 4, "targets collected at once")
	reconCmd.Flags().DurationVar(&reconTimeout, "tool-timeout", recon.DefaultToolTimeout, "limit for a single tool")

	summarizeCmd := &cobra.Command{
		Use:   "summarize [path...]",
		Short: "turn saved recon reports into a checklist",
		RunE:  summarizeRecon,
	}
	summarizeCmd.Flags().StringVarP(&reportFormat, "format", "f", "text", "text, md or json")
	summarizeCmd.Flags().BoolVar(&reportPretty, "pretty", false, "indent json output")
	summarizeCmd.Flags().StringVarP(&reportOut, "output", "o", "", "output file (default stdout)")

	reconCmd.AddCommand(summarizeCmd)
	return reconCmd
}

func runRecon(cmd *cobra.Command, args []string) error {
	o := recon.NewOrchestrator(recon.ExecRunner{}, log)
	o.ToolTimeout = reconTimeout

	ctx, cancel := signalContext()
	defer cancel()

	results, err := o.RunAll(ctx, args, reconWorkers)
	if err != nil {
		return err
	}

	now := time.Now()
	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error("recon failed", zap.String("target", r.Target), zap.Error(r.Err))
			if r.Raw.Target == "" {
				continue
			}
		}
		jsonPath, textPath, err := recon.Save(reconOut, r.Raw)
		if err != nil {
			return err
		}
		recon.Print(os.Stdout, recon.Summarize(r.Raw, jsonPath, now))
		fmt.Printf("  saved %s, %s\n\n", jsonPath, textPath)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d targets incomplete", failed, len(results))
	}
	return nil
}

func summarizeRecon(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	files, err := recon.ReportFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no recon_*.json files found")
	}

	now := time.Now()
	summaries := make([]recon.Summary, 0, len(files))
	for _, path := range files {
		raw, err := recon.LoadRaw(path)
		if err != nil {
			return err
		}
		summaries = append(summaries, recon.Summarize(raw, path, now))
	}

	out, err := recon.Render(summaries, reportFormat, reportPretty)
	if err != nil {
		return err
	}
	if reportOut != "" {
		return errors.Wrap(os.WriteFile(reportOut, []byte(out), 0644), "could not write summary")
	}
	fmt.Println(out)
	return nil
}
