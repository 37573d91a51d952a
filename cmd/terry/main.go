// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command terry is the command line entry to the auto-edit engine. It runs
// one edit job synchronously, which is the fastest way to cut a video
// without starting the API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/terryhq/terry/internal/config"
	"github.com/terryhq/terry/internal/core/effects"
	"github.com/terryhq/terry/internal/core/model"
	"github.com/terryhq/terry/internal/core/modes"
	"github.com/terryhq/terry/internal/core/services"
	"github.com/terryhq/terry/internal/llm"
	"github.com/terryhq/terry/internal/telemetry"
)

var (
	flagInput        string
	flagMode         string
	flagOutput       string
	flagDisableGenAI bool
)

func main() {
	// A .env next to the binary is the usual place for GEMINI_API_KEY on a
	// desktop install. Absence is fine.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "terry",
		Short: "terry is an automatic video editor",
		Long:  "terry transcribes a video, picks edits to match an editing style, and renders the result with ffmpeg.",
	}
	root.AddCommand(newEditCommand(), newModesCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit one video",
		Example: "  terry edit -i talk.mp4 -m mrbeast -o talk_edited.mp4\n" +
			"  terry edit -i vlog.mov -m vlog --no-genai",
		RunE: runEdit,
	}
	cmd.Flags().StringVarP(&flagInput, "input", "i", "", "source video file (required)")
	cmd.Flags().StringVarP(&flagMode, "mode", "m", "vlog", "editing mode")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output video file (default <input>_edited.mp4)")
	cmd.Flags().BoolVar(&flagDisableGenAI, "no-genai", false, "skip the generative proposal and use local edit selection")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runEdit(cmd *cobra.Command, _ []string) error {
	telemetry.SetupLogging()

	cfg := config.NewConfig()
	config.Load(cfg)
	if flagDisableGenAI {
		cfg.Application.DisableGenAI = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.SetupOpenTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	catalog := effects.BuiltIn()
	modeTable := modes.BuiltIn()
	if err := services.ApplyModeOverrides(modeTable, catalog, cfg.ModeOverrides); err != nil {
		return err
	}

	if _, err := os.Stat(flagInput); err != nil {
		return fmt.Errorf("source not readable: %w", err)
	}

	jobService := services.NewJobService(cfg, catalog, modeTable, llm.ProposalModel(ctx, cfg))
	job, err := jobService.Submit(flagInput, flagMode, flagOutput)
	if err != nil {
		return err
	}
	fmt.Printf("job %s started (%s)\n", job.ID, job.Mode)

	return wait(ctx, jobService, job.ID)
}

// wait polls the job until it reaches a terminal state, echoing state changes
// and render progress. Interrupts cancel the job and wait for it to settle.
func wait(ctx context.Context, jobService *services.JobService, id string) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var lastState model.JobState
	var lastPercent int
	cancelled := false

	for {
		select {
		case <-ctx.Done():
			if !cancelled {
				cancelled = true
				fmt.Println("\ncancelling ...")
				if err := jobService.Cancel(id); err != nil {
					slog.Warn("cancel failed", "error", err)
				}
			}
		case <-ticker.C:
		}

		job, err := jobService.Get(id)
		if err != nil {
			return err
		}
		if job.State != lastState {
			lastState = job.State
			fmt.Printf("%s\n", job.State)
		}
		if job.State == model.JobStateRendering {
			if p := int(job.Progress); p != lastPercent {
				lastPercent = p
				fmt.Printf("\rrendering %3d%%", p)
			}
		}
		if job.State.Terminal() {
			fmt.Println()
			switch job.State {
			case model.JobStateComplete:
				fmt.Printf("done: %s\nmanifest: %s\n", job.OutputPath, job.ManifestPath)
				return nil
			case model.JobStateCancelled:
				return fmt.Errorf("job cancelled")
			default:
				return fmt.Errorf("job failed: %s", job.Error)
			}
		}
	}
}

func newModesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the available editing modes",
		Run: func(cmd *cobra.Command, _ []string) {
			for _, p := range modes.BuiltIn().All() {
				fmt.Printf("%-12s %3d edits/min  %s\n", p.ID, p.EditsPerMinute, p.Description)
			}
		},
	}
}
