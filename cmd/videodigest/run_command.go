package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"videodigest/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir     string
		languageName  string
		maxFrames     int
		noFrames      bool
		skipDiscovery bool
		whisperModel  string
		mergeWindow   float64
		mergeGap      float64
		maxHeight     int
		keepTemp      bool
		apiKey        string
	)

	cmd := &cobra.Command{
		Use:   "run URL",
		Short: "Generate a digest for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if key := strings.TrimSpace(apiKey); key != "" {
				cfg.LLM.APIKey = key
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := pipeline.OptionsFromConfig(cfg)
			if outputDir != "" {
				opts.OutputDir = outputDir
			}
			if languageName != "" {
				opts.Language = languageName
			}
			if cmd.Flags().Changed("max-frames") {
				opts.MaxFrames = maxFrames
			}
			if noFrames {
				opts.SkipKeyframes = true
			}
			if skipDiscovery {
				opts.SkipTimestampDiscovery = true
			}
			if whisperModel != "" {
				opts.WhisperModel = whisperModel
			}
			if cmd.Flags().Changed("merge-window") {
				opts.MergeWindowSeconds = mergeWindow
			}
			if cmd.Flags().Changed("merge-gap") {
				opts.MergeGapSeconds = mergeGap
			}
			if cmd.Flags().Changed("max-height") {
				opts.VideoMaxHeight = maxHeight
			}
			if keepTemp {
				opts.KeepTemp = true
			}

			runner, _, cleanup, err := buildRunner(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := runner.Run(runCtx, args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Digest written to %s\n", result.OutputDir)
			fmt.Fprintf(out, "  Title:      %s\n", result.Digest.Meta.Title)
			fmt.Fprintf(out, "  Chapters:   %d\n", len(result.Digest.Chapters))
			fmt.Fprintf(out, "  Keyframes:  %d\n", len(result.Digest.Keyframes))
			fmt.Fprintf(out, "  Transcript: %s\n", result.TranscriptSource)
			for _, note := range result.Digest.DegradationNotes {
				fmt.Fprintf(out, "  Note: %s\n", note)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for digest artifacts")
	cmd.Flags().StringVarP(&languageName, "language", "l", "", "Output language for the digest")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 0, "Maximum keyframes to keep")
	cmd.Flags().BoolVar(&noFrames, "no-frames", false, "Skip keyframe extraction")
	cmd.Flags().BoolVar(&skipDiscovery, "skip-discovery", false, "Sample keyframe timestamps uniformly instead of asking the model")
	cmd.Flags().StringVar(&whisperModel, "whisper-model", "", "Whisper model size for the speech recognition fallback")
	cmd.Flags().Float64Var(&mergeWindow, "merge-window", 0, "Transcript merge window in seconds")
	cmd.Flags().Float64Var(&mergeGap, "merge-gap", 0, "Maximum gap bridged when merging transcript segments, in seconds")
	cmd.Flags().IntVar(&maxHeight, "max-height", 0, "Maximum video height to download")
	cmd.Flags().BoolVar(&keepTemp, "keep-temp", false, "Keep the run's scratch workspace")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Analysis model API key (overrides configuration)")

	return cmd
}
