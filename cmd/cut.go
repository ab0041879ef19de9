package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	appvideo "video-cutter/application/video"

	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	cutOutputPath string
	cutUpload     bool
)

func init() {
	rootCmd.Flags().StringVarP(&cutOutputPath, "output", "o", "", "output file (default <input>_<start>s_<end>s<ext>)")
	rootCmd.Flags().BoolVar(&cutUpload, "upload", false, "upload the clip to Google Drive and print its link")
}

// cutArgs accepts either no arguments (interactive) or input, start and end
func cutArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 3 {
		return nil
	}
	return fmt.Errorf("accepts 3 arg(s) <input> <start> <end>, received %d", len(args))
}

// isInteractive reports whether stdin and stdout are terminals
func isInteractive() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

func runCut(cmd *cobra.Command, args []string) error {
	input := appvideo.CutInput{OutputPath: cutOutputPath}

	if len(args) == 3 {
		input.InputPath, input.Start, input.End = args[0], args[1], args[2]
	} else {
		if !isInteractive() {
			return fmt.Errorf("requires <input> <start> <end> when not run in a terminal")
		}
		prompted, err := PromptCutInput(DefaultPrompter, input)
		if err != nil {
			return err
		}
		input = prompted
	}

	c := GetConfig()
	svc := newCutService(newLocator(c, logger), logger, cmd.ErrOrStderr())

	result, err := RunCutWithDependencies(cmd.Context(), svc, input, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if !cutUpload {
		return nil
	}

	uploader, err := newUploadService(cmd.Context(), c, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return RunUploadWithDependencies(cmd.Context(), uploader, result.OutputPath, cmd.OutOrStdout())
}

// PromptCutInput asks for the values missing from input
func PromptCutInput(prompter Prompter, input appvideo.CutInput) (appvideo.CutInput, error) {
	ask := func(message, def string, required bool) (string, error) {
		v, err := prompter.Input(message, def)
		if err != nil {
			return "", errors.New("prompt cancelled")
		}
		v = strings.TrimSpace(v)
		if v == "" && required {
			return "", fmt.Errorf("%s is required", strings.TrimSuffix(strings.ToLower(message), "?"))
		}
		return v, nil
	}

	var err error
	if input.InputPath, err = ask("Input video", input.InputPath, true); err != nil {
		return input, err
	}
	if input.Start, err = ask("Start time", "00:00:00", true); err != nil {
		return input, err
	}
	if input.End, err = ask("End time", "", true); err != nil {
		return input, err
	}
	if input.OutputPath == "" {
		if input.OutputPath, err = ask("Output file (empty for default)", "", false); err != nil {
			return input, err
		}
	}
	return input, nil
}

// RunCutWithDependencies runs the cut with an injected service (for testing)
func RunCutWithDependencies(ctx context.Context, cutter appvideo.Cutter, input appvideo.CutInput, output io.Writer) (*appvideo.CutResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := cutter.Cut(ctx, input)
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Stat(result.OutputPath); statErr == nil {
		fmt.Fprintf(output, "Video generated at: %s (%s)\n", result.OutputPath, humanize.Bytes(uint64(info.Size())))
	} else {
		fmt.Fprintf(output, "Video generated at: %s\n", result.OutputPath)
	}

	return result, nil
}
