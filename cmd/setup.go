package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"video-cutter/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and writes config.yaml.

This command guides you through pinning the ffmpeg, ffprobe and mpv
executables, the preview session file, logging, and the optional
Google Drive upload settings.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, cmd.OutOrStdout())
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to video-cutter setup!")
	fmt.Fprintln(out, "Leave a tool path empty to search next to the program, the working directory and PATH.")
	fmt.Fprintln(out)

	cfg := config.Defaults()

	if err := promptTools(prompter, cfg); err != nil {
		return err
	}

	if err := promptPreview(prompter, cfg); err != nil {
		return err
	}

	if err := promptLogging(prompter, cfg); err != nil {
		return err
	}

	if err := promptDrive(prompter, cfg); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptTools(prompter Prompter, cfg *config.Config) error {
	var err error
	if cfg.Tools.FFmpeg, err = promptString(prompter, "Path to ffmpeg?", ""); err != nil {
		return err
	}
	if cfg.Tools.FFprobe, err = promptString(prompter, "Path to ffprobe?", ""); err != nil {
		return err
	}
	if cfg.Tools.Mpv, err = promptString(prompter, "Path to mpv (used by preview)?", ""); err != nil {
		return err
	}

	dirs, err := promptString(prompter, "Extra directories to search for tools (comma separated)?", "")
	if err != nil {
		return err
	}
	for _, d := range strings.Split(dirs, ",") {
		if d = strings.TrimSpace(d); d != "" {
			cfg.Tools.SearchDirs = append(cfg.Tools.SearchDirs, d)
		}
	}
	return nil
}

func promptPreview(prompter Prompter, cfg *config.Config) error {
	var err error
	if cfg.Session.Path, err = promptString(prompter, "Session file (empty for ~/.video_cutter_session.json)?", ""); err != nil {
		return err
	}

	margin, err := promptInt(prompter, "Loop margin before the end mark (ms)?", cfg.Preview.LoopMarginMs)
	if err != nil {
		return err
	}
	cfg.Preview.LoopMarginMs = margin

	step, err := promptInt(prompter, "Seek step (ms)?", cfg.Preview.SeekStepMs)
	if err != nil {
		return err
	}
	cfg.Preview.SeekStepMs = step
	return nil
}

func promptLogging(prompter Prompter, cfg *config.Config) error {
	level, err := promptString(prompter, "Log level (debug, info, warn, error)?", cfg.Logging.Level)
	if err != nil {
		return err
	}
	switch level {
	case "":
	case "debug", "info", "warn", "error":
		cfg.Logging.Level = level
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	return nil
}

func promptDrive(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Configure Google Drive uploads?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !enable {
		return nil
	}

	credentials, err := promptString(prompter, "Path to Google OAuth credentials file?", "credentials.json")
	if err != nil {
		return err
	}
	if credentials == "" {
		return fmt.Errorf("credentials file is required")
	}
	cfg.Drive.CredentialsFile = credentials

	if cfg.Drive.TokenFile, err = promptString(prompter, "Where should the OAuth token be stored?", "token.json"); err != nil {
		return err
	}

	folder, err := promptString(prompter, "Google Drive folder ID for clips?", "")
	if err != nil {
		return err
	}
	if folder == "" {
		return fmt.Errorf("folder ID is required")
	}
	cfg.Drive.FolderID = folder
	return nil
}

func promptString(prompter Prompter, message, defaultValue string) (string, error) {
	v, err := prompter.Input(message, defaultValue)
	if err != nil {
		return "", fmt.Errorf("prompt cancelled")
	}
	return strings.TrimSpace(v), nil
}

func promptInt(prompter Prompter, message string, defaultValue int) (int, error) {
	v, err := promptString(prompter, message, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, err
	}
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive number of milliseconds", v)
	}
	return n, nil
}
