//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"video-cutter/cmd"
	"video-cutter/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	confirmResponses []bool
	inputIndex       int
	confirmIndex     int
}

func NewMockPrompter(inputs []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		return defaultValue, nil
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "video-cutter", "config.yaml")
		testCtx.originalContent = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with inputs:$`, testCtx.iRunTheSetupCommandWithInputs)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the config should pin ffmpeg to "([^"]*)"$`, testCtx.theConfigShouldPinFFmpegTo)
	ctx.Step(`^the config should search "([^"]*)"$`, testCtx.theConfigShouldSearch)
	ctx.Step(`^the config should have a loop margin of (\d+) ms$`, testCtx.theConfigShouldHaveALoopMarginOf)
	ctx.Step(`^the config should have log level "([^"]*)"$`, testCtx.theConfigShouldHaveLogLevel)
	ctx.Step(`^drive uploads should not be configured$`, testCtx.driveUploadsShouldNotBeConfigured)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	return nil
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	content := "tools:\n  ffmpeg: /usr/local/bin/ffmpeg\n"
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(s.configPath, []byte(content), 0644); err != nil {
		return err
	}
	s.originalContent = content
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithInputs(table *godog.Table) error {
	var inputs []string
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		inputs = append(inputs, row.Cells[1].Value)
	}

	// decline drive uploads
	prompter := NewMockPrompter(inputs, []bool{false})
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	return s.err
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(answer string) error {
	prompter := NewMockPrompter(nil, []bool{answer == "yes"})
	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	return s.err
}

func (s *setupContext) load() (*config.Config, error) {
	return config.Load(s.configPath)
}

func (s *setupContext) aConfigFileShouldExist() error {
	if _, err := os.Stat(s.configPath); err != nil {
		return fmt.Errorf("config file not found at %s: %w", s.configPath, err)
	}
	return nil
}

func (s *setupContext) theConfigShouldPinFFmpegTo(path string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Tools.FFmpeg != path {
		return fmt.Errorf("expected tools.ffmpeg %q, got %q", path, cfg.Tools.FFmpeg)
	}
	return nil
}

func (s *setupContext) theConfigShouldSearch(dir string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	for _, d := range cfg.Tools.SearchDirs {
		if d == dir {
			return nil
		}
	}
	return fmt.Errorf("expected %q in tools.search_dirs, got %v", dir, cfg.Tools.SearchDirs)
}

func (s *setupContext) theConfigShouldHaveALoopMarginOf(ms int) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Preview.LoopMarginMs != ms {
		return fmt.Errorf("expected loop margin %d, got %d", ms, cfg.Preview.LoopMarginMs)
	}
	return nil
}

func (s *setupContext) theConfigShouldHaveLogLevel(level string) error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Logging.Level != level {
		return fmt.Errorf("expected log level %q, got %q", level, cfg.Logging.Level)
	}
	return nil
}

func (s *setupContext) driveUploadsShouldNotBeConfigured() error {
	cfg, err := s.load()
	if err != nil {
		return err
	}
	if cfg.Drive.CredentialsFile != "" || cfg.Drive.FolderID != "" {
		return fmt.Errorf("expected no drive settings, got %+v", cfg.Drive)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !strings.Contains(s.output.String(), "Setup cancelled.") {
		return fmt.Errorf("expected setup to be cancelled, output: %q", s.output.String())
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}
	if string(data) != s.originalContent {
		return fmt.Errorf("config changed: %q", string(data))
	}
	return nil
}
