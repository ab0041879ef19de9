//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"video-cutter/cmd"

	"github.com/cucumber/godog"
)

// mockProber returns a fixed duration
type mockProber struct {
	seconds float64
	known   bool
}

func (m *mockProber) Duration(ctx context.Context, path string) (float64, bool) {
	return m.seconds, m.known
}

// mockVersioner reports a fixed ffmpeg banner
type mockVersioner struct{}

func (m *mockVersioner) Version(ctx context.Context, toolPath string) (string, error) {
	return "ffmpeg version 7.1 Copyright (c) 2000-2024 the FFmpeg developers", nil
}

// toolsContext holds test state for probe and locate scenarios
type toolsContext struct {
	prober  *mockProber
	locator *mockLocator
	output  *bytes.Buffer
	err     error
}

// SharedToolsContext is reset before each scenario via Before hook
var SharedToolsContext *toolsContext

func InitializeToolsScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedToolsContext = &toolsContext{
			prober:  &mockProber{},
			locator: &mockLocator{tools: make(map[string]string)},
			output:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedToolsContext = nil
		return c, nil
	})

	ctx.Step(`^ffprobe reports a duration of ([\d.]+) seconds$`, ffprobeReportsADurationOf)
	ctx.Step(`^ffprobe cannot determine the duration$`, ffprobeCannotDetermineTheDuration)
	ctx.Step(`^the tool "([^"]*)" is at "([^"]*)"$`, theToolIsAt)
	ctx.Step(`^I probe "([^"]*)"$`, iProbe)
	ctx.Step(`^I locate the tools$`, iLocateTheTools)
	ctx.Step(`^the output should be "([^"]*)"$`, theOutputShouldBe)
	ctx.Step(`^the output should mention "([^"]*)"$`, theOutputShouldMention)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, theCommandShouldFailWith)
}

func ffprobeReportsADurationOf(seconds float64) error {
	SharedToolsContext.prober.seconds = seconds
	SharedToolsContext.prober.known = true
	return nil
}

func ffprobeCannotDetermineTheDuration() error {
	SharedToolsContext.prober.known = false
	return nil
}

func theToolIsAt(name, path string) error {
	SharedToolsContext.locator.tools[name] = path
	return nil
}

func iProbe(path string) error {
	t := SharedToolsContext
	t.err = cmd.RunProbeWithDependencies(context.Background(), t.prober, path, t.output)
	return nil
}

func iLocateTheTools() error {
	t := SharedToolsContext
	t.err = cmd.RunLocateWithDependencies(context.Background(), t.locator, &mockVersioner{}, t.output)
	return nil
}

func theOutputShouldBe(expected string) error {
	got := strings.TrimSpace(SharedToolsContext.output.String())
	if got != expected {
		return fmt.Errorf("expected output %q, got %q", expected, got)
	}
	return nil
}

func theOutputShouldMention(text string) error {
	out := SharedToolsContext.output.String()
	if !strings.Contains(out, text) {
		return fmt.Errorf("expected output to contain %q, got %q", text, out)
	}
	return nil
}

func theCommandShouldSucceed() error {
	if SharedToolsContext.err != nil {
		return fmt.Errorf("unexpected error: %v", SharedToolsContext.err)
	}
	return nil
}

func theCommandShouldFailWith(message string) error {
	t := SharedToolsContext
	if t.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(t.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got: %v", message, t.err)
	}
	return nil
}
