//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	appvideo "video-cutter/application/video"
	"video-cutter/cmd"
	"video-cutter/domain/video"
	"video-cutter/infrastructure/ffmpeg"
	"video-cutter/infrastructure/locator"

	"github.com/cucumber/godog"
)

// mockTrimmer records the ffmpeg argument vectors it would run
type mockTrimmer struct {
	calls      [][]string
	shouldFail bool
	failError  error
}

func (m *mockTrimmer) Trim(ctx context.Context, toolPath string, req *video.TrimRequest) error {
	if m.shouldFail {
		return m.failError
	}
	m.calls = append(m.calls, append([]string{toolPath}, ffmpeg.BuildArgs(req)...))
	return nil
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) IsRegularFile(path string) bool {
	return m.existingFiles[path]
}

// mockLocator resolves tools from a fixed table
type mockLocator struct {
	tools map[string]string
}

func (m *mockLocator) Locate(name string) (string, error) {
	if p, ok := m.tools[name]; ok {
		return p, nil
	}
	return "", locator.NotFound(name)
}

// cutContext holds test state for cut scenarios
type cutContext struct {
	locator     *mockLocator
	trimmer     *mockTrimmer
	fileChecker *mockFileChecker
	output      *bytes.Buffer
	result      *appvideo.CutResult
	err         error
}

// SharedCutContext is reset before each scenario via Before hook
var SharedCutContext *cutContext

func getCutContext() *cutContext {
	return SharedCutContext
}

func InitializeCutScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedCutContext = &cutContext{
			locator:     &mockLocator{tools: make(map[string]string)},
			trimmer:     &mockTrimmer{},
			fileChecker: &mockFileChecker{existingFiles: make(map[string]bool)},
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedCutContext = nil
		return c, nil
	})

	ctx.Step(`^ffmpeg is installed at "([^"]*)"$`, ffmpegIsInstalledAt)
	ctx.Step(`^ffmpeg is not installed$`, ffmpegIsNotInstalled)
	ctx.Step(`^ffmpeg fails with "([^"]*)"$`, ffmpegFailsWith)
	ctx.Step(`^a video at "([^"]*)"$`, aVideoAt)
	ctx.Step(`^no video exists at "([^"]*)"$`, noVideoExistsAt)
	ctx.Step(`^I cut "([^"]*)" from "([^"]*)" to "([^"]*)"$`, iCutFromTo)
	ctx.Step(`^I cut "([^"]*)" from "([^"]*)" to "([^"]*)" into "([^"]*)"$`, iCutFromToInto)
	ctx.Step(`^the cut should succeed$`, theCutShouldSucceed)
	ctx.Step(`^the cut should fail with "([^"]*)"$`, theCutShouldFailWith)
	ctx.Step(`^the output file should be "([^"]*)"$`, theOutputFileShouldBe)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^the cut output should mention "([^"]*)"$`, theCutOutputShouldMention)
}

func ffmpegIsInstalledAt(path string) error {
	getCutContext().locator.tools[video.ToolFFmpeg] = path
	return nil
}

func ffmpegIsNotInstalled() error {
	delete(getCutContext().locator.tools, video.ToolFFmpeg)
	return nil
}

func ffmpegFailsWith(stderr string) error {
	t := getCutContext()
	t.trimmer.shouldFail = true
	t.trimmer.failError = &video.ExecutionError{
		Message: "ffmpeg failed: " + stderr,
		Err:     video.ErrExecution,
	}
	return nil
}

func aVideoAt(path string) error {
	getCutContext().fileChecker.existingFiles[path] = true
	return nil
}

func noVideoExistsAt(path string) error {
	getCutContext().fileChecker.existingFiles[path] = false
	return nil
}

func iCutFromTo(input, start, end string) error {
	return runCut(input, start, end, "")
}

func iCutFromToInto(input, start, end, output string) error {
	return runCut(input, start, end, output)
}

func runCut(input, start, end, output string) error {
	t := getCutContext()

	svc := appvideo.NewCutService(t.locator, t.trimmer, t.fileChecker)
	t.result, t.err = cmd.RunCutWithDependencies(
		context.Background(),
		svc,
		appvideo.CutInput{InputPath: input, Start: start, End: end, OutputPath: output},
		t.output,
	)
	return nil
}

func theCutShouldSucceed() error {
	t := getCutContext()
	if t.err != nil {
		return fmt.Errorf("unexpected error: %v", t.err)
	}
	return nil
}

func theCutShouldFailWith(message string) error {
	t := getCutContext()
	if t.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(t.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got: %v", message, t.err)
	}
	return nil
}

func theOutputFileShouldBe(expected string) error {
	t := getCutContext()
	if t.result == nil {
		return fmt.Errorf("no result, error: %v", t.err)
	}
	if t.result.OutputPath != expected {
		return fmt.Errorf("expected output path %q, got %q", expected, t.result.OutputPath)
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	t := getCutContext()
	if len(t.trimmer.calls) == 0 {
		return fmt.Errorf("ffmpeg was not called")
	}

	call := t.trimmer.calls[0]

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		expectedArg := row.Cells[0].Value
		found := false
		for _, arg := range call {
			if arg == expectedArg {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("expected argument %q not found in ffmpeg call: %v", expectedArg, call)
		}
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	t := getCutContext()
	if len(t.trimmer.calls) != 0 {
		return fmt.Errorf("expected no ffmpeg call, got %v", t.trimmer.calls)
	}
	return nil
}

func theCutOutputShouldMention(text string) error {
	t := getCutContext()
	if !strings.Contains(t.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got %q", text, t.output.String())
	}
	return nil
}
