package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// videoTypes are the extensions offered by the file picker
var videoTypes = []string{".mp4", ".mov", ".mkv", ".avi", ".webm", ".m4v"}

// newOpenForm asks for the video to preview, starting in dir
func newOpenForm(dir string, path *string) *huh.Form {
	picker := huh.NewFilePicker().
		Title("Select a video").
		Description("enter selects, esc cancels").
		AllowedTypes(videoTypes).
		Height(12).
		Picking(true).
		Value(path)
	if dir != "" {
		picker = picker.CurrentDirectory(dir)
	}

	return huh.NewForm(huh.NewGroup(picker)).
		WithTheme(formTheme()).
		WithShowHelp(false)
}

// newSaveForm asks where to write the clip
func newSaveForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Save clip as").
				Description("enter confirms, esc cancels").
				Value(path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("output path is required")
					}
					return nil
				}),
		),
	).WithTheme(formTheme()).
		WithShowHelp(false)
}
