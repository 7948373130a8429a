package fuzzy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	fzf "github.com/junegunn/fzf/src"
)

const descriptionSeparator = "  │  "

// FzfRunner defines the interface for running fzf
type FzfRunner interface {
	Run(opts *fzf.Options) (int, error)
}

// DefaultFzfRunner implements the FzfRunner interface using the real fzf library
type DefaultFzfRunner struct{}

// Run executes fzf with the given options
func (r *DefaultFzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// FzfFinder implements fuzzy finding using the fzf library
type FzfFinder struct {
	options []Option
	prompt  string
	runner  FzfRunner

	fallbackIn  io.Reader
	fallbackOut io.Writer
}

// NewFzfWithRunner creates a new fzf-style fuzzy finder driven by runner
func NewFzfWithRunner(prompt string, runner FzfRunner) *FzfFinder {
	return &FzfFinder{
		prompt:      prompt,
		options:     make([]Option, 0),
		runner:      runner,
		fallbackIn:  os.Stdin,
		fallbackOut: os.Stdout,
	}
}

// SetOptions sets the available options for selection
func (f *FzfFinder) SetOptions(options []Option) error {
	if options == nil {
		return fmt.Errorf("options cannot be nil")
	}

	f.options = make([]Option, len(options))
	copy(f.options, options)
	return nil
}

// SetFallbackIO sets the streams the line finder uses when fzf cannot run
func (f *FzfFinder) SetFallbackIO(in io.Reader, out io.Writer) {
	f.fallbackIn = in
	f.fallbackOut = out
}

// Select starts the fuzzy selection process using the fzf library
func (f *FzfFinder) Select() (string, error) {
	if len(f.options) == 0 {
		return "", fmt.Errorf("no options available")
	}

	lines := make([]string, len(f.options))
	for i, option := range f.options {
		lines[i] = option.Value
		if option.Description != "" {
			lines[i] = option.Value + descriptionSeparator + option.Description
		}
	}

	selected, err := f.run(lines, "--no-multi")
	if err != nil {
		var runErr *fzfRunError
		if errors.As(err, &runErr) {
			return f.fallback().SelectWithFilter()
		}
		return "", err
	}

	// The format is "value  │  description" so we need to extract just the value
	parts := strings.Split(selected[0], descriptionSeparator)
	selectedValue := strings.TrimSpace(parts[0])

	for _, option := range f.options {
		if option.Value == selectedValue {
			return option.Value, nil
		}
	}

	return selectedValue, nil
}

// SelectMany lets the user mark several options with TAB and returns their
// zero-based indices in list order.
func (f *FzfFinder) SelectMany() ([]int, error) {
	if len(f.options) == 0 {
		return nil, fmt.Errorf("no options available")
	}

	// prefix each line with its 1-based position so duplicates stay distinct
	lines := make([]string, len(f.options))
	for i, option := range f.options {
		lines[i] = fmt.Sprintf("%3d  %s", i+1, option.Value)
		if option.Description != "" {
			lines[i] += descriptionSeparator + option.Description
		}
	}

	selected, err := f.run(lines, "--multi")
	if err != nil {
		var runErr *fzfRunError
		if errors.As(err, &runErr) {
			return f.fallback().SelectMany()
		}
		return nil, err
	}

	seen := make(map[int]bool)
	indices := make([]int, 0, len(selected))
	for _, line := range selected {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > len(f.options) || seen[n-1] {
			continue
		}
		seen[n-1] = true
		indices = append(indices, n-1)
	}

	return indices, nil
}

// fzfRunError marks failures of fzf itself, as opposed to a cancelled selection
type fzfRunError struct {
	err error
}

func (e *fzfRunError) Error() string {
	return fmt.Sprintf("fzf failed: %v", e.err)
}

func (e *fzfRunError) Unwrap() error {
	return e.err
}

// run feeds lines to fzf and returns the selected lines
func (f *FzfFinder) run(lines []string, mode string) ([]string, error) {
	// Create a temporary file with the options
	tmpFile, err := os.CreateTemp("", "fzf-options-*.txt")
	if err != nil {
		return nil, &fzfRunError{err: fmt.Errorf("failed to create temporary file: %w", err)}
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	for _, line := range lines {
		if _, err := fmt.Fprintln(tmpFile, line); err != nil {
			_ = tmpFile.Close()
			return nil, &fzfRunError{err: fmt.Errorf("failed to write option to file: %w", err)}
		}
	}

	// Close the file so fzf can read it
	if err := tmpFile.Close(); err != nil {
		return nil, &fzfRunError{err: fmt.Errorf("failed to close temporary file: %w", err)}
	}

	args := []string{
		"--prompt=" + f.prompt + " ",
		"--height=15",
		"--layout=default",
		mode,
		"--cycle",
		"--hscroll",
		"--hscroll-off=10",
		"--tabstop=8",
		"--clear",
		"--extended",
		"--algo=v2",
		"--tiebreak=length",
		"--sort=1000",
		"--no-mouse",
		"--no-reverse",
		"--border=none",
	}

	opts, err := fzf.ParseOptions(true, args)
	if err != nil {
		return nil, &fzfRunError{err: fmt.Errorf("failed to parse fzf options: %w", err)}
	}

	// Redirect stdin to read from our temporary file
	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	tmpFileForReading, err := os.Open(tmpFile.Name())
	if err != nil {
		return nil, &fzfRunError{err: fmt.Errorf("failed to open temporary file for reading: %w", err)}
	}
	defer func() {
		_ = tmpFileForReading.Close()
	}()

	os.Stdin = tmpFileForReading

	// Capture stdout to get the selected result
	originalStdout := os.Stdout
	defer func() { os.Stdout = originalStdout }()

	r, w, err := os.Pipe()
	if err != nil {
		return nil, &fzfRunError{err: fmt.Errorf("failed to create pipe: %w", err)}
	}
	defer func() {
		_ = r.Close()
	}()
	defer func() {
		_ = w.Close()
	}()

	os.Stdout = w

	exitCode, err := f.runner.Run(opts)

	// Restore stdout before reading result
	_ = w.Close()
	os.Stdout = originalStdout
	os.Stdin = originalStdin

	if err != nil {
		return nil, &fzfRunError{err: err}
	}

	if exitCode != fzf.ExitOk {
		return nil, ErrQuit
	}

	result, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fzf result: %w", err)
	}

	var selected []string
	for _, line := range strings.Split(string(result), "\n") {
		if strings.TrimSpace(line) != "" {
			selected = append(selected, line)
		}
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no selection made")
	}

	return selected, nil
}

// fallback returns the line finder used when fzf fails
func (f *FzfFinder) fallback() *Finder {
	finder := NewWithIO(f.prompt, f.fallbackIn, f.fallbackOut)
	for _, option := range f.options {
		finder.AddOption(option.Value, option.Description)
	}
	return finder
}
