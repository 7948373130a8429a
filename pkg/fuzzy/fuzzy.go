package fuzzy

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// QuitSentinel aborts any selection prompt
const QuitSentinel = ":wq"

// ErrQuit is returned when the user enters the quit sentinel or cancels a picker
var ErrQuit = errors.New("selection cancelled")

// IsQuit reports whether input is the quit sentinel
func IsQuit(input string) bool {
	return strings.TrimSpace(input) == QuitSentinel
}

// Option represents a selectable option in the fuzzy finder
type Option struct {
	Value       string
	Description string
}

// Selection is the parsed answer to a multi-selection prompt
type Selection struct {
	// Indices are zero-based positions into the options, in the order given, without duplicates
	Indices []int
	// Invalid holds the numeric tokens that were out of range
	Invalid []string
	// Keyword is set when the input held no numbers and was matched as a substring instead
	Keyword string
}

// Empty reports whether nothing was selected
func (s Selection) Empty() bool {
	return len(s.Indices) == 0
}

// ParseSelection interprets input as comma-separated 1-based indices into options.
// Out-of-range numbers are collected in Invalid and skipped. When no token is a
// number the whole input is used as a case-insensitive keyword matched against
// option values.
func ParseSelection(input string, options []Option) Selection {
	var sel Selection

	input = strings.TrimSpace(input)
	if input == "" {
		return sel
	}

	numeric := false
	seen := make(map[int]bool)
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		numeric = true

		if n < 1 || n > len(options) {
			sel.Invalid = append(sel.Invalid, token)
			continue
		}
		if !seen[n-1] {
			seen[n-1] = true
			sel.Indices = append(sel.Indices, n-1)
		}
	}

	if numeric {
		return sel
	}

	sel.Keyword = input
	keyword := strings.ToLower(input)
	for i, option := range options {
		if strings.Contains(strings.ToLower(option.Value), keyword) {
			sel.Indices = append(sel.Indices, i)
		}
	}
	return sel
}

// Finder represents a line-based fuzzy finder instance
type Finder struct {
	prompt  string
	options []Option
	in      *bufio.Reader
	out     io.Writer
}

// NewWithIO creates a fuzzy finder over the given streams. A *bufio.Reader is
// used as is so that callers sharing one reader do not lose buffered input.
func NewWithIO(prompt string, in io.Reader, out io.Writer) *Finder {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Finder{
		prompt:  prompt,
		options: make([]Option, 0),
		in:      reader,
		out:     out,
	}
}

// AddOption adds an option to the fuzzy finder
func (f *Finder) AddOption(value, description string) {
	f.options = append(f.options, Option{
		Value:       value,
		Description: description,
	})
}

// SetOptions replaces the available options
func (f *Finder) SetOptions(options []Option) error {
	if options == nil {
		return fmt.Errorf("options cannot be nil")
	}

	f.options = make([]Option, len(options))
	copy(f.options, options)
	return nil
}

// printOptions writes the numbered option list
func (f *Finder) printOptions(options []Option) {
	for i, option := range options {
		_, _ = fmt.Fprintf(f.out, "%d. %s", i+1, option.Value)
		if option.Description != "" {
			_, _ = fmt.Fprintf(f.out, " - %s", option.Description)
		}
		_, _ = fmt.Fprintln(f.out)
	}
}

func (f *Finder) readLine() (string, error) {
	input, err := f.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// SelectWithFilter provides a more advanced selection with filtering capability
func (f *Finder) SelectWithFilter() (string, error) {
	if len(f.options) == 0 {
		return "", fmt.Errorf("no options available")
	}

	for {
		_, _ = fmt.Fprintln(f.out, f.prompt)
		_, _ = fmt.Fprintf(f.out, "Type to filter options, or enter a number to select ('%s' to cancel):\n", QuitSentinel)
		_, _ = fmt.Fprintln(f.out, strings.Repeat("-", 50))
		f.printOptions(f.options)

		_, _ = fmt.Fprint(f.out, "Filter/Select: ")
		input, err := f.readLine()
		if err != nil {
			return "", err
		}

		if input == "" {
			continue
		}
		if IsQuit(input) {
			return "", ErrQuit
		}

		if selection, err := strconv.Atoi(input); err == nil {
			if selection >= 1 && selection <= len(f.options) {
				return f.options[selection-1].Value, nil
			}
			_, _ = fmt.Fprintf(f.out, "Selection %d is out of range (1-%d)\n\n", selection, len(f.options))
			continue
		}

		filtered := f.filterOptions(input)
		if len(filtered) == 0 {
			_, _ = fmt.Fprintf(f.out, "No options match filter: %s\n\n", input)
			continue
		}

		if len(filtered) == 1 {
			_, _ = fmt.Fprintf(f.out, "\nAuto-selecting: %s\n", filtered[0].Value)
			return filtered[0].Value, nil
		}

		_, _ = fmt.Fprintf(f.out, "\nFiltered options (matching '%s'):\n", input)
		f.printOptions(filtered)

		_, _ = fmt.Fprintf(f.out, "\nSelect from filtered options (1-%d), or press Enter to filter again: ", len(filtered))
		selectionInput, err := f.readLine()
		if err != nil {
			return "", err
		}

		if selectionInput == "" {
			_, _ = fmt.Fprintln(f.out)
			continue
		}
		if IsQuit(selectionInput) {
			return "", ErrQuit
		}

		selection, err := strconv.Atoi(selectionInput)
		if err != nil {
			_, _ = fmt.Fprintf(f.out, "Invalid selection: %s\n\n", selectionInput)
			continue
		}

		if selection < 1 || selection > len(filtered) {
			_, _ = fmt.Fprintf(f.out, "Selection %d is out of range (1-%d)\n\n", selection, len(filtered))
			continue
		}

		return filtered[selection-1].Value, nil
	}
}

// SelectMany lists the options and reads one line of comma-separated numbers
// or a keyword. Out-of-range numbers are reported and skipped. It returns the
// zero-based indices of the chosen options, possibly none.
func (f *Finder) SelectMany() ([]int, error) {
	if len(f.options) == 0 {
		return nil, fmt.Errorf("no options available")
	}

	_, _ = fmt.Fprintln(f.out, f.prompt)
	f.printOptions(f.options)
	_, _ = fmt.Fprintf(f.out, "\nEnter numbers separated by commas, or a keyword ('%s' to cancel): ", QuitSentinel)

	input, err := f.readLine()
	if err != nil {
		return nil, err
	}
	if IsQuit(input) {
		return nil, ErrQuit
	}

	sel := ParseSelection(input, f.options)
	for _, token := range sel.Invalid {
		_, _ = fmt.Fprintf(f.out, "Invalid index: %s\n", token)
	}
	if sel.Keyword != "" && sel.Empty() {
		_, _ = fmt.Fprintf(f.out, "No options match keyword: %s\n", sel.Keyword)
	}

	return sel.Indices, nil
}

// filterOptions filters options based on the input string
func (f *Finder) filterOptions(filter string) []Option {
	filter = strings.ToLower(filter)
	var filtered []Option

	for _, option := range f.options {
		if strings.Contains(strings.ToLower(option.Value), filter) ||
			strings.Contains(strings.ToLower(option.Description), filter) {
			filtered = append(filtered, option)
		}
	}

	return filtered
}
