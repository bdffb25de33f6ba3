// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
)

// Sentinel errors for selection.
var (
	ErrNoChoices          = errors.New("nothing to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Choice is one selectable item.
type Choice struct {
	Value string
	Label string

	// Detail is shown in the fuzzy finder preview pane.
	Detail string
}

// findFunc is swapped in tests.
var findFunc = func(choices []Choice) (int, error) {
	return fuzzyfinder.Find(
		choices,
		func(i int) string { return choices[i].Label },
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return choices[i].Detail
		}),
	)
}

// Selector handles interactive selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	fuzzy  bool
}

// NewSelector creates a Selector on stdin and stdout. The fuzzy finder is
// used when both are terminals.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
		fuzzy:  logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout),
	}
}

// NewSelectorWithIO creates a numbered-list Selector for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// Select prompts the user to choose one of choices.
//
// Returns:
//   - ErrNoChoices if the list is empty
//   - The only choice without prompting when there is one
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled on EOF or when the fuzzy finder is aborted
func (s *Selector) Select(query string, choices []Choice) (*Choice, error) {
	if len(choices) == 0 {
		return nil, ErrNoChoices
	}
	if len(choices) == 1 {
		return &choices[0], nil
	}

	if s.fuzzy {
		idx, err := findFunc(choices)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil, ErrSelectionCancelled
			}
			return nil, errors.Wrap(err, "fuzzy finder")
		}
		return &choices[idx], nil
	}

	fmt.Fprintf(s.writer, "%s:\n", query)
	for i, c := range choices {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, c.Label)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return nil, ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "reading selection")
		}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return &choices[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(choices) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(choices))
	}
	return &choices[selection-1], nil
}

// Confirm prints question and reads a yes/no answer. Only "y" or "yes"
// (case-insensitive) confirm.
func Confirm(w io.Writer, r io.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)

	reader := bufio.NewReader(r)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
