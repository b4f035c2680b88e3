package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nhle/jira-categorize/internal/model"
	"github.com/nhle/jira-categorize/internal/theme"
)

// ErrInterrupted is returned when the operator interrupts the prompt or
// input ends. The caller must stop the whole run, not just the issue.
var ErrInterrupted = errors.New("interrupted")

// Texts printed by the line prompter.
const (
	Question = "Set Work Category (f)eature Engineering, " +
		"(e)ngineering Excellence, (o)perational Excellence, (s)kip? (f/e/o/s): "
	InvalidNotice = "Invalid choice. Please enter f, e, o, or s."
)

// Prompter asks the operator for the work category of one issue.
type Prompter interface {
	Choose(ctx context.Context, issue model.Issue) (model.Decision, error)
}

type lineResult struct {
	text string
	err  error
}

// LinePrompter reads single-letter answers from a line-oriented input
// such as a terminal. Invalid answers are reported and asked again.
//
// Lines are read on a background goroutine so that a pending read can be
// abandoned when ctx is cancelled (Ctrl-C).
type LinePrompter struct {
	in     io.Reader
	out    io.Writer
	styles *theme.Styles

	once  sync.Once
	lines chan lineResult
}

// NewLinePrompter creates a prompter reading from in and writing the
// question and notices to out.
func NewLinePrompter(
	in io.Reader,
	out io.Writer,
	styles *theme.Styles,
) *LinePrompter {
	return &LinePrompter{
		in:     in,
		out:    out,
		styles: styles,
	}
}

// Choose prompts until a valid answer is read. It returns ErrInterrupted
// when ctx is cancelled or the input is exhausted.
func (p *LinePrompter) Choose(
	ctx context.Context,
	issue model.Issue,
) (model.Decision, error) {
	for {
		fmt.Fprint(p.out, Question)

		line, err := p.readLine(ctx)
		if err != nil {
			return model.Decision{}, err
		}

		decision, err := model.ParseDecision(line)
		if err != nil {
			fmt.Fprintln(p.out, p.styles.Warning.Render(InvalidNotice))
			continue
		}
		return decision, nil
	}
}

func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	p.once.Do(p.startReader)

	if ctx.Err() != nil {
		return "", ErrInterrupted
	}

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res, ok := <-p.lines:
		if !ok || errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("%w: end of input", ErrInterrupted)
		}
		if res.err != nil {
			return "", fmt.Errorf("reading answer: %w", res.err)
		}
		return res.text, nil
	}
}

// startReader feeds input lines to p.lines until the input fails. The
// final line is delivered even when it lacks a newline.
func (p *LinePrompter) startReader() {
	p.lines = make(chan lineResult)

	go func() {
		defer close(p.lines)

		reader := bufio.NewReader(p.in)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				p.lines <- lineResult{text: text}
			}
			if err != nil {
				p.lines <- lineResult{err: err}
				return
			}
		}
	}()
}
