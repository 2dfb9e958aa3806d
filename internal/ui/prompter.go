package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks questions on a line-oriented terminal.
// End of input is treated as accepting the default answer.
type Prompter struct {
	input  *bufio.Reader
	output io.Writer
}

// NewPrompter creates a Prompter on stdin and stderr.
func NewPrompter() *Prompter {
	return NewPrompterWith(os.Stdin, os.Stderr)
}

// NewPrompterWith creates a Prompter on the given streams.
func NewPrompterWith(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{input: bufio.NewReader(in), output: out}
}

// Output returns the writer prompts are written to.
func (p *Prompter) Output() io.Writer {
	return p.output
}

// Ask prints prompt and returns the trimmed answer, or def when the answer
// is empty.
func (p *Prompter) Ask(ctx context.Context, prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.output, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.output, "%s: ", prompt)
	}

	answer, err := p.readLine(ctx)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (p *Prompter) Confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(p.output, "%s [%s]: ", prompt, hint)

	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Choose asks until the answer is one of choices. An empty answer selects def.
func (p *Prompter) Choose(ctx context.Context, prompt string, choices []string, def string) (string, error) {
	fmt.Fprintf(p.output, "%s (default %s): ", prompt, def)
	for {
		answer, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		if answer == "" {
			return def, nil
		}
		for _, c := range choices {
			if answer == c {
				return c, nil
			}
		}
		fmt.Fprintf(p.output, "Please enter one of %s (default %s): ", strings.Join(choices, ","), def)
	}
}

// readLine reads one line, honoring ctx. At end of input it returns "" so
// that callers fall back to their default.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		line, err := p.input.ReadString('\n')
		ch <- result{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil && !errors.Is(r.err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", r.err)
		}
		if errors.Is(r.err, io.EOF) && r.line == "" {
			fmt.Fprintln(p.output)
		}
		return strings.TrimSpace(r.line), nil
	}
}
