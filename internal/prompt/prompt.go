// Package prompt asks an operator for a line of text.
package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// Prompter returns the operator's answer. ok is false when the operator
// cancelled instead of answering.
type Prompter interface {
	Prompt(ctx context.Context, label string) (text string, ok bool, err error)
}

// Func adapts a function to Prompter.
type Func func(ctx context.Context, label string) (string, bool, error)

func (f Func) Prompt(ctx context.Context, label string) (string, bool, error) {
	return f(ctx, label)
}

// Static answers every prompt with text. An empty text counts as not
// obtained.
func Static(text string) Prompter {
	return Func(func(context.Context, string) (string, bool, error) {
		return text, text != "", nil
	})
}

// Declined cancels every prompt.
func Declined() Prompter {
	return Func(func(context.Context, string) (string, bool, error) {
		return "", false, nil
	})
}

// Terminal prompts on a terminal.
type Terminal struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

func (t Terminal) Prompt(ctx context.Context, label string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p := promptui.Prompt{
		Label:  label,
		Stdin:  t.Stdin,
		Stdout: t.Stdout,
	}
	text, err := p.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
