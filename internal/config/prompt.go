package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
)

// Prompter asks the operator for settings on the terminal. Prompts are
// written to stderr so stdout stays a clean blob list.
type Prompter struct {
	rl *readline.Instance
}

// NewPrompter creates a line editor reading from in and prompting on out.
func NewPrompter(in io.ReadCloser, out io.Writer) (*Prompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		Stdin:           in,
		Stdout:          out,
		Stderr:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &Prompter{rl: rl}, nil
}

// Close releases the terminal.
func (p *Prompter) Close() error {
	return p.rl.Close()
}

// Ask shows question (with the current value in brackets, if any) and
// returns the cleaned answer, or current when the answer is empty.
func (p *Prompter) Ask(question, current string) (string, error) {
	prompt := question + "? "
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]? ", question, current)
	}
	p.rl.SetPrompt(prompt)

	line, err := p.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}
	if answer := CleanInput(line); answer != "" {
		return answer, nil
	}
	return current, nil
}

// AskSettings walks the operator through root, vendor, device and SDK level.
// build.prop is loaded after the root is known so its values become the
// offered defaults. If override is non-nil it runs after build.prop, letting
// command-line values take the place of those defaults.
func (p *Prompter) AskSettings(s *Settings, override func(*Settings)) error {
	root, err := p.Ask("System dump root", s.Root)
	if err != nil {
		return err
	}
	s.Root = root

	bp, err := LoadBuildProp(s.Root)
	if err != nil {
		return err
	}
	bp.Apply(s)
	if override != nil {
		override(s)
	}

	if s.Vendor, err = p.Ask("Target vendor name", s.Vendor); err != nil {
		return err
	}
	if s.Device, err = p.Ask("Target device name", s.Device); err != nil {
		return err
	}
	sdk, err := p.Ask("System dump SDK version (see https://developer.android.com/guide/topics/manifest/uses-sdk-element.html#ApiLevels)", strconv.Itoa(s.SDK))
	if err != nil {
		return err
	}
	if n, err := strconv.Atoi(sdk); err == nil && n > 0 {
		s.SDK = n
	}
	return nil
}

// AskTargets reads file names until an empty line or end of input.
func (p *Prompter) AskTargets() ([]string, error) {
	var targets []string
	for {
		name, err := p.Ask("File name (empty to finish)", "")
		if errors.Is(err, io.EOF) {
			return targets, nil
		}
		if err != nil {
			return targets, err
		}
		if name == "" {
			return targets, nil
		}
		targets = append(targets, name)
	}
}

// CleanInput strips what a pasted path usually drags along: surrounding
// quotes, trailing blanks and newline, and a trailing '/'.
func CleanInput(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimSpace(s)
	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}
