// Package platform holds the opaque host services the controllers call into:
// the yes/no confirmation dialog and phone dialing.
package platform

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

type Confirmer interface {
	Confirm(prompt string) bool
}

type Dialer interface {
	Dial(ctx context.Context, digits string) error
}

// Always отвечает на любой вопрос одинаково. Always(true) используют API и `--yes`.
type Always bool

func (a Always) Confirm(string) bool { return bool(a) }

// Prompt спрашивает y/N в терминале.
type Prompt struct {
	in  io.Reader
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

// StdinPrompt returns a prompt bound to the process terminal, or nil when stdin is not
// interactive (a nil Confirmer declines).
func StdinPrompt() Confirmer {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return NewPrompt(os.Stdin, os.Stderr)
}

func (p *Prompt) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func TelURI(digits string) string {
	return "tel:" + digits
}

// TelLink "набирает" номер, формируя tel: ссылку. Сам звонок делает браузер или ОС.
type TelLink struct {
	mu  sync.Mutex
	out io.Writer
	uri string
}

// NewTelLink: out may be nil, then the link is only remembered.
func NewTelLink(out io.Writer) *TelLink {
	return &TelLink{out: out}
}

func (t *TelLink) Dial(ctx context.Context, digits string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	uri := TelURI(digits)

	t.mu.Lock()
	t.uri = uri
	t.mu.Unlock()

	if t.out != nil {
		if _, err := fmt.Fprintln(t.out, uri); err != nil {
			return err
		}
	}
	return nil
}

// URI returns the last dialed link, empty if Dial was never called.
func (t *TelLink) URI() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.uri
}
