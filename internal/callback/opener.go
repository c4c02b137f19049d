package callback

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/schema"
	"github.com/aidanlsb/raven-actions/internal/shellquote"
)

// Opener navigates to a callback URL.
type Opener interface {
	Open(ctx context.Context, rawURL string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, rawURL string) error

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, rawURL string) error {
	return f(ctx, rawURL)
}

// SystemOpener hands URLs to the desktop's URL handler, or to Command when
// set. A Command containing spaces (e.g. "open -a Things") is run via sh.
type SystemOpener struct {
	Command string
}

// Open starts the handler in the background.
func (o SystemOpener) Open(_ context.Context, rawURL string) error {
	cmd := o.command(rawURL)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", rawURL, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func (o SystemOpener) command(rawURL string) *exec.Cmd {
	if o.Command != "" {
		if strings.Contains(o.Command, " ") {
			return exec.Command("sh", "-c", shellquote.Command(o.Command, rawURL))
		}
		return exec.Command(o.Command, rawURL)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}

// Encoder builds callback URLs and opens them.
type Encoder struct {
	opener Opener
}

// NewEncoder returns an Encoder that navigates with opener.
func NewEncoder(opener Opener) *Encoder {
	return &Encoder{opener: opener}
}

// Send builds the callback URL for o and opens it. The URL is returned even
// when opening fails.
func (e *Encoder) Send(ctx context.Context, base string, o outcome.Outcome, raw schema.Params) (string, error) {
	u, err := BuildURL(base, o, raw)
	if err != nil {
		return "", err
	}
	if e.opener == nil {
		return u, nil
	}
	if err := e.opener.Open(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}
