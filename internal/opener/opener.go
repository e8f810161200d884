package opener

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/johanforsgren/vsoitems/internal/logger"
)

var (
	ErrEmptyURL = errors.New("empty URL")
	// ErrCopiedInstead means no handler could be launched but the URL is on
	// the clipboard.
	ErrCopiedInstead = errors.New("could not launch a browser, link copied to clipboard")
)

// Opener hands URLs to the platform's default handler.
type Opener struct {
	goos           string
	getenv         func(string) string
	start          func(name string, args ...string) error
	writeClipboard func(string) error
}

func New() *Opener {
	return &Opener{
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		writeClipboard: clipboard.WriteAll,
	}
}

// Open launches url. $BROWSER wins over the platform handler. When nothing
// can be launched the URL is copied to the clipboard and ErrCopiedInstead
// is returned.
func (o *Opener) Open(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	launchErr := o.launch(url)
	if launchErr == nil {
		logger.Log("Opened %s", url)
		return nil
	}
	logger.LogError("OPEN", url, launchErr)

	if err := o.writeClipboard(url); err != nil {
		logger.LogError("CLIPBOARD", url, err)
		return fmt.Errorf("failed to open %s: %w", url, launchErr)
	}
	return ErrCopiedInstead
}

func (o *Opener) Copy(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}
	if err := o.writeClipboard(url); err != nil {
		logger.LogError("CLIPBOARD", url, err)
		return fmt.Errorf("failed to copy link: %w", err)
	}
	return nil
}

func (o *Opener) launch(url string) error {
	if browser := strings.TrimSpace(o.getenv("BROWSER")); browser != "" {
		parts := strings.Fields(browser)
		if err := o.start(parts[0], append(parts[1:], url)...); err == nil {
			return nil
		}
	}

	name, args, err := o.command(url)
	if err != nil {
		return err
	}
	return o.start(name, args...)
}

func (o *Opener) command(url string) (string, []string, error) {
	switch o.goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}
