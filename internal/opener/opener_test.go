package opener

import (
	"errors"
	"strings"
	"testing"
)

type recorder struct {
	commands  []string
	startErr  map[string]error
	clipboard string
	clipErr   error
}

func (r *recorder) opener(goos string, env map[string]string) *Opener {
	return &Opener{
		goos:   goos,
		getenv: func(key string) string { return env[key] },
		start: func(name string, args ...string) error {
			r.commands = append(r.commands, strings.Join(append([]string{name}, args...), " "))
			return r.startErr[name]
		},
		writeClipboard: func(s string) error {
			if r.clipErr != nil {
				return r.clipErr
			}
			r.clipboard = s
			return nil
		},
	}
}

const link = "https://dev.azure.com/contoso/_workitems/edit/42"

func TestOpenPlatformCommands(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "xdg-open " + link},
		{"darwin", "open " + link},
		{"windows", "rundll32 url.dll,FileProtocolHandler " + link},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			r := &recorder{}
			if err := r.opener(tt.goos, nil).Open(link); err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if len(r.commands) != 1 || r.commands[0] != tt.want {
				t.Errorf("commands = %v, want [%s]", r.commands, tt.want)
			}
			if r.clipboard != "" {
				t.Error("clipboard should be untouched on success")
			}
		})
	}
}

func TestOpenPrefersBrowserEnv(t *testing.T) {
	r := &recorder{}
	if err := r.opener("linux", map[string]string{"BROWSER": "firefox --new-tab"}).Open(link); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(r.commands) != 1 || r.commands[0] != "firefox --new-tab "+link {
		t.Errorf("commands = %v", r.commands)
	}
}

func TestOpenFallsBackToClipboard(t *testing.T) {
	r := &recorder{startErr: map[string]error{"xdg-open": errors.New("not found")}}

	err := r.opener("linux", nil).Open(link)
	if !errors.Is(err, ErrCopiedInstead) {
		t.Fatalf("Open() error = %v, want %v", err, ErrCopiedInstead)
	}
	if r.clipboard != link {
		t.Errorf("clipboard = %q, want %q", r.clipboard, link)
	}
}

func TestOpenUnsupportedPlatformFallsBack(t *testing.T) {
	r := &recorder{}
	if err := r.opener("plan9", nil).Open(link); !errors.Is(err, ErrCopiedInstead) {
		t.Errorf("Open() error = %v, want %v", err, ErrCopiedInstead)
	}
	if len(r.commands) != 0 {
		t.Errorf("no command should run, got %v", r.commands)
	}
}

func TestOpenFailsWhenClipboardFails(t *testing.T) {
	r := &recorder{
		startErr: map[string]error{"xdg-open": errors.New("not found")},
		clipErr:  errors.New("no clipboard"),
	}
	err := r.opener("linux", nil).Open(link)
	if err == nil || errors.Is(err, ErrCopiedInstead) {
		t.Errorf("Open() error = %v, want a launch failure", err)
	}
}

func TestEmptyURL(t *testing.T) {
	r := &recorder{}
	o := r.opener("linux", nil)
	if err := o.Open("  "); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("Open() error = %v, want %v", err, ErrEmptyURL)
	}
	if err := o.Copy(""); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("Copy() error = %v, want %v", err, ErrEmptyURL)
	}
}

func TestCopy(t *testing.T) {
	r := &recorder{}
	if err := r.opener("linux", nil).Copy(link); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if r.clipboard != link {
		t.Errorf("clipboard = %q", r.clipboard)
	}
	if len(r.commands) != 0 {
		t.Errorf("Copy should not launch anything, got %v", r.commands)
	}
}
