package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/vsoitems/internal/connection"
	"github.com/johanforsgren/vsoitems/internal/logger"
)

const noticeBuffer = 16

// Bridge carries notifications from background goroutines into the
// bubbletea loop. Nothing here blocks the caller except Prompt, which waits
// for the user's answer.
type Bridge struct {
	changes chan struct{}
	notices chan noticeMsg
	prompts chan promptMsg
}

func NewBridge() *Bridge {
	return &Bridge{
		changes: make(chan struct{}, 1),
		notices: make(chan noticeMsg, noticeBuffer),
		prompts: make(chan promptMsg),
	}
}

// Changed signals that the item tree changed. Signals coalesce while one is
// pending.
func (b *Bridge) Changed() {
	select {
	case b.changes <- struct{}{}:
	default:
	}
}

func (b *Bridge) Info(message string) {
	b.notify(noticeMsg{message: message})
}

func (b *Bridge) Error(message string) {
	b.notify(noticeMsg{message: message, isError: true})
}

func (b *Bridge) notify(n noticeMsg) {
	select {
	case b.notices <- n:
	default:
		logger.Log("UI: Dropped notice: %s", n.message)
	}
}

func (b *Bridge) Prompt(ctx context.Context, req connection.PromptRequest) (string, bool, error) {
	reply := make(chan promptReply, 1)

	select {
	case b.prompts <- promptMsg{request: req, reply: reply}:
	case <-ctx.Done():
		return "", false, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.value, r.ok, nil
	case <-ctx.Done():
		return "", false, ctx.Err()
	}
}

func (b *Bridge) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-b.changes
		return itemsChangedMsg{}
	}
}

func (b *Bridge) waitForNotice() tea.Cmd {
	return func() tea.Msg {
		return <-b.notices
	}
}

func (b *Bridge) waitForPrompt() tea.Cmd {
	return func() tea.Msg {
		return <-b.prompts
	}
}

type itemsChangedMsg struct{}

type noticeMsg struct {
	message string
	isError bool
}

type promptReply struct {
	value string
	ok    bool
}

type promptMsg struct {
	request connection.PromptRequest
	reply   chan<- promptReply
}
