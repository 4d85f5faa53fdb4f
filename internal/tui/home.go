// ABOUTME: Interactive home screen showing the feed and a 280-character composer
// ABOUTME: Posts run optimistically; cache changes and notifications stream in as tea messages

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/mutation"
	"github.com/harper/thoughts/internal/timeutil"
)

// ToastDuration is how long a notification stays on screen.
const ToastDuration = 4 * time.Second

// Feed is what the home screen reads and writes. *session.Session implements it.
type Feed interface {
	View() feed.View
	Load(ctx context.Context) ([]feed.Item, error)
	Post(ctx context.Context, content string) (models.Message, error)
}

type (
	feedChangedMsg  struct{}
	notificationMsg mutation.Notification
	loadedMsg       struct{ err error }
	postedMsg       struct{ err error }
	toastExpiredMsg struct{ seq int }
)

// Updates carries cache change events and mutation notifications from other
// goroutines into the bubbletea loop. Pass Changed to feed.Cache.Subscribe and
// the Updates itself as the coordinator's Notifier.
type Updates struct {
	changed   chan struct{}
	notes     chan mutation.Notification
	done      chan struct{}
	closeOnce sync.Once
}

// NewUpdates creates an open Updates.
func NewUpdates() *Updates {
	return &Updates{
		changed: make(chan struct{}, 1),
		notes:   make(chan mutation.Notification, 8),
		done:    make(chan struct{}),
	}
}

// Changed records that the cache changed. Bursts coalesce into one event.
func (u *Updates) Changed() {
	select {
	case u.changed <- struct{}{}:
	default:
	}
}

// Notify implements mutation.Notifier. It blocks until the UI takes the
// notification or Close is called.
func (u *Updates) Notify(n mutation.Notification) {
	select {
	case u.notes <- n:
	case <-u.done:
	}
}

// Close releases anything blocked in Notify or waiting for updates.
func (u *Updates) Close() {
	u.closeOnce.Do(func() { close(u.done) })
}

func (u *Updates) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-u.notes:
			return notificationMsg(n)
		case <-u.changed:
			return feedChangedMsg{}
		case <-u.done:
			return nil
		}
	}
}

// HomeModel is the bubbletea model for the home screen.
type HomeModel struct {
	feed    Feed
	updates *Updates
	now     func() time.Time

	input   textinput.Model
	spinner spinner.Model
	view    feed.View
	posting bool

	toast    *mutation.Notification
	toastSeq int
	width    int
}

// NewHomeModel creates the home screen over f.
func NewHomeModel(f Feed, updates *Updates) HomeModel {
	input := textinput.New()
	input.Placeholder = "Type something meaningful..."
	input.CharLimit = models.MaxContentLength
	input.Width = 60
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = promptStyle

	return HomeModel{
		feed:    f,
		updates: updates,
		now:     time.Now,
		input:   input,
		spinner: sp,
		view:    f.View(),
	}
}

// Init implements tea.Model.
func (m HomeModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.load(), m.updates.wait())
}

func (m HomeModel) load() tea.Cmd {
	f := m.feed
	return func() tea.Msg {
		_, err := f.Load(context.Background())
		return loadedMsg{err: err}
	}
}

func (m HomeModel) post(content string) tea.Cmd {
	f := m.feed
	return func() tea.Msg {
		_, err := f.Post(context.Background(), content)
		return postedMsg{err: err}
	}
}

// Update implements tea.Model.
func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.updates.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		if m.posting {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case feedChangedMsg:
		m.view = m.feed.View()
		return m, m.updates.wait()

	case notificationMsg:
		n := mutation.Notification(msg)
		m.toast = &n
		m.toastSeq++
		seq := m.toastSeq
		expire := tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
		return m, tea.Batch(m.updates.wait(), expire)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case loadedMsg:
		m.view = m.feed.View()
		return m, nil

	case postedMsg:
		m.posting = false
		m.view = m.feed.View()
		if msg.err == nil {
			m.input.Reset()
		}
		// The settled mutation invalidated the cache; refetch the canonical list.
		return m, tea.Batch(m.input.Focus(), m.load())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m HomeModel) submit() (tea.Model, tea.Cmd) {
	content := m.input.Value()
	if m.posting || strings.TrimSpace(content) == "" {
		return m, nil
	}
	m.posting = true
	m.input.Blur()
	return m, m.post(content)
}

// Posting reports whether a post is waiting for the server.
func (m HomeModel) Posting() bool {
	return m.posting
}

// View implements tea.Model.
func (m HomeModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   Minimal Thoughts"))
	b.WriteString("\n")
	b.WriteString(promptStyle.Render("   A clean space to share what's on your mind. One line at a time."))
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if m.posting {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(promptStyle.Render(fmt.Sprintf("%d/%d  enter to share, esc to quit",
		len([]rune(m.input.Value())), models.MaxContentLength)))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("RECENT THOUGHTS"))
	b.WriteString("\n")

	switch {
	case m.view.Loading:
		b.WriteString(m.spinner.View() + " Loading thoughts...\n")
	case m.view.Present && len(m.view.Items) == 0:
		b.WriteString(promptStyle.Render("No thoughts yet. Be the first to share."))
		b.WriteString("\n")
	default:
		for _, item := range m.view.Items {
			b.WriteString(m.renderItem(item))
			b.WriteString("\n")
		}
	}

	if m.view.Err != nil && !errors.Is(m.view.Err, feed.ErrFetchCancelled) {
		b.WriteString(errorStyle.Render("Could not load thoughts: " + m.view.Err.Error()))
		b.WriteString("\n")
	}

	if m.toast != nil {
		b.WriteString("\n")
		style := successStyle
		if m.toast.Severity == mutation.SeverityError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.toast.Title + ": " + m.toast.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m HomeModel) renderItem(item feed.Item) string {
	var when string
	switch it := item.(type) {
	case feed.Speculative:
		when = pendingStyle.Render("sending…")
	case feed.Confirmed:
		when = timeStyle.Render(timeutil.RelativeTime(it.Message.CreatedAt, m.now()))
	}

	card := cardStyle
	if m.width > 4 {
		card = card.Width(m.width - 4)
	}
	return card.Render(item.Content() + "\n" + when)
}
