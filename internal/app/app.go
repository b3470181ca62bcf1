// Package app is the root Bubble Tea model: it owns the screen stack, runs
// the route guard on every navigation and follows the session.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/screens/placeholder"
	"github.com/abhisek/eduz/internal/session"
	"github.com/abhisek/eduz/internal/ui/layout"
)

// sessionChangedMsg carries a session store notification into Update.
type sessionChangedMsg struct {
	State session.State
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps   *appctx.Deps
	router *router.Router
	// paths mirrors the router stack.
	paths  []guard.Path
	init   tea.Cmd
	width  int
	height int
}

// New creates the root model showing start, after the guard had its say.
func New(deps *appctx.Deps, start guard.Path) AppModel {
	m := AppModel{deps: deps}
	m.init = m.open(router.NavigateMsg{Path: start, Mode: router.ModeReset})
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

// open runs the guard for msg and places the resulting page on the stack.
func (m *AppModel) open(msg router.NavigateMsg) tea.Cmd {
	path, mode, params := msg.Path, msg.Mode, msg.Params
	dec := guard.CheckPath(m.deps.Session.State(), path)
	if !dec.Allow {
		m.deps.Log.Debug("navigation redirected",
			zap.String("path", string(path)),
			zap.String("to", string(dec.Redirect)),
		)
		path, mode, params = dec.Redirect, router.ModeReset, nil
		if dec.Redirect == guard.PathLogin {
			params = dec.From
		}
	}

	var s screen.Screen
	if factory, ok := routes[path]; ok {
		s = factory(m.deps, params)
	} else {
		s = placeholder.NotFound(string(path))
	}

	if m.router == nil {
		m.router = router.New(s)
		m.paths = []guard.Path{path}
		return s.Init()
	}
	switch mode {
	case router.ModeReplace:
		m.paths[len(m.paths)-1] = path
	case router.ModeReset:
		m.paths = []guard.Path{path}
	default:
		m.paths = append(m.paths, path)
	}
	return m.router.Open(s, mode)
}

// Path returns the route of the active page.
func (m AppModel) Path() guard.Path {
	if len(m.paths) == 0 {
		return ""
	}
	return m.paths[len(m.paths)-1]
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.NavigateMsg:
		return m, m.open(msg)

	case sessionChangedMsg:
		// The active page may no longer be allowed, e.g. after logout or an
		// expired token.
		cur := m.Path()
		if dec := guard.CheckPath(msg.State, cur); !dec.Allow {
			return m, m.open(router.NavigateMsg{Path: cur, Mode: router.ModeReset})
		}
		return m, nil

	case router.PopScreenMsg:
		if m.router.Depth() > 1 {
			m.paths = m.paths[:len(m.paths)-1]
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscapeCapturer); ok && c.CapturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func account(st session.State) layout.Account {
	switch {
	case !st.Authenticated():
		return layout.Account{Label: "signed out"}
	case st.Role == session.RoleUnknown:
		return layout.Account{Label: "signed in", SignedIn: true}
	default:
		return layout.Account{Label: string(st.Role), SignedIn: true}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, account(m.deps.Session.State()), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program at start.
func Run(deps *appctx.Deps, start guard.Path) error {
	p := tea.NewProgram(New(deps, start))

	// Session changes can fire from inside a command or an Update; Send
	// blocks until the program reads it, so deliver from a goroutine.
	unsubscribe := deps.Session.Subscribe(func(st session.State) {
		go p.Send(sessionChangedMsg{State: st})
	})
	defer unsubscribe()

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
