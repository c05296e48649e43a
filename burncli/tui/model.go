package tui

import (
	"context"
	"errors"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/Tallone/solana-burn-cli/burncli/session"
	"github.com/Tallone/solana-burn-cli/burncli/sol"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirm
	modeProcessing
	modeResults
)

type balanceMsg uint64

// cancelledMsg reports that the run context is done.
type cancelledMsg struct{}

type processedMsg struct {
	results []sol.SubmissionResult
}

// Model is the bubbletea model driving a loaded session.
type Model struct {
	ctx     context.Context
	session *session.Session
	search  textinput.Model
	mode    mode

	balance        uint64
	balanceUpdates <-chan uint64

	results  []sol.SubmissionResult
	status   string
	quitting bool

	width  int
	height int
}

// New creates the model. balanceUpdates may be nil when no websocket
// endpoint is configured.
func New(ctx context.Context, s *session.Session, balanceUpdates <-chan uint64) Model {
	search := textinput.New()
	search.Prompt = "Search mint: "
	search.Placeholder = "mint address"
	search.CharLimit = 44

	return Model{
		ctx:            ctx,
		session:        s,
		search:         search,
		mode:           modeBrowse,
		balance:        s.Wallet.Lamports,
		balanceUpdates: balanceUpdates,
		height:         24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForBalance(m.balanceUpdates), waitForCancel(m.ctx))
}

func waitForCancel(ctx context.Context) tea.Cmd {
	if ctx == nil || ctx.Done() == nil {
		return nil
	}
	return func() tea.Msg {
		<-ctx.Done()
		return cancelledMsg{}
	}
}

func waitForBalance(updates <-chan uint64) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		lamports, ok := <-updates
		if !ok {
			return nil
		}
		return balanceMsg(lamports)
	}
}

func submitUnits(ctx context.Context, s *session.Session, units []sol.BatchUnit) tea.Cmd {
	return func() tea.Msg {
		return processedMsg{results: s.Submit(ctx, units)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case balanceMsg:
		m.balance = uint64(msg)
		return m, waitForBalance(m.balanceUpdates)

	case processedMsg:
		m.results = msg.results
		m.mode = modeResults
		m.status = session.Summary(msg.results)
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case cancelledMsg:
		if m.mode == modeProcessing {
			m.quitting = true
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeProcessing:
			// selection is frozen and quitting waits until the run reports back
			switch msg.String() {
			case "q", "esc", "ctrl+c":
				m.quitting = true
				m.status = "waiting for submitted transactions to finish"
			}
			return m, nil
		case modeResults:
			switch msg.String() {
			case "q", "esc", "ctrl+c", "enter":
				return m, tea.Quit
			}
			return m, nil
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controller := m.session.Controller
	m.status = ""

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		controller.Prev()
	case "down", "j":
		controller.Next()
	case " ", "enter":
		controller.ToggleCurrent()
	case "a":
		controller.SelectAll()
	case "c":
		controller.ClearAll()
	case "f":
		controller.EnterFilterMode()
		m.search.Reset()
		m.mode = modeSearch
		return m, m.search.Focus()
	case "ctrl+p":
		if m.session.Directory.SelectedCount() == 0 {
			m.status = models.ErrEmptySelection.Error()
			return m, nil
		}
		m.mode = modeConfirm
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	controller := m.session.Controller

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		controller.ExitFilterMode()
		m.search.Reset()
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	case "up":
		controller.Prev()
		return m, nil
	case "down":
		controller.Next()
		return m, nil
	case " ":
		// mint addresses never contain spaces
		controller.ToggleCurrent()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != controller.View.Predicate() {
		controller.SetPredicate(m.search.Value())
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "n", "N", "esc":
		m.mode = modeBrowse
		return m, nil
	case "y", "Y", "enter":
		units, err := m.session.PrepareBatches()
		if err != nil {
			m.mode = modeBrowse
			m.status = err.Error()
			if !errors.Is(err, models.ErrEmptySelection) {
				m.session.Logger.Sugar().Errorf("failed to prepare units: %v", err)
			}
			return m, nil
		}
		m.mode = modeProcessing
		m.status = ""
		return m, submitUnits(m.ctx, m.session, units)
	}
	return m, nil
}

// Results returns the outcome of the run, if processing has finished.
func (m Model) Results() []sol.SubmissionResult {
	return m.results
}
