package tui

import (
	"fmt"
	"strings"

	"github.com/Tallone/solana-burn-cli/burncli/helpers"
	"github.com/Tallone/solana-burn-cli/burncli/sol"
	"github.com/charmbracelet/lipgloss"
)

const chromeHeight = 8

// View implements tea.Model.
func (m Model) View() string {
	sections := []string{m.renderHeader()}

	switch m.mode {
	case modeConfirm:
		sections = append(sections, m.renderConfirm())
	case modeProcessing:
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("Processing %d accounts...", m.session.Directory.SelectedCount())))
	case modeResults:
		sections = append(sections, m.renderResults())
	default:
		if m.mode == modeSearch {
			sections = append(sections, m.search.View())
		}
		sections = append(sections, m.renderList())
	}

	if m.status != "" {
		sections = append(sections, errorStyle.Render(m.status))
	}
	sections = append(sections, mutedStyle.Render(m.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	owner := m.session.Wallet.Owner.String()
	balance := helpers.FormatLamports(m.balance) + " SOL"
	if m.balanceUpdates != nil {
		balance += " (live)"
	}
	counts := fmt.Sprintf("Selected %d | Visible %d | Total %d",
		m.session.Directory.SelectedCount(),
		m.session.Controller.View.Len(),
		m.session.Directory.Len())

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Solana Burn CLI"),
		headerStyle.Render(fmt.Sprintf("Wallet %s  Balance %s", owner, balance)),
		headerStyle.Render(counts),
		"",
	)
}

func (m Model) renderList() string {
	view := m.session.Controller.View
	if view.Len() == 0 {
		if view.Predicate() != "" {
			return mutedStyle.Render("No token accounts match the search.")
		}
		return mutedStyle.Render("No token accounts found.")
	}

	rows := max(m.height-chromeHeight, 3)
	cursor, hasCursor := view.Current()
	start := 0
	if hasCursor && cursor >= rows {
		start = cursor - rows + 1
	}
	end := min(start+rows, view.Len())

	var b strings.Builder
	for i := start; i < end; i++ {
		account := view.Record(i)
		check := "[ ]"
		if account.Selected {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s  mint %s  %s",
			check,
			helpers.ShortAddress(account.Address.String()),
			helpers.ShortAddress(account.Mint.String()),
			account.UiBalance)

		switch {
		case hasCursor && i == cursor:
			line = cursorStyle.Render("> " + line)
		case account.Selected:
			line = selectedStyle.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderConfirm() string {
	dir := m.session.Directory
	body := fmt.Sprintf("Burn and close %d token accounts?\nReclaims about %s SOL of rent.\n\n[y] confirm   [n] cancel",
		dir.SelectedCount(),
		helpers.FormatLamports(dir.ReclaimableLamports()))
	return dialogStyle.Render(body)
}

func (m Model) renderResults() string {
	var b strings.Builder
	for _, result := range m.results {
		line := fmt.Sprintf("#%d  %-9s  %d accounts", result.UnitIndex+1, result.Status, len(result.Accounts))
		switch result.Status {
		case sol.StatusConfirmed:
			b.WriteString(selectedStyle.Render(line + "  " + result.Signature.String()))
		case sol.StatusSimulated:
			b.WriteString(selectedStyle.Render(line))
		default:
			b.WriteString(errorStyle.Render(fmt.Sprintf("%s  %v", line, result.Err)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeSearch:
		return "type to filter • ↑/↓ move • enter/esc done"
	case modeConfirm:
		return "y/enter confirm • n/esc cancel"
	case modeProcessing:
		return "please wait"
	case modeResults:
		return "q quit"
	default:
		return "↑/↓ move • space toggle • a all • c clear • f search • ctrl+p burn • q quit"
	}
}
