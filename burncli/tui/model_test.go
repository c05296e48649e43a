package tui

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/Tallone/solana-burn-cli/burncli/session"
	"github.com/Tallone/solana-burn-cli/burncli/sol"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingLedger struct {
	sent int
}

func (l *countingLedger) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return solana.Hash{1}, nil
}

func (l *countingLedger) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	l.sent++
	return tx.Signatures[0], nil
}

func (l *countingLedger) Simulate(ctx context.Context, tx *solana.Transaction) error {
	return nil
}

type staticSource []models.RawTokenAccount

func (s staticSource) ListTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]models.RawTokenAccount, error) {
	return s, nil
}

func testKey(seed int, tag byte) solana.PublicKey {
	b := make([]byte, 32)
	b[0] = tag
	b[1] = byte(seed)
	for i := 2; i < 32; i++ {
		b[i] = byte(i*7 + seed)
	}
	return solana.PublicKeyFromBytes(b)
}

func newTestModel(t *testing.T, n int) (Model, *countingLedger, []models.RawTokenAccount) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	signer, err := sol.KeypairFromBase58(key.String())
	require.NoError(t, err)

	raws := make([]models.RawTokenAccount, 0, n)
	for i := 0; i < n; i++ {
		raws = append(raws, models.RawTokenAccount{
			Address:  testKey(i+1, 0x11).String(),
			Mint:     testKey(i+1, 0x77).String(),
			Amount:   strconv.Itoa(100 * i),
			UiAmount: strconv.Itoa(i),
			Lamports: 2_039_280,
		})
	}

	ledger := &countingLedger{}
	s := session.New(signer, ledger, zap.NewNop())
	require.NoError(t, s.Load(context.Background(), staticSource(raws)))
	return New(context.Background(), s, nil), ledger, raws
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestModel_ToggleAndNavigate(t *testing.T) {
	m, _, _ := newTestModel(t, 3)
	dir := m.session.Directory

	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, dir.At(0).Selected)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, dir.At(1).Selected)
	assert.Equal(t, 2, dir.SelectedCount())

	// up from the first row wraps to the last
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	cursor, ok := m.session.Controller.View.Current()
	require.True(t, ok)
	assert.Equal(t, 2, cursor)

	m, _ = press(m, runes("c"))
	assert.Equal(t, 0, dir.SelectedCount())
	m, _ = press(m, runes("a"))
	assert.Equal(t, 3, dir.SelectedCount())
	assert.Contains(t, m.View(), "Selected 3 | Visible 3 | Total 3")
}

func TestModel_SearchFiltersAndClearsOnExit(t *testing.T) {
	m, _, raws := newTestModel(t, 5)

	m, _ = press(m, runes("f"))
	assert.Equal(t, modeSearch, m.mode)
	assert.True(t, m.session.Controller.Filtering())

	m, _ = press(m, runes(strings.ToLower(raws[3].Mint)))
	view := m.session.Controller.View
	require.Equal(t, 1, view.Len())
	assert.Equal(t, raws[3].Address, view.Address(0).String())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, 1, view.Len())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, modeBrowse, m.mode)
	assert.False(t, m.session.Controller.Filtering())
	assert.Equal(t, 5, view.Len())
	assert.Empty(t, m.search.Value())
}

func TestModel_SpaceTogglesWhileSearching(t *testing.T) {
	m, _, raws := newTestModel(t, 5)
	prefix := raws[2].Mint[:len(raws[2].Mint)-2]

	m, _ = press(m, runes("f"), runes(prefix))
	view := m.session.Controller.View
	require.Equal(t, 1, view.Len())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, prefix, m.search.Value(), "space is not typed into the search box")
	assert.Equal(t, 1, view.Len())
	assert.True(t, m.session.Directory.At(2).Selected)
	assert.Equal(t, 1, m.session.Directory.SelectedCount())

	m, _ = press(m, runes(" "))
	assert.False(t, m.session.Directory.At(2).Selected)

	m, _ = press(m, runes(" "), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 5, view.Len())
	assert.True(t, m.session.Directory.At(2).Selected, "selection survives leaving search")
	assert.True(t, m.session.Controller.Consistent())
}

func TestModel_ConfirmRequiresSelection(t *testing.T) {
	m, ledger, _ := newTestModel(t, 2)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, models.ErrEmptySelection.Error(), m.status)

	m, _ = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), "Burn and close 2 token accounts?")
	assert.Contains(t, m.View(), "0.004078560")

	m, _ = press(m, runes("n"))
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 0, ledger.sent)
}

func TestModel_ProcessingFreezesSelection(t *testing.T) {
	m, ledger, _ := newTestModel(t, 13)

	m, _ = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyCtrlP})
	m, cmd := press(m, runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, modeProcessing, m.mode)

	m, _ = press(m, runes("c"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 13, m.session.Directory.SelectedCount())

	m, _ = press(m, cmd())
	assert.Equal(t, modeResults, m.mode)
	require.Len(t, m.Results(), 2)
	assert.Equal(t, 2, ledger.sent)
	for _, result := range m.Results() {
		assert.Equal(t, sol.StatusConfirmed, result.Status)
	}
	assert.Equal(t, "2/2 transactions succeeded", m.status)

	_, cmd = press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_QuitWaitsForRunningUnits(t *testing.T) {
	m, ledger, _ := newTestModel(t, 3)

	m, _ = press(m, runes("a"), tea.KeyMsg{Type: tea.KeyCtrlP})
	m, submit := press(m, runes("y"))
	require.NotNil(t, submit)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Nil(t, cmd, "ctrl+c does not quit while units are in flight")
	assert.Equal(t, modeProcessing, m.mode)

	m, cmd = press(m, cancelledMsg{})
	assert.Nil(t, cmd)

	m, cmd = press(m, submit())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	require.Len(t, m.Results(), 1)
	assert.Equal(t, 1, ledger.sent)
}

func TestModel_CancelOutsideProcessingQuits(t *testing.T) {
	m, _, _ := newTestModel(t, 2)

	_, cmd := press(m, cancelledMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_BalanceUpdates(t *testing.T) {
	m, _, _ := newTestModel(t, 1)
	updates := make(chan uint64, 1)
	m.balanceUpdates = updates
	updates <- 1_500_000_000

	msg := waitForBalance(m.balanceUpdates)()
	m, cmd := press(m, msg)
	assert.Equal(t, uint64(1_500_000_000), m.balance)
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "1.500000000 SOL (live)")
}
