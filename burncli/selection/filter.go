package selection

import (
	"strings"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/gagliardetto/solana-go"
)

// FilterView is a projection of a Directory: the directory positions whose mint
// matches the predicate, plus a cursor. It holds indices, never copies, so the
// flags it reports are always the directory's.
type FilterView struct {
	dir       *Directory
	predicate string
	indices   []int
	cursor    int // -1 when the view is empty
}

func NewFilterView(dir *Directory) *FilterView {
	v := &FilterView{dir: dir, cursor: -1}
	v.ApplyPredicate("")
	return v
}

// ApplyPredicate re-derives the view for a case-insensitive substring match on
// the mint address and moves the cursor to the first match.
func (v *FilterView) ApplyPredicate(text string) {
	v.predicate = text
	needle := strings.ToLower(text)

	v.indices = make([]int, 0, v.dir.Len())
	for i := 0; i < v.dir.Len(); i++ {
		if needle == "" || strings.Contains(strings.ToLower(v.dir.At(i).Mint.String()), needle) {
			v.indices = append(v.indices, i)
		}
	}

	if len(v.indices) == 0 {
		v.cursor = -1
	} else {
		v.cursor = 0
	}
}

func (v *FilterView) ClearPredicate() { v.ApplyPredicate("") }

// Refresh re-derives the view under the current predicate.
func (v *FilterView) Refresh() { v.ApplyPredicate(v.predicate) }

func (v *FilterView) Predicate() string { return v.predicate }

func (v *FilterView) Len() int { return len(v.indices) }

func (v *FilterView) CursorNext() {
	if len(v.indices) == 0 {
		return
	}
	if v.cursor < 0 || v.cursor >= len(v.indices)-1 {
		v.cursor = 0
		return
	}
	v.cursor++
}

func (v *FilterView) CursorPrev() {
	if len(v.indices) == 0 {
		return
	}
	if v.cursor <= 0 {
		v.cursor = len(v.indices) - 1
		return
	}
	v.cursor--
}

func (v *FilterView) moveTo(i int) {
	if i >= 0 && i < len(v.indices) {
		v.cursor = i
	}
}

// Current returns the cursor position in the view.
func (v *FilterView) Current() (int, bool) {
	if v.cursor < 0 || v.cursor >= len(v.indices) {
		return 0, false
	}
	return v.cursor, true
}

// Index maps view position i to its directory position.
func (v *FilterView) Index(i int) int { return v.indices[i] }

func (v *FilterView) Record(i int) models.TokenAccount { return v.dir.At(v.indices[i]) }

func (v *FilterView) Address(i int) solana.PublicKey { return v.Record(i).Address }

func (v *FilterView) Flag(i int) bool { return v.Record(i).Selected }

// SelectedCount counts the selected records visible in the view.
func (v *FilterView) SelectedCount() int {
	count := 0
	for i := range v.indices {
		if v.Flag(i) {
			count++
		}
	}
	return count
}
