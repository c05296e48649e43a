package selection

import (
	"github.com/gagliardetto/solana-go"
)

// Controller is the only writer of selection flags. Every mutation goes to the
// Directory; the FilterView reads through, so it cannot go stale.
type Controller struct {
	Directory *Directory
	View      *FilterView

	filtering bool
}

func NewController(dir *Directory) *Controller {
	return &Controller{
		Directory: dir,
		View:      NewFilterView(dir),
	}
}

// ToggleCurrent flips the record under the cursor. No-op without a cursor.
func (c *Controller) ToggleCurrent() {
	i, ok := c.View.Current()
	if !ok {
		return
	}
	c.Directory.Toggle(c.View.Address(i))
}

func (c *Controller) SelectAll() {
	c.Directory.SetAll(true)
	c.sync()
}

func (c *Controller) ClearAll() {
	c.Directory.SetAll(false)
	c.sync()
}

// sync re-derives the view after a bulk change and keeps the cursor where it was.
func (c *Controller) sync() {
	cursor, ok := c.View.Current()
	c.View.Refresh()
	if ok {
		c.View.moveTo(cursor)
	}
}

func (c *Controller) Next() { c.View.CursorNext() }

func (c *Controller) Prev() { c.View.CursorPrev() }

func (c *Controller) Filtering() bool { return c.filtering }

// EnterFilterMode starts a new, empty search.
func (c *Controller) EnterFilterMode() {
	c.filtering = true
	c.View.ClearPredicate()
}

// SetPredicate applies the current search text.
func (c *Controller) SetPredicate(text string) {
	c.View.ApplyPredicate(text)
}

// ExitFilterMode drops the search and shows the whole directory again.
func (c *Controller) ExitFilterMode() {
	c.filtering = false
	c.View.ClearPredicate()
}

// Consistent reports whether every visible flag equals the directory's flag.
func (c *Controller) Consistent() bool {
	for i := 0; i < c.View.Len(); i++ {
		if c.View.Flag(i) != c.Directory.Flag(c.View.Address(i)) {
			return false
		}
	}
	return true
}

// SelectMatching selects every account whose mint matches text, leaving the
// view filtered by it.
func (c *Controller) SelectMatching(text string) []solana.PublicKey {
	c.View.ApplyPredicate(text)
	selected := make([]solana.PublicKey, 0, c.View.Len())
	for i := 0; i < c.View.Len(); i++ {
		address := c.View.Address(i)
		if !c.Directory.Flag(address) {
			c.Directory.Toggle(address)
		}
		selected = append(selected, address)
	}
	return selected
}
