package selection

import (
	"fmt"
	"strings"

	"github.com/Tallone/solana-burn-cli/burncli/helpers"
	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Directory is the authoritative, ordered list of the wallet's token accounts.
// It is owned by a single goroutine and carries no locks.
type Directory struct {
	logger   *zap.Logger
	accounts []models.TokenAccount
	index    map[solana.PublicKey]int
}

func NewDirectory(logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		logger: logger,
		index:  make(map[solana.PublicKey]int),
	}
}

// Load replaces the whole directory with the given records. Every record is
// validated before anything is replaced; on error the directory is unchanged.
// A repeated address keeps its first occurrence.
func (d *Directory) Load(records []models.RawTokenAccount) error {
	accounts := make([]models.TokenAccount, 0, len(records))
	index := make(map[solana.PublicKey]int, len(records))

	for _, raw := range records {
		account, err := parseRecord(raw)
		if err != nil {
			return err
		}
		if _, exists := index[account.Address]; exists {
			d.logger.Warn("dropping duplicate token account",
				zap.String("address", account.Address.String()))
			continue
		}
		index[account.Address] = len(accounts)
		accounts = append(accounts, account)
	}

	d.accounts = accounts
	d.index = index
	d.logger.Info("directory loaded", zap.Int("accounts", len(accounts)))
	return nil
}

func parseRecord(raw models.RawTokenAccount) (models.TokenAccount, error) {
	address, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw.Address))
	if err != nil {
		return models.TokenAccount{}, &models.SourceParseError{Address: raw.Address, Field: "address", Err: err}
	}
	mint, err := solana.PublicKeyFromBase58(strings.TrimSpace(raw.Mint))
	if err != nil {
		return models.TokenAccount{}, &models.SourceParseError{Address: raw.Address, Field: "mint", Err: err}
	}
	balance, err := helpers.ParseAmount(raw.Amount)
	if err != nil {
		return models.TokenAccount{}, &models.SourceParseError{Address: raw.Address, Field: "amount", Err: err}
	}
	if raw.UiAmount == "" {
		return models.TokenAccount{}, &models.SourceParseError{Address: raw.Address, Field: "uiAmountString", Err: fmt.Errorf("missing display balance")}
	}
	return models.TokenAccount{
		Address:   address,
		Mint:      mint,
		Balance:   balance,
		UiBalance: raw.UiAmount,
		Lamports:  raw.Lamports,
	}, nil
}

func (d *Directory) Len() int { return len(d.accounts) }

// At returns a copy of the record at directory position i.
func (d *Directory) At(i int) models.TokenAccount { return d.accounts[i] }

// Toggle flips the selection flag of address and returns the new value.
// An unknown address is a no-op returning false.
func (d *Directory) Toggle(address solana.PublicKey) bool {
	i, ok := d.index[address]
	if !ok {
		return false
	}
	d.accounts[i].Selected = !d.accounts[i].Selected
	return d.accounts[i].Selected
}

func (d *Directory) Flag(address solana.PublicKey) bool {
	i, ok := d.index[address]
	if !ok {
		return false
	}
	return d.accounts[i].Selected
}

func (d *Directory) SetAll(selected bool) {
	for i := range d.accounts {
		d.accounts[i].Selected = selected
	}
}

// SelectedRecords returns a snapshot of the selected records in directory order.
func (d *Directory) SelectedRecords() []models.TokenAccount {
	selected := make([]models.TokenAccount, 0)
	for _, account := range d.accounts {
		if account.Selected {
			selected = append(selected, account)
		}
	}
	return selected
}

func (d *Directory) SelectedCount() int {
	count := 0
	for _, account := range d.accounts {
		if account.Selected {
			count++
		}
	}
	return count
}

// ReclaimableLamports sums the rent reserve of the selected accounts.
func (d *Directory) ReclaimableLamports() uint64 {
	var total uint64
	for _, account := range d.accounts {
		if account.Selected {
			total += account.Lamports
		}
	}
	return total
}
