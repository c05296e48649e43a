package sol

import (
	"fmt"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

type OperationKind int

const (
	OpBurn OperationKind = iota
	OpClose
)

func (k OperationKind) String() string {
	switch k {
	case OpBurn:
		return "burn"
	case OpClose:
		return "close"
	default:
		return "unknown"
	}
}

// Operation is one ledger instruction acting on one token account.
type Operation struct {
	Kind        OperationKind
	Account     solana.PublicKey
	Instruction solana.Instruction
}

// BatchUnit is a group of accounts emptied and closed by a single transaction.
type BatchUnit struct {
	Index      int
	Accounts   []models.TokenAccount
	Operations []Operation
}

func (u BatchUnit) Addresses() []solana.PublicKey {
	addrs := make([]solana.PublicKey, 0, len(u.Accounts))
	for _, account := range u.Accounts {
		addrs = append(addrs, account.Address)
	}
	return addrs
}

func (u BatchUnit) Instructions() []solana.Instruction {
	ixs := make([]solana.Instruction, 0, len(u.Operations))
	for _, op := range u.Operations {
		ixs = append(ixs, op.Instruction)
	}
	return ixs
}

// BatchBuilder turns a selection into burn+close units. It only needs the
// authority's public key; signing happens in the Pipeline.
type BatchBuilder struct {
	Authority solana.PublicKey
	Size      int
}

func NewBatchBuilder(authority solana.PublicKey) *BatchBuilder {
	return &BatchBuilder{Authority: authority, Size: models.BatchSize}
}

// BuildBatches partitions selected into consecutive units of at most Size
// accounts, preserving order. For each account the burn instruction comes
// right before its close instruction.
func (b *BatchBuilder) BuildBatches(selected []models.TokenAccount) ([]BatchUnit, error) {
	if len(selected) == 0 {
		return nil, models.ErrEmptySelection
	}
	size := b.Size
	if size <= 0 {
		size = models.BatchSize
	}

	units := make([]BatchUnit, 0, (len(selected)+size-1)/size)
	for start := 0; start < len(selected); start += size {
		end := min(start+size, len(selected))
		chunk := append([]models.TokenAccount(nil), selected[start:end]...)

		unit := BatchUnit{
			Index:      len(units),
			Accounts:   chunk,
			Operations: make([]Operation, 0, 2*len(chunk)),
		}
		for _, account := range chunk {
			burnIx, err := b.burnInstruction(account)
			if err != nil {
				return nil, fmt.Errorf("failed to create burn instruction for %s: %w", account.Address, err)
			}
			closeIx, err := b.closeInstruction(account)
			if err != nil {
				return nil, fmt.Errorf("failed to create close instruction for %s: %w", account.Address, err)
			}
			unit.Operations = append(unit.Operations,
				Operation{Kind: OpBurn, Account: account.Address, Instruction: burnIx},
				Operation{Kind: OpClose, Account: account.Address, Instruction: closeIx},
			)
		}
		units = append(units, unit)
	}
	return units, nil
}

func (b *BatchBuilder) burnInstruction(account models.TokenAccount) (solana.Instruction, error) {
	return token.NewBurnInstruction(
		account.Balance,
		account.Address,
		account.Mint,
		b.Authority,
		nil,
	).ValidateAndBuild()
}

// closeInstruction returns the account's rent to the authority.
func (b *BatchBuilder) closeInstruction(account models.TokenAccount) (solana.Instruction, error) {
	return token.NewCloseAccountInstruction(
		account.Address,
		b.Authority,
		b.Authority,
		nil,
	).ValidateAndBuild()
}
