package sol

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/text"
	"go.uber.org/zap"
)

// ErrUnitSkipped marks units that were not attempted because the run halted.
var ErrUnitSkipped = errors.New("unit skipped")

type Policy int

const (
	// ContinueOnFailure attempts every unit regardless of earlier failures.
	ContinueOnFailure Policy = iota
	HaltOnFirstFailure
)

type Status int

const (
	StatusConfirmed Status = iota
	StatusSimulated
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusConfirmed:
		return "confirmed"
	case StatusSimulated:
		return "simulated"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SubmissionResult is the outcome of one unit. Err is a *models.SubmissionError
// whenever Status is failed or skipped.
type SubmissionResult struct {
	UnitIndex int
	Accounts  []solana.PublicKey
	Status    Status
	Signature solana.Signature
	Err       error
}

func (r SubmissionResult) OK() bool {
	return r.Status == StatusConfirmed || r.Status == StatusSimulated
}

// Recorder persists results as they are produced.
type Recorder interface {
	Record(result SubmissionResult) error
}

// Pipeline signs and dispatches units one after another.
type Pipeline struct {
	Ledger   Ledger
	Signer   Signer
	Policy   Policy
	DryRun   bool
	Recorder Recorder
	Logger   *zap.Logger
}

func NewPipeline(ledger Ledger, signer Signer, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		Ledger: ledger,
		Signer: signer,
		Policy: ContinueOnFailure,
		Logger: logger,
	}
}

// Submit processes the units strictly in order and returns one result per
// unit, in unit order. A unit is never retried; confirmed units stay
// confirmed whatever happens to later ones. ctx is only checked between units.
func (p *Pipeline) Submit(ctx context.Context, batches []BatchUnit) []SubmissionResult {
	results := make([]SubmissionResult, 0, len(batches))
	if len(batches) == 0 {
		return results
	}

	blockhash, hashErr := p.Ledger.LatestBlockhash(ctx)
	if hashErr != nil {
		p.Logger.Error("failed to fetch blockhash", zap.Error(hashErr))
	}

	halted := false
	for i, unit := range batches {
		var result SubmissionResult
		switch {
		case halted:
			result = p.failed(i, unit, StatusSkipped, ErrUnitSkipped)
		case ctx.Err() != nil:
			result = p.failed(i, unit, StatusSkipped, fmt.Errorf("%w: %v", ErrUnitSkipped, ctx.Err()))
		case hashErr != nil:
			result = p.failed(i, unit, StatusFailed, hashErr)
		default:
			result = p.submitUnit(ctx, i, unit, blockhash)
		}

		if result.Status == StatusFailed && p.Policy == HaltOnFirstFailure {
			halted = true
		}
		p.record(result)
		results = append(results, result)
	}
	return results
}

func (p *Pipeline) submitUnit(ctx context.Context, i int, unit BatchUnit, blockhash solana.Hash) SubmissionResult {
	logger := p.Logger.With(zap.Int("unit", i), zap.Int("accounts", len(unit.Accounts)))

	tx, err := p.assemble(unit, blockhash)
	if err != nil {
		logger.Error("failed to assemble unit", zap.Error(err))
		return p.failed(i, unit, StatusFailed, err)
	}
	if ce := logger.Check(zap.DebugLevel, "unit transaction"); ce != nil {
		var buf bytes.Buffer
		if _, err := tx.EncodeTree(text.NewTreeEncoder(&buf, fmt.Sprintf("Unit %d", i))); err == nil {
			ce.Write(zap.String("tree", buf.String()))
		}
	}

	if p.DryRun {
		if err := p.Ledger.Simulate(ctx, tx); err != nil {
			logger.Warn("unit simulation failed", zap.Error(err))
			return p.failed(i, unit, StatusFailed, err)
		}
		logger.Info("unit simulated")
		return SubmissionResult{UnitIndex: i, Accounts: unit.Addresses(), Status: StatusSimulated}
	}

	sig, err := p.Ledger.SendAndConfirm(ctx, tx)
	if err != nil {
		logger.Error("unit failed", zap.String("signature", sig.String()), zap.Error(err))
		result := p.failed(i, unit, StatusFailed, err)
		result.Signature = sig
		return result
	}
	logger.Info("unit confirmed", zap.String("signature", sig.String()))
	return SubmissionResult{UnitIndex: i, Accounts: unit.Addresses(), Status: StatusConfirmed, Signature: sig}
}

// assemble builds and signs the unit's transaction with the signer as fee payer.
func (p *Pipeline) assemble(unit BatchUnit, blockhash solana.Hash) (*solana.Transaction, error) {
	payer := p.Signer.PublicKey()
	tx, err := solana.NewTransaction(
		unit.Instructions(),
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	sig, err := p.Signer.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	tx.Signatures = []solana.Signature{sig}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	if len(raw) > models.MaxTransactionSize {
		return nil, fmt.Errorf("transaction is %d bytes, limit is %d", len(raw), models.MaxTransactionSize)
	}
	return tx, nil
}

func (p *Pipeline) failed(i int, unit BatchUnit, status Status, cause error) SubmissionResult {
	addrs := unit.Addresses()
	return SubmissionResult{
		UnitIndex: i,
		Accounts:  addrs,
		Status:    status,
		Err:       &models.SubmissionError{UnitIndex: i, Addresses: addrs, Cause: cause},
	}
}

func (p *Pipeline) record(result SubmissionResult) {
	if p.Recorder == nil {
		return
	}
	if err := p.Recorder.Record(result); err != nil {
		p.Logger.Warn("failed to record result", zap.Int("unit", result.UnitIndex), zap.Error(err))
	}
}
