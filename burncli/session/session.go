package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/Tallone/solana-burn-cli/burncli/selection"
	"github.com/Tallone/solana-burn-cli/burncli/sol"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

var ErrAlreadyLoaded = errors.New("directory already loaded for this session")

// Source is where the directory comes from.
type Source interface {
	ListTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]models.RawTokenAccount, error)
}

// Session owns the state of one run: the signing identity, the directory and
// its controller, and the builder and pipeline wired to the ledger.
type Session struct {
	Wallet     models.WalletInfo
	Directory  *selection.Directory
	Controller *selection.Controller
	Builder    *sol.BatchBuilder
	Pipeline   *sol.Pipeline
	Logger     *zap.Logger

	loaded bool
}

func New(signer sol.Signer, ledger sol.Ledger, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := selection.NewDirectory(logger.Named("directory"))
	return &Session{
		Wallet:     models.WalletInfo{Owner: signer.PublicKey()},
		Directory:  dir,
		Controller: selection.NewController(dir),
		Builder:    sol.NewBatchBuilder(signer.PublicKey()),
		Pipeline:   sol.NewPipeline(ledger, signer, logger.Named("pipeline")),
		Logger:     logger,
	}
}

// Load populates the directory from source. It may only succeed once.
func (s *Session) Load(ctx context.Context, source Source) error {
	if s.loaded {
		return ErrAlreadyLoaded
	}
	records, err := source.ListTokenAccounts(ctx, s.Wallet.Owner)
	if err != nil {
		var parseErr *models.SourceParseError
		var unavailable *models.SourceUnavailableError
		if !errors.As(err, &parseErr) && !errors.As(err, &unavailable) {
			err = &models.SourceUnavailableError{Err: err}
		}
		return err
	}
	if err := s.Directory.Load(records); err != nil {
		return err
	}
	s.Controller.View.Refresh()
	s.loaded = true
	return nil
}

// PrepareBatches snapshots the selection and builds its units.
func (s *Session) PrepareBatches() ([]sol.BatchUnit, error) {
	units, err := s.Builder.BuildBatches(s.Directory.SelectedRecords())
	if err != nil {
		return nil, err
	}
	s.Logger.Info("units prepared",
		zap.Int("accounts", s.Directory.SelectedCount()),
		zap.Int("units", len(units)))
	return units, nil
}

func (s *Session) Submit(ctx context.Context, units []sol.BatchUnit) []sol.SubmissionResult {
	return s.Pipeline.Submit(ctx, units)
}

// RequestProcessing burns and closes every selected account.
func (s *Session) RequestProcessing(ctx context.Context) ([]sol.SubmissionResult, error) {
	units, err := s.PrepareBatches()
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, units), nil
}

// Failed returns the failed or skipped results.
func Failed(results []sol.SubmissionResult) []sol.SubmissionResult {
	failed := make([]sol.SubmissionResult, 0)
	for _, r := range results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary is a one-line outcome for display.
func Summary(results []sol.SubmissionResult) string {
	ok := len(results) - len(Failed(results))
	return fmt.Sprintf("%d/%d transactions succeeded", ok, len(results))
}
