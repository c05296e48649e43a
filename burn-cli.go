package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Tallone/solana-burn-cli/burncli/config"
	"github.com/Tallone/solana-burn-cli/burncli/logging"
	"github.com/Tallone/solana-burn-cli/burncli/session"
	"github.com/Tallone/solana-burn-cli/burncli/sol"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// app is everything a command needs once the configuration is known.
type app struct {
	cfg         *config.Config
	logger      *zap.Logger
	sessionPath string
	rpcClient   *rpc.Client
	wssClient   *ws.Client
	receipts    *logging.Receipts
	session     *session.Session
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	signer, err := sol.KeypairFromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	sessionPath, err := logging.NewSession(cfg.SessionRoot)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding, filepath.Join(sessionPath, logging.LogFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, sessionPath: sessionPath}

	a.rpcClient = rpc.New(cfg.RPCURL)
	if cfg.WSSURL != "" {
		a.wssClient, err = ws.Connect(ctx, cfg.WSSURL)
		if err != nil {
			logger.Warn("websocket unavailable, falling back to polling", zap.String("url", cfg.WSSURL), zap.Error(err))
			a.wssClient = nil
		}
	}

	a.receipts, err = logging.OpenReceipts(sessionPath)
	if err != nil {
		a.Close()
		return nil, err
	}

	ledger := sol.NewRPCLedger(a.rpcClient, a.wssClient, cfg.ConfirmTimeout, logger.Named("ledger"))
	s := session.New(signer, ledger, logger)
	s.Pipeline.DryRun = cfg.DryRun
	s.Pipeline.Recorder = a.receipts
	if cfg.HaltOnFailure {
		s.Pipeline.Policy = sol.HaltOnFirstFailure
	}

	wallet, err := sol.GetWalletInfo(ctx, a.rpcClient, signer.PublicKey())
	if err != nil {
		logger.Warn("failed to fetch wallet balance", zap.Error(err))
	}
	s.Wallet = wallet
	a.session = s

	logger.Info("session started",
		zap.String("wallet", signer.PublicKey().String()),
		zap.String("rpc", cfg.RPCURL),
		zap.String("session", sessionPath),
		zap.Bool("dryRun", cfg.DryRun))
	return a, nil
}

// load fills the directory from the configured token account source.
func (a *app) load(ctx context.Context) error {
	source := sol.NewTokenAccountSource(a.rpcClient, a.cfg.Encoding, a.logger.Named("source"))
	if err := a.session.Load(ctx, source); err != nil {
		a.logger.Error("failed to load token accounts", zap.Error(err))
		return err
	}
	return nil
}

func (a *app) Close() {
	if a.receipts != nil {
		if err := a.receipts.Close(); err != nil {
			a.logger.Warn("failed to close receipts", zap.Error(err))
		}
	}
	if a.wssClient != nil {
		a.wssClient.Close()
	}
	_ = a.logger.Sync()
}
