package sol

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	confirm "github.com/gagliardetto/solana-go/rpc/sendAndConfirmTransaction"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

// Ledger is the part of the Solana RPC the submission pipeline depends on.
type Ledger interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	// SendAndConfirm blocks until tx is finalized or definitively failed.
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	Simulate(ctx context.Context, tx *solana.Transaction) error
}

// RPCLedger submits transactions over JSON-RPC. With a websocket client the
// confirmation is pushed by signatureSubscribe, otherwise it is polled.
type RPCLedger struct {
	RpcClient      *rpc.Client
	WssClient      *ws.Client
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	Logger         *zap.Logger
}

func NewRPCLedger(rpcClient *rpc.Client, wssClient *ws.Client, timeout time.Duration, logger *zap.Logger) *RPCLedger {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCLedger{
		RpcClient:      rpcClient,
		WssClient:      wssClient,
		ConfirmTimeout: timeout,
		PollInterval:   time.Second,
		Logger:         logger,
	}
}

func (l *RPCLedger) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := l.RpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to fetch blockhash: %w", err)
	}
	if recent == nil || recent.Value == nil {
		return solana.Hash{}, fmt.Errorf("failed to fetch blockhash: empty response")
	}
	return recent.Value.Blockhash, nil
}

func (l *RPCLedger) opts() rpc.TransactionOpts {
	return rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	}
}

// SendAndConfirm dispatches tx and waits for it to be finalized. Once called it
// runs to an outcome even if ctx is cancelled; ConfirmTimeout bounds the wait.
func (l *RPCLedger) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	dispatchCtx := context.WithoutCancel(ctx)

	if l.WssClient != nil {
		timeout := l.ConfirmTimeout
		// the ws confirmation waits for finalized commitment
		sig, err := confirm.SendAndConfirmTransactionWithOpts(
			dispatchCtx,
			l.RpcClient,
			l.WssClient,
			tx,
			l.opts(),
			&timeout,
		)
		if err != nil {
			return sig, fmt.Errorf("failed to send transaction: %w", err)
		}
		return sig, nil
	}

	sig, err := l.RpcClient.SendTransactionWithOpts(dispatchCtx, tx, l.opts())
	if err != nil {
		return sig, fmt.Errorf("failed to send transaction: %w", err)
	}
	l.Logger.Debug("transaction sent, polling status", zap.String("signature", sig.String()))
	return sig, l.waitConfirmed(dispatchCtx, sig)
}

// waitConfirmed polls getSignatureStatuses until the signature is finalized,
// fails, or ConfirmTimeout elapses.
func (l *RPCLedger) waitConfirmed(ctx context.Context, sig solana.Signature) error {
	deadline := time.Now().Add(l.ConfirmTimeout)
	ticker := time.NewTicker(l.PollInterval)
	defer ticker.Stop()

	for {
		out, err := l.RpcClient.GetSignatureStatuses(ctx, false, sig)
		if err == nil && out != nil && len(out.Value) > 0 && out.Value[0] != nil {
			status := out.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return nil
			}
		} else if err != nil {
			l.Logger.Warn("signature status poll failed", zap.String("signature", sig.String()), zap.Error(err))
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("transaction %s not finalized after %s", sig, l.ConfirmTimeout)
		}
		<-ticker.C
	}
}

func (l *RPCLedger) Simulate(ctx context.Context, tx *solana.Transaction) error {
	out, err := l.RpcClient.SimulateTransaction(ctx, tx)
	if err != nil {
		return fmt.Errorf("failed to simulate transaction: %w", err)
	}
	if out == nil || out.Value == nil {
		return fmt.Errorf("failed to simulate transaction: empty response")
	}
	if ce := l.Logger.Check(zap.DebugLevel, "simulation result"); ce != nil {
		ce.Write(zap.String("result", spew.Sdump(out.Value)))
	}
	if out.Value.Err != nil {
		return fmt.Errorf("simulation failed: %v (logs: %v)", out.Value.Err, out.Value.Logs)
	}
	return nil
}
