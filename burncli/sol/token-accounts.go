package sol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tallone/solana-burn-cli/burncli/helpers"
	"github.com/Tallone/solana-burn-cli/burncli/models"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// getMultipleAccounts accepts at most 100 keys per call.
const maxAccountsPerQuery = 100

// TokenAccountSource lists the SPL token accounts owned by a wallet.
type TokenAccountSource struct {
	RpcClient  *rpc.Client
	Encoding   string
	Commitment rpc.CommitmentType
	Logger     *zap.Logger
}

func NewTokenAccountSource(rpcClient *rpc.Client, encoding string, logger *zap.Logger) *TokenAccountSource {
	if encoding == "" {
		encoding = models.EncodingJSONParsed
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenAccountSource{
		RpcClient:  rpcClient,
		Encoding:   encoding,
		Commitment: rpc.CommitmentConfirmed,
		Logger:     logger,
	}
}

type parsedTokenAccount struct {
	Program string `json:"program"`
	Parsed  struct {
		Type string `json:"type"`
		Info struct {
			Mint        string `json:"mint"`
			Owner       string `json:"owner"`
			TokenAmount struct {
				Amount         string `json:"amount"`
				Decimals       uint8  `json:"decimals"`
				UiAmountString string `json:"uiAmountString"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

// ListTokenAccounts fetches every token account of owner under the SPL Token
// program. Transport failures are *models.SourceUnavailableError, undecodable
// account data is *models.SourceParseError.
func (s *TokenAccountSource) ListTokenAccounts(ctx context.Context, owner solana.PublicKey) ([]models.RawTokenAccount, error) {
	encoding := solana.EncodingJSONParsed
	if s.Encoding == models.EncodingBase64Zstd {
		encoding = solana.EncodingBase64Zstd
	}

	out, err := s.RpcClient.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{
			ProgramId: &solana.TokenProgramID,
		},
		&rpc.GetTokenAccountsOpts{
			Commitment: s.Commitment,
			Encoding:   encoding,
		},
	)
	if err != nil {
		return nil, &models.SourceUnavailableError{Err: fmt.Errorf("failed to get token accounts: %w", err)}
	}
	if out == nil {
		return nil, &models.SourceUnavailableError{Err: fmt.Errorf("empty getTokenAccountsByOwner response")}
	}
	s.Logger.Debug("token accounts fetched",
		zap.String("owner", owner.String()),
		zap.String("encoding", string(encoding)),
		zap.Int("count", len(out.Value)))

	if encoding == solana.EncodingJSONParsed {
		return parseJSONAccounts(out.Value)
	}
	return s.decodeBinaryAccounts(ctx, out.Value)
}

func parseJSONAccounts(accounts []*rpc.TokenAccount) ([]models.RawTokenAccount, error) {
	records := make([]models.RawTokenAccount, 0, len(accounts))
	for _, rawAccount := range accounts {
		if rawAccount == nil || rawAccount.Account.Data == nil {
			return nil, &models.SourceParseError{Field: "account", Err: fmt.Errorf("missing account data")}
		}
		address := rawAccount.Pubkey.String()

		data := rawAccount.Account.Data.GetRawJSON()
		if len(data) == 0 {
			return nil, &models.SourceParseError{Address: address, Field: "data", Err: fmt.Errorf("account data is not jsonParsed")}
		}
		var parsed parsedTokenAccount
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, &models.SourceParseError{Address: address, Field: "data", Err: err}
		}

		info := parsed.Parsed.Info
		records = append(records, models.RawTokenAccount{
			Address:  address,
			Mint:     info.Mint,
			Amount:   info.TokenAmount.Amount,
			UiAmount: info.TokenAmount.UiAmountString,
			Lamports: rawAccount.Account.Lamports,
		})
	}
	return records, nil
}

// decodeBinaryAccounts decodes raw token.Account data and formats the display
// balance with the decimals of each mint, fetched in bulk.
func (s *TokenAccountSource) decodeBinaryAccounts(ctx context.Context, accounts []*rpc.TokenAccount) ([]models.RawTokenAccount, error) {
	decoded := make([]token.Account, 0, len(accounts))
	mints := make([]solana.PublicKey, 0)
	seen := make(map[solana.PublicKey]bool)

	for _, rawAccount := range accounts {
		if rawAccount == nil || rawAccount.Account.Data == nil {
			return nil, &models.SourceParseError{Field: "account", Err: fmt.Errorf("missing account data")}
		}
		var tokAcc token.Account
		dec := bin.NewBinDecoder(rawAccount.Account.Data.GetBinary())
		if err := dec.Decode(&tokAcc); err != nil {
			return nil, &models.SourceParseError{Address: rawAccount.Pubkey.String(), Field: "data", Err: err}
		}
		decoded = append(decoded, tokAcc)
		if !seen[tokAcc.Mint] {
			seen[tokAcc.Mint] = true
			mints = append(mints, tokAcc.Mint)
		}
	}

	decimals, err := s.mintDecimals(ctx, mints)
	if err != nil {
		return nil, err
	}

	records := make([]models.RawTokenAccount, 0, len(decoded))
	for i, tokAcc := range decoded {
		d, ok := decimals[tokAcc.Mint]
		if !ok {
			return nil, &models.SourceParseError{Address: accounts[i].Pubkey.String(), Field: "mint", Err: fmt.Errorf("mint %s not found", tokAcc.Mint)}
		}
		records = append(records, models.RawTokenAccount{
			Address:  accounts[i].Pubkey.String(),
			Mint:     tokAcc.Mint.String(),
			Amount:   fmt.Sprintf("%d", tokAcc.Amount),
			UiAmount: helpers.FormatTokenAmount(tokAcc.Amount, d),
			Lamports: accounts[i].Account.Lamports,
		})
	}
	return records, nil
}

func (s *TokenAccountSource) mintDecimals(ctx context.Context, mints []solana.PublicKey) (map[solana.PublicKey]uint8, error) {
	decimals := make(map[solana.PublicKey]uint8, len(mints))
	for start := 0; start < len(mints); start += maxAccountsPerQuery {
		end := min(start+maxAccountsPerQuery, len(mints))
		chunk := mints[start:end]

		out, err := s.RpcClient.GetMultipleAccountsWithOpts(ctx, chunk, &rpc.GetMultipleAccountsOpts{
			Commitment: s.Commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return nil, &models.SourceUnavailableError{Err: fmt.Errorf("failed to get mint accounts: %w", err)}
		}
		for i, account := range out.Value {
			if i >= len(chunk) || account == nil || account.Data == nil {
				continue
			}
			var mint token.Mint
			if err := bin.NewBinDecoder(account.Data.GetBinary()).Decode(&mint); err != nil {
				return nil, &models.SourceParseError{Address: chunk[i].String(), Field: "mint", Err: err}
			}
			decimals[chunk[i]] = mint.Decimals
		}
	}
	return decimals, nil
}

// GetWalletInfo returns the wallet's SOL balance.
func GetWalletInfo(ctx context.Context, rpcClient *rpc.Client, owner solana.PublicKey) (models.WalletInfo, error) {
	out, err := rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return models.WalletInfo{Owner: owner}, fmt.Errorf("failed to get balance: %w", err)
	}
	return models.WalletInfo{Owner: owner, Lamports: out.Value}, nil
}
