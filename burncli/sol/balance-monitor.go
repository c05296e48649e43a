package sol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coder/websocket"
	"github.com/gagliardetto/solana-go"
)

type accountNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Value struct {
				Lamports uint64 `json:"lamports"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// WatchBalance subscribes to the owner account and sends its lamport balance
// on updates every time the account changes. It returns when ctx is done or
// the connection drops.
func WatchBalance(ctx context.Context, wssURL string, owner solana.PublicKey, updates chan<- uint64) error {
	conn, _, err := websocket.Dial(ctx, wssURL, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", wssURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "balance monitor closed")

	subscription := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "accountSubscribe",
		"params": []interface{}{
			owner.String(),
			map[string]interface{}{
				"commitment": "confirmed",
				"encoding":   "base64",
			},
		},
	}
	subscriptionBytes, err := json.Marshal(subscription)
	if err != nil {
		return fmt.Errorf("failed to encode subscription: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, subscriptionBytes); err != nil {
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	for {
		_, message, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("error reading message: %w", err)
		}

		var notification accountNotification
		if err := json.Unmarshal(message, &notification); err != nil {
			continue
		}
		if notification.Method != "accountNotification" {
			continue
		}

		select {
		case updates <- notification.Params.Result.Value.Lamports:
		case <-ctx.Done():
			return nil
		}
	}
}
