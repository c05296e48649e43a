package sol

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func testKey(seed int, tag byte) solana.PublicKey {
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(seed) ^ byte(i*13) ^ tag
	}
	b[0] = tag
	b[30] = byte(seed >> 8)
	b[31] = byte(seed)
	return solana.PublicKeyFromBytes(b)
}

func testAccounts(n int) []models.TokenAccount {
	accounts := make([]models.TokenAccount, 0, n)
	for i := 0; i < n; i++ {
		accounts = append(accounts, models.TokenAccount{
			Address:   testKey(i+1, 0xA0),
			Mint:      testKey(i+1, 0x5B),
			Balance:   uint64(i) * 1_000_000,
			UiBalance: strconv.Itoa(i),
			Lamports:  2_039_280,
			Selected:  true,
		})
	}
	return accounts
}

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// newFakeRPC serves JSON-RPC results by method name.
func newFakeRPC(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	scripted := make(map[string][]string, len(results))
	for method, result := range results {
		scripted[method] = []string{result}
	}
	return newScriptedRPC(t, scripted)
}

// newScriptedRPC answers each call of a method with the next result in its
// list, repeating the last one once the list runs out.
func newScriptedRPC(t *testing.T, results map[string][]string) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	calls := make(map[string]int)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))

		w.Header().Set("Content-Type", "application/json")
		script, ok := results[req.Method]
		if !ok || len(script) == 0 {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"error":{"code":-32601,"message":"method not found"}}`))
			return
		}

		mu.Lock()
		n := calls[req.Method]
		calls[req.Method]++
		mu.Unlock()

		result := script[min(n, len(script)-1)]
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}
