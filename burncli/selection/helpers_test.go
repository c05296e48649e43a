package selection

import (
	"strconv"

	"github.com/Tallone/solana-burn-cli/burncli/models"
	"github.com/gagliardetto/solana-go"
)

func testKey(seed byte, tag byte) solana.PublicKey {
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed ^ byte(i*7) ^ tag
	}
	b[0] = tag
	b[31] = seed
	return solana.PublicKeyFromBytes(b)
}

func testRaw(n int) []models.RawTokenAccount {
	raws := make([]models.RawTokenAccount, 0, n)
	for i := 0; i < n; i++ {
		raws = append(raws, models.RawTokenAccount{
			Address:  testKey(byte(i+1), 0xA0).String(),
			Mint:     testKey(byte(i+1), 0x5B).String(),
			Amount:   strconv.Itoa(i * 1000),
			UiAmount: strconv.Itoa(i),
			Lamports: 2_039_280,
		})
	}
	return raws
}

func loadedDirectory(n int) *Directory {
	dir := NewDirectory(nil)
	if err := dir.Load(testRaw(n)); err != nil {
		panic(err)
	}
	return dir
}
