package logging

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Tallone/solana-burn-cli/burncli/sol"
	"github.com/gagliardetto/solana-go"
)

const (
	LogFile      = "burn.log"
	ReceiptsFile = "receipts.csv"
)

var receiptHeader = []string{"time", "unit", "status", "signature", "accounts", "error"}

// NewSession creates the next free session-N directory under root.
func NewSession(root string) (string, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	files, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("failed to read log directory: %w", err)
	}

	highestSession := -1
	for _, file := range files {
		if file.IsDir() && strings.HasPrefix(file.Name(), "session-") {
			sessionNum, err := strconv.Atoi(strings.TrimPrefix(file.Name(), "session-"))
			if err == nil && sessionNum > highestSession {
				highestSession = sessionNum
			}
		}
	}

	sessionPath := filepath.Join(root, fmt.Sprintf("session-%d", highestSession+1))
	if err := os.MkdirAll(sessionPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create session folder: %w", err)
	}
	return sessionPath, nil
}

// Receipts appends one CSV row per submitted unit.
type Receipts struct {
	mutex  sync.Mutex
	file   *os.File
	writer *csv.Writer
	now    func() time.Time
}

func OpenReceipts(sessionPath string) (*Receipts, error) {
	filename := filepath.Join(sessionPath, ReceiptsFile)
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %q: %w", filename, err)
	}
	r := &Receipts{file: f, writer: csv.NewWriter(f), now: time.Now}

	info, err := f.Stat()
	if err == nil && info.Size() == 0 {
		if err := r.write(receiptHeader); err != nil {
			f.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *Receipts) Record(result sol.SubmissionResult) error {
	accounts := make([]string, 0, len(result.Accounts))
	for _, a := range result.Accounts {
		accounts = append(accounts, a.String())
	}
	signature := ""
	if result.Signature != (solana.Signature{}) {
		signature = result.Signature.String()
	}
	errText := ""
	if result.Err != nil {
		errText = result.Err.Error()
	}
	return r.write([]string{
		r.now().UTC().Format(time.RFC3339),
		strconv.Itoa(result.UnitIndex),
		result.Status.String(),
		signature,
		strings.Join(accounts, " "),
		errText,
	})
}

func (r *Receipts) write(record []string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.writer.Write(record); err != nil {
		return fmt.Errorf("error writing record to csv: %w", err)
	}
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return nil
}

func (r *Receipts) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	return nil
}
