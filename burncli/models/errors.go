package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ErrEmptySelection is returned when processing is requested with no account selected.
var ErrEmptySelection = errors.New("no token accounts selected")

// SourceParseError reports a token account the source returned that could not be
// turned into a valid record. The directory is left untouched when it is returned.
type SourceParseError struct {
	Address string
	Field   string
	Err     error
}

func (e *SourceParseError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("failed to parse token account %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("failed to parse token account %s (%s): %v", e.Address, e.Field, e.Err)
}

func (e *SourceParseError) Unwrap() error { return e.Err }

// SourceUnavailableError reports a network failure while loading the directory.
type SourceUnavailableError struct {
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("token account source unavailable: %v", e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// SubmissionError reports a unit that could not be dispatched or confirmed.
type SubmissionError struct {
	UnitIndex int
	Addresses []solana.PublicKey
	Cause     error
}

func (e *SubmissionError) Error() string {
	addrs := make([]string, 0, len(e.Addresses))
	for _, a := range e.Addresses {
		addrs = append(addrs, a.String())
	}
	return fmt.Sprintf("unit %d [%s] failed: %v", e.UnitIndex, strings.Join(addrs, ","), e.Cause)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }
