package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrRangeTooLarge marks a getLogs rejection caused by the requested block
	// range exceeding the provider's result-size limit. Callers resolve it by
	// shrinking the range, never by surfacing a failure.
	ErrRangeTooLarge = errors.New("log range exceeds provider limit")
	// ErrUnavailable marks a transport-level failure of the active endpoint.
	ErrUnavailable = errors.New("provider unavailable")
)

// JSON-RPC error codes used by public providers for oversized getLogs ranges.
// -32005 is the dedicated limit-exceeded code; -32602 and -32000 are generic
// codes that some providers overload, so those are disambiguated by message.
const (
	codeLimitExceeded = -32005
	codeInvalidParams = -32602
	codeServerError   = -32000
)

var rangeLimitPhrases = []string{
	"block range",
	"query returned more than",
	"response size",
	"too many results",
	"limit exceeded",
	"log limit",
}

// Classify maps a provider error into one of the structured categories the
// worker branches on. Classification happens once at this boundary; call
// sites must never inspect error text.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		switch code := rpcErr.ErrorCode(); code {
		case codeLimitExceeded:
			return fmt.Errorf("%w: %v", ErrRangeTooLarge, err)
		case codeInvalidParams, codeServerError:
			if mentionsRangeLimit(err.Error()) {
				return fmt.Errorf("%w: %v", ErrRangeTooLarge, err)
			}
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return err
}

func mentionsRangeLimit(msg string) bool {
	msg = strings.ToLower(msg)
	for _, phrase := range rangeLimitPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
