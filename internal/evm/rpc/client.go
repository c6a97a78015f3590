// Package rpc implements the EVM JSON-RPC provider client used by the
// ingestion worker: validated log fetching, structured error classification
// and primary/secondary endpoint failover.
package rpc

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/ratelimit"

	"github.com/tokenpulse/tokenpulse-backend/internal/model"
	"github.com/tokenpulse/tokenpulse-backend/pkg/safe"
)

// transferTopic is keccak256("Transfer(address,address,uint256)").
var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

const defaultRPS = 10

// Client wraps a single JSON-RPC endpoint with rate limiting.
type Client struct {
	name string
	ec   *ethclient.Client
	rl   ratelimit.Limiter
}

// Dial connects to one endpoint. rps bounds outbound request rate.
func Dial(ctx context.Context, name, url string, rps int) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("endpoint %s: url is required", name)
	}
	if rps <= 0 {
		rps = defaultRPS
	}

	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial endpoint %s: %w", name, err)
	}

	return &Client{name: name, ec: ec, rl: ratelimit.New(rps)}, nil
}

// Name returns the endpoint label surfaced in metrics and cursors.
func (c *Client) Name() string {
	return c.name
}

// Close tears down the underlying connection.
func (c *Client) Close() {
	c.ec.Close()
}

// BlockNumber returns the current chain head.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	c.rl.Take()
	head, err := c.ec.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get block number: %w", err)
	}
	return head, nil
}

// HeaderTime returns the timestamp of the given block.
func (c *Client) HeaderTime(ctx context.Context, number uint64) (time.Time, error) {
	c.rl.Take()
	header, err := c.ec.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return time.Time{}, fmt.Errorf("get header %d: %w", number, err)
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// TransferLogs fetches and validates ERC-20 Transfer logs for one feed over
// the inclusive block range [from, to].
func (c *Client) TransferLogs(ctx context.Context, feed model.Feed, from, to uint64) ([]model.TransferEvent, error) {
	c.rl.Take()

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{common.HexToAddress(feed.Address)},
		Topics:    [][]common.Hash{{transferTopic}},
	}

	logs, err := c.ec.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get logs [%d, %d]: %w", from, to, err)
	}

	events := make([]model.TransferEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		event, err := convertLog(feed, l)
		if err != nil {
			return nil, fmt.Errorf("block %d log %d: %w", l.BlockNumber, l.Index, err)
		}
		events = append(events, event)
	}

	return events, nil
}

// convertLog validates one raw log entry and normalizes it. Malformed entries
// (wrong topic count, unexpected data length) are explicit failures.
func convertLog(feed model.Feed, l types.Log) (model.TransferEvent, error) {
	if len(l.Topics) != 3 {
		return model.TransferEvent{}, fmt.Errorf("expected 3 topics, got %d", len(l.Topics))
	}
	if l.Topics[0] != transferTopic {
		return model.TransferEvent{}, fmt.Errorf("unexpected topic0 %s", l.Topics[0].Hex())
	}
	if len(l.Data) != 32 {
		return model.TransferEvent{}, fmt.Errorf("expected 32 data bytes, got %d", len(l.Data))
	}

	logIndex, err := safe.Uint32(l.Index)
	if err != nil {
		return model.TransferEvent{}, fmt.Errorf("log index: %w", err)
	}

	return model.TransferEvent{
		ChainID:     feed.ChainID,
		Address:     normalizeAddress(l.Address),
		BlockNumber: l.BlockNumber,
		LogIndex:    logIndex,
		TxHash:      strings.ToLower(l.TxHash.Hex()),
		From:        normalizeAddress(common.BytesToAddress(l.Topics[1].Bytes())),
		To:          normalizeAddress(common.BytesToAddress(l.Topics[2].Bytes())),
		Amount:      new(big.Int).SetBytes(l.Data).String(),
	}, nil
}

func normalizeAddress(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
