package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

var (
	ErrInvalidTxHash     = errors.New("invalid transaction hash")
	ErrTxNotFound        = errors.New("transaction not found")
	ErrWrongChain        = errors.New("transaction was sent on another chain")
	ErrRecipientMismatch = errors.New("transaction recipient does not match creator wallet")
	ErrValueTooLow       = errors.New("transaction value is lower than the tip amount")
	ErrSenderMismatch    = errors.New("transaction sender does not match fan wallet")
	ErrTxReverted        = errors.New("transaction failed (status: 0)")
	ErrConfirmTimeout    = errors.New("timed out waiting for transaction confirmation")

	errPending = errors.New("transaction pending")
)

// Reader is the subset of ethclient.Client used for verification.
type Reader interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Transfer is a confirmed native value transfer.
type Transfer struct {
	Hash        string
	From        string
	To          string
	Value       *big.Int
	BlockNumber uint64
}

type Verifier struct {
	client  Reader
	chainID *big.Int
	timeout time.Duration
	poll    time.Duration
	log     *zap.Logger
}

func NewVerifier(client Reader, chainID int64, timeout, poll time.Duration, log *zap.Logger) *Verifier {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &Verifier{
		client:  client,
		chainID: big.NewInt(chainID),
		timeout: timeout,
		poll:    poll,
		log:     log,
	}
}

// Dial connects to the RPC endpoint. Close the returned client on shutdown.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return client, nil
}

func (v *Verifier) ChainID() int64 {
	return v.chainID.Int64()
}

// AwaitTransfer polls until txHash is mined and checks it moved at least
// minValue wei to `to`. An empty from skips the sender check.
func (v *Verifier) AwaitTransfer(ctx context.Context, txHash, from, to string, minValue *big.Int) (*Transfer, error) {
	if !IsTxHash(txHash) {
		return nil, ErrInvalidTxHash
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	hash := common.HexToHash(txHash)
	ticker := time.NewTicker(v.poll)
	defer ticker.Stop()

	for {
		t, err := v.check(ctx, hash, from, to, minValue)
		if err == nil {
			v.log.Info("transfer confirmed",
				zap.String("tx_hash", t.Hash),
				zap.String("from", t.From),
				zap.String("value_wei", t.Value.String()),
				zap.Uint64("block", t.BlockNumber),
			)
			return t, nil
		}
		if !errors.Is(err, errPending) && !errors.Is(err, ErrTxNotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			if errors.Is(err, ErrTxNotFound) {
				return nil, ErrTxNotFound
			}
			return nil, ErrConfirmTimeout
		case <-ticker.C:
		}
	}
}

func (v *Verifier) check(ctx context.Context, hash common.Hash, from, to string, minValue *big.Int) (*Transfer, error) {
	tx, pending, err := v.client.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrTxNotFound
		}
		if ctx.Err() != nil {
			return nil, errPending
		}
		return nil, fmt.Errorf("failed to get tx details: %w", err)
	}

	if id := tx.ChainId(); id != nil && id.Sign() != 0 && id.Cmp(v.chainID) != 0 {
		return nil, fmt.Errorf("%w: chain %s, expected %s", ErrWrongChain, id, v.chainID)
	}
	if tx.To() == nil || !strings.EqualFold(tx.To().Hex(), to) {
		return nil, ErrRecipientMismatch
	}
	if minValue != nil && tx.Value().Cmp(minValue) < 0 {
		return nil, fmt.Errorf("%w: sent %s wei, expected %s", ErrValueTooLow, tx.Value(), minValue)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, fmt.Errorf("failed to recover sender: %w", err)
	}
	if from != "" && !strings.EqualFold(sender.Hex(), from) {
		return nil, fmt.Errorf("%w: tx.from=%s, expected=%s", ErrSenderMismatch, sender.Hex(), from)
	}

	if pending {
		return nil, errPending
	}

	receipt, err := v.client.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) || ctx.Err() != nil {
			return nil, errPending
		}
		return nil, fmt.Errorf("failed to get tx receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, ErrTxReverted
	}

	t := &Transfer{
		Hash:  hash.Hex(),
		From:  NormalizeAddress(sender.Hex()),
		To:    NormalizeAddress(tx.To().Hex()),
		Value: tx.Value(),
	}
	if receipt.BlockNumber != nil {
		t.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return t, nil
}
