package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testChainID = 8453

type fakeReader struct {
	mu           sync.Mutex
	tx           *types.Transaction
	pendingPolls int
	receipt      *types.Receipt
	txErr        error
	calls        int
}

func (f *fakeReader) TransactionByHash(_ context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.txErr != nil {
		return nil, false, f.txErr
	}
	if f.tx == nil || f.tx.Hash() != hash {
		return nil, false, ethereum.NotFound
	}
	if f.calls <= f.pendingPolls {
		return f.tx, true, nil
	}
	return f.tx, false, nil
}

func (f *fakeReader) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.receipt == nil || f.tx == nil || f.tx.Hash() != hash {
		return nil, ethereum.NotFound
	}
	return f.receipt, nil
}

func newKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func signedTransfer(t *testing.T, key *ecdsa.PrivateKey, chainID int64, to common.Address, value *big.Int) *types.Transaction {
	t.Helper()
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   big.NewInt(chainID),
		Nonce:     1,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &to,
		Value:     value,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(chainID)), key)
	require.NoError(t, err)
	return signed
}

func newVerifier(r Reader) *Verifier {
	return NewVerifier(r, testChainID, 300*time.Millisecond, 5*time.Millisecond, zap.NewNop())
}

func TestToWei(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"1", "1000000000000000000", nil},
		{"0.05", "50000000000000000", nil},
		{"0.000000000000000001", "1", nil},
		{"0.0000000000000000001", "", ErrTooPrecise},
		{"-1", "", ErrNegativeAmount},
	}
	for _, tt := range tests {
		got, err := ToWei(decimal.RequireFromString(tt.in))
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
		assert.True(t, FromWei(got).Equal(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestAddressAndHash(t *testing.T) {
	assert.True(t, IsAddress("0x52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, IsAddress("52908400098527886E0F7030069857D2E4169EE7"))
	assert.False(t, IsAddress("0x123"))
	assert.True(t, IsTxHash("0x"+strings.Repeat("ab", 32)))
	assert.False(t, IsTxHash("0xabc"))
	assert.False(t, IsTxHash("not-a-hash"))
}

func TestAwaitTransferConfirmed(t *testing.T) {
	key, from := newKey(t)
	_, to := newKey(t)
	value := big.NewInt(5e16)
	tx := signedTransfer(t, key, testChainID, to, value)

	r := &fakeReader{tx: tx, pendingPolls: 2, receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42)}}
	got, err := newVerifier(r).AwaitTransfer(context.Background(), tx.Hash().Hex(), from.Hex(), to.Hex(), value)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash().Hex(), got.Hash)
	assert.Equal(t, NormalizeAddress(from.Hex()), got.From)
	assert.Equal(t, uint64(42), got.BlockNumber)
	assert.GreaterOrEqual(t, r.calls, 3)
}

func TestAwaitTransferRejects(t *testing.T) {
	key, from := newKey(t)
	_, to := newKey(t)
	_, other := newKey(t)
	value := big.NewInt(1000)
	ok := &types.Receipt{Status: types.ReceiptStatusSuccessful}

	tests := []struct {
		name    string
		tx      *types.Transaction
		receipt *types.Receipt
		from    string
		to      string
		min     *big.Int
		want    error
	}{
		{"recipient", signedTransfer(t, key, testChainID, other, value), ok, "", to.Hex(), value, ErrRecipientMismatch},
		{"value", signedTransfer(t, key, testChainID, to, big.NewInt(999)), ok, "", to.Hex(), value, ErrValueTooLow},
		{"chain", signedTransfer(t, key, 1, to, value), ok, "", to.Hex(), value, ErrWrongChain},
		{"sender", signedTransfer(t, key, testChainID, to, value), ok, other.Hex(), to.Hex(), value, ErrSenderMismatch},
		{"reverted", signedTransfer(t, key, testChainID, to, value), &types.Receipt{Status: types.ReceiptStatusFailed}, from.Hex(), to.Hex(), value, ErrTxReverted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReader{tx: tt.tx, receipt: tt.receipt}
			_, err := newVerifier(r).AwaitTransfer(context.Background(), tt.tx.Hash().Hex(), tt.from, tt.to, tt.min)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAwaitTransferTimeouts(t *testing.T) {
	key, _ := newKey(t)
	_, to := newKey(t)
	tx := signedTransfer(t, key, testChainID, to, big.NewInt(1))

	_, err := newVerifier(&fakeReader{}).AwaitTransfer(context.Background(), tx.Hash().Hex(), "", to.Hex(), big.NewInt(1))
	assert.ErrorIs(t, err, ErrTxNotFound)

	never := &fakeReader{tx: tx, pendingPolls: 1 << 30}
	_, err = newVerifier(never).AwaitTransfer(context.Background(), tx.Hash().Hex(), "", to.Hex(), big.NewInt(1))
	assert.ErrorIs(t, err, ErrConfirmTimeout)

	_, err = newVerifier(&fakeReader{}).AwaitTransfer(context.Background(), "0xabc", "", to.Hex(), big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidTxHash)

	rpcDown := &fakeReader{txErr: errors.New("502 bad gateway")}
	_, err = newVerifier(rpcDown).AwaitTransfer(context.Background(), tx.Hash().Hex(), "", to.Hex(), big.NewInt(1))
	assert.ErrorContains(t, err, "502 bad gateway")
}

func TestReportedTransfer(t *testing.T) {
	key, from := newKey(t)
	_, to := newKey(t)
	tx := signedTransfer(t, key, testChainID, to, big.NewInt(7))
	r := &fakeReader{tx: tx, receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful}}

	rt := &ReportedTransfer{Verifier: newVerifier(r), TxHash: tx.Hash().Hex(), From: from.Hex()}
	assert.Empty(t, rt.SenderAddress())

	hash, err := rt.SendTransaction(context.Background(), to.Hex(), big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, tx.Hash().Hex(), hash)
	assert.Equal(t, NormalizeAddress(from.Hex()), rt.SenderAddress())
	require.NotNil(t, rt.Confirmed())
	assert.Equal(t, 0, rt.Confirmed().Value.Cmp(big.NewInt(7)))
}

func TestNewTxRequest(t *testing.T) {
	req := NewTxRequest(8453, "0xabc", big.NewInt(5e16))
	assert.Equal(t, "eip155:8453", req.ChainID)
	assert.Equal(t, "eth_sendTransaction", req.Method)
	assert.Equal(t, "50000000000000000", req.Params.Value)
	assert.NotNil(t, req.Params.ABI)
}

func TestVerifyPersonalSign(t *testing.T) {
	key, addr := newKey(t)
	msg := "Sign in to Creator Connect\nNonce: 1234"

	sig, err := crypto.Sign(PersonalMessageHash(msg), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27 // wallets return v in {27, 28}

	require.NoError(t, VerifyPersonalSign(addr.Hex(), msg, hexutil.Encode(sig)))
	require.NoError(t, VerifyPersonalSign(NormalizeAddress(addr.Hex()), msg, hexutil.Encode(sig)[2:]))

	_, other := newKey(t)
	assert.ErrorIs(t, VerifyPersonalSign(other.Hex(), msg, hexutil.Encode(sig)), ErrBadSignature)
	assert.Error(t, VerifyPersonalSign(addr.Hex(), msg, "0x1234"))
	assert.Error(t, VerifyPersonalSign("nope", msg, hexutil.Encode(sig)))
}
