package chain

import (
	"context"
	"math/big"
)

// ReportedTransfer completes a value transfer the fan's wallet already
// broadcast: it waits for TxHash and checks it paid `to`. From may be empty,
// the sender is then taken from the transaction.
type ReportedTransfer struct {
	Verifier *Verifier
	TxHash   string
	From     string

	confirmed *Transfer
}

func (r *ReportedTransfer) SendTransaction(ctx context.Context, to string, valueWei *big.Int) (string, error) {
	t, err := r.Verifier.AwaitTransfer(ctx, r.TxHash, r.From, to, valueWei)
	if err != nil {
		return "", err
	}
	r.confirmed = t
	return t.Hash, nil
}

// SenderAddress is the verified payer, empty before confirmation.
func (r *ReportedTransfer) SenderAddress() string {
	if r.confirmed == nil {
		return ""
	}
	return r.confirmed.From
}

func (r *ReportedTransfer) Confirmed() *Transfer {
	return r.confirmed
}

// TxRequest is a wallet transaction request (eth_sendTransaction) as
// returned to frame clients for the "tx" button action.
type TxRequest struct {
	ChainID string   `json:"chainId"`
	Method  string   `json:"method"`
	Params  TxParams `json:"params"`
}

type TxParams struct {
	ABI   []any  `json:"abi"`
	To    string `json:"to"`
	Value string `json:"value"`
}

func NewTxRequest(chainID int64, to string, valueWei *big.Int) TxRequest {
	return TxRequest{
		ChainID: "eip155:" + big.NewInt(chainID).String(),
		Method:  "eth_sendTransaction",
		Params: TxParams{
			ABI:   []any{},
			To:    to,
			Value: valueWei.String(),
		},
	}
}
