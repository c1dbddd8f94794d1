package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrBadSignature = errors.New("signature does not match wallet address")

// PersonalMessageHash is the EIP-191 hash signed by personal_sign.
func PersonalMessageHash(message string) []byte {
	prefix := fmt.Sprintf("\x19Ethereum Signed Message:\n%d", len(message))
	return crypto.Keccak256([]byte(prefix + message))
}

// VerifyPersonalSign checks that signature over message was produced by address.
func VerifyPersonalSign(address, message, signature string) error {
	if !IsAddress(address) {
		return fmt.Errorf("invalid wallet address")
	}
	if !strings.HasPrefix(signature, "0x") {
		signature = "0x" + signature
	}
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("invalid hex signature")
	}
	if len(sig) != crypto.SignatureLength {
		return fmt.Errorf("invalid signature length")
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(PersonalMessageHash(message), sig)
	if err != nil {
		return fmt.Errorf("recover public key: %w", err)
	}
	if !strings.EqualFold(crypto.PubkeyToAddress(*pub).Hex(), address) {
		return ErrBadSignature
	}
	return nil
}
