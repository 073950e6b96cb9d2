package lnclient

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// ParsePubKeyHex validates a hex-encoded chain-network node pubkey and
// returns its compressed serialization. Peer-advertised pubkeys (taker's or
// maker's per-currency LND identity key) are untrusted input; rejecting a
// malformed one here is cheaper than failing deep inside a route query.
func ParsePubKeyHex(s string) ([]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("lnclient: invalid pubkey hex: %w", err)
	}
	pub, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("lnclient: invalid pubkey: %w", err)
	}
	return pub.SerializeCompressed(), nil
}
