package swap

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

// genPubKeyHex returns a fresh, validly-encoded compressed secp256k1 pubkey
// hex string, standing in for a peer-advertised chain-network node key.
func genPubKeyHex(t *testing.T) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}
