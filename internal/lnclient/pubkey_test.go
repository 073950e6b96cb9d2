package lnclient

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

func TestParsePubKeyHexValid(t *testing.T) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	want := priv.PubKey().SerializeCompressed()

	got, err := ParsePubKeyHex(hex.EncodeToString(want))
	if err != nil {
		t.Fatalf("ParsePubKeyHex failed: %v", err)
	}
	if hex.EncodeToString(got) != hex.EncodeToString(want) {
		t.Errorf("ParsePubKeyHex = %x, want %x", got, want)
	}
}

func TestParsePubKeyHexInvalidHex(t *testing.T) {
	if _, err := ParsePubKeyHex("not-hex"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestParsePubKeyHexInvalidPoint(t *testing.T) {
	if _, err := ParsePubKeyHex("0000"); err == nil {
		t.Error("expected error for invalid pubkey point")
	}
}
