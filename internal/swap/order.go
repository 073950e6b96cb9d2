package swap

// MakerOrder is the remote order a taker is filling (§4.3 "Inputs").
type MakerOrder struct {
	ID         string
	PairID     string
	Price      float64
	PeerPubKey string
}

// TakerOrder is the local order describing what the taker wants to do
// (§4.3 "Inputs").
type TakerOrder struct {
	LocalID  string
	Quantity float64
	IsBuy    bool
}

// AcceptedOrder is the maker's local decision about how much of an inbound
// swap request to fill (§4.4 "Inputs").
type AcceptedOrder struct {
	QuantityToAccept float64
	Price            float64
	LocalID          string
}
