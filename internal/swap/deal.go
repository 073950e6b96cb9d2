package swap

import (
	"sync"
	"time"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/lnclient"
)

// Role is the local side's part in a deal.
type Role string

const (
	RoleTaker Role = "taker"
	RoleMaker Role = "maker"
)

// Phase is the deal's lifecycle position. The legal sequence is role
// dependent; see Coordinator.advancePhase.
type Phase string

const (
	PhaseSwapCreated    Phase = "SwapCreated"
	PhaseSwapRequested  Phase = "SwapRequested"
	PhaseSwapAgreed     Phase = "SwapAgreed"
	PhaseAmountSent     Phase = "AmountSent"
	PhaseAmountReceived Phase = "AmountReceived"
	PhaseSwapCompleted  Phase = "SwapCompleted"
)

// State is orthogonal to Phase: it tracks whether the deal is still being
// worked, has failed, or has completed.
type State string

const (
	StateActive    State = "Active"
	StateError     State = "Error"
	StateCompleted State = "Completed"
)

// Deal is the central entity: one record per attempted swap, keyed by
// r_hash. Fields are guarded by mu: phase and state change only through
// statemachine.go, and the protocol handlers write the remaining fields
// while holding mu. Readers outside the lock go through Snapshot.
type Deal struct {
	mu sync.Mutex

	RHash     string // hex
	RPreimage string // hex, empty until known

	MyRole      Role
	Phase       Phase
	State       State
	StateReason string

	PeerPubKey string

	OrderID      string
	LocalOrderID string
	PairID       string
	Price        float64

	TakerCurrency chainreg.Currency
	MakerCurrency chainreg.Currency

	TakerAmount uint64
	MakerAmount uint64

	TakerCltvDelta uint32
	MakerCltvDelta uint32

	ProposedQuantity float64
	Quantity         *float64

	MakerToTakerRoutes []lnclient.Route
	TakerPubKey        string

	CreateTime     time.Time
	ExecuteTime    time.Time
	CompletionTime time.Time
}

// Snapshot is a point-in-time copy of a Deal safe to read without holding
// its lock, used for event payloads and external inspection.
type Snapshot struct {
	RHash     string
	RPreimage string

	MyRole      Role
	Phase       Phase
	State       State
	StateReason string

	PeerPubKey string

	OrderID      string
	LocalOrderID string
	PairID       string
	Price        float64

	TakerCurrency chainreg.Currency
	MakerCurrency chainreg.Currency

	TakerAmount uint64
	MakerAmount uint64

	TakerCltvDelta uint32
	MakerCltvDelta uint32

	ProposedQuantity float64
	Quantity         *float64

	TakerPubKey string

	CreateTime     time.Time
	ExecuteTime    time.Time
	CompletionTime time.Time
}

// Snapshot returns a consistent copy of the deal's fields.
func (d *Deal) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	var quantity *float64
	if d.Quantity != nil {
		q := *d.Quantity
		quantity = &q
	}

	return Snapshot{
		RHash:            d.RHash,
		RPreimage:        d.RPreimage,
		MyRole:           d.MyRole,
		Phase:            d.Phase,
		State:            d.State,
		StateReason:      d.StateReason,
		PeerPubKey:       d.PeerPubKey,
		OrderID:          d.OrderID,
		LocalOrderID:     d.LocalOrderID,
		PairID:           d.PairID,
		Price:            d.Price,
		TakerCurrency:    d.TakerCurrency,
		MakerCurrency:    d.MakerCurrency,
		TakerAmount:      d.TakerAmount,
		MakerAmount:      d.MakerAmount,
		TakerCltvDelta:   d.TakerCltvDelta,
		MakerCltvDelta:   d.MakerCltvDelta,
		ProposedQuantity: d.ProposedQuantity,
		Quantity:         quantity,
		TakerPubKey:      d.TakerPubKey,
		CreateTime:       d.CreateTime,
		ExecuteTime:      d.ExecuteTime,
		CompletionTime:   d.CompletionTime,
	}
}

// CurrentPhase returns the deal's phase under lock.
func (d *Deal) CurrentPhase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Phase
}

// CurrentState returns the deal's state under lock.
func (d *Deal) CurrentState() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.State
}
