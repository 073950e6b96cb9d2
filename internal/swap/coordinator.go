package swap

import (
	"sync"
	"time"

	"github.com/klingon-exchange/xswapd/internal/chainreg"
	"github.com/klingon-exchange/xswapd/internal/lnclient"
	"github.com/klingon-exchange/xswapd/pkg/logging"
)

// Coordinator owns the deal registry and drives the initiator, responder,
// resolver, and completion/error protocols against it. It is the swap
// package's sole exported entry point; everything else in the package is
// reached through its methods.
type Coordinator struct {
	mu sync.RWMutex

	registry    *registry
	clients     map[chainreg.Currency]lnclient.Client
	chainParams *chainreg.Registry

	eventHandlers []EventHandler

	log *logging.Logger

	// clock lets tests pin CreateTime/ExecuteTime/CompletionTime; nil means
	// time.Now.
	clock func() time.Time
}

// Config holds the collaborators a Coordinator is constructed with.
type Config struct {
	ChainParams *chainreg.Registry
	Clients     map[chainreg.Currency]lnclient.Client
}

// NewCoordinator builds a Coordinator. A nil ChainParams defaults to
// chainreg.Default().
func NewCoordinator(cfg Config) *Coordinator {
	params := cfg.ChainParams
	if params == nil {
		params = chainreg.Default()
	}
	clients := cfg.Clients
	if clients == nil {
		clients = make(map[chainreg.Currency]lnclient.Client)
	}
	return &Coordinator{
		registry:    newRegistry(),
		clients:     clients,
		chainParams: params,
		log:         logging.GetDefault().Component("swap"),
	}
}

// SetClient registers (or replaces) the chain client for a currency.
func (c *Coordinator) SetClient(currency chainreg.Currency, client lnclient.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clients[currency] = client
}

// client returns the chain client for currency, or nil if none is
// registered.
func (c *Coordinator) client(currency chainreg.Currency) lnclient.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clients[currency]
}

// Deal looks up a deal by r_hash for inspection (e.g. by a caller polling
// for completion instead of registering a handler).
func (c *Coordinator) Deal(rHash string) (Snapshot, bool) {
	d := c.registry.get(rHash)
	if d == nil {
		return Snapshot{}, false
	}
	return d.Snapshot(), true
}
