// Package party holds the host-side player state the quest journal reads:
// held items and the player's position.
package party

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lawnchairsociety/questlog/internal/quest"
)

// Holding is one stack of an inventory entry.
type Holding struct {
	ItemType quest.ItemType `json:"item_type"`
	ItemID   int            `json:"item_id"`
	Amount   int            `json:"amount"`
}

// Position is a map and tile coordinate.
type Position struct {
	MapID int `json:"map_id"`
	X     int `json:"x"`
	Y     int `json:"y"`
}

type holdingKey struct {
	itemType quest.ItemType
	itemID   int
}

// Party is the player's inventory and location. It implements
// quest.Inventory and quest.Locator.
type Party struct {
	mu       sync.RWMutex
	holdings map[holdingKey]int
	position Position
}

var (
	_ quest.Inventory = (*Party)(nil)
	_ quest.Locator   = (*Party)(nil)
)

// New creates an empty party standing at map 0, (0, 0).
func New() *Party {
	return &Party{holdings: make(map[holdingKey]int)}
}

// QuantityOf returns how many of an entry the party holds.
func (p *Party) QuantityOf(itemType quest.ItemType, itemID int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.holdings[holdingKey{itemType, itemID}]
}

// Gain adds amount of an entry and returns the new quantity.
func (p *Party) Gain(itemType quest.ItemType, itemID, amount int) (int, error) {
	if amount < 1 {
		return 0, fmt.Errorf("amount must be positive, got %d", amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := holdingKey{itemType, itemID}
	p.holdings[key] += amount
	return p.holdings[key], nil
}

// Lose removes up to amount of an entry and returns the new quantity.
func (p *Party) Lose(itemType quest.ItemType, itemID, amount int) (int, error) {
	if amount < 1 {
		return 0, fmt.Errorf("amount must be positive, got %d", amount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := holdingKey{itemType, itemID}
	remaining := p.holdings[key] - amount
	if remaining <= 0 {
		delete(p.holdings, key)
		return 0, nil
	}
	p.holdings[key] = remaining
	return remaining, nil
}

// CurrentMapID returns the map the player is on.
func (p *Party) CurrentMapID() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position.MapID
}

// PlayerPosition returns the player's tile.
func (p *Party) PlayerPosition() (x, y int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position.X, p.position.Y
}

// MoveTo places the player.
func (p *Party) MoveTo(mapID, x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = Position{MapID: mapID, X: x, Y: y}
}

// State is the persisted form of a party.
type State struct {
	Position Position  `json:"position"`
	Holdings []Holding `json:"holdings"`
}

// Export returns the party's state with holdings sorted by type and id.
func (p *Party) Export() State {
	p.mu.RLock()
	defer p.mu.RUnlock()

	holdings := make([]Holding, 0, len(p.holdings))
	for key, amount := range p.holdings {
		holdings = append(holdings, Holding{ItemType: key.itemType, ItemID: key.itemID, Amount: amount})
	}
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].ItemType != holdings[j].ItemType {
			return holdings[i].ItemType < holdings[j].ItemType
		}
		return holdings[i].ItemID < holdings[j].ItemID
	})
	return State{Position: p.position, Holdings: holdings}
}

// Restore builds a party from saved state. Non-positive stacks are skipped.
func Restore(state State) *Party {
	p := New()
	p.position = state.Position
	for _, h := range state.Holdings {
		if h.Amount > 0 {
			p.holdings[holdingKey{h.ItemType, h.ItemID}] += h.Amount
		}
	}
	return p
}
