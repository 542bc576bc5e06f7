package quest

// Inventory answers how many of an entry the party holds.
type Inventory interface {
	QuantityOf(itemType ItemType, itemID int) int
}

// Locator reports where the player stands.
type Locator interface {
	CurrentMapID() int
	PlayerPosition() (x, y int)
}

// Names resolves display names for fulfillment text. Empty results fall
// back to generic labels.
type Names interface {
	ItemName(itemType ItemType, itemID int) string
	EnemyName(enemyID int) string
	MapName(mapID int) string
}
