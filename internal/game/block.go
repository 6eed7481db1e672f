package game

import (
	"slices"
)

// MaxBuildingLevel is the highest evolution an ownable block can reach.
const MaxBuildingLevel = 4

// NoOwner marks a block held by the bank.
const NoOwner = -1

// rentIncrementPercent is the extra rent, as a percentage of base rent, for
// building levels 1..4.
var rentIncrementPercent = [MaxBuildingLevel]int{60, 140, 230, 340}

// BlockDef is a board template entry as supplied by a board provider.
type BlockDef struct {
	Position      int                   `json:"position"`
	Name          string                `json:"name"`
	Category      Category              `json:"category"`
	Price         int                   `json:"price,omitempty"`
	BaseRent      int                   `json:"rent,omitempty"`
	Color         string                `json:"color,omitempty"`
	Building      BuildingCategory      `json:"building,omitempty"`
	BuildingCosts [MaxBuildingLevel]int `json:"building_costs"`
}

// Block is one space on the board.
type Block struct {
	Position  int
	Name      string
	Color     string
	Category  Category
	Price     int
	BaseRent  int
	Owner     int // player index, NoOwner when held by the bank
	Mortgaged bool

	// Estate is only set for Property and Company blocks.
	Estate *Estate

	index int
}

// Estate is the building-evolution payload carried by ownable blocks.
type Estate struct {
	Building BuildingCategory
	Level    int
	Costs    [MaxBuildingLevel]int
	BaseName string
}

// NewBlock materializes a block from its template.
func NewBlock(def BlockDef) *Block {
	b := &Block{
		Position: def.Position,
		Name:     def.Name,
		Color:    def.Color,
		Category: def.Category,
		Price:    def.Price,
		BaseRent: def.BaseRent,
		Owner:    NoOwner,
		index:    def.Position,
	}
	if def.Category.Purchasable() {
		b.Estate = &Estate{
			Building: def.Building,
			Costs:    def.BuildingCosts,
			BaseName: def.Name,
		}
	}
	return b
}

// NewBoard materializes templates in position order.
func NewBoard(defs []BlockDef) []*Block {
	sorted := slices.Clone(defs)
	slices.SortStableFunc(sorted, func(a, b BlockDef) int { return a.Position - b.Position })

	board := make([]*Block, len(sorted))
	for i, def := range sorted {
		board[i] = NewBlock(def)
		board[i].index = i
	}
	return board
}

// Index returns the block's slot in the board slice.
func (b *Block) Index() int {
	return b.index
}

// Def returns the template the block would be rebuilt from, with its current
// building category.
func (b *Block) Def() BlockDef {
	def := BlockDef{
		Position: b.Position,
		Name:     b.Name,
		Category: b.Category,
		Price:    b.Price,
		BaseRent: b.BaseRent,
		Color:    b.Color,
	}
	if b.Estate != nil {
		def.Name = b.Estate.BaseName
		def.Building = b.Estate.Building
		def.BuildingCosts = b.Estate.Costs
	}
	return def
}

// Owned reports whether a player holds the block.
func (b *Block) Owned() bool {
	return b.Owner != NoOwner
}

// Purchasable reports whether the block can be bought from the bank right
// now, ignoring the buyer's cash.
func (b *Block) Purchasable() bool {
	return b.Category.Purchasable() && !b.Owned() && !b.Mortgaged
}

// Level returns the building level, 0 for blocks without an estate.
func (b *Block) Level() int {
	if b.Estate == nil {
		return 0
	}
	return b.Estate.Level
}

// Rent returns what a visitor owes the owner.
func (b *Block) Rent() int {
	if b.Estate == nil {
		return b.BaseRent
	}
	return RentAt(b.BaseRent, b.Estate.Building, b.Estate.Level)
}

// RentAt computes rent for a base rent at a building level. Every
// multiplication truncates toward zero.
func RentAt(base int, building BuildingCategory, level int) int {
	if level <= 0 {
		return base
	}
	level = min(level, MaxBuildingLevel)

	rent := base + base*rentIncrementPercent[level-1]/100
	switch building {
	case CompanyBuilding:
		rent = rent * 110 / 100
	case Special:
		rent = rent * 115 / 100
	}
	return rent
}

// SetBuilding changes the building category. It refuses once anything has
// been built.
func (b *Block) SetBuilding(c BuildingCategory) bool {
	if b.Estate == nil || b.Estate.Level > 0 {
		return false
	}
	b.Estate.Building = c
	return true
}

// NextCost returns the cost of the next building level.
func (b *Block) NextCost() (int, bool) {
	if b.Estate == nil || b.Estate.Building == NoBuilding || b.Estate.Level >= MaxBuildingLevel {
		return 0, false
	}
	return b.Estate.Costs[b.Estate.Level], true
}

// CanUpgrade reports whether p may build the next level here: p owns the
// block, stands on it and can pay for it.
func (b *Block) CanUpgrade(p *Player) bool {
	if p == nil || p.Bankrupt {
		return false
	}
	cost, ok := b.NextCost()
	if !ok {
		return false
	}
	return b.Owner == p.Index && p.Position == b.index && p.Cash >= cost
}

// Upgrade builds the next level for p. It returns false and changes nothing
// when CanUpgrade does not hold.
func (b *Block) Upgrade(p *Player) bool {
	if !b.CanUpgrade(p) {
		return false
	}
	cost, _ := b.NextCost()
	p.Cash -= cost
	b.Estate.Level++
	b.Name = Evolution(b.Estate.Building, b.Estate.Level).Name
	return true
}

// Value is the purchase price plus what has been invested in buildings.
func (b *Block) Value() int {
	v := b.Price
	if b.Estate != nil {
		for i := 0; i < b.Estate.Level; i++ {
			v += b.Estate.Costs[i]
		}
	}
	return v
}

// release returns the block to the bank.
func (b *Block) release() {
	b.Owner = NoOwner
	b.Mortgaged = false
}
