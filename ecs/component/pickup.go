package component

import (
	"fmt"
	"strings"
)

type ItemKind int

const (
	ItemHeal ItemKind = iota
	ItemRestoreStamina
	ItemCurePoison
	ItemWeapon
	ItemShield
)

var itemKindNames = [...]string{"heal", "restore_stamina", "cure_poison", "weapon", "shield"}

func (k ItemKind) String() string {
	if k < 0 || int(k) >= len(itemKindNames) {
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
	return itemKindNames[k]
}

func ParseItemKind(s string) (ItemKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range itemKindNames {
		if name == s {
			return ItemKind(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown item kind %q", s)
}

func (k *ItemKind) UnmarshalText(text []byte) error {
	parsed, err := ParseItemKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k ItemKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Elixir reports whether the item is a consumable.
func (k ItemKind) Elixir() bool {
	return k <= ItemCurePoison
}

// Item is a consumable or an equipment upgrade. Level only matters for
// equipment.
type Item struct {
	Kind  ItemKind
	Level int
}

func (i Item) String() string {
	if i.Kind.Elixir() {
		return i.Kind.String()
	}
	return fmt.Sprintf("%s_l%d", i.Kind, i.Level)
}

// Pickup is a collectible item lying in the level.
type Pickup struct {
	Item   Item
	Radius float64
}

var PickupComponent = NewComponent[Pickup]()
