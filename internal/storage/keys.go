package storage

import (
	"strings"

	"compras/internal/core"
)

// Collection names one persisted list.
type Collection string

const (
	Suppliers   Collection = "suppliers"
	Products    Collection = "products"
	Receipts    Collection = "receipts"
	Sales       Collection = "sales"
	Boletos     Collection = "boletos"
	Maintenance Collection = "maintenance"
	FixedCosts  Collection = "fixed_costs"
)

// UnitCollections are kept once per store unit.
var UnitCollections = []Collection{Receipts, Sales, Boletos, Maintenance, FixedCosts}

// GlobalCollections are shared by every store unit.
var GlobalCollections = []Collection{Suppliers, Products}

// Global reports whether c is shared across units.
func (c Collection) Global() bool {
	return c == Suppliers || c == Products
}

// Keys builds the key layout under a common prefix:
//
//	<prefix>_suppliers, <prefix>_products
//	<prefix>_<unit>_<collection>
//	<prefix>_active_unit, <prefix>_restricted
type Keys struct {
	Prefix string
}

func (k Keys) Suppliers() string { return k.For("", Suppliers) }

func (k Keys) Products() string { return k.For("", Products) }

func (k Keys) ActiveUnit() string { return k.Prefix + "_active_unit" }

func (k Keys) Restricted() string { return k.Prefix + "_restricted" }

// For returns the key of c. unit is ignored for global collections.
func (k Keys) For(unit core.StoreUnit, c Collection) string {
	if c.Global() {
		return k.Prefix + "_" + string(c)
	}
	return k.Unit(unit, c)
}

// Unit returns the per-unit key <prefix>_<unit>_<collection>.
func (k Keys) Unit(unit core.StoreUnit, c Collection) string {
	return k.Prefix + "_" + string(unit) + "_" + string(c)
}

// Ref identifies the collection behind a key.
type Ref struct {
	Key        string
	Unit       core.StoreUnit
	Collection Collection
}

// All returns every collection key for the given units, globals first.
func (k Keys) All(units []core.StoreUnit) []Ref {
	refs := make([]Ref, 0, len(GlobalCollections)+len(units)*len(UnitCollections))
	for _, c := range GlobalCollections {
		refs = append(refs, Ref{Key: k.For("", c), Collection: c})
	}
	for _, u := range units {
		for _, c := range UnitCollections {
			refs = append(refs, Ref{Key: k.For(u, c), Unit: u, Collection: c})
		}
	}
	return refs
}

// Parse is the inverse of For. It fails for scalar keys and keys outside
// the prefix.
func (k Keys) Parse(key string) (Ref, bool) {
	rest, ok := strings.CutPrefix(key, k.Prefix+"_")
	if !ok {
		return Ref{}, false
	}
	for _, c := range GlobalCollections {
		if rest == string(c) {
			return Ref{Key: key, Collection: c}, true
		}
	}
	for _, c := range UnitCollections {
		if unit, ok := strings.CutSuffix(rest, "_"+string(c)); ok && unit != "" {
			return Ref{Key: key, Unit: core.StoreUnit(unit), Collection: c}, true
		}
	}
	return Ref{}, false
}
