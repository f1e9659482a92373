package grammar

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/nihei9/lookahead/spec"
)

// Production is a named rule owning exactly one root expansion.
type Production struct {
	Name string
	Body ExpansionID
	Pos  spec.Position
}

// productionTable keeps productions in declaration order and answers lookups
// by name.
type productionTable struct {
	name2Prod *linkedhashmap.Map
}

func newProductionTable() *productionTable {
	return &productionTable{
		name2Prod: linkedhashmap.New(),
	}
}

// append adds a production and reports false when the name is taken.
func (t *productionTable) append(prod *Production) bool {
	if _, exist := t.name2Prod.Get(prod.Name); exist {
		return false
	}
	t.name2Prod.Put(prod.Name, prod)
	return true
}

func (t *productionTable) findByName(name string) (*Production, bool) {
	v, ok := t.name2Prod.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*Production), true
}

func (t *productionTable) getAll() []*Production {
	prods := make([]*Production, 0, t.name2Prod.Size())
	it := t.name2Prod.Iterator()
	for it.Next() {
		prods = append(prods, it.Value().(*Production))
	}
	return prods
}

func (t *productionTable) size() int {
	return t.name2Prod.Size()
}
