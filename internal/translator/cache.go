package translator

import (
	"github.com/starford/graphol/internal/diagram"
	"github.com/starford/graphol/internal/owl"
)

type slotState uint8

const (
	slotUnresolved slotState = iota
	slotResolving
	slotResolved
)

type slot struct {
	state slotState
	expr  owl.Expression
}

// cache holds one slot per diagram node, indexed by node id. A slot is
// written once; a slot seen in the resolving state means the operand graph
// loops back on itself.
type cache struct {
	slots []slot
}

func newCache(nodes int) *cache {
	return &cache{slots: make([]slot, nodes)}
}

func (c *cache) slot(id diagram.NodeID) *slot { return &c.slots[id] }

func (c *cache) get(id diagram.NodeID) (owl.Expression, bool) {
	s := &c.slots[id]
	return s.expr, s.state == slotResolved
}
