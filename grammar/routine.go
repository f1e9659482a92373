package grammar

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/linkedhashset"
)

// assignRoutines builds the phase-2 and phase-3 worklists. Phase-3 discovery
// starts only after every phase-2 routine is known.
func (a *analysis) assignRoutines() {
	for _, prod := range a.g.Productions() {
		a.discoverPhase2(prod, prod.Body)
	}
	tracer().Debugf("%v phase-2 routines", len(a.phase2))

	b := newPhase3Builder(a)
	for _, r := range a.phase2 {
		b.register(r.Expansion, r.Amount)
	}
	b.run()
	a.phase3 = b.routines()
	tracer().Debugf("%v phase-3 routines", len(a.phase3))
}

func (a *analysis) discoverPhase2(prod *Production, id ExpansionID) {
	e := a.g.Expansion(id)
	switch e.Kind {
	case ExpansionKindChoice:
		collecting := true
		for _, alt := range e.Children {
			la := a.g.Expansion(alt).Lookahead
			if collecting {
				a.assignPhase2(prod, la, alt)
				if la.AlwaysSucceeds() {
					collecting = false
				}
			}
			a.discoverPhase2(prod, alt)
		}
	case ExpansionKindZeroOrOne, ExpansionKindZeroOrMore, ExpansionKindOneOrMore:
		a.discoverPhase2(prod, e.Body())
		if !e.Lookahead.AlwaysSucceeds() {
			a.assignPhase2(prod, e.Lookahead, e.Body())
		}
	case ExpansionKindSequence:
		for _, u := range e.Children {
			a.discoverPhase2(prod, u)
		}
	case ExpansionKindTryBlock:
		a.discoverPhase2(prod, e.Body())
	}
}

// assignPhase2 enqueues a routine scanning the nested expansion of a
// lookahead, or the governed expansion when no nested expansion is written.
func (a *analysis) assignPhase2(prod *Production, la *Lookahead, governed ExpansionID) {
	if !la.requiresPhase2Routine(a.opts.LookaheadLimit) {
		return
	}
	nested := la.Nested
	if nested.IsNil() {
		nested = governed
	}
	if a.attrs.phase2[nested] != "" {
		return
	}
	a.gensym++
	name := fmt.Sprintf("phase2_%v_%v_line_%v", a.gensym, prod.Name, a.g.Expansion(nested).Pos.Row)
	a.attrs.phase2[nested] = name
	a.attrs.phase3[nested] = strings.Replace(name, "phase2", "phase3", 1)
	a.phase2 = append(a.phase2, &LookaheadRoutine{
		Name:      name,
		Expansion: nested,
		Amount:    la.amount(a.opts.LookaheadLimit),
	})
}

// phase3Builder runs the phase-3 worklist. An expansion is queued again only
// when it is requested with an amount larger than any earlier request.
type phase3Builder struct {
	a *analysis

	// queue holds the ExpansionIDs to be processed along with the amount
	// requested when they were queued.
	queue    *arraylist.List
	recorded map[ExpansionID]bool
}

type phase3Entry struct {
	exp    ExpansionID
	amount int
}

func newPhase3Builder(a *analysis) *phase3Builder {
	return &phase3Builder{
		a:        a,
		queue:    arraylist.New(),
		recorded: map[ExpansionID]bool{},
	}
}

func (b *phase3Builder) register(id ExpansionID, amount int) {
	attrs := b.a.attrs
	if attrs.phase3[id] == "" {
		b.a.gensym++
		attrs.phase3[id] = fmt.Sprintf("phase3R_%v", b.a.gensym)
	}
	if b.recorded[id] && attrs.phase3Amount[id] >= amount {
		return
	}
	b.recorded[id] = true
	attrs.phase3Amount[id] = amount
	b.queue.Add(&phase3Entry{
		exp:    id,
		amount: amount,
	})
}

func (b *phase3Builder) run() {
	for i := 0; i < b.queue.Size(); i++ {
		v, _ := b.queue.Get(i)
		entry := v.(*phase3Entry)
		b.visit(entry.exp, entry.amount)
	}
}

func (b *phase3Builder) visit(id ExpansionID, amount int) {
	e := b.a.g.Expansion(id)
	switch e.Kind {
	case ExpansionKindNonTerminal:
		prod, ok := b.a.g.ProductionByName(e.Name)
		if !ok || b.a.attrs.phase2[prod.Body] != "" {
			return
		}
		b.register(prod.Body, amount)
	case ExpansionKindChoice:
		for _, alt := range e.Children {
			b.register(alt, amount)
		}
	case ExpansionKindSequence:
		for _, u := range e.Children {
			b.visit(u, amount)
			amount -= b.a.minimumSize(u)
			if amount <= 0 {
				break
			}
		}
	case ExpansionKindZeroOrOne, ExpansionKindZeroOrMore, ExpansionKindOneOrMore:
		b.register(e.Body(), amount)
	case ExpansionKindTryBlock:
		b.visit(e.Body(), amount)
	}
}

// routines lists every queued expansion once, in the order it was first
// queued, with the largest amount requested for it.
func (b *phase3Builder) routines() []*LookaheadRoutine {
	seen := linkedhashset.New()
	for _, v := range b.queue.Values() {
		seen.Add(v.(*phase3Entry).exp)
	}
	routines := make([]*LookaheadRoutine, 0, seen.Size())
	for _, v := range seen.Values() {
		id := v.(ExpansionID)
		routines = append(routines, &LookaheadRoutine{
			Name:      b.a.attrs.phase3[id],
			Expansion: id,
			Amount:    b.a.attrs.phase3Amount[id],
		})
	}
	return routines
}
