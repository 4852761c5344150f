package microcode

import (
	"fmt"
	"io"
)

// SlotSize is the number of ticks reserved per opcode in a decoder ROM.
// A builder may hold at most 63; the final slot remains zero as a
// terminator row.
const SlotSize = 64

const maxTicks = SlotSize - 1

// Tick is one clock edge's worth of control-line state, one byte per
// decoder. Immutable once appended to a builder.
type Tick [NumDecoders]uint8

// OpCode is a growing sequence of ticks for a single machine opcode.
// The first design-rule violation, capacity overflow or post-reset
// append sticks as the builder's error and further appends are ignored,
// so a whole catalogue can be built and checked in one pass.
type OpCode struct {
	name      string
	ticks     []Tick
	resetSeen bool
	strict    bool
	err       error
}

var strictTiming bool

// SetStrictTiming enables the tighter two-cycle stability rules for
// builders created afterwards.
func SetStrictTiming(enabled bool) {
	strictTiming = enabled
}

func New(name string) *OpCode {
	return &OpCode{name: name, strict: strictTiming}
}

func (o *OpCode) Name() string {
	return o.name
}

func (o *OpCode) Length() int {
	return len(o.ticks)
}

func (o *OpCode) Err() error {
	return o.err
}

// State returns the control word for one decoder at one tick.
func (o *OpCode) State(tick, decoder int) uint8 {
	return o.ticks[tick][decoder]
}

func (o *OpCode) fail(format string, a ...interface{}) {
	if o.err == nil {
		o.err = fmt.Errorf("%s: tick %d: %s", o.name, len(o.ticks)-1, fmt.Sprintf(format, a...))
	}
}

// AddState appends one tick. Up to five control words may be given, in
// decoder order; missing trailing words default to zero. A rejected
// tick is rolled back, so an erred builder still holds a valid prefix.
func (o *OpCode) AddState(states ...uint8) {
	if o.err != nil {
		return
	}
	if len(states) > NumDecoders {
		o.fail("too many decoder states (%d)", len(states))
		return
	}

	var tick Tick
	copy(tick[:], states)
	o.ticks = append(o.ticks, tick)

	if o.resetSeen {
		o.fail("state added after the cycle reset")
		o.ticks = o.ticks[:len(o.ticks)-1]
		return
	}

	if err := o.validateLast(); err != nil {
		o.fail("%s", err)
		o.ticks = o.ticks[:len(o.ticks)-1]
		return
	}

	if len(o.ticks) > maxTicks {
		o.fail("too many states (limit %d)", maxTicks)
		o.ticks = o.ticks[:len(o.ticks)-1]
		return
	}

	if tick[0]&D1CycleReset == D1CycleReset {
		o.resetSeen = true
	}
}

// Append replays every tick of the fragment through AddState, so the
// same validation applies at the join.
func (o *OpCode) Append(fragment *OpCode) {
	for _, tick := range fragment.ticks {
		o.AddState(tick[:]...)
	}
}

// Clone returns an independent copy, including any sticky error.
func (o *OpCode) Clone() *OpCode {
	dup := &OpCode{
		name:      o.name,
		ticks:     make([]Tick, len(o.ticks)),
		resetSeen: o.resetSeen,
		strict:    o.strict,
		err:       o.err,
	}
	copy(dup.ticks, o.ticks)
	return dup
}

// Write emits the builder's column for one decoder, zero padded to
// exactly SlotSize bytes.
func (o *OpCode) Write(decoder int, w io.Writer) error {
	var slot [SlotSize]byte
	for i, tick := range o.ticks {
		slot[i] = tick[decoder]
	}
	_, err := w.Write(slot[:])
	return err
}
