package microcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueSatisfiesDesignRules(t *testing.T) {
	set := NewInstructionSet()
	require.NoError(t, set.Validate())
}

func TestEveryEntryEndsInCycleReset(t *testing.T) {
	set := NewInstructionSet()
	check := func(o *OpCode) {
		require.NoError(t, o.Err(), o.Name())
		require.True(t, o.Length() > 0, o.Name())
		require.True(t, o.Length() <= 63, o.Name())

		last := o.Length() - 1
		assert.Equalf(t, uint8(D1CycleReset), o.State(last, 0)&D1CycleReset, "%s missing cycle reset", o.Name())
		for i := 0; i < last; i++ {
			assert.Zerof(t, o.State(i, 0)&D1CycleReset, "%s early cycle reset at tick %d", o.Name(), i)
		}
	}

	for op := 0; op < 256; op++ {
		check(set.Lookup(uint8(op)))
		check(set.ROMEntry(uint8(op)))
	}
	for op := uint8(0x10); ; op += 0x20 {
		if o, ok := set.DoBranch(op); ok {
			check(o)
		}
		if op == 0xf0 {
			break
		}
	}
}

func TestUnassignedSlotsTrap(t *testing.T) {
	set := NewInstructionSet()

	// 0x03 is an unassigned slot; it runs the shared trap which asserts
	// the hardware breakpoint in its first tick.
	trap := set.Lookup(0x03)
	require.Same(t, set.Illegal(), trap)
	assert.Equal(t, uint8(D5IllegalOp), trap.State(0, 4))

	// 0x02 is wired to the trap explicitly.
	assert.Same(t, set.Illegal(), set.Lookup(0x02))

	// Assigned slots resolve to their own builders.
	assert.NotSame(t, set.Illegal(), set.Lookup(0xea))
	assert.Equal(t, "NOP", set.Lookup(0xea).Name())
	assert.Equal(t, "LDA #n", set.Lookup(0xa9).Name())
}

func TestBranchOverridesPresent(t *testing.T) {
	set := NewInstructionSet()
	for _, op := range []uint8{0x10, 0x30, 0x50, 0x70, 0x90, 0xb0, 0xd0, 0xf0} {
		latchSet, ok := set.DoBranch(op)
		require.Truef(t, ok, "missing branch override for %02X", op)
		latchClear := set.Lookup(op)
		assert.NotSame(t, latchClear, latchSet)

		// Both tracks share the flag extraction stub.
		for i := 0; i < 5; i++ {
			for d := 0; d < NumDecoders; d++ {
				assert.Equal(t, latchClear.State(i, d), latchSet.State(i, d))
			}
		}
	}

	_, ok := set.DoBranch(0xa9)
	assert.False(t, ok)
}

func TestROMEntryPrefersBranchOverride(t *testing.T) {
	set := NewInstructionSet()
	latchSet, ok := set.DoBranch(0xd0)
	require.True(t, ok)
	assert.Same(t, latchSet, set.ROMEntry(0xd0))
	assert.Same(t, set.Lookup(0xa9), set.ROMEntry(0xa9))
	assert.Same(t, set.Illegal(), set.ROMEntry(0x03))
}

func TestIRQCheckedOpcodesCarryTheLatch(t *testing.T) {
	set := NewInstructionSet()
	latched := func(o *OpCode) bool {
		for i := 0; i < o.Length(); i++ {
			if o.State(i, 4)&D5IRQStateLatch != 0 {
				return true
			}
		}
		return false
	}

	assert.True(t, latched(set.Lookup(0xa9)), "LDA #n")
	assert.True(t, latched(set.Lookup(0xea)), "NOP")
	assert.True(t, latched(set.Illegal()), "trap")
	// SEI, RTI and the interrupt entry pair end without an IRQ check.
	assert.False(t, latched(set.Lookup(0x78)), "SEI")
	assert.False(t, latched(set.Lookup(0x40)), "RTI")
	assert.False(t, latched(set.Lookup(0xfc)), "IRQ entry")
	assert.False(t, latched(set.Lookup(0x7f)), "IRQ entry 2")
}

func TestCataloguePrefixesReplayCleanly(t *testing.T) {
	set := NewInstructionSet()
	for _, op := range []uint8{0xa9, 0x20, 0x6c, 0xd1, 0xff, 0xfc, 0x24} {
		src := set.Lookup(op)
		dst := replay(t, src)
		require.NoErrorf(t, dst.Err(), "opcode %02X", op)
		sameTicks(t, src, dst)
	}
}
