package microcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImmediateLoad(t *testing.T) *OpCode {
	t.Helper()
	o := New("LDA #n")
	o.LoadImmediatePrimeALUPreInc(D4DBToR0)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	require.NoError(t, o.Err())
	return o
}

func TestRewriteEndsInCycleReset(t *testing.T) {
	o := newImmediateLoad(t)
	rewritten := o.Clone()
	rewritten.FindIRQLEAndReplace()
	require.NoError(t, rewritten.Err())

	last := rewritten.Length() - 1
	assert.Equal(t, uint8(D1CycleReset), rewritten.State(last, 0))
	for i := 0; i < last; i++ {
		assert.Zero(t, rewritten.State(i, 0)&D1CycleReset, "tick %d", i)
	}
}

func TestRewriteKeepsLeadingTicks(t *testing.T) {
	o := newImmediateLoad(t)
	rewritten := o.Clone()
	rewritten.FindIRQLEAndReplace()

	// The prefix up to and including the IRQ latch tick is untouched,
	// so tick 0 of the IRQ half matches tick 0 of the normal half.
	for d := 0; d < NumDecoders; d++ {
		assert.Equal(t, o.State(0, d), rewritten.State(0, d))
	}

	latch := -1
	for i := 0; i < rewritten.Length(); i++ {
		if rewritten.State(i, 4)&D5IRQStateLatch != 0 {
			latch = i
			break
		}
	}
	require.NotEqual(t, -1, latch)
	for i := 0; i <= latch; i++ {
		for d := 0; d < NumDecoders; d++ {
			assert.Equal(t, o.State(i, d), rewritten.State(i, d), "tick %d decoder %d", i, d)
		}
	}

	// The tail after the latch loads pseudo-opcode 0xfc instead of the
	// next instruction.
	fetch := -1
	for i := latch; i < rewritten.Length(); i++ {
		if rewritten.State(i, 0)&D1OpCodeLoad != 0 {
			fetch = i
			break
		}
	}
	require.NotEqual(t, -1, fetch)
	assert.Equal(t, uint8(D2ALUResToDB), rewritten.State(fetch, 1)&D2SourceMask)
}

func TestRewriteIsIdempotent(t *testing.T) {
	o := newImmediateLoad(t)
	once := o.Clone()
	once.FindIRQLEAndReplace()
	require.NoError(t, once.Err())

	twice := once.Clone()
	twice.FindIRQLEAndReplace()
	require.NoError(t, twice.Err())

	sameTicks(t, once, twice)
}

func TestRewriteWithoutLatchIsNoOp(t *testing.T) {
	o := New(t.Name())
	o.AddState(D1PCInc)
	o.AddState(D1CycleReset)
	require.NoError(t, o.Err())

	rewritten := o.Clone()
	rewritten.FindIRQLEAndReplace()
	sameTicks(t, o, rewritten)
}

func TestLongOpcodesSkipTheIRQCheck(t *testing.T) {
	// Opcodes already at 50 ticks or more when the tail is appended get
	// no IRQ latch, so the rewrite leaves them alone and they stay
	// inside the 63 tick ceiling.
	o := New("CMP (zp),Y")
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	o.LoadIndAddrWith6502WrapBug()
	o.AddRegisterToAddress(D2R2ToDB)
	o.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	o.CompareCommon(D2R0ToDB)
	o.FetchExecPreInc(true)
	require.NoError(t, o.Err())
	assert.True(t, o.Length() <= 63)

	for i := 0; i < o.Length(); i++ {
		assert.Zero(t, o.State(i, 4)&D5IRQStateLatch, "tick %d", i)
	}

	rewritten := o.Clone()
	rewritten.FindIRQLEAndReplace()
	require.NoError(t, rewritten.Err())
	sameTicks(t, o, rewritten)
}
