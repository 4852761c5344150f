package microcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replay(t *testing.T, src *OpCode) *OpCode {
	t.Helper()
	dst := New(src.Name())
	for i := 0; i < src.Length(); i++ {
		dst.AddState(src.State(i, 0), src.State(i, 1), src.State(i, 2), src.State(i, 3), src.State(i, 4))
	}
	return dst
}

func sameTicks(t *testing.T, a, b *OpCode) {
	t.Helper()
	require.Equal(t, a.Length(), b.Length())
	for i := 0; i < a.Length(); i++ {
		for d := 0; d < NumDecoders; d++ {
			require.Equalf(t, a.State(i, d), b.State(i, d), "tick %d decoder %d", i, d)
		}
	}
}

func TestAddStateDefaultsToZero(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(D1PCInc)
	require.NoError(t, o.Err())
	assert.Equal(t, 2, o.Length())
	for d := 0; d < NumDecoders; d++ {
		assert.Equal(t, uint8(0), o.State(0, d))
	}
	assert.Equal(t, uint8(D1PCInc), o.State(1, 0))
}

func TestOpCodeFetchRejectedInTickZero(t *testing.T) {
	o := New(t.Name())
	o.AddState(D1OpCodeLoad)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "opcode fetch in tick 0")
}

func TestIRQLatchRejectedInTickZero(t *testing.T) {
	o := New(t.Name())
	o.AddState(0, D2STToDB, 0, 0, D5IRQStateLatch)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "IRQ latch in tick 0")
}

func TestCycleResetOnlyOpcode(t *testing.T) {
	o := New(t.Name())
	o.AddState(D1CycleReset)
	require.NoError(t, o.Err())

	var buf bytes.Buffer
	require.NoError(t, o.Write(0, &buf))
	bs := buf.Bytes()
	require.Len(t, bs, SlotSize)
	assert.Equal(t, byte(D1CycleReset), bs[0])
	for i := 1; i < SlotSize; i++ {
		assert.Equal(t, byte(0), bs[i])
	}
}

func TestAddStateAfterCycleResetFails(t *testing.T) {
	o := New(t.Name())
	o.AddState(D1CycleReset)
	o.AddState()
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "after the cycle reset")
	assert.Equal(t, 1, o.Length())
}

func TestCapacityLimit(t *testing.T) {
	o := New(t.Name())
	for i := 0; i < 63; i++ {
		o.AddState()
	}
	require.NoError(t, o.Err())
	require.Equal(t, 63, o.Length())

	o.AddState()
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "too many states")
	assert.Equal(t, 63, o.Length())
}

func TestALUInputLoadNeedsStableBus(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(0, D2R0ToDB, D3ALUIn1Load)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "ALU input load without stable data bus")

	ok := New(t.Name())
	ok.AddState(0, D2R0ToDB)
	ok.AddState(0, D2R0ToDB, D3ALUIn1Load)
	require.NoError(t, ok.Err())
}

func TestALUInputLoadMayNotRepeat(t *testing.T) {
	o := New(t.Name())
	o.AddState(0, D2R0ToDB)
	o.AddState(0, D2R0ToDB, D3ALUIn1Load)
	o.AddState(0, D2R0ToDB, D3ALUIn1Load)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "repeated")
}

func TestAddressLatchLoadNeedsStableBus(t *testing.T) {
	o := New(t.Name())
	o.AddState(0, D2R3ToDB)
	o.AddState(D1AddrLLoad, D2R4ToDB)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "address latch load without stable data bus")
}

func TestEarlyResultLoadRejected(t *testing.T) {
	o := New(t.Name())
	o.AddState(0, 0, D3ALUOpAdd|D3ALUResLoad)
	o.AddState()
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "too early")
}

func TestConsecutiveResultLoadsRejected(t *testing.T) {
	o := New(t.Name())
	o.AddState(0, D2R0ToDB)
	o.AddState(0, D2R0ToDB, D3ALUOpAdd|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpAdd)
	o.AddState(0, 0, D3ALUOpAdd|D3ALUResLoad)
	require.NoError(t, o.Err())
	o.AddState(0, 0, D3ALUOpAdd|D3ALUResLoad)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "result load repeated")
}

func TestResultLoadNeedsStableOp(t *testing.T) {
	o := New(t.Name())
	o.AddState(0, D2R0ToDB)
	o.AddState(0, D2R0ToDB, D3ALUOpAdd|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpAdd)
	o.AddState(0, 0, D3ALUOpXor|D3ALUResLoad)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "without stable ALU op")
}

func TestOpcodeFetchMayNotRepeat(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(D1OpCodeLoad)
	o.AddState(D1OpCodeLoad)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "opcode fetch repeated")
}

func TestMemoryWriteAfterReadRejected(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(0, D2MemoryToDB)
	o.AddState(D1RAMWrite)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "write directly after")
}

func TestMemoryReadAfterWriteRejected(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(D1RAMWrite)
	o.AddState(0, D2MemoryToDB)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "read directly after")
}

func TestAddressBusStabilityAroundMemoryRead(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(D1PCToAddress)
	o.AddState(0, D2MemoryToDB)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "address bus not stable")
}

func TestPCLoadBeforePCToAddressRejected(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(D1PCLoad)
	o.AddState(D1PCToAddress)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "PC load conflicts")
}

func TestIRQLatchNeedsStatusOnBus(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(0, 0, 0, 0, D5IRQStateLatch)
	require.Error(t, o.Err())
	assert.Contains(t, o.Err().Error(), "IRQ latch without status")

	ok := New(t.Name())
	ok.AddState(0, D2STToDB)
	ok.AddState(0, D2STToDB, 0, 0, D5IRQStateLatch)
	require.NoError(t, ok.Err())
}

func TestStrictTimingCatchesFastResultLoad(t *testing.T) {
	SetStrictTiming(true)
	defer SetStrictTiming(false)

	o := New(t.Name())
	o.AddState()
	o.AddState(0, D2R0ToDB)
	o.AddState(0, D2R0ToDB, D3ALUOpAdd|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpAdd|D3ALUResLoad)
	require.Error(t, o.Err())
}

func TestRelaxedTimingAllowsFastResultLoad(t *testing.T) {
	o := New(t.Name())
	o.AddState()
	o.AddState(0, D2R0ToDB)
	o.AddState(0, D2R0ToDB, D3ALUOpAdd|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpAdd|D3ALUResLoad)
	require.NoError(t, o.Err())
}

func TestAppendMatchesReplay(t *testing.T) {
	fragment := New("fragment")
	fragment.AddState(0, D2R0ToDB)
	fragment.AddState(0, D2R0ToDB, D3ALUIn1Load|D3ALUIn2Load)
	require.NoError(t, fragment.Err())

	appended := New(t.Name())
	appended.AddState()
	appended.Append(fragment)

	replayed := New(t.Name())
	replayed.AddState()
	for i := 0; i < fragment.Length(); i++ {
		replayed.AddState(fragment.State(i, 0), fragment.State(i, 1), fragment.State(i, 2), fragment.State(i, 3), fragment.State(i, 4))
	}

	require.NoError(t, appended.Err())
	require.NoError(t, replayed.Err())
	sameTicks(t, appended, replayed)
}

func TestAppendOntoEmptyMatchesReplay(t *testing.T) {
	// Appending a fragment onto an empty builder must give the same
	// outcome and ticks as replaying it through AddState.
	fragment := New("fragment")
	fragment.AddState(0, D2R0ToDB)
	fragment.AddState(0, D2R0ToDB, D3ALUIn1Load)
	require.NoError(t, fragment.Err())

	appended := New(t.Name())
	appended.Append(fragment)

	replayed := New(t.Name())
	for i := 0; i < fragment.Length(); i++ {
		replayed.AddState(fragment.State(i, 0), fragment.State(i, 1), fragment.State(i, 2), fragment.State(i, 3), fragment.State(i, 4))
	}

	// The input load tick follows a stable bus, so both copies pass.
	require.Equal(t, appended.Err() == nil, replayed.Err() == nil)
	sameTicks(t, appended, replayed)
}

func TestAppendRejectsInvalidJoin(t *testing.T) {
	// Valid on its own, but reading memory directly after the prefix's
	// RAM write violates the anti-contention rule at the join.
	fragment := New("fragment")
	fragment.AddState(0, D2MemoryToDB)
	require.NoError(t, fragment.Err())

	appended := New(t.Name())
	appended.AddState()
	appended.AddState(D1RAMWrite)
	require.NoError(t, appended.Err())
	appended.Append(fragment)

	replayed := New(t.Name())
	replayed.AddState()
	replayed.AddState(D1RAMWrite)
	replayed.AddState(0, D2MemoryToDB)

	require.Error(t, appended.Err())
	require.Error(t, replayed.Err())
	assert.Equal(t, replayed.Err().Error(), appended.Err().Error())
}

func TestCloneIsIndependent(t *testing.T) {
	o := New(t.Name())
	o.AddState(D1PCInc)
	dup := o.Clone()
	dup.AddState(D1CycleReset)

	assert.Equal(t, 1, o.Length())
	assert.Equal(t, 2, dup.Length())
	require.NoError(t, o.Err())
	require.NoError(t, dup.Err())
}

func TestWritePadsSlot(t *testing.T) {
	o := New(t.Name())
	o.AddState(D1PCInc, D2R0ToDB, D3ALUOpAdd, D4DBToR0, D5IRQLineReset)
	o.AddState(D1CycleReset)

	for d := 0; d < NumDecoders; d++ {
		var buf bytes.Buffer
		require.NoError(t, o.Write(d, &buf))
		require.Len(t, buf.Bytes(), SlotSize)
		for i := o.Length(); i < SlotSize; i++ {
			assert.Equal(t, byte(0), buf.Bytes()[i])
		}
	}
}

func TestValidPrefixesStayValid(t *testing.T) {
	o := New(t.Name())
	o.LoadImmediatePrimeALUPreInc(D4DBToR0)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	require.NoError(t, o.Err())

	// Replaying tick by tick revalidates every prefix.
	dst := replay(t, o)
	require.NoError(t, dst.Err())
	sameTicks(t, o, dst)
}
