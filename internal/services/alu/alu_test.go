package alu

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSizeAndDeterminism(t *testing.T) {
	alu1, alu2 := Tables()
	require.Len(t, alu1, TableSize)
	require.Len(t, alu2, TableSize)

	again1, again2 := Tables()
	assert.True(t, bytes.Equal(alu1, again1))
	assert.True(t, bytes.Equal(alu2, again2))
}

func TestAddressMatchesIterationOrder(t *testing.T) {
	// The generator streams bytes in address order, so the Address
	// formula and the loop nesting must agree.
	assert.Equal(t, 0, Address(0, 0, 0, 0))
	assert.Equal(t, 1, Address(0, 0, 0, 1))
	assert.Equal(t, 0x10, Address(0, 0, 1, 0))
	assert.Equal(t, 0x100, Address(0, 1, 0, 0))
	assert.Equal(t, 0x1000, Address(1, 0, 0, 0))
	assert.Equal(t, TableSize-1, Address(15, 15, 15, 15))
}

func TestAndProducesMaskedNibble(t *testing.T) {
	alu1, _ := Tables()
	for inFlags := uint8(0); inFlags < 16; inFlags++ {
		for j := uint8(0); j < 16; j++ {
			for i := uint8(0); i < 16; i++ {
				got := alu1[Address(inFlags, j, i, OpAnd)]
				assert.Equal(t, i&j, got&0xf)
			}
		}
	}
}

func TestAddWithoutCarry(t *testing.T) {
	alu1, alu2 := Tables()
	for j := uint8(0); j < 16; j++ {
		for i := uint8(0); i < 16; i++ {
			addr := Address(0, j, i, OpAdd)
			got := alu1[addr]
			sum := i + j
			assert.Equal(t, sum&0xf, got&0xf)
			assert.Equal(t, sum>>4&1, got>>4&1, "carry for %d+%d", i, j)
			// ADD is single pass per slice; both tables carry the same byte.
			assert.Equal(t, got, alu2[addr])
		}
	}
}

func TestAddCarryInAndZeroScenario(t *testing.T) {
	// 0xF plus carry wraps the nibble: result 0, carry and zero set.
	alu1, _ := Tables()
	got := alu1[Address(InFlagC, 0x0, 0xf, OpAdd)]
	assert.Equal(t, uint8(0), got&0xf)
	assert.NotZero(t, got&OutFlagC)
	assert.NotZero(t, got&OutFlagZ)
	assert.Zero(t, got&OutFlagN)
	assert.Zero(t, got&OutFlagV)
}

func TestAddSignedOverflow(t *testing.T) {
	alu1, _ := Tables()
	// 7 + 1 flips the nibble sign.
	assert.NotZero(t, alu1[Address(0, 1, 7, OpAdd)]&OutFlagV)
	// 8 + 8 flips back to positive.
	assert.NotZero(t, alu1[Address(0, 8, 8, OpAdd)]&OutFlagV)
	// Mixed signs can't overflow.
	assert.Zero(t, alu1[Address(0, 8, 7, OpAdd)]&OutFlagV)
}

func TestCmpZeroFlagTracksEquality(t *testing.T) {
	alu1, _ := Tables()
	for j := uint8(0); j < 16; j++ {
		for i := uint8(0); i < 16; i++ {
			got := alu1[Address(0, j, i, OpCmp)]
			if i == j {
				assert.NotZero(t, got&OutFlagZ, "%d cmp %d", i, j)
				assert.NotZero(t, got&Slice1Special)
			} else {
				assert.Zero(t, got&OutFlagZ, "%d cmp %d", i, j)
			}
		}
	}
}

func TestCmpSlice2InvertsCarry(t *testing.T) {
	_, alu2 := Tables()
	// 5 - 3 with no borrow chain: 6502 convention leaves carry set.
	assert.NotZero(t, alu2[Address(0, 3, 5, OpCmp)]&OutFlagC)
}

func TestSecDirectAndMaskModes(t *testing.T) {
	alu1, alu2 := Tables()

	// Direct mode: flag input zero sets bit 0 of the status nibble in
	// slice 1 and passes slice 2 through.
	addr := Address(0, 0, 0b0100, OpSec)
	assert.Equal(t, uint8(0b0101), alu1[addr])
	assert.Equal(t, uint8(0b0100), alu2[addr])

	// Mask mode: any non-zero flag input turns Sec into AND 0x02.
	addr = Address(InFlagC, 0, 0xf, OpSec)
	assert.Equal(t, uint8(0x02), alu1[addr])
	assert.Equal(t, uint8(0), alu2[addr])
}

func TestClcDirectAndMaskModes(t *testing.T) {
	alu1, alu2 := Tables()

	addr := Address(0, 0, 0b0101, OpClc)
	assert.Equal(t, uint8(0b0100), alu1[addr])
	assert.Equal(t, uint8(0b0101), alu2[addr])

	// Mask mode is AND 0x3d split across the slices.
	addr = Address(InFlagC, 0, 0xf, OpClc)
	assert.Equal(t, uint8(0xd), alu1[addr])
	assert.Equal(t, uint8(0x3), alu2[addr])
}

func TestClvMaskMode(t *testing.T) {
	alu1, alu2 := Tables()
	// Mask mode is AND 0xc0: nothing survives in the low nibble.
	addr := Address(InFlagC, 0, 0xf, OpClv)
	assert.Equal(t, uint8(0x0), alu1[addr])
	assert.Equal(t, uint8(0xc), alu2[addr])
}

func TestLsrInjectsSpecialIntoBitThree(t *testing.T) {
	alu1, _ := Tables()
	got := alu1[Address(InFlagSpecial, 0, 0b0000, OpLsr)]
	assert.Equal(t, uint8(0b1000), got&0xf)
	assert.Zero(t, got&OutFlagZ)
}

func TestLsrCarryChain(t *testing.T) {
	alu1, alu2 := Tables()
	// Bit 0 falling out of slice 1 raises its carry output.
	assert.NotZero(t, alu1[Address(0, 0, 0b0001, OpLsr)]&OutFlagC)
	assert.Zero(t, alu1[Address(0, 0, 0b0010, OpLsr)]&OutFlagC)
	// Slice 2 shifts plainly and preserves the carry input.
	got := alu2[Address(InFlagC, 0, 0b0110, OpLsr)]
	assert.Equal(t, uint8(0b0011), got&0xf)
	assert.NotZero(t, got&OutFlagC)
}

func TestRorRotatesCarryIn(t *testing.T) {
	_, alu2 := Tables()
	// Slice 2 rotates the carry input into bit 3.
	got := alu2[Address(InFlagC, 0, 0b0000, OpRor)]
	assert.Equal(t, uint8(0b1000), got&0xf)
}

func TestRolShiftsCarryIntoBitZero(t *testing.T) {
	alu1, _ := Tables()
	got := alu1[Address(InFlagC, 0, 0b0000, OpRol)]
	assert.Equal(t, uint8(0b0001), got&0xf)
}

func TestFlagsRecomputesZN(t *testing.T) {
	alu1, _ := Tables()

	got := alu1[Address(InFlagC|InFlagV, 0, 0, OpFlags)]
	assert.NotZero(t, got&OutFlagZ)
	assert.NotZero(t, got&OutFlagC)
	assert.NotZero(t, got&OutFlagV)
	assert.Zero(t, got&OutFlagN)

	got = alu1[Address(0, 0, 0b1000, OpFlags)]
	assert.NotZero(t, got&OutFlagN)
	assert.Zero(t, got&OutFlagZ)
	assert.Zero(t, got&OutFlagC)
}

func TestDecSignalsBorrowAsSpecial(t *testing.T) {
	alu1, alu2 := Tables()
	assert.NotZero(t, alu1[Address(0, 0, 0, OpDec)]&Slice1Special)
	assert.Zero(t, alu1[Address(0, 0, 5, OpDec)]&Slice1Special)

	// Slice 2 only decrements when the Special input is raised.
	assert.Equal(t, uint8(5), alu2[Address(0, 0, 5, OpDec)]&0xf)
	assert.Equal(t, uint8(4), alu2[Address(InFlagSpecial, 0, 5, OpDec)]&0xf)
}

func TestIncSignalsCarryAsSpecial(t *testing.T) {
	alu1, alu2 := Tables()
	assert.NotZero(t, alu1[Address(0, 0, 0xf, OpInc)]&Slice1Special)
	assert.Zero(t, alu1[Address(0, 0, 5, OpInc)]&Slice1Special)

	assert.Equal(t, uint8(5), alu2[Address(0, 0, 5, OpInc)]&0xf)
	assert.Equal(t, uint8(6), alu2[Address(InFlagSpecial, 0, 5, OpInc)]&0xf)
}
