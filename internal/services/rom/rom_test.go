package rom

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.td.teradata.com/sandbox/logic-rom/internal/config"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/logging"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/microcode"
)

func setupConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.CLIConfig = config.DefaultConfig()
	config.CLIConfig.Output.Directory = dir
	return dir
}

func slotBytes(t *testing.T, o *microcode.OpCode, decoder int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, o.Write(decoder, &buf))
	return buf.Bytes()
}

func TestDecoderImageLayout(t *testing.T) {
	dir := setupConfig(t)
	set := microcode.NewInstructionSet()
	require.NoError(t, set.Validate())

	e := New(logging.New())
	require.NoError(t, e.WriteDecoders(set))

	for decoder := 1; decoder <= microcode.NumDecoders; decoder++ {
		name := filepath.Join(dir, fmt.Sprintf(config.CLIConfig.Output.DecoderFile, decoder))
		bs, err := ioutil.ReadFile(name)
		require.NoError(t, err)
		require.Len(t, bs, 512*microcode.SlotSize)
	}

	bs, err := ioutil.ReadFile(filepath.Join(dir, "DecoderROM1.bin"))
	require.NoError(t, err)

	// The normal half carries each builder's decoder 1 column.
	nop := set.Lookup(0xea)
	slot := bs[0xea*microcode.SlotSize : (0xea+1)*microcode.SlotSize]
	assert.Equal(t, slotBytes(t, nop, 0), slot)

	// Unused tail ticks within a slot stay zero.
	for i := nop.Length(); i < microcode.SlotSize; i++ {
		assert.Equal(t, byte(0), slot[i])
	}

	// Unassigned slots carry the trap microcode.
	trap := bs[0x03*microcode.SlotSize : (0x03+1)*microcode.SlotSize]
	assert.Equal(t, slotBytes(t, set.Illegal(), 0), trap)

	// Branch slots carry the latch-set track in both halves.
	latchSet, ok := set.DoBranch(0xd0)
	require.True(t, ok)
	branch := bs[0xd0*microcode.SlotSize : (0xd0+1)*microcode.SlotSize]
	assert.Equal(t, slotBytes(t, latchSet, 0), branch)
}

func TestIRQHalfSharesLeadingTicks(t *testing.T) {
	dir := setupConfig(t)
	set := microcode.NewInstructionSet()

	e := New(logging.New())
	require.NoError(t, e.WriteDecoders(set))

	bs, err := ioutil.ReadFile(filepath.Join(dir, "DecoderROM1.bin"))
	require.NoError(t, err)

	half := 256 * microcode.SlotSize
	for _, op := range []int{0xa9, 0xea, 0x03} {
		normal := bs[op*microcode.SlotSize:][:microcode.SlotSize]
		irq := bs[half+op*microcode.SlotSize:][:microcode.SlotSize]
		assert.Equalf(t, normal[0], irq[0], "opcode %02X tick 0", op)
		assert.Equalf(t, byte(0), normal[microcode.SlotSize-1], "opcode %02X terminator", op)
		assert.Equalf(t, byte(0), irq[microcode.SlotSize-1], "opcode %02X terminator", op)
	}

	// Writing the IRQ half must not disturb the dispatch builders.
	require.NoError(t, set.Validate())
	require.NoError(t, e.WriteDecoders(set))
	again, err := ioutil.ReadFile(filepath.Join(dir, "DecoderROM1.bin"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(bs, again))
}

func TestALUImages(t *testing.T) {
	dir := setupConfig(t)

	e := New(logging.New())
	require.NoError(t, e.WriteALU())

	for _, name := range []string{"ALU1.bin", "ALU2.bin"} {
		bs, err := ioutil.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Len(t, bs, 65536)
	}
}
