package rom

import (
	"bufio"
	"fmt"
	"github.td.teradata.com/sandbox/logic-rom/internal/config"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/alu"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/logging"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/microcode"
	"os"
	"path/filepath"
)

const decoderCount = microcode.NumDecoders

// Emitter serialises the compiled instruction set and ALU tables into
// the seven ROM image files.
type Emitter struct {
	log     *logging.Log
	lengths [256]int
}

func New(log *logging.Log) *Emitter {
	return &Emitter{log: log}
}

// WriteDecoders emits the five decoder images. Each file holds 512
// slots of 64 bytes: slots 0-255 are the normal opcode variants, slots
// 256-511 the variants with the IRQ tail spliced in. The normal
// builders are never mutated; the IRQ half is produced from clones.
func (e *Emitter) WriteDecoders(set *microcode.InstructionSet) error {
	var normal, irq [256]*microcode.OpCode
	for op := 0; op < 256; op++ {
		normal[op] = set.ROMEntry(uint8(op))
		irq[op] = normal[op].Clone()
		irq[op].FindIRQLEAndReplace()

		e.lengths[op] = normal[op].Length()
		if irq[op].Length() > e.lengths[op] {
			e.lengths[op] = irq[op].Length()
		}
	}

	for decoder := 1; decoder <= decoderCount; decoder++ {
		if err := e.writeDecoder(decoder, &normal, &irq); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) writeDecoder(decoder int, normal, irq *[256]*microcode.OpCode) error {
	name := filepath.Join(config.CLIConfig.Output.Directory, fmt.Sprintf(config.CLIConfig.Output.DecoderFile, decoder))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for op := 0; op < 256; op++ {
		if err := normal[op].Write(decoder-1, w); err != nil {
			return err
		}
	}
	for op := 0; op < 256; op++ {
		if err := irq[op].Write(decoder-1, w); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	e.log.Infof("Wrote %s", name)
	return nil
}

// WriteALU emits both ALU slice images.
func (e *Emitter) WriteALU() error {
	alu1, alu2 := alu.Tables()
	for n, table := range [][]byte{alu1, alu2} {
		name := filepath.Join(config.CLIConfig.Output.Directory, fmt.Sprintf(config.CLIConfig.Output.ALUFile, n+1))
		f, err := os.Create(name)
		if err != nil {
			return err
		}

		w := bufio.NewWriter(f)
		if _, err := w.Write(table); err != nil {
			f.Close()
			return err
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		e.log.Infof("Wrote %s (%d bytes)", name, len(table))
	}
	return nil
}

// DumpLengths prints the per-opcode tick counts, eight to a row.
func (e *Emitter) DumpLengths() {
	for i := 0; i < 256; i += 8 {
		e.log.Infof("Opcode %02x : %2d %2d %2d %2d %2d %2d %2d %2d", i,
			e.lengths[i+0], e.lengths[i+1], e.lengths[i+2], e.lengths[i+3],
			e.lengths[i+4], e.lengths[i+5], e.lengths[i+6], e.lengths[i+7])
	}
}
