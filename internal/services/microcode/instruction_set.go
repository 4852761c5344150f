package microcode

import "fmt"

// InstructionSet is the full dispatch table for the processor: one
// builder per opcode byte, a sparse override table holding the taken
// track of the eight conditional branches, and the shared trap builder
// used for every unassigned slot.
type InstructionSet struct {
	opCodes  [256]*OpCode
	doBranch map[uint8]*OpCode
	illegal  *OpCode
}

// Lookup returns the builder for an opcode byte, falling back to the
// illegal-op trap for unassigned slots.
func (s *InstructionSet) Lookup(op uint8) *OpCode {
	if s.opCodes[op] != nil {
		return s.opCodes[op]
	}
	return s.illegal
}

// DoBranch returns the latch-set track for the conditional branch
// opcodes.
func (s *InstructionSet) DoBranch(op uint8) (*OpCode, bool) {
	o, ok := s.doBranch[op]
	return o, ok
}

// Illegal returns the shared trap builder.
func (s *InstructionSet) Illegal() *OpCode {
	return s.illegal
}

// ROMEntry selects the builder emitted into a decoder ROM slot: the
// branch override where one exists, else the dispatch entry, else the
// trap.
func (s *InstructionSet) ROMEntry(op uint8) *OpCode {
	if o, ok := s.doBranch[op]; ok {
		return o
	}
	return s.Lookup(op)
}

// Validate checks every reachable builder and reports the first sticky
// error together with its opcode slot.
func (s *InstructionSet) Validate() error {
	if err := s.illegal.Err(); err != nil {
		return fmt.Errorf("illegal-op trap: %v", err)
	}
	for op := 0; op < 256; op++ {
		if o := s.opCodes[op]; o != nil {
			if err := o.Err(); err != nil {
				return fmt.Errorf("opcode %02X: %v", op, err)
			}
		}
	}
	for op, o := range s.doBranch {
		if err := o.Err(); err != nil {
			return fmt.Errorf("opcode %02X (branch taken): %v", op, err)
		}
	}
	return nil
}

// Catalogue helpers. The addressing mode shapes repeat across the whole
// instruction set, so families are stamped out from these.

func newLoadImmediate(name string, d4 uint8) *OpCode {
	o := New(name)
	o.LoadImmediatePrimeALUPreInc(d4)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	return o
}

func newLoadZeroPage(name string, d4, d2Index uint8) *OpCode {
	o := New(name)
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	if d2Index != 0 {
		o.AddRegisterToZeroPageAddress(d2Index)
	}
	o.LoadRegisterFromMemory(d4, D1AddrToAddress, true)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	return o
}

func newLoadAbsolute(name string, d4, d2Index uint8) *OpCode {
	o := New(name)
	o.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	if d2Index != 0 {
		o.AddRegisterToAddress(d2Index)
	}
	o.LoadRegisterFromMemory(d4, D1AddrToAddress, true)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	return o
}

func newLoadIndX(name string, d4 uint8) *OpCode {
	o := New(name)
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	o.AddRegisterToZeroPageAddress(D2R1ToDB)
	o.LoadIndAddrWith6502WrapBug()
	o.LoadRegisterFromMemory(d4, D1AddrToAddress, true)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	return o
}

func newLoadIndY(name string, d4 uint8) *OpCode {
	o := New(name)
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	o.LoadIndAddrWith6502WrapBug()
	o.AddRegisterToAddress(D2R2ToDB)
	o.LoadRegisterFromMemory(d4, D1AddrToAddress, true)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	return o
}

func newStoreZeroPage(name string, d2Src, d2Index uint8) *OpCode {
	o := New(name)
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	if d2Index != 0 {
		o.AddRegisterToZeroPageAddress(d2Index)
	}
	o.WriteRegisterToMemory(d2Src, 0, D1AddrToAddress)
	o.FetchExecPreInc(true)
	return o
}

func newStoreAbsolute(name string, d2Src, d2Index uint8) *OpCode {
	o := New(name)
	o.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	if d2Index != 0 {
		o.AddRegisterToAddress(d2Index)
	}
	o.WriteRegisterToMemory(d2Src, 0, D1AddrToAddress)
	o.FetchExecPreInc(true)
	return o
}

func newStoreIndX(name string, d2Src uint8) *OpCode {
	o := New(name)
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	o.AddRegisterToZeroPageAddress(D2R1ToDB)
	o.LoadIndAddrWith6502WrapBug()
	o.WriteRegisterToMemory(d2Src, 0, D1AddrToAddress)
	o.FetchExecPreInc(true)
	return o
}

func newStoreIndY(name string, d2Src uint8) *OpCode {
	o := New(name)
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	o.LoadIndAddrWith6502WrapBug()
	o.AddRegisterToAddress(D2R2ToDB)
	o.WriteRegisterToMemory(d2Src, 0, D1AddrToAddress)
	o.FetchExecPreInc(true)
	return o
}

// accumulator ALU family: imm, zp, zp+X, abs, abs+X, abs+Y, (zp,X), (zp),Y
type aluFamily struct {
	imm, zp, zpx, abs, absx, absy, izx, izy *OpCode
}

func newALUFamily(mnemonic string, d3ALUOp uint8) aluFamily {
	f := aluFamily{}

	f.imm = New(mnemonic + " #n")
	f.imm.LoadImmediatePrimeALUPreInc(0)
	f.imm.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.imm.FetchExecPreInc(true)

	f.zp = New(mnemonic + " zp")
	f.zp.LoadZeroPageAddressFromPCMemoryWithPreInc()
	f.zp.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.zp.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.zp.FetchExecPreInc(true)

	f.zpx = New(mnemonic + " zp,X")
	f.zpx.LoadZeroPageAddressFromPCMemoryWithPreInc()
	f.zpx.AddRegisterToZeroPageAddress(D2R1ToDB)
	f.zpx.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.zpx.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.zpx.FetchExecPreInc(true)

	f.abs = New(mnemonic + " abs")
	f.abs.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	f.abs.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.abs.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.abs.FetchExecPreInc(true)

	f.absx = New(mnemonic + " abs,X")
	f.absx.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	f.absx.AddRegisterToAddress(D2R1ToDB)
	f.absx.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.absx.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.absx.FetchExecPreInc(true)

	f.absy = New(mnemonic + " abs,Y")
	f.absy.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	f.absy.AddRegisterToAddress(D2R2ToDB)
	f.absy.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.absy.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.absy.FetchExecPreInc(true)

	f.izx = New(mnemonic + " (zp,X)")
	f.izx.LoadZeroPageAddressFromPCMemoryWithPreInc()
	f.izx.AddRegisterToZeroPageAddress(D2R1ToDB)
	f.izx.LoadIndAddrWith6502WrapBug()
	f.izx.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.izx.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.izx.FetchExecPreInc(true)

	f.izy = New(mnemonic + " (zp),Y")
	f.izy.LoadZeroPageAddressFromPCMemoryWithPreInc()
	f.izy.LoadIndAddrWith6502WrapBug()
	f.izy.AddRegisterToAddress(D2R2ToDB)
	f.izy.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	f.izy.RegisterALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.izy.FetchExecPreInc(true)

	return f
}

// shift/rotate family: accumulator plus the read-modify-write modes,
// which bounce the value through temp R5
type shiftFamily struct {
	acc, zp, zpx, abs, absx *OpCode
}

func newShiftFamily(mnemonic string, d3ALUOp uint8) shiftFamily {
	f := shiftFamily{}

	f.acc = New(mnemonic + " A")
	f.acc.RegisterSimpleALUOp(D2R0ToDB, d3ALUOp, D4DBToR0)
	f.acc.FetchExecPreInc(true)

	rmw := func(o *OpCode) {
		o.LoadRegisterFromMemory(D4DBToR5, D1AddrToAddress, false)
		o.RegisterSimpleALUOp(D2R5ToDB, d3ALUOp, D4DBToR5)
		o.WriteRegisterToMemory(D2R5ToDB, 0, D1AddrToAddress)
		o.FetchExecPreInc(true)
	}

	f.zp = New(mnemonic + " zp")
	f.zp.LoadZeroPageAddressFromPCMemoryWithPreInc()
	rmw(f.zp)

	f.zpx = New(mnemonic + " zp,X")
	f.zpx.LoadZeroPageAddressFromPCMemoryWithPreInc()
	f.zpx.AddRegisterToZeroPageAddress(D2R1ToDB)
	rmw(f.zpx)

	f.abs = New(mnemonic + " abs")
	f.abs.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	rmw(f.abs)

	f.absx = New(mnemonic + " abs,X")
	f.absx.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	f.absx.AddRegisterToAddress(D2R1ToDB)
	rmw(f.absx)

	return f
}

func newTransfer(name string, d2Src, d4Dst uint8) *OpCode {
	o := New(name)
	o.TransferAToBPrimeALU(d2Src, d4Dst)
	o.LoadFlagsDoFlags()
	o.FetchExecPreInc(true)
	return o
}

func newRegisterStep(name string, d2 uint8, d3ALUOp uint8, d4 uint8) *OpCode {
	o := New(name)
	o.RegisterSimpleALUOp(d2, d3ALUOp, d4)
	o.FetchExecPreInc(true)
	return o
}

// incDecMemory appends the read-modify-write body shared by INC/DEC
// once the target address sits in the latches. The held op keeps the
// ALU output stable across the write strobe.
func incDecMemory(o *OpCode, d3ALUOp uint8, holdOp bool) {
	// Read from memory into ALU
	o.STToALU()
	o.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	// Write to memory the ALU result
	o.AddState(D1AddrToAddress, D2ALUResToDB, d3ALUOp)
	o.AddState(D1AddrToAddress, D2ALUResToDB, d3ALUOp|D3ALUResLoad)
	if holdOp {
		o.WriteRegisterToMemory(D2ALUResToDB, d3ALUOp, D1AddrToAddress)
	} else {
		o.WriteRegisterToMemory(D2ALUResToDB, 0, D1AddrToAddress)
	}
	o.LoadSTFromALUFlags()
	o.FetchExecPreInc(true)
}

// newExtractZFlag shifts the Z flag of the ST into the branch latch.
// The instruction then splits between the two decoder ROM tracks.
func newExtractZFlag() *OpCode {
	o := New("extract Z")
	// Read ST into ALU
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUOpLsr|D3ALUIn1Load|D3ALUIn2Load)
	// Shift Z flag into carry by doing two LSR
	o.AddState(0, D2ALUResToDB, D3ALUOpLsr|D3ALUResLoad)
	o.AddState(0, D2ALUResToDB, D3ALUOpLsr|D3ALUIn1Load|D3ALUIn2Load)
	// Second LSR copies the ALU carry to the branch latch
	o.AddState(0, 0, D3ALUOpLsr)
	o.AddState(0, D2DoBranchLoad, D3ALUOpLsr)
	o.AddState() // Blank state to allow sync
	return o
}

func newExtractCFlag() *OpCode {
	o := New("extract C")
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUIn1Load|D3ALUIn2Load)
	// Shift C flag into carry by doing one LSR
	o.AddState(0, 0, D3ALUOpLsr)
	o.AddState(0, D2DoBranchLoad, D3ALUOpLsr)
	o.AddState() // Blank state to allow sync
	return o
}

func newExtractNFlag() *OpCode {
	o := New("extract N")
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUIn1Load|D3ALUIn2Load)
	// Shift N flag into carry by doing one LSL
	o.AddState(0, 0, D3ALUOpLsl)
	o.AddState(0, D2DoBranchLoad, D3ALUOpLsl)
	o.AddState() // Blank state to allow sync
	return o
}

func newExtractVFlag() *OpCode {
	o := New("extract V")
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	// Shift V flag into carry by doing two LSL
	o.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad)
	o.AddState(0, D2ALUResToDB)
	o.AddState(0, D2ALUResToDB, D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpLsl)
	o.AddState(0, D2DoBranchLoad, D3ALUOpLsl)
	o.AddState() // Blank state to allow sync
	return o
}

// newBranchPair builds both decoder tracks of a conditional branch:
// the one followed when the branch latch is clear and the one followed
// when it is set. Which of the two takes the branch depends on the
// condition's sense.
func newBranchPair(name string, stub *OpCode, takeOnSet bool) (latchClear, latchSet *OpCode) {
	clear := New(name)
	clear.Append(stub)
	set := New(name + " (latch set)")
	set.Append(stub)
	if takeOnSet {
		clear.SkipBranch()
		set.TakeBranch()
		return clear, set
	}
	clear.TakeBranch()
	set.SkipBranch()
	return clear, set
}

// setInterruptDisable calculates 1 << 2 through temp R5 and ORs it into
// the ST.
func setInterruptDisable(o *OpCode) {
	// Get 1 (ALU inc #0) to temp R5
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load|D3ALUIn3Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad, D4DBToR5)

	// Calculate 1 << 2 using the ALU into temp R5
	o.AddState(0, D2R5ToDB)
	o.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR5)

	o.AddState(0, D2R5ToDB)
	o.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR5)

	// Now ST OR 4 back into ST
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUIn1Load)
	o.AddState(0, D2R5ToDB)
	o.AddState(0, D2R5ToDB, D3ALUOpOr|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpOr|D3ALUResLoad, D4DBToST)
}

// NewInstructionSet builds every opcode of the catalogue and wires the
// dispatch tables.
func NewInstructionSet() *InstructionSet {
	s := &InstructionSet{doBranch: map[uint8]*OpCode{}}

	// An opcode that deliberately causes a hardware breakpoint, to trap
	// unimplemented opcodes.
	opIllegal := New("illegal op")
	opIllegal.AddState(0, 0, 0, 0, D5IllegalOp)
	opIllegal.AddState()
	opIllegal.FetchExecPreInc(true)
	s.illegal = opIllegal

	opNOP := New("NOP")
	opNOP.FetchExecPreInc(true)

	// Loads and stores
	opLDAImmediate := newLoadImmediate("LDA #n", D4DBToR0)
	opLDXImmediate := newLoadImmediate("LDX #n", D4DBToR1)
	opLDYImmediate := newLoadImmediate("LDY #n", D4DBToR2)

	opLDAZP := newLoadZeroPage("LDA zp", D4DBToR0, 0)
	opLDAZPX := newLoadZeroPage("LDA zp,X", D4DBToR0, D2R1ToDB)
	opLDAAbs := newLoadAbsolute("LDA abs", D4DBToR0, 0)
	opLDAAbsX := newLoadAbsolute("LDA abs,X", D4DBToR0, D2R1ToDB)
	opLDAAbsY := newLoadAbsolute("LDA abs,Y", D4DBToR0, D2R2ToDB)
	opLDAIndX := newLoadIndX("LDA (zp,X)", D4DBToR0)
	opLDAIndY := newLoadIndY("LDA (zp),Y", D4DBToR0)

	opLDXZP := newLoadZeroPage("LDX zp", D4DBToR1, 0)
	opLDXZPY := newLoadZeroPage("LDX zp,Y", D4DBToR1, D2R2ToDB)
	opLDXAbs := newLoadAbsolute("LDX abs", D4DBToR1, 0)
	opLDXAbsY := newLoadAbsolute("LDX abs,Y", D4DBToR1, D2R2ToDB)

	opLDYZP := newLoadZeroPage("LDY zp", D4DBToR2, 0)
	opLDYZPX := newLoadZeroPage("LDY zp,X", D4DBToR2, D2R1ToDB)
	opLDYAbs := newLoadAbsolute("LDY abs", D4DBToR2, 0)
	opLDYAbsX := newLoadAbsolute("LDY abs,X", D4DBToR2, D2R1ToDB)

	opSTAZP := newStoreZeroPage("STA zp", D2R0ToDB, 0)
	opSTAZPX := newStoreZeroPage("STA zp,X", D2R0ToDB, D2R1ToDB)
	opSTAAbs := newStoreAbsolute("STA abs", D2R0ToDB, 0)
	opSTAAbsX := newStoreAbsolute("STA abs,X", D2R0ToDB, D2R1ToDB)
	opSTAAbsY := newStoreAbsolute("STA abs,Y", D2R0ToDB, D2R2ToDB)
	opSTAIndX := newStoreIndX("STA (zp,X)", D2R0ToDB)
	opSTAIndY := newStoreIndY("STA (zp),Y", D2R0ToDB)

	opSTXZP := newStoreZeroPage("STX zp", D2R1ToDB, 0)
	opSTXZPY := newStoreZeroPage("STX zp,Y", D2R1ToDB, D2R2ToDB)
	opSTXAbs := newStoreAbsolute("STX abs", D2R1ToDB, 0)

	opSTYZP := newStoreZeroPage("STY zp", D2R2ToDB, 0)
	opSTYZPX := newStoreZeroPage("STY zp,X", D2R2ToDB, D2R1ToDB)
	opSTYAbs := newStoreAbsolute("STY abs", D2R2ToDB, 0)

	// Register transfers
	opTXA := newTransfer("TXA", D2R1ToDB, D4DBToR0)
	opTAX := newTransfer("TAX", D2R0ToDB, D4DBToR1)
	opTYA := newTransfer("TYA", D2R2ToDB, D4DBToR0)
	opTAY := newTransfer("TAY", D2R0ToDB, D4DBToR2)
	opTXS := newTransfer("TXS", D2R1ToDB, D4DBToR3)
	opTSX := newTransfer("TSX", D2R3ToDB, D4DBToR1)

	// Jumps
	opJMPAddr := New("JMP abs")
	opJMPAddr.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	// Load PC from the address fetched from memory. The D1PCInc doesn't
	// inc, it loads due to the D1PCLoad.
	opJMPAddr.AddState(D1PCLoad)
	opJMPAddr.AddState(D1PCLoad | D1PCInc)
	opJMPAddr.AddState()
	opJMPAddr.FetchExec(true)

	opJMPIndAddr := New("JMP (abs)")
	opJMPIndAddr.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	opJMPIndAddr.LoadIndAddrWith6502WrapBug()
	opJMPIndAddr.AddState(D1PCLoad)
	opJMPIndAddr.AddState(D1PCLoad | D1PCInc)
	opJMPIndAddr.AddState()
	opJMPIndAddr.FetchExec(true)

	opJSRAddr := New("JSR abs")
	opJSRAddr.AddState(D1PCInc)
	// Proceed to load the memory into the temp lo R5
	opJSRAddr.LoadRegisterFromMemory(D4DBToR5, D1PCToAddress, false)
	opJSRAddr.AddState(D1PCInc)
	opJSRAddr.AddState()
	// Now store the PC hi then lo onto the stack.
	// First SP hi into the address latch
	opJSRAddr.AddState(0, D2R4ToDB)
	opJSRAddr.AddState(D1AddrHLoad, D2R4ToDB)
	// Loading the SP lo also prepares the ALU to dec the lo SP value
	opJSRAddr.AddState(0, D2R3ToDB)
	opJSRAddr.AddState(D1AddrLLoad, D2R3ToDB, D3ALUIn1Load|D3ALUIn2Load)
	// Get PC hi to temp R6 and push onto stack
	opJSRAddr.AddState(D1PCToAddress, D2AddrWHToDB, 0, D4DBToR6)
	opJSRAddr.WriteRegisterToMemory(D2R6ToDB, 0, D1AddrToAddress)
	// Dec lo SP and load into addr lo
	opJSRAddr.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	opJSRAddr.AddState(0, D2R3ToDB)
	opJSRAddr.AddState(D1AddrLLoad, D2R3ToDB, D3ALUIn1Load|D3ALUIn2Load)
	// Get PC lo to temp R6 and push onto stack
	opJSRAddr.AddState(D1PCToAddress, D2AddrWLToDB, 0, D4DBToR6)
	opJSRAddr.WriteRegisterToMemory(D2R6ToDB, 0, D1AddrToAddress)
	// Dec lo SP
	opJSRAddr.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	// Load PC from address fetched from temp R5 and current memory
	opJSRAddr.AddState(0, D2R5ToDB)
	opJSRAddr.AddState(D1AddrLLoad, D2R5ToDB)
	opJSRAddr.LoadRegisterFromMemory(0, D1AddrHLoad|D1PCToAddress, false)
	opJSRAddr.AddState(D1PCLoad)
	opJSRAddr.AddState(D1PCLoad | D1PCInc)
	opJSRAddr.AddState()
	opJSRAddr.FetchExec(true)

	opRTS := New("RTS")
	// First load SP lo/hi into addr lo/hi then load the PC with this
	// address, using the fact that the PC can auto increment.
	opRTS.AddState(0, D2R3ToDB)
	opRTS.AddState(D1AddrLLoad, D2R3ToDB)
	opRTS.AddState(0, D2R4ToDB)
	opRTS.AddState(D1AddrHLoad, D2R4ToDB)
	opRTS.AddState(D1PCLoad)
	opRTS.AddState(D1PCLoad | D1PCInc)
	opRTS.AddState()
	// Now pull the contents of the SP into addr lo/hi for eventual PC load
	opRTS.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	// Store the PC lo (which is pretending to be the SP lo) back to the
	// real SP lo. The SP hi doesn't change.
	opRTS.AddState(D1PCToAddress, D2AddrWLToDB, 0, D4DBToR3)
	// Finally load the PC with the return address (pushed -1)
	opRTS.AddState(D1PCLoad)
	opRTS.AddState(D1PCLoad | D1PCInc)
	opRTS.AddState()
	opRTS.FetchExecPreInc(true)

	// Stack ops
	opPHA := New("PHA")
	opPHA.AddState(0, D2R3ToDB)
	opPHA.AddState(D1AddrLLoad, D2R3ToDB, D3ALUIn1Load|D3ALUIn2Load)
	opPHA.AddState(0, D2R4ToDB)
	opPHA.AddState(D1AddrHLoad, D2R4ToDB)
	opPHA.WriteRegisterToMemory(D2R0ToDB, 0, D1AddrToAddress)
	// Dec lo SP
	opPHA.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	opPHA.FetchExecPreInc(true)

	opPLA := New("PLA")
	// Inc lo SP through the ALU
	opPLA.AddState(0, D2R3ToDB)
	opPLA.AddState(0, D2R3ToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load)
	opPLA.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad, D4DBToR3)
	// Load SP into addr
	opPLA.AddState(0, D2R3ToDB)
	opPLA.AddState(D1AddrLLoad, D2R3ToDB)
	opPLA.AddState(0, D2R4ToDB)
	opPLA.AddState(D1AddrHLoad, D2R4ToDB)
	opPLA.LoadRegisterFromMemory(D4DBToR0, D1AddrToAddress, true)
	opPLA.LoadFlagsDoFlags()
	opPLA.FetchExecPreInc(true)

	opPHP := New("PHP")
	opPHP.AddState(0, D2R3ToDB)
	opPHP.AddState(D1AddrLLoad, D2R3ToDB, D3ALUIn1Load|D3ALUIn2Load)
	opPHP.AddState(0, D2R4ToDB)
	opPHP.AddState(D1AddrHLoad, D2R4ToDB)
	opPHP.WriteRegisterToMemory(D2STToDB, 0, D1AddrToAddress)
	// Dec lo SP
	opPHP.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	opPHP.FetchExecPreInc(true)

	opPLP := New("PLP")
	opPLP.AddState(0, D2R3ToDB)
	opPLP.AddState(0, D2R3ToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load)
	opPLP.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad, D4DBToR3)
	opPLP.AddState(0, D2R3ToDB)
	opPLP.AddState(D1AddrLLoad, D2R3ToDB)
	opPLP.AddState(0, D2R4ToDB)
	opPLP.AddState(D1AddrHLoad, D2R4ToDB)
	opPLP.LoadRegisterFromMemory(D4DBToST, D1AddrToAddress, false)
	opPLP.FetchExecPreInc(true)

	// Memory increment/decrement
	opINCAddr := New("INC abs")
	opINCAddr.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	incDecMemory(opINCAddr, D3ALUOpInc, true)

	opINCAddrX := New("INC abs,X")
	opINCAddrX.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	opINCAddrX.AddRegisterToAddress(D2R1ToDB)
	incDecMemory(opINCAddrX, D3ALUOpInc, true)

	opINCZP := New("INC zp")
	opINCZP.LoadZeroPageAddressFromPCMemoryWithPreInc()
	incDecMemory(opINCZP, D3ALUOpInc, true)

	opINCZPX := New("INC zp,X")
	opINCZPX.LoadZeroPageAddressFromPCMemoryWithPreInc()
	opINCZPX.AddRegisterToZeroPageAddress(D2R1ToDB)
	incDecMemory(opINCZPX, D3ALUOpInc, false)

	opDECAddr := New("DEC abs")
	opDECAddr.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	incDecMemory(opDECAddr, D3ALUOpDec, true)

	opDECAddrX := New("DEC abs,X")
	opDECAddrX.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	opDECAddrX.AddRegisterToAddress(D2R1ToDB)
	incDecMemory(opDECAddrX, D3ALUOpDec, true)

	opDECZP := New("DEC zp")
	opDECZP.LoadZeroPageAddressFromPCMemoryWithPreInc()
	incDecMemory(opDECZP, D3ALUOpDec, true)

	opDECZPX := New("DEC zp,X")
	opDECZPX.LoadZeroPageAddressFromPCMemoryWithPreInc()
	opDECZPX.AddRegisterToZeroPageAddress(D2R1ToDB)
	incDecMemory(opDECZPX, D3ALUOpDec, true)

	// BIT
	opBITZP := New("BIT zp")
	opBITZP.LoadZeroPageAddressFromPCMemoryWithPreInc()
	opBITZP.CommonBITOpcode()

	opBITAbs := New("BIT abs")
	opBITAbs.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	opBITAbs.CommonBITOpcode()

	// Register steps
	opINX := newRegisterStep("INX", D2R1ToDB, D3ALUOpInc, D4DBToR1)
	opINY := newRegisterStep("INY", D2R2ToDB, D3ALUOpInc, D4DBToR2)
	opDEX := newRegisterStep("DEX", D2R1ToDB, D3ALUOpDec, D4DBToR1)
	opDEY := newRegisterStep("DEY", D2R2ToDB, D3ALUOpDec, D4DBToR2)

	// Shifts and rotates
	asl := newShiftFamily("ASL", D3ALUOpLsl)
	rol := newShiftFamily("ROL", D3ALUOpRol)
	lsr := newShiftFamily("LSR", D3ALUOpLsr)
	ror := newShiftFamily("ROR", D3ALUOpRor)

	// Compares
	opCMPImmediate := New("CMP #n")
	opCMPImmediate.CompareRegisterWithImmediate(D2R0ToDB)
	opCMPImmediate.FetchExecPreInc(true)

	opCMPZP := New("CMP zp")
	opCMPZP.CompareRegisterWithZeroPageAddrPlusRegister(D2R0ToDB, 0)
	opCMPZP.FetchExecPreInc(true)

	opCMPZPX := New("CMP zp,X")
	opCMPZPX.CompareRegisterWithZeroPageAddrPlusRegister(D2R0ToDB, D2R1ToDB)
	opCMPZPX.FetchExecPreInc(true)

	opCMPAbs := New("CMP abs")
	opCMPAbs.CompareRegisterWithAddrPlusRegister(D2R0ToDB, 0)
	opCMPAbs.FetchExecPreInc(true)

	opCMPAbsX := New("CMP abs,X")
	opCMPAbsX.CompareRegisterWithAddrPlusRegister(D2R0ToDB, D2R1ToDB)
	opCMPAbsX.FetchExecPreInc(true)

	opCMPAbsY := New("CMP abs,Y")
	opCMPAbsY.CompareRegisterWithAddrPlusRegister(D2R0ToDB, D2R2ToDB)
	opCMPAbsY.FetchExecPreInc(true)

	// Runs close to the 63 tick ceiling; the validator reports rather
	// than silently overflows if it grows.
	opCMPIndY := New("CMP (zp),Y")
	opCMPIndY.LoadZeroPageAddressFromPCMemoryWithPreInc()
	opCMPIndY.LoadIndAddrWith6502WrapBug()
	opCMPIndY.AddRegisterToAddress(D2R2ToDB)
	opCMPIndY.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	opCMPIndY.CompareCommon(D2R0ToDB)
	opCMPIndY.FetchExecPreInc(true)

	opCMPIndX := New("CMP (zp,X)")
	opCMPIndX.LoadZeroPageAddressFromPCMemoryWithPreInc()
	opCMPIndX.AddRegisterToZeroPageAddress(D2R1ToDB)
	opCMPIndX.LoadIndAddrWith6502WrapBug()
	opCMPIndX.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	opCMPIndX.CompareCommon(D2R0ToDB)
	opCMPIndX.FetchExecPreInc(true)

	opCPXImmediate := New("CPX #n")
	opCPXImmediate.CompareRegisterWithImmediate(D2R1ToDB)
	opCPXImmediate.FetchExecPreInc(true)

	opCPXZP := New("CPX zp")
	opCPXZP.CompareRegisterWithZeroPageAddrPlusRegister(D2R1ToDB, 0)
	opCPXZP.FetchExecPreInc(true)

	opCPXAbs := New("CPX abs")
	opCPXAbs.CompareRegisterWithAddrPlusRegister(D2R1ToDB, 0)
	opCPXAbs.FetchExecPreInc(true)

	opCPYImmediate := New("CPY #n")
	opCPYImmediate.CompareRegisterWithImmediate(D2R2ToDB)
	opCPYImmediate.FetchExecPreInc(true)

	opCPYZP := New("CPY zp")
	opCPYZP.CompareRegisterWithZeroPageAddrPlusRegister(D2R2ToDB, 0)
	opCPYZP.FetchExecPreInc(true)

	opCPYAbs := New("CPY abs")
	opCPYAbs.CompareRegisterWithAddrPlusRegister(D2R2ToDB, 0)
	opCPYAbs.FetchExecPreInc(true)

	// Branches: each appends a flag extraction stub then splits into a
	// taken and a not-taken track selected by the branch latch.
	extractZ := newExtractZFlag()
	extractC := newExtractCFlag()
	extractN := newExtractNFlag()
	extractV := newExtractVFlag()

	opBNE, opBNESet := newBranchPair("BNE rel", extractZ, false)
	opBEQ, opBEQSet := newBranchPair("BEQ rel", extractZ, true)
	opBCC, opBCCSet := newBranchPair("BCC rel", extractC, false)
	opBCS, opBCSSet := newBranchPair("BCS rel", extractC, true)
	opBPL, opBPLSet := newBranchPair("BPL rel", extractN, false)
	opBMI, opBMISet := newBranchPair("BMI rel", extractN, true)
	opBVC, opBVCSet := newBranchPair("BVC rel", extractV, false)
	opBVS, opBVSSet := newBranchPair("BVS rel", extractV, true)

	// Accumulator arithmetic and logic
	and := newALUFamily("AND", D3ALUOpAnd)
	ora := newALUFamily("ORA", D3ALUOpOr)
	eor := newALUFamily("EOR", D3ALUOpXor)
	adc := newALUFamily("ADC", D3ALUOpAdd)
	sbc := newALUFamily("SBC", D3ALUOpSub)

	// Flag operations
	opSEC := New("SEC")
	opSEC.AddState(0, D2STToDB)
	opSEC.AddState(0, D2STToDB, D3ALUIn1Load|D3ALUIn2Load)
	opSEC.AddState(0, D2ZeroToDB)
	opSEC.AddState(0, D2ZeroToDB, D3ALUOpSec|D3ALUIn3Load)
	opSEC.AddState(0, D2ALUResToDB, D3ALUOpSec|D3ALUResLoad, D4DBToST)
	opSEC.FetchExecPreInc(true)

	opCLC := New("CLC")
	opCLC.AddState(0, D2STToDB)
	opCLC.AddState(0, D2STToDB, D3ALUIn1Load|D3ALUIn2Load)
	opCLC.AddState(0, D2ZeroToDB)
	opCLC.AddState(0, D2ZeroToDB, D3ALUOpClc|D3ALUIn3Load)
	opCLC.AddState(0, D2ALUResToDB, D3ALUOpClc|D3ALUResLoad, D4DBToST)
	opCLC.FetchExecPreInc(true)

	opCLV := New("CLV")
	opCLV.AddState(0, D2STToDB)
	opCLV.AddState(0, D2STToDB, D3ALUIn1Load|D3ALUIn2Load)
	opCLV.AddState(0, D2ZeroToDB)
	opCLV.AddState(0, D2ZeroToDB, D3ALUOpClv|D3ALUIn3Load)
	opCLV.AddState(0, D2ALUResToDB, D3ALUOpClv|D3ALUResLoad, D4DBToST)
	opCLV.FetchExecPreInc(true)

	opCLI := New("CLI")
	// Get 1 (ALU inc #0) to temp R5
	opCLI.AddState(0, D2ZeroToDB)
	opCLI.AddState(0, D2ZeroToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load|D3ALUIn3Load)
	opCLI.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad, D4DBToR5)
	// Calculate 1 << 2 using the ALU into temp R5
	opCLI.AddState(0, D2R5ToDB)
	opCLI.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	opCLI.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR5)
	opCLI.AddState(0, D2R5ToDB)
	opCLI.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	opCLI.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR5)
	// Now 4 XOR with 0xff
	opCLI.AddState(0, D2R5ToDB)
	opCLI.AddState(0, D2R5ToDB, D3ALUIn1Load)
	opCLI.AddState(0, D2FFToDB)
	opCLI.AddState(0, D2FFToDB, D3ALUOpXor|D3ALUIn2Load)
	opCLI.AddState(0, D2ALUResToDB, D3ALUOpXor|D3ALUResLoad, D4DBToR5)
	// Now ST AND 0xfb back into ST
	opCLI.AddState(0, D2STToDB)
	opCLI.AddState(0, D2STToDB, D3ALUIn1Load)
	opCLI.AddState(0, D2R5ToDB)
	opCLI.AddState(0, D2R5ToDB, D3ALUOpAnd|D3ALUIn2Load)
	opCLI.AddState(0, D2ALUResToDB, D3ALUOpAnd|D3ALUResLoad, D4DBToST)
	opCLI.FetchExecPreInc(true)

	opSEI := New("SEI")
	setInterruptDisable(opSEI)
	opSEI.FetchExecPreInc(false) // No need for the IRQ check

	// RTI
	opRTI := New("RTI")
	// Load SP lo/hi into addr lo/hi then load the PC with this address.
	// The PC does not pre-inc when doing RTI.
	opRTI.AddState(0, D2R3ToDB)
	opRTI.AddState(D1AddrLLoad, D2R3ToDB)
	opRTI.AddState(0, D2R4ToDB)
	opRTI.AddState(D1AddrHLoad, D2R4ToDB)
	opRTI.AddState(D1PCLoad)
	opRTI.AddState(D1PCLoad | D1PCInc)
	opRTI.AddState()
	// Then pre-inc and load the ST
	opRTI.AddState(D1PCInc)
	opRTI.LoadRegisterFromMemory(D4DBToST, D1PCToAddress, false)
	// Pull the contents of the SP into addr lo/hi for the PC load. The
	// stack is the full descending type (pre inc on read).
	opRTI.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	opRTI.AddState(D1PCToAddress, D2AddrWLToDB, 0, D4DBToR3)
	// Load the PC with the return address (pushed by entering the IRQ)
	// and fetch exec without pre-inc.
	opRTI.AddState(D1PCLoad)
	opRTI.AddState(D1PCLoad | D1PCInc)
	opRTI.AddState()
	// No IRQ check: returning from an interrupt shouldn't immediately
	// take another one.
	opRTI.FetchExec(false)

	// A special case instruction that enters the IRQ operating level of
	// the processor.
	opStartIRQ := New("IRQ entry")
	// Stack the PC (actual address, so that RTI does a FetchExec
	// without pre-inc) then the ST.
	opStartIRQ.AddState(0, D2R4ToDB)
	opStartIRQ.AddState(D1AddrHLoad, D2R4ToDB)
	opStartIRQ.AddState(0, D2R3ToDB)
	opStartIRQ.AddState(D1AddrLLoad, D2R3ToDB, D3ALUIn1Load|D3ALUIn2Load)
	// Get PC hi to temp R6 and push onto stack
	opStartIRQ.AddState(D1PCToAddress, D2AddrWHToDB, 0, D4DBToR6)
	opStartIRQ.WriteRegisterToMemory(D2R6ToDB, 0, D1AddrToAddress)
	// Dec lo SP and load into addr lo
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpDec)
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	opStartIRQ.AddState(0, D2R3ToDB)
	opStartIRQ.AddState(D1AddrLLoad, D2R3ToDB, D3ALUIn1Load|D3ALUIn2Load)
	// Get PC lo to temp R6 and push onto stack
	opStartIRQ.AddState(D1PCToAddress, D2AddrWLToDB, 0, D4DBToR6)
	opStartIRQ.WriteRegisterToMemory(D2R6ToDB, 0, D1AddrToAddress)
	// Dec lo SP
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpDec)
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	// Now push the ST
	opStartIRQ.AddState(0, D2R3ToDB)
	opStartIRQ.AddState(D1AddrLLoad, D2R3ToDB, D3ALUOpDec|D3ALUIn1Load|D3ALUIn2Load)
	opStartIRQ.WriteRegisterToMemory(D2STToDB, 0, D1AddrToAddress)
	// Dec lo SP
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpDec)
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR3)
	// Interrupts disabled from here
	setInterruptDisable(opStartIRQ)
	// Chain into the second half by loading pseudo-opcode $7f ($ff >> 1)
	opStartIRQ.AddState(0, D2FFToDB)
	opStartIRQ.AddState(0, D2FFToDB, D3ALUIn1Load|D3ALUIn2Load)
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpLsr)
	opStartIRQ.AddState(D1OpCodeLoad, D2ALUResToDB, D3ALUOpLsr|D3ALUResLoad)
	opStartIRQ.AddState(0, D2ALUResToDB, D3ALUOpLsr)
	opStartIRQ.AddState(D1CycleReset)

	// Extension of the IRQ start code. Entering the IRQ operating level
	// has a lot of states.
	opStartIRQ2 := New("IRQ entry 2")
	// Load the IRQ vector and start executing from there.
	// 0xff to AddrH
	opStartIRQ2.AddState(0, D2FFToDB)
	opStartIRQ2.AddState(D1AddrHLoad, D2FFToDB, D3ALUOpDec|D3ALUIn1Load|D3ALUIn2Load)
	// Calc 0xfe and put into AddrL
	opStartIRQ2.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad)
	opStartIRQ2.AddState(D1AddrLLoad, D2ALUResToDB, D3ALUOpDec)
	// Load into PC, remembering the load is actually done on the
	// positive edge
	opStartIRQ2.AddState(D1PCLoad)
	opStartIRQ2.AddState(D1PCLoad | D1PCInc)
	// $fffe is now in the PC; load the vector into the address lo and hi
	opStartIRQ2.LoadRegisterFromMemory(0, D1AddrLLoad|D1PCToAddress, false)
	opStartIRQ2.AddState(D1PCInc)
	opStartIRQ2.AddState()
	opStartIRQ2.LoadRegisterFromMemory(0, D1AddrHLoad|D1PCToAddress, false)
	opStartIRQ2.AddState(D1PCLoad)
	opStartIRQ2.AddState(D1PCLoad | D1PCInc)
	opStartIRQ2.AddState()
	opStartIRQ2.FetchExec(false) // No need for the IRQ check

	// A rather special case opcode that bootstraps the whole processor.
	// Under reset the decoders output 0xff, so this is opcode 0xff.
	opBoot := New("boot")
	opBoot.AddState()
	// A couple more zero states to let the clock settle after a reset
	opBoot.AddState()
	opBoot.AddState()
	// Get zero to ALU and status
	opBoot.AddState(0, D2ZeroToDB)
	opBoot.AddState(0, D2ZeroToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load|D3ALUIn3Load, D4DBToST)
	// Get 1 (ALU inc #0) to SP hi and temp R5
	opBoot.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad, D4DBToR4|D4DBToR5)
	// ALU ADD #0,#0 with carry clear to clear the branch latch. No need
	// for a result load since the branch logic loads from the input to
	// the output latch.
	opBoot.AddState(0, 0, D3ALUOpAdd)
	opBoot.AddState(0, D2DoBranchLoad, D3ALUOpAdd)
	// Calculate 1 << 2 using the ALU and set that for the status
	opBoot.AddState(0, D2R5ToDB)
	opBoot.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	opBoot.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR5)
	opBoot.AddState(0, D2R5ToDB)
	opBoot.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
	opBoot.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToST)
	// 0xff to AddrH, stack pointer lo and temp r0
	opBoot.AddState(0, D2FFToDB)
	opBoot.AddState(D1AddrHLoad, D2FFToDB, 0, D4DBToR0|D4DBToR3)
	opBoot.AddState(0, D2FFToDB)
	opBoot.AddState(0, D2FFToDB, D3ALUOpDec|D3ALUIn1Load|D3ALUIn2Load)
	// Calc 0xfe
	opBoot.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR0)
	opBoot.AddState(0, D2R0ToDB)
	opBoot.AddState(0, D2R0ToDB, D3ALUOpDec|D3ALUIn1Load|D3ALUIn2Load)
	// Calc 0xfd
	opBoot.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad, D4DBToR0)
	opBoot.AddState(0, D2R0ToDB)
	opBoot.AddState(0, D2R0ToDB, D3ALUOpDec|D3ALUIn1Load|D3ALUIn2Load)
	// Calc 0xfc
	opBoot.AddState(0, D2ALUResToDB, D3ALUOpDec|D3ALUResLoad)
	opBoot.AddState(D1AddrLLoad, D2ALUResToDB)
	// Load into PC, remembering the load is actually done on the
	// positive edge
	opBoot.AddState(D1PCLoad)
	opBoot.AddState(D1PCLoad | D1PCInc)
	// Get zero to the A,X,Y registers
	opBoot.AddState(0, D2ZeroToDB, 0, D4DBToR0|D4DBToR1|D4DBToR2)
	// $fffc is now in the PC; load the reset vector into addr lo and hi
	opBoot.LoadRegisterFromMemory(0, D1AddrLLoad|D1PCToAddress, false)
	opBoot.AddState(D1PCInc)
	opBoot.AddState()
	opBoot.LoadRegisterFromMemory(0, D1AddrHLoad|D1PCToAddress, false)
	// Load PC from the fetched address
	opBoot.AddState(D1PCLoad)
	opBoot.AddState(D1PCLoad | D1PCInc)
	opBoot.AddState()
	// Load the next opcode so we don't go cycling around this JAM
	// instruction
	opBoot.FetchExec(true)

	s.opCodes = [256]*OpCode{
		nil,             // 00    BRK
		ora.izx,         // 01    ORA (zp,X)
		opIllegal,       // 02  * HALT
		nil,             // 03  * ASL-ORA (zp,X)
		nil,             // 04  * NOP zp
		ora.zp,          // 05    ORA zp
		asl.zp,          // 06    ASL zp
		nil,             // 07  * ASL-ORA zp
		opPHP,           // 08    PHP
		ora.imm,         // 09    ORA #n
		asl.acc,         // 0A    ASL A
		nil,             // 0B  * AND #n/MOV b7->Cy
		nil,             // 0C  * NOP abs
		ora.abs,         // 0D    ORA abs
		asl.abs,         // 0E    ASL abs
		nil,             // 0F  * ASL-ORA abs
		opBPL,           // 10    BPL rel
		ora.izy,         // 11    ORA (zp),Y
		nil,             // 12  * HALT
		nil,             // 13  * ASL-ORA (zp),Y
		nil,             // 14  * NOP zp
		ora.zpx,         // 15    ORA zp,X
		asl.zpx,         // 16    ASL zp,X
		nil,             // 17  * ASL-ORA abs,X
		opCLC,           // 18    CLC
		ora.absy,        // 19    ORA abs,Y
		nil,             // 1A  * NOP
		nil,             // 1B  * ASL-ORA abs,Y
		nil,             // 1C  * NOP abs
		ora.absx,        // 1D    ORA abs,X
		asl.absx,        // 1E    ASL abs,X
		nil,             // 1F  * ASL-ORA abs,X
		opJSRAddr,       // 20    JSR abs
		and.izx,         // 21    AND (zp,X)
		nil,             // 22  * HALT
		nil,             // 23  * ROL-AND (zp,X)
		opBITZP,         // 24    BIT zp
		and.zp,          // 25    AND zp
		rol.zp,          // 26    ROL zp
		nil,             // 27  * ROL-AND zp
		opPLP,           // 28    PLP
		and.imm,         // 29    AND #n
		rol.acc,         // 2A    ROL A
		nil,             // 2B  * AND #n-MOV b7->Cy
		opBITAbs,        // 2C    BIT abs
		and.abs,         // 2D    AND abs
		rol.abs,         // 2E    ROL abs
		nil,             // 2F  * ROL-AND abs
		opBMI,           // 30    BMI rel
		and.izy,         // 31    AND (zp),Y
		nil,             // 32  * HALT
		nil,             // 33  * ROL-AND (zp),Y
		nil,             // 34  * NOP zp
		and.zpx,         // 35    AND zp,X
		rol.zpx,         // 36    ROL zp,X
		nil,             // 37  * ROL-AND zp,X
		opSEC,           // 38    SEC
		and.absy,        // 39    AND abs,Y
		nil,             // 3A  * NOP
		nil,             // 3B  * ROL-AND abs,Y
		nil,             // 3C  * NOP abs
		and.absx,        // 3D    AND abs,X
		rol.absx,        // 3E    ROL abs,X
		nil,             // 3F  * ROL-AND abs,X
		opRTI,           // 40    RTI
		eor.izx,         // 41    EOR (zp,X)
		nil,             // 42  * HALT
		nil,             // 43  * LSR-EOR (zp,X)
		nil,             // 44  * NOP zp
		eor.zp,          // 45    EOR zp
		lsr.zp,          // 46    LSR zp
		nil,             // 47  * LSR-EOR zp
		opPHA,           // 48    PHA
		eor.imm,         // 49    EOR #n
		lsr.acc,         // 4A    LSR A
		nil,             // 4B  * AND #n-LSR A
		opJMPAddr,       // 4C    JMP abs
		eor.abs,         // 4D    EOR abs
		lsr.abs,         // 4E    LSR abs
		nil,             // 4F  * LSR-EOR abs
		opBVC,           // 50    BVC rel
		eor.izy,         // 51    EOR (zp),Y
		nil,             // 52  * HALT
		nil,             // 53  * LSR-EOR (zp),Y
		nil,             // 54  * NOP zp
		eor.zpx,         // 55    EOR zp,X
		lsr.zpx,         // 56    LSR zp,X
		nil,             // 57  * LSR-EOR abs,X
		opCLI,           // 58    CLI
		eor.absy,        // 59    EOR abs,Y
		nil,             // 5A  * NOP
		nil,             // 5B  * LSR-EOR abs,Y
		nil,             // 5C  * NOP abs
		eor.absx,        // 5D    EOR abs,X
		lsr.absx,        // 5E    LSR abs,X
		nil,             // 5F  * LSR-EOR abs,X
		opRTS,           // 60    RTS
		adc.izx,         // 61    ADC (zp,X)
		nil,             // 62  * HALT
		nil,             // 63  * ROR-ADC (zp,X)
		nil,             // 64  * NOP zp
		adc.zp,          // 65    ADC zp
		ror.zp,          // 66    ROR zp
		nil,             // 67  * ROR-ADC zp
		opPLA,           // 68    PLA
		adc.imm,         // 69    ADC #n
		ror.acc,         // 6A    ROR A
		nil,             // 6B  * AND #n-ROR A
		opJMPIndAddr,    // 6C    JMP (abs)
		adc.abs,         // 6D    ADC abs
		ror.abs,         // 6E    ROR abs
		nil,             // 6F  * ROR-ADC abs
		opBVS,           // 70    BVS rel
		adc.izy,         // 71    ADC (zp),Y
		nil,             // 72  * HALT
		nil,             // 73  * ROR-ADC (zp),Y
		nil,             // 74  * NOP zp
		adc.zpx,         // 75    ADC zp,X
		ror.zpx,         // 76    ROR zp,X
		nil,             // 77  * ROR-ADC abs,X
		opSEI,           // 78    SEI
		adc.absy,        // 79    ADC abs,Y
		nil,             // 7A  * NOP
		nil,             // 7B  * ROR-ADC abs,Y
		nil,             // 7C  * NOP abs
		adc.absx,        // 7D    ADC abs,X
		ror.absx,        // 7E    ROR abs,X
		opStartIRQ2,     // 7F  * second half of the IRQ entry
		nil,             // 80  * NOP zp
		opSTAIndX,       // 81    STA (zp,X)
		nil,             // 82  * HALT
		nil,             // 83  * STA-STX (zp,X)
		opSTYZP,         // 84    STY zp
		opSTAZP,         // 85    STA zp
		opSTXZP,         // 86    STX zp
		nil,             // 87  * STA-STX zp
		opDEY,           // 88    DEY
		nil,             // 89  * NOP zp
		opTXA,           // 8A    TXA
		nil,             // 8B  * TXA-AND #n
		opSTYAbs,        // 8C    STY abs
		opSTAAbs,        // 8D    STA abs
		opSTXAbs,        // 8E    STX abs
		nil,             // 8F  * STA-STX abs
		opBCC,           // 90    BCC rel
		opSTAIndY,       // 91    STA (zp),Y
		nil,             // 92  * HALT
		nil,             // 93  * STA-STX (zp),Y
		opSTYZPX,        // 94    STY zp,X
		opSTAZPX,        // 95    STA zp,X
		opSTXZPY,        // 96    STX zp,Y
		nil,             // 97  * STA-STX zp,Y
		opTYA,           // 98    TYA
		opSTAAbsY,       // 99    STA abs,Y
		opTXS,           // 9A    TXS
		nil,             // 9B  * STA-STX abs,Y
		nil,             // 9C  * STA-STX abs,X
		opSTAAbsX,       // 9D    STA abs,X
		nil,             // 9E  * STA-STX abs,X
		nil,             // 9F  * STA-STX abs,X
		opLDYImmediate,  // A0    LDY #n
		opLDAIndX,       // A1    LDA (zp,X)
		opLDXImmediate,  // A2    LDX #n
		nil,             // A3  * LDA-LDX (zp,X)
		opLDYZP,         // A4    LDY zp
		opLDAZP,         // A5    LDA zp
		opLDXZP,         // A6    LDX zp
		nil,             // A7  * LDA-LDX zp
		opTAY,           // A8    TAY
		opLDAImmediate,  // A9    LDA #n
		opTAX,           // AA    TAX
		nil,             // AB  * LDA-LDX
		opLDYAbs,        // AC    LDY abs
		opLDAAbs,        // AD    LDA abs
		opLDXAbs,        // AE    LDX abs
		nil,             // AF  * LDA-LDX abs
		opBCS,           // B0    BCS rel
		opLDAIndY,       // B1    LDA (zp),Y
		nil,             // B2  * HALT
		nil,             // B3  * LDA-LDX (zp),Y
		opLDYZPX,        // B4    LDY zp,X
		opLDAZPX,        // B5    LDA zp,X
		opLDXZPY,        // B6    LDX zp,Y
		nil,             // B7  * LDA-LDX zp,Y
		opCLV,           // B8    CLV
		opLDAAbsY,       // B9    LDA abs,Y
		opTSX,           // BA    TSX
		nil,             // BB  * LDA-LDX abs,Y
		opLDYAbsX,       // BC    LDY abs,X
		opLDAAbsX,       // BD    LDA abs,X
		opLDXAbsY,       // BE    LDX abs,Y
		nil,             // BF  * LDA-LDX abs,Y
		opCPYImmediate,  // C0    CPY #n
		opCMPIndX,       // C1    CMP (zp,X)
		nil,             // C2  * HALT
		nil,             // C3  * DEC-CMP (zp,X)
		opCPYZP,         // C4    CPY zp
		opCMPZP,         // C5    CMP zp
		opDECZP,         // C6    DEC zp
		nil,             // C7  * DEC-CMP zp
		opINY,           // C8    INY
		opCMPImmediate,  // C9    CMP #n
		opDEX,           // CA    DEX
		nil,             // CB  * SBX #n
		opCPYAbs,        // CC    CPY abs
		opCMPAbs,        // CD    CMP abs
		opDECAddr,       // CE    DEC abs
		nil,             // CF  * DEC-CMP abs
		opBNE,           // D0    BNE rel
		opCMPIndY,       // D1    CMP (zp),Y
		nil,             // D2  * HALT
		nil,             // D3  * DEC-CMP (zp),Y
		nil,             // D4  * NOP zp
		opCMPZPX,        // D5    CMP zp,X
		opINCZPX,        // D6    DEC zp,X (carries the INC zp,X states)
		nil,             // D7  * DEC-CMP zp,X
		opNOP,           // D8    CLD (decimal mode unsupported)
		opCMPAbsY,       // D9    CMP abs,Y
		nil,             // DA  * NOP
		nil,             // DB  * DEC-CMP abs,Y
		nil,             // DC  * NOP abs
		opCMPAbsX,       // DD    CMP abs,X
		opDECAddrX,      // DE    DEC abs,X
		nil,             // DF  * DEC-CMP abs,X
		opCPXImmediate,  // E0    CPX #n
		sbc.izx,         // E1    SBC (zp,X)
		nil,             // E2  * HALT
		nil,             // E3  * INC-SBC (zp,X)
		opCPXZP,         // E4    CPX zp
		sbc.zp,          // E5    SBC zp
		opINCZP,         // E6    INC zp
		nil,             // E7  * INC-SBC zp
		opINX,           // E8    INX
		sbc.imm,         // E9    SBC #n
		opNOP,           // EA    NOP
		nil,             // EB  *? SBC #n
		opCPXAbs,        // EC    CPX abs
		sbc.abs,         // ED    SBC abs
		opINCAddr,       // EE    INC abs
		nil,             // EF  * INC-SBC abs
		opBEQ,           // F0    BEQ rel
		sbc.izy,         // F1    SBC (zp),Y
		nil,             // F2  * HALT
		nil,             // F3  * INC-SBC (zp),Y
		nil,             // F4  * NOP zp
		sbc.zpx,         // F5    SBC zp,X
		opINCZPX,        // F6    INC zp,X
		nil,             // F7  * INC-SBC zp,X
		opNOP,           // F8    SED (decimal mode unsupported)
		sbc.absy,        // F9    SBC abs,Y
		nil,             // FA  * NOP
		nil,             // FB  * INC-SBC abs,Y
		opStartIRQ,      // FC  * IRQ entry
		sbc.absx,        // FD    SBC abs,X
		opINCAddrX,      // FE    INC abs,X
		opBoot,          // FF  * boot
	}

	s.doBranch[0x10] = opBPLSet
	s.doBranch[0x30] = opBMISet
	s.doBranch[0x50] = opBVCSet
	s.doBranch[0x70] = opBVSSet
	s.doBranch[0x90] = opBCCSet
	s.doBranch[0xb0] = opBCSSet
	s.doBranch[0xd0] = opBNESet
	s.doBranch[0xf0] = opBEQSet

	return s
}
