package microcode

// Composable tick-sequence helpers. Each appends a canonical fragment
// to the builder; the catalogue in instruction_set.go is written almost
// entirely in terms of these.

// FetchExec is the tail of every opcode: optionally latch the pending
// IRQ decision, load the next opcode from the PC address, reset the
// tick counter.
func (o *OpCode) FetchExec(doIRQCheck bool) {
	// If the opcode is quite short then we can do extra IRQ logic processing
	if doIRQCheck && o.Length() < 50 {
		// The latch load compares wantIRQ with the ST interrupt disable
		// flag in hardware, so the status has to sit on the data bus.
		o.AddState(0, D2STToDB)
		o.AddState(0, D2STToDB, 0, 0, D5IRQStateLatch)
		o.AddState() // Blank state to allow sync
	}

	// Must always be this end for every opcode
	o.LoadRegisterFromMemory(0, D1OpCodeLoad|D1PCToAddress, false)

	o.AddState(D1CycleReset)
}

func (o *OpCode) FetchExecPreInc(doIRQCheck bool) {
	o.AddState(D1PCInc)
	o.FetchExec(doIRQCheck)
}

// STToALU gets the ST into the ALU flag input.
func (o *OpCode) STToALU() {
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUIn3Load)
}

// LoadSTFromALUFlags loads the ST from the last ALU result flags.
func (o *OpCode) LoadSTFromALUFlags() {
	o.AddState(0, D2ALUTempSTToDB, 0, D4DBToST)
}

// LoadFlagsDoFlags loads flags into the ALU then recalculates the ZN
// flags from whatever is in the ALU input.
func (o *OpCode) LoadFlagsDoFlags() {
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUOpFlags|D3ALUIn3Load)
	o.AddState(0, D2ALUTempSTToDB, D3ALUOpFlags|D3ALUResLoad, D4DBToST)
}

// LoadImmediatePrimeALUPreInc also primes the ALU.
func (o *OpCode) LoadImmediatePrimeALUPreInc(d4Registers uint8) {
	o.AddState(D1PCInc)
	o.LoadRegisterFromMemory(d4Registers, D1PCToAddress, true)
}

func (o *OpCode) TransferAToBPrimeALU(d2A, d4B uint8) {
	o.AddState(0, d2A)
	o.AddState(0, d2A, D3ALUIn1Load|D3ALUIn2Load, d4B)
}

// LoadAbsoluteAddressFromPCMemoryWithPreInc is useful for absolute
// addressing opcodes.
func (o *OpCode) LoadAbsoluteAddressFromPCMemoryWithPreInc() {
	o.AddState(D1PCInc)
	// Proceed to load the memory into the address lo and hi
	o.LoadRegisterFromMemory(0, D1PCToAddress|D1AddrLLoad, false)

	o.AddState(D1PCInc)

	o.LoadRegisterFromMemory(0, D1PCToAddress|D1AddrHLoad, false)
}

// LoadZeroPageAddressFromPCMemoryWithPreInc is useful for zero page
// addressing opcodes.
func (o *OpCode) LoadZeroPageAddressFromPCMemoryWithPreInc() {
	o.AddState(D1PCInc)
	// Proceed to load the memory into the address lo
	o.LoadRegisterFromMemory(0, D1PCToAddress|D1AddrLLoad, false)

	o.AddState(0, D2ZeroToDB)
	o.AddState(D1AddrHLoad, D2ZeroToDB)
}

// LoadIndAddrWith6502WrapBug reproduces the 6502 indirection bug: the
// high byte is fetched with only the low half of the pointer
// incremented, so JMP ($37FF) reads the high byte from $3700 and
// ($ff),y gets it from $00. Corrupts r5 and r6.
func (o *OpCode) LoadIndAddrWith6502WrapBug() {
	o.LoadRegisterFromMemory(D4DBToR5, D1AddrToAddress, false)
	// Load the ALU with addrl
	o.AddState(D1AddrToAddress, D2AddrWLToDB)
	o.AddState(D1AddrToAddress, D2AddrWLToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load)
	// ALU inc and write the ALU result to the addrl
	o.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad)
	o.AddState(D1AddrLLoad, D2ALUResToDB)
	// Load hi addr
	o.LoadRegisterFromMemory(D4DBToR6, D1AddrToAddress, false)
	// Transfer r5/r6 to addr for PC loading
	o.AddState(0, D2R5ToDB)
	o.AddState(D1AddrLLoad, D2R5ToDB)
	o.AddState(0, D2R6ToDB)
	o.AddState(D1AddrHLoad, D2R6ToDB)
}

// LoadRegisterFromMemory performs a memory read with the external bus
// handshake, optionally latching the value into the ALU input pair and
// into the registers selected by the D4 word. A fetch (D1OpCodeLoad in
// d1Source) needs one extra tick to hold the opcode latch.
func (o *OpCode) LoadRegisterFromMemory(d4Register, d1Source uint8, primeALU bool) {
	if d1Source&D1OpCodeLoad != 0 {
		o.AddState(0, D2CPUWantBus)
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus)
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus|D2MemoryToDB)
		if primeALU {
			o.AddState(d1Source, D2BusDDR|D2CPUHasBus|D2MemoryToDB, D3ALUIn1Load|D3ALUIn2Load, d4Register)
		} else {
			o.AddState(d1Source, D2BusDDR|D2CPUHasBus|D2MemoryToDB, 0, d4Register)
		}
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus|D2MemoryToDB)
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus)
	} else {
		o.AddState(0, D2CPUWantBus)
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus)
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus|D2MemoryToDB)
		if primeALU {
			o.AddState(d1Source, D2BusDDR|D2CPUHasBus|D2MemoryToDB, D3ALUIn1Load|D3ALUIn2Load, d4Register)
		} else {
			o.AddState(d1Source, D2BusDDR|D2CPUHasBus|D2MemoryToDB, 0, d4Register)
		}
		o.AddState(d1Source&D1PCToAddress, D2BusDDR|D2CPUHasBus)
	}
}

// WriteRegisterToMemory strobes the RAM write for exactly one tick with
// the selected source held on the data bus either side.
func (o *OpCode) WriteRegisterToMemory(d2Register, d3ALUOp, d1Source uint8) {
	o.AddState(0, D2CPUWantBus)
	o.AddState(d1Source, D2CPUHasBus|d2Register, d3ALUOp)
	o.AddState(d1Source|D1RAMWrite, D2CPUHasBus|d2Register, d3ALUOp)
	o.AddState(d1Source, D2CPUHasBus|d2Register, d3ALUOp)
}

// AddRegisterToAddress does a full 16 bit add of the register to the
// address latch pair, carrying through the ALU temp status.
func (o *OpCode) AddRegisterToAddress(d2Register uint8) {
	// Add whatever is in the register to the lo addr using the ALU
	o.AddState(D1AddrToAddress, D2AddrWLToDB)
	o.AddState(D1AddrToAddress, D2AddrWLToDB, D3ALUIn1Load)
	o.AddState(0, d2Register)
	o.AddState(0, d2Register, D3ALUIn2Load)
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpAdd|D3ALUIn3Load)
	// Do the add without carry and store the result
	o.AddState(0, D2ALUResToDB, D3ALUOpAdd|D3ALUResLoad)
	o.AddState(D1AddrLLoad, D2ALUResToDB, D3ALUOpAdd)
	// Use the carry
	o.AddState(0, D2ALUTempSTToDB)
	o.AddState(0, D2ALUTempSTToDB, D3ALUIn3Load)
	o.AddState(D1AddrToAddress, D2AddrWHToDB)
	o.AddState(D1AddrToAddress, D2AddrWHToDB, D3ALUIn1Load)
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpAdd|D3ALUIn2Load)
	// Do the add with zero and carry and store the result
	o.AddState(0, D2ALUResToDB, D3ALUOpAdd|D3ALUResLoad)
	o.AddState(D1AddrHLoad, D2ALUResToDB, D3ALUOpAdd)
}

// AddRegisterToZeroPageAddress is the 8 bit only variant, no carry into
// the high byte.
func (o *OpCode) AddRegisterToZeroPageAddress(d2Register uint8) {
	o.AddState(D1AddrToAddress, D2AddrWLToDB)
	o.AddState(D1AddrToAddress, D2AddrWLToDB, D3ALUIn1Load)
	o.AddState(0, d2Register)
	o.AddState(0, d2Register, D3ALUIn2Load)
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpAdd|D3ALUIn3Load)
	// Do the add without carry and store the result
	o.AddState(0, D2ALUResToDB, D3ALUOpAdd|D3ALUResLoad)
	o.AddState(D1AddrLLoad, D2ALUResToDB)
}

func (o *OpCode) CompareRegisterWithImmediate(d2Register uint8) {
	// Read from registers and memory into ALU
	o.LoadImmediatePrimeALUPreInc(0)
	o.CompareCommon(d2Register)
}

// CompareRegisterWithAddrPlusRegister omits the index step when the
// index register is zero.
func (o *OpCode) CompareRegisterWithAddrPlusRegister(d2RegisterSource, d2RegisterIndex uint8) {
	o.LoadAbsoluteAddressFromPCMemoryWithPreInc()
	if d2RegisterIndex != 0 {
		o.AddRegisterToAddress(d2RegisterIndex)
	}
	// Sets both ALU inputs with the memory loaded
	o.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	o.CompareCommon(d2RegisterSource)
}

func (o *OpCode) CompareRegisterWithZeroPageAddrPlusRegister(d2RegisterSource, d2RegisterIndex uint8) {
	o.LoadZeroPageAddressFromPCMemoryWithPreInc()
	if d2RegisterIndex != 0 {
		o.AddRegisterToZeroPageAddress(d2RegisterIndex)
	}
	// Sets both ALU inputs with the memory loaded
	o.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	o.CompareCommon(d2RegisterSource)
}

func (o *OpCode) CompareCommon(d2RegisterSource uint8) {
	o.STToALU()
	o.AddState(0, d2RegisterSource)
	o.AddState(0, d2RegisterSource, D3ALUOpCmp|D3ALUIn1Load)
	// Do ALU compare and write ALU ST result to ST
	o.AddState(0, D2ALUTempSTToDB, D3ALUOpCmp|D3ALUResLoad, D4DBToST)
}

// RegisterSimpleALUOp is a single input (in1 and in2 both the same) ALU
// operation on a register.
func (o *OpCode) RegisterSimpleALUOp(d2Register, d3ALUOp, d4Register uint8) {
	// Load the ALU
	o.STToALU()
	o.AddState(0, d2Register)
	o.AddState(0, d2Register, d3ALUOp|D3ALUIn1Load|D3ALUIn2Load)
	// Write the ALU result to the register
	o.AddState(0, D2ALUResToDB, d3ALUOp|D3ALUResLoad, d4Register)
	o.LoadSTFromALUFlags()
}

// RegisterALUOp only fills in ALU in 1, not both inputs.
func (o *OpCode) RegisterALUOp(d2Register, d3ALUOp, d4Register uint8) {
	o.STToALU()
	o.AddState(0, d2Register)
	o.AddState(0, d2Register, d3ALUOp|D3ALUIn1Load)
	// Write the ALU result to the register
	o.AddState(0, D2ALUResToDB, d3ALUOp|D3ALUResLoad, d4Register)
	o.LoadSTFromALUFlags()
}

// TakeBranch is all the logic that will take a branch: sign extend the
// offset and do a 16 bit PC relative add. This needs to be appended
// onto a branch stub.
func (o *OpCode) TakeBranch() {
	// Get the next byte (branch offset) into ALU in1/2 and also into temp R5
	o.LoadImmediatePrimeALUPreInc(D4DBToR5)

	// Get the upper bit into carry and sign extend it into temp R6
	// Shift b7 to carry
	o.AddState(0, D2ALUTempSTToDB, D3ALUOpLsl)
	o.AddState(0, D2ALUTempSTToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR6)
	// Get carry into bit by shifting it into the bottom of 0
	o.AddState(0, D2R6ToDB)
	o.AddState(0, D2R6ToDB, D3ALUIn3Load)
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpRol|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpRol|D3ALUResLoad)
	// Get 0 or 1 and xor with 0xff
	o.AddState(0, D2ALUResToDB)
	o.AddState(0, D2ALUResToDB, D3ALUIn1Load)
	o.AddState(0, D2FFToDB)
	o.AddState(0, D2FFToDB, D3ALUOpXor|D3ALUIn2Load)
	o.AddState(0, 0, D3ALUOpXor|D3ALUResLoad)
	// Now inc
	o.AddState(0, D2ALUResToDB)
	o.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpInc|D3ALUResLoad, D4DBToR6)
	// Get the lo byte of the PC to ALU in1
	o.AddState(D1PCToAddress, D2AddrWLToDB)
	o.AddState(D1PCToAddress, D2AddrWLToDB, D3ALUIn1Load)
	// Get the offset to ALU in2
	o.AddState(D1PCToAddress, D2R5ToDB)
	o.AddState(D1PCToAddress, D2R5ToDB, D3ALUIn2Load)
	// No carry or anything else
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpAdd|D3ALUIn3Load)
	// Add address
	o.AddState(0, 0, D3ALUOpAdd|D3ALUResLoad)
	// lo to lo addr
	o.AddState(0, D2ALUResToDB)
	o.AddState(D1AddrLLoad, D2ALUResToDB)
	// Preserve carry for the PC hi byte calculation
	o.AddState(0, D2ALUTempSTToDB)
	o.AddState(0, D2ALUTempSTToDB, D3ALUIn3Load)
	// Get the hi byte of the PC to ALU in1
	o.AddState(D1PCToAddress, D2AddrWHToDB)
	o.AddState(D1PCToAddress, D2AddrWHToDB, D3ALUIn1Load)
	// Get the sign extended value from the branch offset
	o.AddState(D1PCToAddress, D2R6ToDB)
	o.AddState(D1PCToAddress, D2R6ToDB, D3ALUOpAdd|D3ALUIn2Load)
	// Add PC hi and offset hi plus carry for final PC hi
	o.AddState(0, D2ALUResToDB, D3ALUOpAdd|D3ALUResLoad)
	o.AddState(D1AddrHLoad, D2ALUResToDB)
	// Load resulting PC from address latches
	o.AddState(D1PCLoad)
	o.AddState(D1PCLoad | D1PCInc)
	o.AddState()
	o.FetchExecPreInc(true)
}

// SkipBranch skips a byte since we don't want to take the branch.
func (o *OpCode) SkipBranch() {
	// Skip the next byte
	o.AddState(D1PCInc)
	o.AddState()
	o.FetchExecPreInc(true)
}

// CommonBITOpcode implements BIT: the Z flag as though the value at the
// tested address were ANDed with the accumulator, N and V from bits 7
// and 6 of that value. Uses the ALU extended mask operations.
func (o *OpCode) CommonBITOpcode() {
	o.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	// Blank ST for this temp calc AND
	o.AddState(0, D2R0ToDB)
	o.AddState(0, D2R0ToDB, D3ALUIn1Load)
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpAnd|D3ALUIn3Load)
	o.AddState(0, 0, D3ALUOpAnd|D3ALUResLoad)
	// Setup the extended operation flag once here
	o.AddState(0, D2FFToDB)
	o.AddState(0, D2FFToDB, D3ALUIn3Load)
	// Now extract just the Z flag using the pattern generator
	o.AddState(0, D2ALUTempSTToDB)
	o.AddState(0, D2ALUTempSTToDB, D3ALUOpSec|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpSec|D3ALUResLoad, D4DBToR5)
	// Get the real status and AND out the bits we want into temp r6
	o.AddState(0, D2STToDB)
	o.AddState(0, D2STToDB, D3ALUOpClc|D3ALUIn1Load|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpClc|D3ALUResLoad, D4DBToR6)
	// Now extract the NV flags from the memory
	o.LoadRegisterFromMemory(0, D1AddrToAddress, true)
	o.AddState(0, 0, D3ALUOpClv)
	o.AddState(0, 0, D3ALUOpClv|D3ALUResLoad)
	// Or both results together and then or into the ANDed ST in temp r6
	o.AddState(0, D2ALUResToDB)
	o.AddState(0, D2ALUResToDB, D3ALUIn1Load)
	o.AddState(0, D2R5ToDB)
	o.AddState(0, D2R5ToDB, D3ALUIn2Load)
	o.AddState(0, D2ZeroToDB)
	o.AddState(0, D2ZeroToDB, D3ALUOpOr|D3ALUIn3Load)
	o.AddState(0, 0, D3ALUOpOr|D3ALUResLoad)
	o.AddState(0, D2ALUResToDB)
	o.AddState(0, D2ALUResToDB, D3ALUIn1Load)
	o.AddState(0, D2R6ToDB)
	o.AddState(0, D2R6ToDB, D3ALUOpOr|D3ALUIn2Load)
	o.AddState(0, D2ALUResToDB, D3ALUOpOr|D3ALUResLoad, D4DBToST)
	o.FetchExecPreInc(true)
}
