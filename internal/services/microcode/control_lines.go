package microcode

// The five decoder EPROMs each drive a disjoint group of control lines.
// One byte per decoder per tick; bit 0 is the LSB of the EPROM output.

const NumDecoders = 5

// Decoder 1
const (
	D1PCInc         = 1 << 0 // It is possible to do a D1PCInc and a D1CycleReset and still have the PC increment
	D1OpCodeLoad    = 1 << 1 // Must not be executed directly after a D1CycleReset
	D1PCToAddress   = 1 << 2 // Otherwise the address from the ADDRL latches is loaded.
	D1AddrToAddress = 0      // i.e. Not D1PCToAddress
	D1AddrLLoad     = 1 << 3
	D1AddrHLoad     = 1 << 4
	D1PCLoad        = 1 << 5 // Loads whatever is on the address bus to the PC. Needs to present the data in two ticks, one without D1PCInc then one with D1PCInc.
	D1RAMWrite      = 1 << 6 // The address lines need to be stable one tick before and after writing.
	D1CycleReset    = 1 << 7 // This cycle state is executed and the cycle starts counting from 0 next tick.
)

// Decoder 2, low nibble selects the data bus driver
const (
	D2Unused        = 0
	D2R0ToDB        = 1
	D2R1ToDB        = 2
	D2R2ToDB        = 3
	D2R3ToDB        = 4
	D2R4ToDB        = 5
	D2R5ToDB        = 6
	D2R6ToDB        = 7
	D2STToDB        = 8  // For transferring the ST to the ALU
	D2ZeroToDB      = 9
	D2AddrWLToDB    = 10 // Writes the address bus lo to the data bus
	D2AddrWHToDB    = 11 // Writes the address bus hi to the data bus
	D2ALUResToDB    = 12 // Outputs the result of the last ALU calculation to the data bus
	D2ALUTempSTToDB = 13 // From the last result of the ALU
	D2MemoryToDB    = 14 // When reading from the memory it likes to not have a data bus write straight after it, otherwise it may cause a contention.
	D2FFToDB        = 15 // The default state when under reset or when the decoder output latch is not set.

	D2SourceMask = 0x0f

	D2DoBranchLoad = 1 << 4 // Load the ALU carry result on a positive edge. Needs to present the data in two ticks, one without then one with.
	D2CPUWantBus   = 1 << 5
	D2CPUHasBus    = 1 << 6
	D2BusDDR       = 1 << 7 // To set the data direction for the external data bus
)

// Decoder 3
const (
	D3ALUIn1Load = 1 << 0
	D3ALUIn2Load = 1 << 1
	D3ALUIn3Load = 1 << 2

	D3ALUInMask = D3ALUIn1Load | D3ALUIn2Load | D3ALUIn3Load

	D3ALUOpDec = 0 << 3 // Both inputs set to be the same
	D3ALUOpInc = 1 << 3 // Both inputs set to be the same
	D3ALUOpAdd = 2 << 3
	D3ALUOpSub = 3 << 3
	D3ALUOpOr  = 4 << 3
	D3ALUOpAnd = 5 << 3
	D3ALUOpXor = 6 << 3
	D3ALUOpLsl = 7 << 3  // Both inputs set to be the same
	D3ALUOpLsr = 8 << 3  // Both inputs set to be the same
	D3ALUOpRol = 9 << 3  // Both inputs set to be the same
	D3ALUOpRor = 10 << 3 // Both inputs set to be the same
	D3ALUOpCmp = 11 << 3
	D3ALUOpSec = 12 << 3 // Both inputs set to be status. Output back to status. If the ALU status input is not zero the extended mask operation (AND 0x02) is used instead.
	D3ALUOpClc = 13 << 3 // As D3ALUOpSec, extended mask 0x3d
	D3ALUOpClv = 14 << 3 // As D3ALUOpSec, extended mask 0xc0
	D3ALUOpFlags = 15 << 3 // Preserves flags except ZN and recalculates ZN from the input

	D3ALUOpMask = 15 << 3

	D3ALUResLoad = 1 << 7
)

// Decoder 4, one-hot register loads from the data bus
const (
	D4DBToR0 = 1 << 0 // A
	D4DBToR1 = 1 << 1 // X
	D4DBToR2 = 1 << 2 // Y
	D4DBToR3 = 1 << 3 // SP lo
	D4DBToR4 = 1 << 4 // SP hi
	D4DBToR5 = 1 << 5
	D4DBToR6 = 1 << 6
	D4DBToST = 1 << 7
)

// Decoder 5
const (
	D5IRQStateLatch = 1 << 0
	D5IllegalOp     = 1 << 1 // Assert hardware breakpoint
	D5IRQLineReset  = 1 << 2
)
