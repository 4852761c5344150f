package microcode

import "errors"

// Design rules for the hardware, checked against the most recently
// appended tick. They encode the settle/hold behaviour of the board:
// the decoder EPROM output is latched half a clock late, so anything
// latched from the data bus needs the bus driver selected one tick
// ahead, and the address bus must not move around memory strobes.

var (
	errFetchTickZero     = errors.New("opcode fetch in tick 0")
	errIRQLatchTickZero  = errors.New("IRQ latch in tick 0")
	errRegLoadTickZero   = errors.New("register load in tick 0")
	errRegLoadOverlap    = errors.New("register load repeated from previous tick")
	errRegLoadBus        = errors.New("register load without stable data bus")
	errALUInTickZero     = errors.New("ALU input load in tick 0")
	errALUInOverlap      = errors.New("ALU input load repeated from previous tick")
	errALUInBus          = errors.New("ALU input load without stable data bus")
	errAddrLoadTickZero  = errors.New("address latch load in tick 0")
	errAddrLoadOverlap   = errors.New("address latch load repeated from previous tick")
	errAddrLoadBus       = errors.New("address latch load without stable data bus")
	errEarlyBranchLoad   = errors.New("branch load too early in the opcode")
	errEarlyResultLoad   = errors.New("ALU result load too early in the opcode")
	errBranchOpUnstable  = errors.New("branch load without stable ALU op")
	errResultLoadDoubled = errors.New("ALU result load repeated from previous tick")
	errResultOpUnstable  = errors.New("ALU result load without stable ALU op")
	errResultWithInput   = errors.New("ALU input load during result load")
	errResultAfterInput  = errors.New("ALU input load one tick before result load")
	errFetchDoubled      = errors.New("opcode fetch repeated from previous tick")
	errFetchBus          = errors.New("data bus not held stable after opcode fetch")
	errReadAfterWrite    = errors.New("memory read directly after memory write")
	errWriteAfterRead    = errors.New("memory write directly after memory read")
	errAddrBusUnstable   = errors.New("address bus not stable around memory access")
	errPCLoadConflict    = errors.New("PC load conflicts with PC driving the address bus")
	errIRQLatchNoStatus  = errors.New("IRQ latch without status on the data bus")
)

func (o *OpCode) validateLast() error {
	if len(o.ticks) == 0 {
		return nil
	}

	pos := len(o.ticks) - 1
	cur := o.ticks[pos]

	// D1OpCodeLoad must not be executed in tick 0.
	if o.ticks[0][0]&D1OpCodeLoad == D1OpCodeLoad {
		return errFetchTickZero
	}

	// D5IRQStateLatch must not be executed in tick 0.
	if o.ticks[0][4]&D5IRQStateLatch == D5IRQStateLatch {
		return errIRQLatchTickZero
	}

	// If any D4 register load is used the DB must be stable one cycle
	// before. The catalogue predates this rule; strict mode only.
	if o.strict && cur[3] != 0 {
		if pos == 0 {
			return errRegLoadTickZero
		}
		prev := o.ticks[pos-1]
		if cur[3]&prev[3] != 0 {
			return errRegLoadOverlap
		}
		if cur[1]&D2SourceMask != prev[1]&D2SourceMask {
			return errRegLoadBus
		}
	}

	// ALU input loads need the DB stable one cycle before, and a double
	// high state is useless and indicates a possible typo.
	if cur[2]&D3ALUInMask != 0 {
		if pos == 0 {
			return errALUInTickZero
		}
		prev := o.ticks[pos-1]
		if cur[2]&D3ALUInMask&prev[2] != 0 {
			return errALUInOverlap
		}
		if cur[1]&D2SourceMask != prev[1]&D2SourceMask {
			return errALUInBus
		}
	}

	// Same for the address latch loads.
	if cur[0]&(D1AddrLLoad|D1AddrHLoad) != 0 {
		if pos == 0 {
			return errAddrLoadTickZero
		}
		prev := o.ticks[pos-1]
		if cur[0]&(D1AddrLLoad|D1AddrHLoad)&prev[0] != 0 {
			return errAddrLoadOverlap
		}
		if cur[1]&D2SourceMask != prev[1]&D2SourceMask {
			return errAddrLoadBus
		}
	}

	if len(o.ticks) == 1 {
		return nil
	}
	prev := o.ticks[pos-1]

	if pos <= 2 {
		// No early branch or ALU result loads.
		if o.ticks[0][1]&D2DoBranchLoad != 0 {
			return errEarlyBranchLoad
		}
		if o.ticks[0][2]&D3ALUResLoad != 0 {
			return errEarlyResultLoad
		}
	} else {
		// Branch loads sample the ALU carry, so the op must have been
		// stable the previous tick.
		if cur[1]&D2DoBranchLoad != 0 {
			if cur[2]&D3ALUOpMask != prev[2]&D3ALUOpMask {
				return errBranchOpUnstable
			}
			if o.strict && prev[2]&D3ALUOpMask != o.ticks[pos-2][2]&D3ALUOpMask {
				return errBranchOpUnstable
			}
		}

		// One cycle before an ALU result load the op must be stable.
		if cur[2]&D3ALUResLoad != 0 {
			if prev[2]&D3ALUResLoad != 0 {
				return errResultLoadDoubled
			}
			if cur[2]&D3ALUOpMask != prev[2]&D3ALUOpMask {
				return errResultOpUnstable
			}
			if o.strict && prev[2]&D3ALUOpMask != o.ticks[pos-2][2]&D3ALUOpMask {
				return errResultOpUnstable
			}
			if cur[2]&D3ALUInMask != 0 {
				return errResultWithInput
			}
			if o.strict && prev[2]&D3ALUInMask != 0 {
				return errResultAfterInput
			}
		}
	}

	// One cycle after an opcode fetch the data bus must be stable.
	if prev[0]&D1OpCodeLoad != 0 {
		if cur[0]&D1OpCodeLoad != 0 {
			return errFetchDoubled
		}
		if cur[1]&D2SourceMask != prev[1]&D2SourceMask {
			return errFetchBus
		}
	}

	// Must not swap between memory read and memory write in consecutive
	// ticks, in either order.
	if cur[1]&D2MemoryToDB == D2MemoryToDB {
		if prev[0]&D1RAMWrite == D1RAMWrite {
			return errReadAfterWrite
		}
	}
	if cur[0]&D1RAMWrite == D1RAMWrite {
		if prev[1]&D2SourceMask == D2MemoryToDB {
			return errWriteAfterRead
		}
	}

	// The address bus must be stable one tick before memory is read or
	// written, and one tick after a write.
	if cur[1]&D2MemoryToDB == D2MemoryToDB || cur[0]&D1RAMWrite == D1RAMWrite {
		if cur[0]&D1PCToAddress != prev[0]&D1PCToAddress {
			return errAddrBusUnstable
		}
	}
	if prev[0]&D1RAMWrite == D1RAMWrite {
		if cur[0]&D1PCToAddress != prev[0]&D1PCToAddress {
			return errAddrBusUnstable
		}
	}

	// D1PCLoad must not happen directly before D1PCToAddress.
	if cur[0]&D1PCToAddress == D1PCToAddress {
		if cur[0]&D1PCLoad == D1PCLoad || prev[0]&D1PCLoad == D1PCLoad {
			return errPCLoadConflict
		}
	}

	// The IRQ latch compares against the interrupt disable flag, so the
	// status register has to be driving the data bus this tick and the
	// tick before.
	if cur[4]&D5IRQStateLatch == D5IRQStateLatch {
		if cur[1]&D2STToDB != D2STToDB {
			return errIRQLatchNoStatus
		}
		if prev[1]&D2STToDB != D2STToDB {
			return errIRQLatchNoStatus
		}
	}

	return nil
}
