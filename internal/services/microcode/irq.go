package microcode

// FindIRQLEAndReplace retargets an opcode's tail for the "IRQ pending"
// decoder ROM half. Everything after the first IRQ latch tick is
// dropped and replaced with a fixed tail that computes 0xfc (0xff << 2)
// through temp R5, loads it as the next opcode and resets the cycle, so
// a pending interrupt routes control into the interrupt entry
// pseudo-opcode instead of the next instruction. Builders without an
// IRQ latch tick are left untouched.
func (o *OpCode) FindIRQLEAndReplace() {
	if o.err != nil {
		return
	}
	for i := range o.ticks {
		if o.ticks[i][4]&D5IRQStateLatch == D5IRQStateLatch {
			// We are replacing the actual state at the position plus one
			o.ticks = o.ticks[:i+1]
			o.resetSeen = false

			// Calculate $fc ($ff << 2) using temp R5
			o.AddState(0, D2FFToDB)
			o.AddState(0, D2FFToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)
			o.AddState(0, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad, D4DBToR5)

			o.AddState(0, D2R5ToDB)
			o.AddState(0, D2R5ToDB, D3ALUOpLsl|D3ALUIn1Load|D3ALUIn2Load)

			// Load into the opcode
			o.AddState(D1OpCodeLoad, D2ALUResToDB, D3ALUOpLsl|D3ALUResLoad)
			o.AddState(0, D2ALUResToDB, D3ALUOpLsl)
			o.AddState(D1CycleReset)
			return
		}
	}
}
