package driver

import (
	"github.td.teradata.com/sandbox/logic-rom/internal/config"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/logging"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/microcode"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/rom"
)

// Driver runs one full compilation: build the catalogue, check every
// builder against the design rules, then emit the five decoder images
// followed by the two ALU images.
type Driver struct {
	log *logging.Log
}

func New() *Driver {
	return &Driver{
		log: logging.New(),
	}
}

func (d *Driver) Run() error {
	microcode.SetStrictTiming(config.CLIConfig.Validation.Strict)

	set := microcode.NewInstructionSet()
	if err := set.Validate(); err != nil {
		d.log.Errorf("Microcode failed design rules: %v", err)
		return err
	}

	emitter := rom.New(d.log)
	if err := emitter.WriteDecoders(set); err != nil {
		d.log.Errorf("Failed to write decoder images: %v", err)
		return err
	}
	if err := emitter.WriteALU(); err != nil {
		d.log.Errorf("Failed to write ALU images: %v", err)
		return err
	}

	emitter.DumpLengths()
	return nil
}
