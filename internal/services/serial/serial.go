package serial

import (
	"fmt"
	"github.td.teradata.com/sandbox/logic-rom/internal/config"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/logging"
	srl "go.bug.st/serial"
	"io/ioutil"
	"time"
)

// Burner streams a compiled ROM image to the EPROM programmer. The
// programmer acks each chunk with a single '.' byte; anything else
// aborts the transfer.
type Burner struct {
	log  *logging.Log
	mode *srl.Mode
}

func New(log *logging.Log) *Burner {
	return &Burner{
		log: log,
		mode: &srl.Mode{
			DataBits: config.CLIConfig.Serial.DataBits,
			BaudRate: config.CLIConfig.Serial.BaudRate,
			StopBits: toStopBits(config.CLIConfig.Serial.StopBits),
			Parity:   toParity(config.CLIConfig.Serial.Parity),
		},
	}
}

func toStopBits(value int) srl.StopBits {
	switch value {
	case 1:
		return srl.OneStopBit
	case 2:
		return srl.OnePointFiveStopBits
	case 3:
		return srl.TwoStopBits
	default:
		fmt.Println("Invalid StopBit")
		return srl.OneStopBit
	}
}

func toParity(value int) srl.Parity {
	switch value {
	case 0:
		return srl.NoParity
	case 1:
		return srl.OddParity
	case 2:
		return srl.EvenParity
	case 3:
		return srl.MarkParity
	case 4:
		return srl.SpaceParity
	default:
		fmt.Println("Invalid Parity")
		return srl.NoParity
	}
}

// Send transfers one image file over the configured port.
func (b *Burner) Send(path string) error {
	portName := config.CLIConfig.Serial.PortName
	if portName == "" {
		return fmt.Errorf("no serial port configured")
	}

	bs, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}

	port, err := srl.Open(portName, b.mode)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v", portName, err)
	}
	defer port.Close()

	chunk := config.CLIConfig.Serial.ChunkSize
	if chunk <= 0 {
		chunk = 64
	}

	b.log.Infof("Sending %s (%d bytes) to %s", path, len(bs), portName)
	start := time.Now()
	for offset := 0; offset < len(bs); offset += chunk {
		end := offset + chunk
		if end > len(bs) {
			end = len(bs)
		}
		if n, err := port.Write(bs[offset:end]); err != nil {
			return fmt.Errorf("write failed at offset %d: %v", offset, err)
		} else if n != end-offset {
			return fmt.Errorf("short write at offset %d: %d of %d bytes", offset, n, end-offset)
		}

		if err := b.awaitAck(port, offset); err != nil {
			return err
		}

		if offset%0x1000 == 0 {
			b.log.Tracef("Sent %d of %d bytes", end, len(bs))
		}
	}

	b.log.Infof("Sent %d bytes in %v", len(bs), time.Since(start).Round(time.Millisecond))
	return nil
}

func (b *Burner) awaitAck(port srl.Port, offset int) error {
	ack := make([]byte, 1)
	n, err := port.Read(ack)
	if err != nil {
		return fmt.Errorf("no ack at offset %d: %v", offset, err)
	}
	if n != 1 || ack[0] != '.' {
		return fmt.Errorf("bad ack at offset %d: %q", offset, ack[:n])
	}
	return nil
}
