package sds

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bangzek/clock"
)

const (
	TIMEOUT_SHORT = time.Second       // polling
	TIMEOUT_WRITE = 6 * time.Second   // the cradle is slow to reply...
	TIMEOUT_READ  = 2 * TIMEOUT_WRITE // ...and slower still to send data
)

var (
	ctime = clock.New()
	sleep = time.Sleep
)

// Transport moves bytes to and from the cradle. A transfer that runs out of
// time fails with an error matching ErrTimeout.
type Transport interface {
	Write(b []byte, timeout time.Duration) (int, error)
	Read(b []byte, timeout time.Duration) (int, error)
	Reset() error
}

// Controller runs one complete session with the cradle: wait for a unit,
// identify it, print its trip record, then optionally clear counters and
// wait for the unit to be removed.
type Controller struct {
	Port   Transport
	Config Config
	Out    io.Writer

	buf [MaxReply]byte
}

// Run returns nil once the session completed; any error aborted it.
func (c *Controller) Run() error {
	out := c.Out
	if out == nil {
		out = os.Stdout
	}

	if err := c.probe(); err != nil {
		return err
	}
	if err := c.waitUnit(); err != nil {
		return err
	}
	if err := c.identify(); err != nil {
		return err
	}
	if err := c.fetch(out); err != nil {
		return err
	}
	if c.Config.Clear {
		if err := c.clear(); err != nil {
			return err
		}
	}
	return c.pat()
}

// Send writes cmd and reads its reply, which must have exactly the
// command's reply length.
func (c *Controller) Send(cmd Cmd, wt, rt time.Duration) error {
	tx := cmd.TxBytes()
	debugLog("tx: % X", tx)
	debugLog("TX: %s", cmd.Tx())
	if n, err := c.Port.Write(tx, wt); err != nil {
		return TransferErr{"write", err}
	} else if n != len(tx) {
		return TransferErr{"write", io.ErrShortWrite}
	}

	rx := cmd.RxBytes()
	*rx = (*rx)[:0]
	n, err := c.Port.Read(c.buf[:], rt)
	if err != nil {
		return TransferErr{"read", err}
	}
	debugLog("rx: % X", c.buf[:n])
	if n != cap(*rx) {
		return LenErr{cmd.Tx(), cap(*rx), n}
	}
	*rx = append(*rx, c.buf[:n]...)
	debugLog("RX: %s", cmd.Rx())
	return nil
}

// probe checks whether the channel needs a reset. Only here a timeout is
// recovered from, and only once.
func (c *Controller) probe() error {
	err := c.Send(NewPollCmd(), TIMEOUT_SHORT, TIMEOUT_SHORT)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrTimeout) {
		return err
	}
	log("resetting usb channel")
	if err := c.Port.Reset(); err != nil {
		return fmt.Errorf("channel reset: %w", err)
	}
	return nil
}

func (c *Controller) waitUnit() error {
	poll := NewPollCmd()
	waiting := false
	var since time.Time
	for {
		if err := c.Send(poll, TIMEOUT_SHORT, TIMEOUT_SHORT); err != nil {
			return err
		}
		if poll.Present() {
			log("unit found in the cradle")
			if waiting {
				debugLog("waited %s", ctime.Now().Sub(since))
			}
			return nil
		}
		if !waiting {
			log("cradle is empty; waiting...")
			waiting = true
			since = ctime.Now()
		}
		sleep(TIMEOUT_SHORT)
	}
}

func (c *Controller) identify() error {
	id := NewIdentCmd()
	if err := c.Send(id, TIMEOUT_WRITE, TIMEOUT_READ); err != nil {
		return err
	}
	if c.Config.Dump {
		hexDump("identification packet:", *id.RxBytes())
	}
	if !id.ReservedOK() {
		log("debug: unexpected values in bytes 7 to 10")
	}

	switch m := id.Model(); {
	case m.IsSupported():
		log("unit identified as a %s type %d version %d",
			m, id.Type(), id.Version())
	case m == NoUnit:
		return ErrUnknownUnit
	default:
		// TODO: confirm with other units whether the data reply layout
		// holds before making this fatal.
		log("warning: unknown unit in the cradle (0x%02x)", byte(m))
	}
	log("unit serial number: %s", id.Serial())
	return nil
}

func (c *Controller) fetch(out io.Writer) error {
	f := NewFetchCmd()
	if err := c.Send(f, TIMEOUT_WRITE, TIMEOUT_READ); err != nil {
		return err
	}
	if c.Config.Dump {
		hexDump("data packet:", *f.RxBytes())
	}

	u := c.Config.Units()
	t := f.Telemetry()
	t.Report()
	return t.Convert(u).Render(out, c.Config, u)
}

func (c *Controller) clear() error {
	cl := NewClearCmd()
	if err := c.Send(cl, TIMEOUT_WRITE, TIMEOUT_READ); err != nil {
		return err
	}
	if err := cl.Err(); err != nil {
		return err
	}
	log("non-ts counters cleared")
	return nil
}

// pat polls once so the cradle knows we are done, or keeps polling until
// the unit is removed.
func (c *Controller) pat() error {
	if c.Config.WaitRemove {
		log("waiting for unit removal from the cradle")
	}
	poll := NewPollCmd()
	for {
		if err := c.Send(poll, TIMEOUT_SHORT, TIMEOUT_SHORT); err != nil {
			return err
		}
		if !c.Config.WaitRemove {
			return nil
		}
		if poll.Absent() {
			log("unit removed, exiting...")
			return nil
		}
		sleep(TIMEOUT_SHORT)
	}
}
