package sds

import (
	"fmt"
	"strconv"
)

const (
	POLL     = 0xf4
	IDENTIFY = 0xfe
	FETCH    = 0xfb
	CLEAR    = 0xf0

	IDENT_LEN = 11
	DATA_LEN  = 27

	// MaxReply is the read buffer size; anything past a command's reply
	// length shows up as a length mismatch.
	MaxReply = 32
)

type Cmd interface {
	TxBytes() []byte
	Tx() string

	RxBytes() *[]byte
	Rx() string

	String() string
}

type cmd struct {
	tx []byte
	rx []byte
}

func (c *cmd) TxBytes() []byte {
	return c.tx
}

func (c *cmd) RxBytes() *[]byte {
	return &c.rx
}

func (c *cmd) isValidRx() bool {
	return len(c.rx) == cap(c.rx)
}

func (c *cmd) rxString(name string) string {
	if !c.isValidRx() {
		return name + " [" + hexString(c.rx) + "]"
	}
	return name + " " + hexString(c.rx)
}

//----------------------------------------------------------------------

// PollCmd asks the cradle whether a unit is sitting in it.
type PollCmd struct {
	cmd
}

func NewPollCmd() *PollCmd {
	return &PollCmd{cmd{
		tx: []byte{POLL},
		rx: make([]byte, 0, 1),
	}}
}

// Present reports a unit in the cradle. Only 1 means present.
func (c *PollCmd) Present() bool {
	return c.isValidRx() && c.rx[0] == 1
}

// Absent reports an empty cradle.
func (c *PollCmd) Absent() bool {
	return c.isValidRx() && c.rx[0] == 0
}

func (c *PollCmd) Tx() string {
	return "POLL"
}

func (c *PollCmd) Rx() string {
	if !c.isValidRx() {
		return c.rxString("POLL")
	}
	return "POLL " + strconv.Itoa(int(c.rx[0]))
}

func (c *PollCmd) String() string {
	return c.Tx() + "\n" + c.Rx()
}

//----------------------------------------------------------------------

// IdentCmd reads the identification of the unit in the cradle.
//
//	[TYPE][MODEL][SERIAL x4][VERSION][RESERVED x4]
type IdentCmd struct {
	cmd
}

const (
	identType    = 0
	identModel   = 1
	identSerial  = 2
	identVersion = 6
	identRsv     = 7
)

func NewIdentCmd() *IdentCmd {
	return &IdentCmd{cmd{
		tx: []byte{IDENTIFY},
		rx: make([]byte, 0, IDENT_LEN),
	}}
}

func (c *IdentCmd) Type() byte {
	return c.rx[identType]
}

func (c *IdentCmd) Model() Unit {
	return Unit(c.rx[identModel])
}

func (c *IdentCmd) Version() byte {
	return c.rx[identVersion]
}

// Serial returns the four serial digits, one per byte. Units report plain
// digit values; ASCII digits are taken as they are.
func (c *IdentCmd) Serial() string {
	b := make([]byte, 0, 8)
	for _, x := range c.rx[identSerial:identVersion] {
		if x >= '0' && x <= '9' {
			b = append(b, x)
		} else {
			b = strconv.AppendUint(b, uint64(x), 10)
		}
	}
	return string(b)
}

// ReservedOK reports whether bytes 7 to 10 are zero.
func (c *IdentCmd) ReservedOK() bool {
	return allZero(c.rx[identRsv:IDENT_LEN])
}

func (c *IdentCmd) Tx() string {
	return "IDENT"
}

func (c *IdentCmd) Rx() string {
	if !c.isValidRx() {
		return c.rxString("IDENT")
	}
	return fmt.Sprintf("IDENT %s type %d version %d serial %s",
		c.Model(), c.Type(), c.Version(), c.Serial())
}

func (c *IdentCmd) String() string {
	return c.Tx() + "\n" + c.Rx()
}

//----------------------------------------------------------------------

// FetchCmd reads the oldest trip record stored in the unit.
type FetchCmd struct {
	cmd
}

func NewFetchCmd() *FetchCmd {
	return &FetchCmd{cmd{
		tx: []byte{FETCH},
		rx: make([]byte, 0, DATA_LEN),
	}}
}

func (c *FetchCmd) Telemetry() Telemetry {
	return Decode(c.rx)
}

func (c *FetchCmd) Tx() string {
	return "FETCH"
}

func (c *FetchCmd) Rx() string {
	if !c.isValidRx() {
		return c.rxString("FETCH")
	}
	t := Decode(c.rx)
	return fmt.Sprintf("FETCH %dm %ds ts %dm %ds",
		t.Distance, t.Seconds, t.TSDistance, t.TSSeconds)
}

func (c *FetchCmd) String() string {
	return c.Tx() + "\n" + c.Rx()
}

//----------------------------------------------------------------------

// ClearCmd resets the unit's non trip-section counters.
type ClearCmd struct {
	cmd
}

func NewClearCmd() *ClearCmd {
	return &ClearCmd{cmd{
		tx: []byte{CLEAR, 0x02},
		rx: make([]byte, 0, 1),
	}}
}

// Err returns nil when the unit acknowledged with 0.
func (c *ClearCmd) Err() error {
	if c.rx[0] != 0 {
		return ClearErr(c.rx[0])
	}
	return nil
}

func (c *ClearCmd) Tx() string {
	return "CLEAR"
}

func (c *ClearCmd) Rx() string {
	if !c.isValidRx() {
		return c.rxString("CLEAR")
	}
	return "CLEAR " + strconv.Itoa(int(c.rx[0]))
}

func (c *ClearCmd) String() string {
	return c.Tx() + "\n" + c.Rx()
}

//----------------------------------------------------------------------

func allZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

func hexString(b []byte) string {
	return fmt.Sprintf("% X", b)
}
