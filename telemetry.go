package sds

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Offsets into the data reply. Multi-byte fields are big-endian.
const (
	offPending  = 0
	offDistance = 1
	offSeconds  = 4
	offMeanSp   = 7
	offMaxSp    = 9
	offCadence  = 11
	offRsv1     = 12
	offTSDist   = 14
	offTSSecs   = 17
	offRsv2     = 20
)

// Units selects the labels and the divisor applied to distances and speeds.
type Units struct {
	Distance string
	Speed    string
	Factor   float64
}

var (
	Metric   = Units{"km", "km/hr", 1.0}
	Imperial = Units{"mi", "mph", 1.609344}
)

// Telemetry is one trip record. Distances are meters, speeds hundredths of
// km/h, times seconds; Convert rescales distances and speeds.
type Telemetry struct {
	Pending    byte
	Distance   uint32
	Seconds    uint32
	MeanSpeed  uint16
	MaxSpeed   uint16
	Cadence    byte
	TSDistance uint32
	TSSeconds  uint32

	Rsv1OK bool
	Rsv2OK bool
}

// Decode parses a data reply. b must be DATA_LEN bytes long.
func Decode(b []byte) Telemetry {
	if len(b) != DATA_LEN {
		panic(fmt.Sprintf("invalid data reply length: %d", len(b)))
	}
	return Telemetry{
		Pending:    b[offPending],
		Distance:   be24(b[offDistance:]),
		Seconds:    be24(b[offSeconds:]),
		MeanSpeed:  be16(b[offMeanSp:]),
		MaxSpeed:   be16(b[offMaxSp:]),
		Cadence:    b[offCadence],
		TSDistance: be24(b[offTSDist:]),
		TSSeconds:  be24(b[offTSSecs:]),
		Rsv1OK:     allZero(b[offRsv1:offTSDist]),
		Rsv2OK:     allZero(b[offRsv2:DATA_LEN]),
	}
}

// Records is the number of trip records waiting in the unit.
func (t Telemetry) Records() int {
	return int(t.Pending) + 1
}

// Convert divides distances and speeds by u.Factor, truncating.
func (t Telemetry) Convert(u Units) Telemetry {
	if u.Factor == 1.0 || u.Factor <= 0 {
		return t
	}
	t.Distance = uint32(float64(t.Distance) / u.Factor)
	t.MeanSpeed = uint16(float64(t.MeanSpeed) / u.Factor)
	t.MaxSpeed = uint16(float64(t.MaxSpeed) / u.Factor)
	t.TSDistance = uint32(float64(t.TSDistance) / u.Factor)
	return t
}

// Report logs what the record says about the unit itself.
func (t Telemetry) Report() {
	if t.Pending > 0 {
		log("%d records in the unit; reading the oldest one", t.Records())
	}
	if !t.Rsv1OK {
		log("debug: unexpected values in bytes 12 and 13")
	}
	if !t.Rsv2OK {
		log("debug: unexpected values in bytes 20 to 26")
	}
}

// Render writes t, already converted, either one labeled line per field or
// a single comma-separated line. Zero fields are skipped unless cfg.Zeros;
// in raw mode a skipped field keeps its empty slot.
func (t Telemetry) Render(w io.Writer, cfg Config, u Units) error {
	show := func(v uint32) bool {
		return v > 0 || cfg.Zeros
	}

	if cfg.Raw {
		b := make([]byte, 0, 64)
		if show(t.Distance) {
			b = strconv.AppendUint(b, uint64(t.Distance), 10)
		}
		b = append(b, ',')
		if show(t.Seconds) {
			b = strconv.AppendUint(b, uint64(t.Seconds), 10)
		}
		b = append(b, ',')
		if show(uint32(t.MeanSpeed)) {
			b = appendHundredths(b, t.MeanSpeed)
		}
		b = append(b, ',')
		if show(uint32(t.MaxSpeed)) {
			b = appendHundredths(b, t.MaxSpeed)
		}
		b = append(b, ',')
		if show(uint32(t.Cadence)) {
			b = strconv.AppendUint(b, uint64(t.Cadence), 10)
		}
		b = append(b, ',')
		if cfg.TS {
			if show(t.TSDistance) {
				b = strconv.AppendUint(b, uint64(t.TSDistance), 10)
			}
			b = append(b, ',')
			if show(t.TSSeconds) {
				b = strconv.AppendUint(b, uint64(t.TSSeconds), 10)
			}
		}
		b = append(b, '\n')
		_, err := w.Write(b)
		return err
	}

	bw := bufio.NewWriter(w)
	if show(t.Distance) {
		fmt.Fprintf(bw, "distance: %s %s\n", Dist(t.Distance), u.Distance)
	}
	if show(t.Seconds) {
		fmt.Fprintf(bw, "time: %s\n", HMS(t.Seconds))
	}
	if show(uint32(t.MeanSpeed)) {
		fmt.Fprintf(bw, "meanspeed: %s %s\n", Speed(t.MeanSpeed), u.Speed)
	}
	if show(uint32(t.MaxSpeed)) {
		fmt.Fprintf(bw, "maxspeed: %s %s\n", Speed(t.MaxSpeed), u.Speed)
	}
	if show(uint32(t.Cadence)) {
		fmt.Fprintf(bw, "cadence: %d/min\n", t.Cadence)
	}
	if cfg.TS {
		if show(t.TSDistance) {
			fmt.Fprintf(bw, "ts_dist: %s %s\n", Dist(t.TSDistance), u.Distance)
		}
		if show(t.TSSeconds) {
			fmt.Fprintf(bw, "ts_time: %s\n", HMS(t.TSSeconds))
		}
	}
	return bw.Flush()
}

// Dist formats meters as kilometers with two truncated decimals.
func Dist(m uint32) string {
	return fmt.Sprintf("%d.%02d", m/1000, (m%1000)/10)
}

// Speed formats a hundredths value with two decimals.
func Speed(v uint16) string {
	return string(appendHundredths(nil, v))
}

// HMS formats seconds as H:MM:SS.
func HMS(s uint32) string {
	h := s / 3600
	m := s % 3600
	return fmt.Sprintf("%d:%02d:%02d", h, m/60, m%60)
}

func appendHundredths(b []byte, v uint16) []byte {
	b = strconv.AppendUint(b, uint64(v/100), 10)
	b = append(b, '.')
	if v%100 < 10 {
		b = append(b, '0')
	}
	return strconv.AppendUint(b, uint64(v%100), 10)
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func be24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
