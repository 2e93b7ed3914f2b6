package sds

import (
	"strconv"
)

var (
	InfoLogFunc  func(string, ...any)
	DebugLogFunc func(string, ...any)
)

func log(f string, a ...any) {
	if InfoLogFunc != nil {
		InfoLogFunc(f, a...)
	}
}

func debugLog(f string, a ...any) {
	if DebugLogFunc != nil {
		DebugLogFunc(f, a...)
	}
}

// hexDump logs info followed by b in lowercase hex.
func hexDump(info string, b []byte) {
	s := make([]byte, 0, len(info)+len(b)*3)
	s = append(s, info...)
	for _, x := range b {
		s = append(s, ' ')
		if x < 0x10 {
			s = append(s, '0')
		}
		s = strconv.AppendUint(s, uint64(x), 16)
	}
	log("%s", s)
}
