package sds_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/bangzek/sds-data"
)

func setRx(cmd Cmd, b []byte) {
	rx := cmd.RxBytes()
	*rx = (*rx)[:len(b)]
	copy(*rx, b)
}

var _ = Describe("PollCmd", func() {
	var cmd *PollCmd
	BeforeEach(func() {
		cmd = NewPollCmd()
	})

	Context("New", func() {
		It("has Tx Bytes", func() {
			Expect(cmd.TxBytes()).To(Equal([]byte{0xf4}))
		})
		It("has Tx String", func() {
			Expect(cmd.Tx()).To(Equal("POLL"))
		})
		It("has String", func() {
			Expect(cmd.String()).To(Equal("POLL\nPOLL []"))
		})
		It("is neither present nor absent", func() {
			Expect(cmd.Present()).To(BeFalse())
			Expect(cmd.Absent()).To(BeFalse())
		})
	})

	DescribeTable("reply",
		func(b byte, present, absent bool) {
			setRx(cmd, []byte{b})
			Expect(cmd.Present()).To(Equal(present))
			Expect(cmd.Absent()).To(Equal(absent))
			Expect(cmd.Rx()).To(HavePrefix("POLL "))
		},
		Entry("unit in the cradle", byte(1), true, false),
		Entry("empty cradle", byte(0), false, true),
		Entry("anything else", byte(2), false, false),
	)

	It("has Rx String", func() {
		setRx(cmd, []byte{1})
		Expect(cmd.Rx()).To(Equal("POLL 1"))
		Expect(cmd.String()).To(Equal("POLL\nPOLL 1"))
	})
})

var _ = Describe("IdentCmd", func() {
	var cmd *IdentCmd
	BeforeEach(func() {
		cmd = NewIdentCmd()
	})

	It("has Tx Bytes", func() {
		Expect(cmd.TxBytes()).To(Equal([]byte{0xfe}))
		Expect(cmd.Tx()).To(Equal("IDENT"))
	})

	Context("BC 16.12 with ASCII serial", func() {
		BeforeEach(func() {
			setRx(cmd, []byte{0x15, 0x15, '1', '2', '3', '4', 3, 0, 0, 0, 0})
		})
		It("is identified", func() {
			Expect(cmd.Model()).To(Equal(BC1612))
			Expect(cmd.Model().IsSupported()).To(BeTrue())
			Expect(cmd.Type()).To(Equal(byte(0x15)))
			Expect(cmd.Version()).To(Equal(byte(3)))
			Expect(cmd.Serial()).To(Equal("1234"))
			Expect(cmd.ReservedOK()).To(BeTrue())
		})
		It("has Rx String", func() {
			Expect(cmd.Rx()).To(Equal(
				"IDENT BC 16.12 type 21 version 3 serial 1234"))
		})
	})

	Context("digit serial", func() {
		BeforeEach(func() {
			setRx(cmd, []byte{0x15, 0x15, 9, 0, 7, 1, 2, 0, 0, 0, 0})
		})
		It("has Serial", func() {
			Expect(cmd.Serial()).To(Equal("9071"))
		})
	})

	Context("reserved bytes set", func() {
		BeforeEach(func() {
			setRx(cmd, []byte{0x15, 0x15, 1, 2, 3, 4, 3, 0, 0, 0x80, 0})
		})
		It("is not ReservedOK", func() {
			Expect(cmd.ReservedOK()).To(BeFalse())
		})
	})

	Context("empty cradle", func() {
		BeforeEach(func() {
			setRx(cmd, make([]byte, 11))
		})
		It("has no unit", func() {
			Expect(cmd.Model()).To(Equal(NoUnit))
			Expect(cmd.Rx()).To(HavePrefix("IDENT NONE "))
		})
	})

	It("shows a short reply raw", func() {
		setRx(cmd, []byte{0x15, 0x15})
		Expect(cmd.Rx()).To(Equal("IDENT [15 15]"))
	})
})

var _ = Describe("FetchCmd", func() {
	var cmd *FetchCmd
	BeforeEach(func() {
		cmd = NewFetchCmd()
	})

	It("has Tx Bytes", func() {
		Expect(cmd.TxBytes()).To(Equal([]byte{0xfb}))
		Expect(cmd.Tx()).To(Equal("FETCH"))
	})

	It("decodes Telemetry", func() {
		b := make([]byte, 27)
		b[2], b[3] = 0x27, 0x10
		b[6] = 60
		b[16] = 0xff
		b[19] = 1
		setRx(cmd, b)
		t := cmd.Telemetry()
		Expect(t.Distance).To(Equal(uint32(10000)))
		Expect(t.Seconds).To(Equal(uint32(60)))
		Expect(cmd.Rx()).To(Equal("FETCH 10000m 60s ts 255m 1s"))
	})
})

var _ = Describe("ClearCmd", func() {
	var cmd *ClearCmd
	BeforeEach(func() {
		cmd = NewClearCmd()
	})

	It("has Tx Bytes", func() {
		Expect(cmd.TxBytes()).To(Equal([]byte{0xf0, 0x02}))
		Expect(cmd.Tx()).To(Equal("CLEAR"))
	})

	It("succeeds on 0", func() {
		setRx(cmd, []byte{0})
		Expect(cmd.Err()).To(Succeed())
		Expect(cmd.Rx()).To(Equal("CLEAR 0"))
	})

	It("fails on anything else", func() {
		setRx(cmd, []byte{1})
		Expect(cmd.Err()).To(MatchError(ClearErr(1)))
		Expect(cmd.Err()).To(MatchError(
			"counters clearing probably failed (return code 1)"))
	})
})
