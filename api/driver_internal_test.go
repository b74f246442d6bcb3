package api

import (
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/retargetlab/relower/isa"
)

const driverRules = `
.map MOV ::= MOV *tgt, #src
.fmt MOV ::= \tmov ax, $src\n\tmov word [tgt], ax\n
.map RET ::= RET
.fmt RET ::= \tret\n
.del add ?r, 0
`

var _ = Describe("Driver", func() {
	var (
		mockCtrl *gomock.Controller
		driver   Driver
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		driver = NewDriverBuilder().Build("Test")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should number fed instructions from 1", func() {
		driver.FeedIn([]isa.Instruction{
			{Opcode: "MOV", Operands: []isa.Operand{
				{Mode: isa.Indirect, Text: "x"},
				{Mode: isa.Immediate, Text: "3"},
			}},
		})
		driver.FeedIn([]isa.Instruction{{Opcode: "RET"}})

		impl := driver.(*driverImpl)
		Expect(impl.pending).To(HaveLen(2))
		Expect(impl.pending[0].Pos).To(Equal(1))
		Expect(impl.pending[1].Pos).To(Equal(2))
	})

	It("should refuse to run without a rule table", func() {
		Expect(driver.FeedInText("RET")).To(Succeed())
		Expect(driver.Run()).To(MatchError(ContainSubstring("no rule table")))
	})

	It("should reject a malformed rule table", func() {
		err := driver.LoadRules(".map MOV ::= MOV *tgt\n")
		Expect(err).To(HaveOccurred())
		Expect(driver.(*driverImpl).table).To(BeNil())
	})

	It("should translate the pending stream on Run", func() {
		Expect(driver.LoadRules(driverRules)).To(Succeed())
		Expect(driver.FeedInText("MOV *x, #3\nRET")).To(Succeed())

		Expect(driver.Run()).To(Succeed())

		Expect(driver.Collect()).To(Equal(
			"\tmov ax, 3\n" +
				"\tmov word [bp-0], ax\n" +
				"\tret\n"))
		Expect(driver.(*driverImpl).pending).To(BeEmpty())
	})

	It("should keep output empty before the first run", func() {
		Expect(driver.Collect()).To(Equal(""))
	})

	It("should not publish output when the emitter fails", func() {
		emitter := NewMockEmitter(mockCtrl)
		driver = NewDriverBuilder().
			WithEmitter(emitter).
			Build("Test")

		Expect(driver.LoadRules(driverRules)).To(Succeed())
		Expect(driver.FeedInText("RET")).To(Succeed())

		emitter.EXPECT().Emit("\tret\n").Return(errors.New("pipe closed"))

		Expect(driver.Run()).To(MatchError(ContainSubstring("emit")))
		Expect(driver.Collect()).To(Equal(""))
		Expect(driver.(*driverImpl).pending).To(HaveLen(1))
	})

	It("should hand the output to the emitter", func() {
		emitter := NewMockEmitter(mockCtrl)
		driver = NewDriverBuilder().
			WithEmitter(emitter).
			Build("Test")

		Expect(driver.LoadRules(driverRules)).To(Succeed())
		Expect(driver.FeedInText("RET")).To(Succeed())

		emitter.EXPECT().Emit("\tret\n").Return(nil)

		Expect(driver.Run()).To(Succeed())
		Expect(driver.Collect()).To(Equal("\tret\n"))
	})
})
