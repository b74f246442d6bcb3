package engine

import (
	. "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"

	"github.com/retargetlab/relower/isa"
	"github.com/retargetlab/relower/rule"
)

func mustParse(rules string) *rule.Table {
	table, err := rule.Parse(rules)
	g.Expect(err).ToNot(g.HaveOccurred())
	return table
}

func mustInst(line string) isa.Instruction {
	inst, err := isa.ParseInstruction(line)
	g.Expect(err).ToNot(g.HaveOccurred())
	inst.Pos = 1
	return inst
}

var _ = Describe("Translator", func() {
	Context("matching and expanding a single instruction", func() {
		var xlat *Translator

		BeforeEach(func() {
			xlat = NewBuilder().
				WithTable(mustParse(
					".map MOV ::= MOV *tgt, #src | MOV *tgt, *src\n" +
						".fmt MOV ::= \\tmov ax, $src\\n\\tmov word [tgt], ax\\n" +
						" | &src\\n\\tmov word [tgt], cx\\n\n" +
						".map * ::= * *x\n" +
						".fmt * ::= \\tmov cx, word [x]\\n\n")).
				Build("TestXlat")
		})

		It("should expand the immediate form byte for byte", func() {
			out, err := xlat.Translate([]isa.Instruction{mustInst("MOV *slot, #5")})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal("\tmov ax, 5\n\tmov word [bp-0], ax\n"))
		})

		It("should render the loader fragment before the literal lines", func() {
			out, err := xlat.Translate([]isa.Instruction{mustInst("MOV *dst, *src")})

			g.Expect(err).ToNot(g.HaveOccurred())
			// src is loaded into scratch through the "*" rule first, so
			// it claims slot 0; dst is only touched by the store line
			// and gets slot 2.
			g.Expect(out).To(g.Equal("\tmov cx, word [bp-0]\n\tmov word [bp-2], cx\n"))
		})

		It("should allocate slot offsets in first-use order", func() {
			out, err := xlat.Translate([]isa.Instruction{
				mustInst("MOV *a, #1"),
				mustInst("MOV *b, #2"),
				mustInst("MOV *a, #3"),
			})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal(
				"\tmov ax, 1\n\tmov word [bp-0], ax\n" +
					"\tmov ax, 2\n\tmov word [bp-2], ax\n" +
					"\tmov ax, 3\n\tmov word [bp-0], ax\n"))
		})

		It("should reset slot allocation between runs", func() {
			_, err := xlat.Translate([]isa.Instruction{mustInst("MOV *first, #1")})
			g.Expect(err).ToNot(g.HaveOccurred())

			out, err := xlat.Translate([]isa.Instruction{mustInst("MOV *second, #1")})
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.ContainSubstring("[bp-0]"))
		})
	})

	Context("variant selection", func() {
		It("should pick the first declared variant when two could match", func() {
			xlat := NewBuilder().
				WithTable(mustParse(
					".map NOP ::= NOP #v | NOP #v\n" +
						".fmt NOP ::= first $v\\n | second $v\\n\n")).
				Build("TestXlat")

			out, err := xlat.Translate([]isa.Instruction{mustInst("NOP #9")})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal("first 9\n"))
		})
	})

	Context("operand rendering kinds", func() {
		var xlat *Translator

		BeforeEach(func() {
			xlat = NewBuilder().
				WithTable(mustParse(
					".map TRI ::= TRI *m, &r, #i\n" +
						".fmt TRI ::= $m !m m\\n$r !r r\\n$i !i i\\n\n")).
				WithBaseRegister("fp").
				WithWordSize(4).
				Build("TestXlat")
		})

		It("should render value, offset, and location forms per mode", func() {
			out, err := xlat.Translate([]isa.Instruction{mustInst("TRI *v, &ax, #7")})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal("v 0 fp-0\nax ax ax\n7 7 7\n"))
		})

		It("should honor the configured word size", func() {
			out, err := xlat.Translate([]isa.Instruction{
				mustInst("TRI *a, &ax, #1"),
				mustInst("TRI *b, &ax, #1"),
			})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.ContainSubstring("b 4 fp-4"))
		})
	})

	Context("errors", func() {
		var xlat *Translator

		BeforeEach(func() {
			xlat = NewBuilder().
				WithTable(mustParse(
					".map SUB ::= SUB *t, #s\n" +
						".fmt SUB ::= \\tsub t, $s\\n\n")).
				Build("TestXlat")
		})

		It("should report an unknown opcode as a MatchError", func() {
			inst := mustInst("FNORD *x")
			inst.Pos = 3

			_, err := xlat.Translate([]isa.Instruction{inst})

			var me *MatchError
			g.Expect(err).To(g.BeAssignableToTypeOf(me))
			g.Expect(err.(*MatchError).Pos).To(g.Equal(3))
			g.Expect(err.Error()).To(g.ContainSubstring("FNORD"))
		})

		It("should name the instruction when no mode tuple matches", func() {
			inst := mustInst("SUB &y, &z")
			inst.Pos = 2

			_, err := xlat.Translate([]isa.Instruction{inst})

			g.Expect(err).To(g.HaveOccurred())
			g.Expect(err.Error()).To(g.ContainSubstring("instruction 2"))
			g.Expect(err.Error()).To(g.ContainSubstring("SUB &y, &z"))
			g.Expect(err.Error()).To(g.ContainSubstring("no variant"))
		})

		It("should refuse a loader rule that recurses into itself", func() {
			xlat := NewBuilder().
				WithTable(mustParse(
					".map LD ::= LD *t\n" +
						".fmt LD ::= &t\\n\n" +
						".map * ::= * *x\n" +
						".fmt * ::= &x\\n\n")).
				Build("TestXlat")

			_, err := xlat.Translate([]isa.Instruction{mustInst("LD *v")})

			g.Expect(err).To(g.HaveOccurred())
			g.Expect(err.Error()).To(g.ContainSubstring("depth"))
		})
	})
})
