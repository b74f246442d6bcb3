package engine

import (
	. "github.com/onsi/ginkgo/v2"
	g "github.com/onsi/gomega"
)

// peepOnly builds a translator whose table has no opcode mappings, just
// peephole rules, so optimize can be driven directly.
func peepOnly(rules string) *Translator {
	return NewBuilder().WithTable(mustParse(rules)).Build("TestPeep")
}

var _ = Describe("Peephole", func() {
	Context("deletion rules", func() {
		It("should delete a push/pop pair of the same value", func() {
			xlat := peepOnly(".del push ?x\\npop ?x\n")

			out, err := xlat.optimize([]string{
				"\tmov ax, 1",
				"\tpush ax",
				"\tpop ax",
				"\tret",
			})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal([]string{"\tmov ax, 1", "\tret"}))
		})

		It("should keep a push/pop pair of different values", func() {
			xlat := peepOnly(".del push ?x\\npop ?x\n")

			out, err := xlat.optimize([]string{"\tpush ax", "\tpop bx"})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal([]string{"\tpush ax", "\tpop bx"}))
		})

		It("should delete an addition of zero without touching neighbors", func() {
			xlat := peepOnly(".del add ?r, 0\n")

			out, err := xlat.optimize([]string{
				"\tmov ax, word [bp-0]",
				"\tadd ax, 0",
				"\tmov word [bp-0], ax",
			})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal([]string{
				"\tmov ax, word [bp-0]",
				"\tmov word [bp-0], ax",
			}))
		})

		It("should catch a pair exposed by an earlier deletion", func() {
			xlat := peepOnly(".del nop\n.del push ?x\\npop ?x\n")

			out, err := xlat.optimize([]string{
				"\tpush ax",
				"\tnop",
				"\tpop ax",
			})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.BeEmpty())
		})
	})

	Context("substitution rules", func() {
		It("should collapse a move swap to the canonical move", func() {
			xlat := peepOnly(".sub mov ?a, ?b\\nmov ?b, ?a ; \\tmov ?a, ?b\n")

			out, err := xlat.optimize([]string{
				"\tmov ax, bx",
				"\tmov bx, ax",
			})

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal([]string{"\tmov ax, bx"}))
		})

		It("should not collapse moves that are not a swap", func() {
			xlat := peepOnly(".sub mov ?a, ?b\\nmov ?b, ?a ; \\tmov ?a, ?b\n")

			lines := []string{"\tmov ax, bx", "\tmov cx, ax"}
			out, err := xlat.optimize(lines)

			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(out).To(g.Equal(lines))
		})
	})

	Context("fixed point", func() {
		It("should be idempotent", func() {
			xlat := peepOnly(
				".del add ?r, 0\n" +
					".del push ?x\\npop ?x\n" +
					".sub mov ?a, ?b\\nmov ?b, ?a ; \\tmov ?a, ?b\n")

			lines := []string{
				"\tpush ax",
				"\tpop ax",
				"\tmov ax, bx",
				"\tmov bx, ax",
				"\tadd cx, 0",
			}

			once, err := xlat.optimize(lines)
			g.Expect(err).ToNot(g.HaveOccurred())

			twice, err := xlat.optimize(append([]string{}, once...))
			g.Expect(err).ToNot(g.HaveOccurred())
			g.Expect(twice).To(g.Equal(once))
		})

		It("should stop a rule set that cannot settle", func() {
			xlat := peepOnly(".sub nop ; nop\\nnop\n")

			_, err := xlat.optimize([]string{"nop"})

			var fe *FixpointError
			g.Expect(err).To(g.BeAssignableToTypeOf(fe))
			g.Expect(err.Error()).To(g.ContainSubstring("budget"))
		})
	})
})
