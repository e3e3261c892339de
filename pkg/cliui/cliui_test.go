package cliui_test

import (
	"bytes"
	"errors"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/uigen/pkg/cliui"
)

var _ = Describe("cliui", func() {
	Describe("FormatDuration", func() {
		It("formats sub-second durations in milliseconds", func() {
			Expect(cliui.FormatDuration(42 * time.Millisecond)).To(Equal("42ms"))
		})

		It("formats longer durations in seconds", func() {
			Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
		})
	})

	Describe("Mark", func() {
		It("returns the success mark for nil", func() {
			Expect(cliui.Mark(nil)).To(Equal(cliui.SuccessMark))
		})

		It("returns the fail mark for an error", func() {
			Expect(cliui.Mark(errors.New("x"))).To(Equal(cliui.FailMark))
		})
	})

	Describe("Step", func() {
		It("runs fn and prints the final line", func() {
			var buf bytes.Buffer
			ran := false

			err := cliui.Step(&buf, "loading catalog", func() error {
				ran = true
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(ran).To(BeTrue())
			Expect(buf.String()).To(ContainSubstring("loading catalog"))
			Expect(buf.String()).To(HaveSuffix("\n"))
		})

		It("returns the error from fn", func() {
			var buf bytes.Buffer
			sentinel := errors.New("no such file")

			err := cliui.Step(&buf, "loading catalog", func() error { return sentinel })
			Expect(err).To(MatchError(sentinel))
		})
	})

	Describe("Warn", func() {
		It("formats the message", func() {
			var buf bytes.Buffer
			cliui.Warn(&buf, "stream ended after %d fragments", 3)
			Expect(buf.String()).To(ContainSubstring("stream ended after 3 fragments"))
		})
	})

	Describe("KeyValue", func() {
		It("contains both key and value", func() {
			line := cliui.KeyValue("model", "gpt-4o", 10)
			Expect(line).To(ContainSubstring("model"))
			Expect(line).To(ContainSubstring("gpt-4o"))
		})
	})

	Describe("RenderMarkdown", func() {
		It("keeps the text content", func() {
			out, err := cliui.RenderMarkdown("# Button\n\nA clickable button.")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(ContainSubstring("Button"))
			Expect(out).To(ContainSubstring("clickable"))
		})
	})

	Describe("IsTerminal", func() {
		It("is false for a regular file", func() {
			f, err := os.CreateTemp("", "cliui-*")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(os.Remove, f.Name())
			DeferCleanup(f.Close)

			Expect(cliui.IsTerminal(f)).To(BeFalse())
		})

		It("is false for nil", func() {
			Expect(cliui.IsTerminal(nil)).To(BeFalse())
		})
	})
})
