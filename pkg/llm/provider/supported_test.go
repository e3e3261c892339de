package provider_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/uigen/pkg/llm/provider"
)

var _ = Describe("New", func() {
	It("builds the openai provider", func() {
		p, err := provider.New(provider.OpenAI)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Name()).To(Equal("openai"))
	})

	It("rejects unknown provider types", func() {
		_, err := provider.New("nope")
		Expect(err).To(MatchError(ContainSubstring(`unknown provider type: "nope"`)))
	})

	It("lists every supported provider", func() {
		for _, name := range provider.SupportedProviders() {
			_, err := provider.New(name)
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
