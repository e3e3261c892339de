package generatecmder_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uigencmder "github.com/papercomputeco/uigen/cmd/uigen"
	generatecmder "github.com/papercomputeco/uigen/cmd/uigen/generate"
	"github.com/papercomputeco/uigen/pkg/dotdir"
)

func delta(content string) string {
	b, _ := json.Marshal(content)
	return `data: {"choices":[{"delta":{"content":` + string(b) + `}}]}` + "\n\n"
}

var _ = Describe("NewGenerateCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := generatecmder.NewGenerateCmd()
		Expect(cmd.Use).To(Equal("generate [description...]"))
		Expect(cmd.Aliases).To(ContainElement("gen"))
	})

	It("registers the upstream flags", func() {
		cmd := generatecmder.NewGenerateCmd()
		for _, name := range []string{"endpoint", "model", "provider", "catalog", "temperature", "top-p", "frequency-penalty", "max-tokens", "raw-out", "output", "interactive"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
		Expect(cmd.Flags().Lookup("temperature").DefValue).To(Equal("0.2"))
		Expect(cmd.Flags().Lookup("max-tokens").DefValue).To(Equal("10000"))
	})
})

var _ = Describe("Generate command execution", func() {
	var (
		configDir string
		upstream  *httptest.Server
		body      string
		status    int
		prompts   []string
		mu        sync.Mutex
		stdout    *bytes.Buffer
		stderr    *bytes.Buffer
	)

	execute := func(stdin string, args ...string) error {
		cmd := uigencmder.NewUigenCmd()
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		cmd.SetArgs(append([]string{
			"generate",
			"--config-dir", configDir,
			"--endpoint", upstream.URL,
			"--model", "test-model",
		}, args...))
		return cmd.Execute()
	}

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		status = http.StatusOK
		body = delta("<div>") + delta("hi") + delta("</div>") + "data: [DONE]\n\n"
		prompts = nil

		upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Messages []struct {
					Content string `json:"content"`
				} `json:"messages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			prompts = append(prompts, req.Messages[len(req.Messages)-1].Content)
			mu.Unlock()

			w.Header().Set("Content-Type", "text/event-stream")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		}))
		DeferCleanup(upstream.Close)
	})

	It("streams the component to stdout", func() {
		Expect(execute("", "a", "greeting")).To(Succeed())
		Expect(stdout.String()).To(Equal("<div>hi</div>\n"))

		Expect(prompts).To(HaveLen(1))
		Expect(prompts[0]).To(HavePrefix("a greeting\n Please ONLY return code"))
	})

	It("records the prompt in the history", func() {
		Expect(execute("", "a greeting")).To(Succeed())

		entries, err := dotdir.NewManager().LoadHistory(configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Prompt).To(Equal("a greeting"))
		Expect(entries[0].Model).To(Equal("test-model"))
	})

	It("reads the description from stdin", func() {
		Expect(execute("a card from stdin\n")).To(Succeed())
		Expect(stdout.String()).To(Equal("<div>hi</div>\n"))
		Expect(prompts[0]).To(HavePrefix("a card from stdin\n"))
	})

	It("rejects blank stdin", func() {
		err := execute("  \n")
		Expect(err).To(MatchError(ContainSubstring("input cannot be empty")))
		Expect(prompts).To(BeEmpty())
	})

	It("writes the output and raw stream files", func() {
		out := filepath.Join(configDir, "Greeting.jsx")
		raw := filepath.Join(configDir, "raw.log")
		Expect(execute("", "-o", out, "--raw-out", raw, "a greeting")).To(Succeed())

		data, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("<div>hi</div>"))

		data, err = os.ReadFile(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"content":"hi"`))
		Expect(string(data)).To(ContainSubstring("data: [DONE]"))
	})

	Context("when the stream ends without the done marker", func() {
		BeforeEach(func() {
			body = delta("<div>") + delta("partial")
		})

		It("keeps the partial output and fails", func() {
			err := execute("", "a greeting")
			Expect(err).To(HaveOccurred())
			Expect(stdout.String()).To(Equal("<div>partial\n"))
			Expect(stderr.String()).To(ContainSubstring("output is incomplete"))
		})
	})

	Context("when the upstream rejects the request", func() {
		BeforeEach(func() {
			status = http.StatusUnauthorized
			body = `{"error":"bad key"}`
		})

		It("returns the status error", func() {
			err := execute("", "a greeting")
			Expect(err).To(MatchError(ContainSubstring("upstream returned status 401")))
			Expect(stdout.String()).To(BeEmpty())
		})
	})

	Describe("interactive session", func() {
		It("generates once per line until /exit", func() {
			Expect(execute("first\n\nsecond\n/exit\nthird\n", "-i")).To(Succeed())

			Expect(prompts).To(HaveLen(2))
			Expect(prompts[0]).To(HavePrefix("first\n"))
			Expect(prompts[1]).To(HavePrefix("second\n"))
			Expect(stdout.String()).To(Equal("<div>hi</div>\n<div>hi</div>\n"))
			Expect(stderr.String()).To(ContainSubstring("test-model"))
		})

		It("keeps going after a failed generation", func() {
			status = http.StatusInternalServerError
			Expect(execute("first\nsecond\n", "-i")).To(Succeed())

			Expect(prompts).To(HaveLen(2))
			Expect(stderr.String()).To(ContainSubstring("upstream returned status 500"))
		})
	})

	It("explains how to set a missing model", func() {
		cmd := uigencmder.NewUigenCmd()
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		cmd.SetArgs([]string{"generate", "--config-dir", configDir, "--endpoint", upstream.URL, "x"})

		err := cmd.Execute()
		Expect(err).To(MatchError(ContainSubstring("missing model")))
		Expect(err.Error()).To(ContainSubstring("uigen init --preset"))
	})
})
