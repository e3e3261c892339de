package servecmder_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uigencmder "github.com/papercomputeco/uigen/cmd/uigen"
	servecmder "github.com/papercomputeco/uigen/cmd/uigen/serve"
)

// freeAddr returns a loopback address with a port that was free a moment ago.
func freeAddr() string {
	l, err := net.Listen("tcp4", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	addr := l.Addr().String()
	Expect(l.Close()).To(Succeed())
	return addr
}

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("registers the server flags", func() {
		cmd := servecmder.NewServeCmd()
		for _, name := range []string{"listen", "endpoint", "model", "catalog", "cors-origins", "watch", "log-file"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(":8080"))
	})

	It("rejects positional arguments", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("Serve command execution", func() {
	var (
		configDir string
		stderr    *bytes.Buffer
	)

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		stderr = &bytes.Buffer{}
	})

	newCmd := func(args ...string) func(context.Context) error {
		cmd := uigencmder.NewUigenCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(stderr)
		cmd.SetArgs(append([]string{"serve", "--config-dir", configDir}, args...))
		return cmd.ExecuteContext
	}

	It("requires a catalog file for --watch", func() {
		err := newCmd("--endpoint", "http://localhost:1", "--model", "m", "--watch")(context.Background())
		Expect(err).To(MatchError(ContainSubstring("--watch requires a catalog file")))
	})

	It("requires an endpoint", func() {
		err := newCmd("--model", "m")(context.Background())
		Expect(err).To(MatchError(ContainSubstring("missing endpoint")))
	})

	It("reports a listen failure", func() {
		err := newCmd("--endpoint", "http://localhost:1", "--model", "m", "--listen", "127.0.0.1:-1")(context.Background())
		Expect(err).To(MatchError(ContainSubstring("API server error")))
	})

	It("serves until the context is cancelled", func() {
		addr := freeAddr()
		logFile := filepath.Join(configDir, "uigen.jsonl")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			done <- newCmd("--endpoint", "http://localhost:1", "--model", "m", "--listen", addr, "--log-file", logFile)(ctx)
		}()

		Eventually(func() (int, error) {
			resp, err := http.Get("http://" + addr + "/ping")
			if err != nil {
				return 0, err
			}
			defer resp.Body.Close()
			return resp.StatusCode, nil
		}).Should(Equal(http.StatusOK))

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
