package authcmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uigencmder "github.com/papercomputeco/uigen/cmd/uigen"
	authcmder "github.com/papercomputeco/uigen/cmd/uigen/auth"
	"github.com/papercomputeco/uigen/pkg/config"
)

var _ = Describe("NewAuthCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := authcmder.NewAuthCmd()
		Expect(cmd.Use).To(Equal("auth"))
	})

	It("has --status and --remove flags", func() {
		cmd := authcmder.NewAuthCmd()
		Expect(cmd.Flags().Lookup("status")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("remove")).NotTo(BeNil())
	})
})

var _ = Describe("Auth command execution", func() {
	var (
		configDir string
		out       *bytes.Buffer
	)

	execute := func(stdin string, args ...string) error {
		cmd := uigencmder.NewUigenCmd()
		cmd.SetIn(strings.NewReader(stdin))
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"auth", "--config-dir", configDir}, args...))
		return cmd.Execute()
	}

	storedToken := func() string {
		cfger, err := config.NewConfiger(configDir)
		Expect(err).NotTo(HaveOccurred())
		token, err := cfger.GetConfigValue("api.auth_token")
		Expect(err).NotTo(HaveOccurred())
		return token
	}

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	It("stores a piped token", func() {
		Expect(execute("  sk-piped-token  \nignored\n")).To(Succeed())
		Expect(storedToken()).To(Equal("sk-piped-token"))
		Expect(out.String()).NotTo(ContainSubstring("sk-piped-token"))
	})

	It("writes the config with owner-only permissions", func() {
		Expect(execute("sk-token\n")).To(Succeed())

		info, err := os.Stat(filepath.Join(configDir, "config.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("rejects an empty token", func() {
		Expect(execute("   \n")).To(MatchError("API token cannot be empty"))
	})

	It("rejects empty stdin", func() {
		Expect(execute("")).To(MatchError("no input received on stdin"))
	})

	It("reports the stored token status", func() {
		Expect(execute("", "--status")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No API token stored"))

		Expect(execute("sk-abcd1234\n")).To(Succeed())
		out.Reset()

		Expect(execute("", "--status")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("ends in 1234"))
		Expect(out.String()).NotTo(ContainSubstring("sk-abcd1234"))
	})

	It("removes the stored token", func() {
		Expect(execute("sk-token\n")).To(Succeed())
		Expect(execute("", "--remove")).To(Succeed())
		Expect(storedToken()).To(BeEmpty())
	})

	It("rejects --status with --remove", func() {
		Expect(execute("", "--status", "--remove")).To(HaveOccurred())
	})
})
