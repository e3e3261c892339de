package componentscmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	uigencmder "github.com/papercomputeco/uigen/cmd/uigen"
	componentscmder "github.com/papercomputeco/uigen/cmd/uigen/components"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

const customCatalog = `components:
  - name: Slider
    import_docs: import { Slider } from "/components/ui/slider"
    usage_docs: <Slider defaultValue={[33]} max={100} step={1} />
`

var _ = Describe("NewComponentsCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := componentscmder.NewComponentsCmd()
		Expect(cmd.Use).To(Equal("components"))
	})

	It("rejects any arguments", func() {
		cmd := componentscmder.NewComponentsCmd()
		Expect(cmd.Args(cmd, []string{"extra"})).To(HaveOccurred())
	})
})

var _ = Describe("Components command execution", func() {
	var (
		configDir string
		out       *bytes.Buffer
	)

	execute := func(args ...string) error {
		cmd := uigencmder.NewUigenCmd()
		cmd.SetOut(out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"components", "--config-dir", configDir}, args...))
		return cmd.Execute()
	}

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		out = &bytes.Buffer{}
	})

	It("prints the built-in catalog as markdown", func() {
		Expect(execute()).To(Succeed())
		Expect(out.String()).To(HavePrefix("# Components\n"))
		Expect(out.String()).To(ContainSubstring("## Button"))
	})

	It("prints only names", func() {
		Expect(execute("--names")).To(Succeed())

		names := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(names).To(Equal(prompt.DefaultCatalog().Names()))
	})

	It("reads a catalog file", func() {
		path := filepath.Join(configDir, "catalog.yaml")
		Expect(os.WriteFile(path, []byte(customCatalog), 0o600)).To(Succeed())

		Expect(execute("--catalog", path, "--names")).To(Succeed())
		Expect(out.String()).To(Equal("Slider\n"))
	})

	It("uses the catalog path from config.toml", func() {
		path := filepath.Join(configDir, "catalog.yaml")
		Expect(os.WriteFile(path, []byte(customCatalog), 0o600)).To(Succeed())
		toml := "[prompt]\ncatalog_path = \"" + filepath.ToSlash(path) + "\"\n"
		Expect(os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(toml), 0o600)).To(Succeed())

		Expect(execute("--names")).To(Succeed())
		Expect(out.String()).To(Equal("Slider\n"))
	})

	It("prints the system prompt with the catalog embedded", func() {
		path := filepath.Join(configDir, "catalog.yaml")
		Expect(os.WriteFile(path, []byte(customCatalog), 0o600)).To(Succeed())

		Expect(execute("--catalog", path, "--system-prompt")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("<name>\nSlider\n</name>"))
		Expect(out.String()).To(ContainSubstring(`import { Slider } from "/components/ui/slider"`))
	})

	It("fails on an invalid catalog file", func() {
		path := filepath.Join(configDir, "catalog.yaml")
		Expect(os.WriteFile(path, []byte("components:\n  - name: \"\"\n"), 0o600)).To(Succeed())

		Expect(execute("--catalog", path)).To(MatchError(ContainSubstring("loading catalog")))
	})
})
