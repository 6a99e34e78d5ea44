package app_test

import (
	"bytes"

	. "github.com/mandelsoft/buildingblocks/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/buildingblocks/cmds/bbctl/app"
)

var _ = Describe("bbctl", func() {
	var fs vfs.FileSystem
	var cmd *cobra.Command
	var buf *bytes.Buffer

	BeforeEach(func() {
		fs = Must(TestFileSystem("testdata", false))
		buf = bytes.NewBuffer(nil)
		cmd = app.New(fs)
		cmd.SetOut(buf)
		cmd.SetErr(buf)
	})

	AfterEach(func() {
		vfs.Cleanup(fs)
	})

	Context("kinds", func() {
		It("lists kinds", func() {
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "kinds"})
			MustBeSuccessful(cmd.Execute())
			Expect("\n" + buf.String()).To(Equal(`
KIND       CATEGORY MULTIPLICITY LAYER        DEPENDENTS
Cup        mesh     single       Cup          CupStuds,SkirtGuide
CupStuds   mesh     single       Cup::Studs
SkirtCurve curve    single       Skirt        SkirtGuide
SkirtGuide mesh     single       Skirt::Guide
Screws     mesh     multiple     Screws
`))
		})

		It("uses built-in catalogs", func() {
			cmd.SetArgs([]string{"-c", "cmf", "kinds", "-o", "json"})
			MustBeSuccessful(cmd.Execute())
			Expect(buf.String()).To(HavePrefix(`[{"kind":"OriginalBone","category":"mesh"`))
		})

		It("rejects invalid formats", func() {
			cmd.SetArgs([]string{"kinds", "-o", "xml"})
			Expect(cmd.Execute()).To(MatchError(ContainSubstring(`invalid output format "xml"`)))
		})

		It("rejects unknown catalogs", func() {
			cmd.SetArgs([]string{"-c", "unknown", "kinds"})
			Expect(cmd.Execute()).To(MatchError(`unknown catalog "unknown"`))
		})
	})

	Context("dependents", func() {
		It("shows transitive dependents", func() {
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "dependents", "Cup", "Screws"})
			MustBeSuccessful(cmd.Execute())
			Expect("\n" + buf.String()).To(Equal(`
KIND   DEPENDENTS
Cup    CupStuds,SkirtGuide
Screws
`))
		})

		It("shows direct dependents as yaml", func() {
			cmd.SetArgs([]string{"-c", "amace", "dependents", "--direct", "DesignPelvis", "-o", "yaml"})
			MustBeSuccessful(cmd.Execute())
			Expect(buf.String()).To(MatchYAML(`
DesignPelvis:
- CupRbv
- ReamedPelvis
`))
		})

		It("fails for unknown kinds", func() {
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "dependents", "Unknown"})
			Expect(cmd.Execute()).To(MatchError(`block kind "Unknown": unknown block kind`))
		})
	})

	Context("validate", func() {
		It("validates catalogs", func() {
			cmd.SetArgs([]string{"validate", "amace", "testdata/hip.yaml"})
			MustBeSuccessful(cmd.Execute())
			Expect(buf.String()).To(MatchRegexp(`(?m)^amace: catalog "amace" is valid \(17 kinds, 20 edges, fingerprint [0-9a-f]{64}\)$`))
			Expect(buf.String()).To(MatchRegexp(`(?m)^testdata/hip.yaml: catalog "hip" is valid \(5 kinds, 3 edges, fingerprint [0-9a-f]{64}\)$`))
		})

		It("reports invalid catalogs", func() {
			MustBeSuccessful(vfs.WriteFile(fs, "testdata/cycle.yaml", []byte(`
name: cycle
blocks:
- kind: A
  category: mesh
  name: A
  dependents: [A]
`), 0o600))
			cmd.SetArgs([]string{"validate", "testdata/cycle.yaml", "cmf"})
			Expect(cmd.Execute()).To(MatchError("validation failed for some catalogs"))
			Expect(buf.String()).To(ContainSubstring(`testdata/cycle.yaml: catalog "cycle": block kind "A": dependency cycle detected`))
			Expect(buf.String()).To(ContainSubstring(`cmf: catalog "cmf" is valid`))
		})
	})

	Context("simulate", func() {
		It("shows cascades", func() {
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "simulate", "--seed", "1", "Cup"})
			MustBeSuccessful(cmd.Execute())
			out := buf.String()
			Expect(out).To(HavePrefix("catalog hip: 6 block(s) in 5 kind(s)\nmutating Cup\n  OnMutate Cup\n  OnDelete CupStuds\n  OnDelete SkirtGuide\n  set Cup/"))
			Expect(out).To(ContainSubstring(", deleted 2 instance(s) of [CupStuds, SkirtGuide]\n"))
			Expect(out).To(HaveSuffix("remaining: Cup,SkirtCurve,Screws\n"))
		})

		It("uses snapshots", func() {
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "simulate", "-s", "snapshot", "-w", "Cup"})
			MustBeSuccessful(cmd.Execute())
			Expect(vfs.DirExists(fs, "snapshot/Screws")).To(BeTrue())

			buf.Reset()
			cmd = app.New(fs)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "simulate", "-s", "snapshot", "SkirtCurve"})
			MustBeSuccessful(cmd.Execute())
			Expect(buf.String()).To(HavePrefix("catalog hip: 4 block(s) in 3 kind(s)\n"))
			Expect(buf.String()).To(HaveSuffix("remaining: Cup,SkirtCurve,Screws\n"))
		})

		It("rejects saving without snapshot", func() {
			cmd.SetArgs([]string{"-c", "testdata/hip.yaml", "simulate", "-w", "Cup"})
			Expect(cmd.Execute()).To(MatchError("snapshot directory required for saving"))
		})
	})
})
