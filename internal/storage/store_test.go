package storage_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/san-kum/turtlefun/internal/storage"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tiny() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

var _ = Describe("naming", func() {
	DescribeTable("DirName",
		func(theta, want string) {
			Expect(storage.DirName(dec(theta))).To(Equal(want))
		},
		Entry("fraction", "179.7444", "179-7"),
		Entry("integer", "1", "1-0"),
		Entry("small", "0.05", "0-0"),
		Entry("negative", "-1.25", "-1-2"),
	)

	DescribeTable("ThetaLabel",
		func(theta, want string) {
			Expect(storage.ThetaLabel(dec(theta))).To(Equal(want))
		},
		Entry("integer", "1", "001.00000000"),
		Entry("wide", "179.7444", "179.74440000"),
		Entry("bankers rounding", "0.000000005", "000.00000000"),
		Entry("negative", "-1", "-01.00000000"),
	)

	It("builds the file name of a run", func() {
		Expect(storage.FileName(dec("1"), dec("0.05"), 720, true, storage.PNG)).
			To(Equal("tfnt_001.00000000_0.0500_720_origin-return.png"))
		Expect(storage.FileName(dec("179.7444"), dec("1.23457"), 99, false, storage.JPEG)).
			To(Equal("tfnt_179.74440000_1.2346_99.jpeg"))
	})

	It("parses formats", func() {
		for name, want := range map[string]storage.Format{"png": storage.PNG, "JPG": storage.JPEG, ".jpeg": storage.JPEG} {
			f, err := storage.ParseFormat(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(want))
		}
		_, err := storage.ParseFormat("gif")
		Expect(err).To(MatchError(storage.ErrUnsupportedFormat))
	})
})

var _ = Describe("Store", func() {
	var (
		dir   string
		store *storage.Store
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "turtlefun-store")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		store = storage.New(filepath.Join(dir, "out"), storage.PNG)
		Expect(store.Init()).To(Succeed())
	})

	It("reports missing thetas as absent", func() {
		ok, err := store.Exists(dec("3"))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	Context("after saving a run", func() {
		var path string

		BeforeEach(func() {
			var err error
			path, err = store.Save(&storage.Record{
				Theta:          "1",
				Steps:          720,
				Home:           true,
				Scale:          "0.05",
				StepSize:       "100",
				Width:          4,
				Height:         3,
				DominantAngles: []string{"1"},
				Candidates:     []string{"80", "144", "720"},
			}, tiny())
			Expect(err).NotTo(HaveOccurred())
		})

		It("writes the image into the theta directory", func() {
			Expect(path).To(Equal(filepath.Join(dir, "out", "1-0", "tfnt_001.00000000_0.0500_720_origin-return.png")))
			Expect(path).To(BeAnExistingFile())

			f, err := os.Open(path)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			cfg, format, err := image.DecodeConfig(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(format).To(Equal("png"))
			Expect(cfg.Width).To(Equal(4))
			Expect(cfg.Height).To(Equal(3))
		})

		It("finds the theta", func() {
			ok, err := store.Exists(dec("1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			ok, err = store.Exists(dec("1.05"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("does not match other formats", func() {
			jpegs := storage.New(store.BaseDir(), storage.JPEG)
			ok, err := jpegs.Exists(dec("1"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("loads the record", func() {
			rec, err := store.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Theta).To(Equal("1"))
			Expect(rec.Steps).To(BeEquivalentTo(720))
			Expect(rec.Home).To(BeTrue())
			Expect(rec.Candidates).To(Equal([]string{"80", "144", "720"}))
			Expect(rec.Image).To(Equal(filepath.Base(path)))
			Expect(rec.Timestamp.IsZero()).To(BeFalse())
		})

		It("lists records ordered by theta", func() {
			_, err := store.Save(&storage.Record{Theta: "0.5", Steps: 1440, Scale: "1"}, tiny())
			Expect(err).NotTo(HaveOccurred())

			runs, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(2))
			Expect(runs[0].Theta).To(Equal("0.5"))
			Expect(runs[1].Theta).To(Equal("1"))
		})

		It("round trips positions and links them from the record", func() {
			xs := []decimal.Decimal{dec("0"), dec("100"), dec("99.98476951563913")}
			ys := []decimal.Decimal{dec("0"), dec("0"), dec("1.745240643728351")}

			csvPath, err := store.SavePositions(path, xs, ys)
			Expect(err).NotTo(HaveOccurred())

			gotX, gotY, err := store.LoadPositions(csvPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotX).To(HaveLen(3))
			Expect(gotX[2].Equal(xs[2])).To(BeTrue())
			Expect(gotY[2].Equal(ys[2])).To(BeTrue())

			rec, err := store.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Positions).To(Equal(filepath.Base(csvPath)))
		})

		It("rejects mismatched histories", func() {
			_, err := store.SavePositions(path, []decimal.Decimal{dec("0")}, nil)
			Expect(err).To(HaveOccurred())
		})
	})

	It("lists nothing in an empty store", func() {
		empty := storage.New(filepath.Join(dir, "missing"), storage.PNG)
		runs, err := empty.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(BeEmpty())
	})

	It("fails to load a missing record", func() {
		_, err := store.Load(filepath.Join(dir, "nope.png"))
		Expect(err).To(MatchError(storage.ErrNoRecord))
	})

	It("saves jpeg images", func() {
		jpegs := storage.New(store.BaseDir(), storage.JPEG)
		path, err := jpegs.Save(&storage.Record{Theta: "2", Steps: 360, Scale: "0.1"}, tiny())
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Ext(path)).To(Equal(".jpeg"))
		Expect(path).To(BeAnExistingFile())
	})
})
