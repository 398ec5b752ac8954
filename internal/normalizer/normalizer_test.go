package normalizer_test

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/stemsi/qbank-manager/internal/normalizer"
)

func writeJPEG(path string) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := 0; x < 8; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	Expect(jpeg.Encode(f, img, &jpeg.Options{Quality: 90})).To(Succeed())
}

func decodePNG(path string) image.Image {
	f, err := os.Open(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	img, err := png.Decode(f)
	Expect(err).NotTo(HaveOccurred())
	return img
}

var _ = Describe("Normalizer", func() {
	var (
		testDir string
		n       *normalizer.Normalizer
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		testDir, err = os.MkdirTemp("", "normalizer-test-*")
		Expect(err).NotTo(HaveOccurred())

		n = normalizer.New(zerolog.New(GinkgoWriter))
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(testDir)
	})

	Context("when the directory has no JPEG files", func() {
		It("should report nothing to do", func() {
			Expect(os.WriteFile(filepath.Join(testDir, "a.png"), []byte("png"), 0o644)).To(Succeed())

			report, err := n.Run(ctx, testDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Converted).To(BeEmpty())
			Expect(report.Failed).To(BeEmpty())

			Expect(report.Empty()).To(BeTrue())
			Expect(report.Summary()).To(Equal("no jpeg files found"))
		})
	})

	Context("when the directory has valid JPEG files", func() {
		BeforeEach(func() {
			writeJPEG(filepath.Join(testDir, "cat.jpg"))
			writeJPEG(filepath.Join(testDir, "DOG.JPEG"))
			Expect(os.Mkdir(filepath.Join(testDir, "sub"), 0o755)).To(Succeed())
			writeJPEG(filepath.Join(testDir, "sub", "nested.jpg"))
			Expect(os.WriteFile(filepath.Join(testDir, "notes.txt"), []byte("x"), 0o644)).To(Succeed())
		})

		It("should convert them to PNG and delete the originals", func() {
			report, err := n.Run(ctx, testDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Failed).To(BeEmpty())
			Expect(report.Converted).To(HaveLen(2))

			Expect(filepath.Join(testDir, "cat.jpg")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(testDir, "DOG.JPEG")).NotTo(BeAnExistingFile())

			img := decodePNG(filepath.Join(testDir, "cat.png"))
			Expect(img.Bounds()).To(Equal(image.Rect(0, 0, 8, 6)))
			Expect(filepath.Join(testDir, "DOG.png")).To(BeAnExistingFile())

			Expect(report.Empty()).To(BeFalse())
			Expect(report.Summary()).To(Equal("2 converted, 0 failed"))
		})

		It("should not descend into subdirectories", func() {
			_, err := n.Run(ctx, testDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(filepath.Join(testDir, "sub", "nested.jpg")).To(BeAnExistingFile())
			Expect(filepath.Join(testDir, "sub", "nested.png")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(testDir, "notes.txt")).To(BeAnExistingFile())
		})

		It("should leave no temporary files behind", func() {
			_, err := n.Run(ctx, testDir)
			Expect(err).NotTo(HaveOccurred())
			matches, err := filepath.Glob(filepath.Join(testDir, ".normalize-*"))
			Expect(err).NotTo(HaveOccurred())
			Expect(matches).To(BeEmpty())
		})
	})

	Context("when a JPEG cannot be decoded", func() {
		BeforeEach(func() {
			Expect(os.WriteFile(filepath.Join(testDir, "broken.jpg"), []byte("not a jpeg"), 0o644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(testDir, "broken.png"), []byte("previous"), 0o644)).To(Succeed())
			writeJPEG(filepath.Join(testDir, "good.jpg"))
		})

		It("should keep the original, report the failure and continue", func() {
			report, err := n.Run(ctx, testDir)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Failed).To(HaveLen(1))
			Expect(report.Failed[0].Name).To(Equal("broken.jpg"))
			Expect(report.Failed[0].Err).To(HaveOccurred())
			Expect(filepath.Join(testDir, "broken.jpg")).To(BeAnExistingFile())

			data, err := os.ReadFile(filepath.Join(testDir, "broken.png"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("previous"))

			Expect(report.Converted).To(HaveLen(1))
			Expect(report.Converted[0].Target).To(Equal("good.png"))
		})
	})

	Context("when the directory does not exist", func() {
		It("should return an error", func() {
			_, err := n.Run(ctx, filepath.Join(testDir, "missing"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("when the context is cancelled", func() {
		It("should stop before converting", func() {
			writeJPEG(filepath.Join(testDir, "cat.jpg"))
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := n.Run(cancelled, testDir)
			Expect(err).To(MatchError(context.Canceled))
			Expect(filepath.Join(testDir, "cat.jpg")).To(BeAnExistingFile())
		})
	})
})
