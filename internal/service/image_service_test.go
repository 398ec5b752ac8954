package service_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/stemsi/qbank-manager/internal/config"
	"github.com/stemsi/qbank-manager/internal/service"
)

var _ = Describe("ImageService", func() {
	var (
		publicDir string
		svc       *service.ImageService
		ctx       context.Context
	)

	touch := func(rel string) {
		p := filepath.Join(publicDir, filepath.FromSlash(rel))
		Expect(os.MkdirAll(filepath.Dir(p), 0o755)).To(Succeed())
		Expect(os.WriteFile(p, []byte("img"), 0o644)).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		publicDir, err = os.MkdirTemp("", "image-service-test-*")
		Expect(err).NotTo(HaveOccurred())

		svc = service.NewImageService(&config.Config{PublicDir: publicDir, ImageDir: "images"})
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(publicDir)
	})

	Context("when the image directory does not exist", func() {
		It("should return an empty list", func() {
			paths, err := svc.Discover(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).NotTo(BeNil())
			Expect(paths).To(BeEmpty())
		})
	})

	Context("when the image directory holds images and other files", func() {
		BeforeEach(func() {
			touch("images/b.png")
			touch("images/a.JPG")
			touch("images/nested/deep/c.webp")
			touch("images/nested/d.svg")
			touch("images/e.gif")
			touch("images/f.jpeg")
			touch("images/notes.txt")
			touch("images/g.png.bak")
			touch("data/questions.jsonl")
			touch("outside.png")
		})

		It("should list allowed images recursively, rooted at the public dir and sorted", func() {
			paths, err := svc.Discover(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(Equal([]string{
				"/images/a.JPG",
				"/images/b.png",
				"/images/e.gif",
				"/images/f.jpeg",
				"/images/nested/d.svg",
				"/images/nested/deep/c.webp",
			}))
		})

		It("should stop when the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := svc.Discover(cancelled)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("when the image directory is nested below the public dir", func() {
		BeforeEach(func() {
			svc = service.NewImageService(&config.Config{PublicDir: publicDir, ImageDir: filepath.Join("assets", "img")})
			touch("assets/img/q1.png")
			touch("assets/logo.png")
			touch("images/ignored.png")
		})

		It("should scan only the configured image root", func() {
			paths, err := svc.Discover(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(Equal([]string{"/assets/img/q1.png"}))
		})
	})

	Describe("IsImageFile", func() {
		It("should match extensions case-insensitively", func() {
			Expect(service.IsImageFile("x.PNG")).To(BeTrue())
			Expect(service.IsImageFile("x.Jpeg")).To(BeTrue())
			Expect(service.IsImageFile("x.bmp")).To(BeFalse())
			Expect(service.IsImageFile("png")).To(BeFalse())
		})
	})
})
