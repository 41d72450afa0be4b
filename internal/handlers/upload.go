package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/kethai/internal/uploader"
)

// UploadHandler saves category-scoped file uploads.
type UploadHandler struct {
	productImages *uploader.Uploader
	userImages    *uploader.Uploader
}

// NewUploadHandler constructs UploadHandler.
func NewUploadHandler(productImages, userImages *uploader.Uploader) *UploadHandler {
	return &UploadHandler{productImages: productImages, userImages: userImages}
}

// UploadProductImage stores a single product image.
func (h *UploadHandler) UploadProductImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	path, err := h.productImages.Save(file)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"file_path": path})
}

// UploadUserImages stores a batch of user images.
func (h *UploadHandler) UploadUserImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart form is required")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "files are required")
	}

	paths, err := h.userImages.SaveAll(files)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"file_paths": paths})
}
