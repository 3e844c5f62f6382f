package controller

import (
	"io"

	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/serverutils"
	"lexi-drafting-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ExtractTemplate(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Post("upload", c.Upload)
	h.Get(":id", c.Show)
	h.Post(":id/extract-template", c.ExtractTemplate)
}

// Upload expects a multipart "file" field.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file field")
	}

	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	res, err := c.documentService.Upload(ctx.UserContext(), header.Filename, data)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	res, err := c.documentService.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) ExtractTemplate(ctx *fiber.Ctx) error {
	var req dto.ExtractTemplateRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}

	res, err := c.documentService.ExtractTemplate(ctx.UserContext(), ctx.Params("id"), req.Save)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success extract template", res))
}
