package controller

import (
	"lexi-drafting-be/internal/dto"
	"lexi-drafting-be/internal/pkg/serverutils"
	"lexi-drafting-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITemplateController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Variables(ctx *fiber.Ctx) error
	Match(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Similar(ctx *fiber.Ctx) error
}

type templateController struct {
	templateService service.ITemplateService
}

func NewTemplateController(templateService service.ITemplateService) ITemplateController {
	return &templateController{
		templateService: templateService,
	}
}

func (c *templateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/template/v1")
	h.Post("match", c.Match)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get(":id/variables", c.Variables)
	h.Get(":id/export", c.Export)
	h.Get(":id/similar", c.Similar)
}

func (c *templateController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.templateService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create template", res))
}

func (c *templateController) List(ctx *fiber.Ctx) error {
	res, err := c.templateService.List(ctx.UserContext(),
		ctx.QueryInt("skip", 0),
		ctx.QueryInt("limit", 0),
		ctx.Query("q"),
	)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list templates", res))
}

func (c *templateController) Show(ctx *fiber.Ctx) error {
	res, err := c.templateService.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show template", res))
}

func (c *templateController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateTemplateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = ctx.Params("id")
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.templateService.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update template", res))
}

func (c *templateController) Delete(ctx *fiber.Ctx) error {
	if err := c.templateService.Delete(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete template", nil))
}

func (c *templateController) Variables(ctx *fiber.Ctx) error {
	res, err := c.templateService.Variables(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list variables", res))
}

func (c *templateController) Match(ctx *fiber.Ctx) error {
	res, err := c.templateService.Match(ctx.UserContext(), ctx.Query("query"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success match template", res))
}

// Export downloads the template as Markdown with YAML front-matter.
func (c *templateController) Export(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	doc, err := c.templateService.Export(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	ctx.Type("md", "utf-8")
	ctx.Attachment(id + ".md")
	return ctx.SendString(doc)
}

func (c *templateController) Similar(ctx *fiber.Ctx) error {
	res, err := c.templateService.Similar(ctx.UserContext(), ctx.Params("id"), ctx.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success find similar templates", res))
}
