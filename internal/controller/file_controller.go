package controller

import (
	"io"

	"support-chat-be/internal/dto"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	AddFile(ctx *fiber.Ctx) error
	DeleteFile(ctx *fiber.Ctx) error
	GetMany(ctx *fiber.Ctx) error
}

type fileController struct {
	fileService service.IFileService
	accessGuard service.IAccessGuardService
}

func NewFileController(fileService service.IFileService, accessGuard service.IAccessGuardService) IFileController {
	return &fileController{
		fileService: fileService,
		accessGuard: accessGuard,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/file/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.AddFile)
	h.Get("", c.GetMany)
	h.Delete(":id", c.DeleteFile)
}

func (c *fileController) AddFile(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.BadRequest("missing file field")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	input := &service.AddFileInput{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Bytes:    data,
	}
	if category := ctx.FormValue("category"); category != "" {
		input.Category = &category
	}

	res, err := c.fileService.AddFile(ctx.Context(), principal, input)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add file", res))
}

func (c *fileController) DeleteFile(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.NotFound("Entry not found")
	}

	if err := c.fileService.DeleteFile(ctx.Context(), principal, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete file", fiber.Map{"id": id}))
}

func (c *fileController) GetMany(ctx *fiber.Ctx) error {
	principal, err := operatorPrincipal(ctx, c.accessGuard)
	if err != nil {
		return err
	}

	res, err := c.fileService.GetMany(ctx.Context(), principal,
		ctx.Query("cursor"), ctx.QueryInt("page_size", dto.DefaultPageSize))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list files", res))
}
