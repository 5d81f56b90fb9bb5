package controller

import (
	"time"

	"ecom-support-widget/internal/dto"
	"ecom-support-widget/internal/pkg/serverutils"
	"ecom-support-widget/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Analytics(ctx *fiber.Ctx) error
	Conversations(ctx *fiber.Ctx) error
	ExportConversations(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("login", c.Login)

	protected := h.Group("", serverutils.JwtMiddleware)
	protected.Get("stats", c.Stats)
	protected.Get("analytics", c.Analytics)
	protected.Get("conversations", c.Conversations)
	protected.Get("conversations/export", c.ExportConversations)
	protected.Get("logs", c.Logs)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.adminService.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

func (c *adminController) Stats(ctx *fiber.Ctx) error {
	res, err := c.adminService.DashboardStats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get dashboard stats", res))
}

func (c *adminController) Analytics(ctx *fiber.Ctx) error {
	res, err := c.adminService.Analytics(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analytics", res))
}

func (c *adminController) Conversations(ctx *fiber.Ctx) error {
	var req dto.ConversationListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.adminService.Conversations(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *adminController) ExportConversations(ctx *fiber.Ctx) error {
	filename := "conversations-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.adminService.ExportConversationsCSV(ctx.Context(), ctx.Response().BodyWriter(), ctx.Query("session_id"))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	var req dto.LogListRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}

	res, err := c.adminService.Logs(&req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}
