package connection

import (
	"errors"

	"backend-nexus/internal/auth"
	"backend-nexus/internal/platform"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		conns, err := svc.List(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if conns == nil {
			conns = []Connection{}
		}
		return c.JSON(conns)
	})

	r.Put("/:platform", authMiddleware, func(c *fiber.Ctx) error {
		var input UpsertInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		conn, err := svc.Upsert(c.Context(), auth.OwnerID(c), platform.Platform(c.Params("platform")), input)
		if err != nil {
			return fiber.NewError(statusFromError(err), err.Error())
		}
		return c.JSON(conn)
	})

	r.Delete("/:platform", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), auth.OwnerID(c), platform.Platform(c.Params("platform"))); err != nil {
			return fiber.NewError(statusFromError(err), err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, platform.ErrUnsupportedPlatform), errors.Is(err, ErrUsernameRequired):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
