package media

import (
	"errors"

	"backend-nexus/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			URL  string `json:"url"`
			Kind string `json:"kind"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		obj, err := svc.Save(c.Context(), auth.OwnerID(c), body.URL, body.Kind)
		if err != nil {
			if errors.Is(err, ErrEmptyURL) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(obj)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		objs, err := svc.ListByOwner(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if objs == nil {
			objs = []Object{}
		}
		return c.JSON(objs)
	})
}
