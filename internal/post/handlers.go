package post

import (
	"errors"
	"time"

	"backend-nexus/internal/auth"
	"backend-nexus/internal/rules"

	"github.com/gofiber/fiber/v2"
)

func statusFromError(err error) int {
	switch {
	case rules.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrPlatformNotConnected):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrDuplicateID):
		return fiber.StatusConflict
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(err error) error {
	return fiber.NewError(statusFromError(err), err.Error())
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, publisherMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req CreateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.Create(c.Context(), auth.OwnerID(c), req)
		if err != nil {
			return fail(err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		posts, err := svc.ListByOwner(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fail(err)
		}
		if posts == nil {
			posts = []Post{}
		}
		return c.JSON(posts)
	})

	r.Get("/:id", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.Get(c.Context(), auth.OwnerID(c), c.Params("id"))
		if err != nil {
			return fail(err)
		}
		return c.JSON(p)
	})

	r.Put("/:id", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Content   string   `json:"content"`
			MediaURLs []string `json:"media_urls"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.UpdateContent(c.Context(), auth.OwnerID(c), c.Params("id"), body.Content, body.MediaURLs)
		if err != nil {
			return fail(err)
		}
		return c.JSON(p)
	})

	r.Post("/:id/schedule", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ScheduledAt *time.Time `json:"scheduled_at"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.ScheduledAt == nil {
			return fiber.NewError(fiber.StatusBadRequest, rules.ErrMissingSchedule.Error())
		}
		p, err := svc.Schedule(c.Context(), auth.OwnerID(c), c.Params("id"), *body.ScheduledAt)
		if err != nil {
			return fail(err)
		}
		return c.JSON(p)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Cancel(c.Context(), auth.OwnerID(c), c.Params("id")); err != nil {
			return fail(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/revert", authMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.RevertToDraft(c.Context(), auth.OwnerID(c), c.Params("id"))
		if err != nil {
			return fail(err)
		}
		return c.JSON(p)
	})

	// Publisher callbacks. The delivery worker reports outcomes here after
	// attempting the platform API call; user tokens cannot reach them.
	r.Post("/:id/published", publisherMiddleware, func(c *fiber.Ctx) error {
		p, err := svc.MarkPublished(c.Context(), c.Params("id"))
		if err != nil {
			return fail(err)
		}
		return c.JSON(p)
	})

	r.Post("/:id/failed", publisherMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := svc.MarkFailed(c.Context(), c.Params("id"), body.Reason)
		if err != nil {
			return fail(err)
		}
		return c.JSON(p)
	})
}
