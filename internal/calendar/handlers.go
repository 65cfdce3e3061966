package calendar

import (
	"context"
	"time"

	"backend-nexus/internal/auth"
	"backend-nexus/internal/post"

	"github.com/gofiber/fiber/v2"
)

// PostLister is the slice of the post service the calendar reads from.
type PostLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]post.Post, error)
}

func RegisterRoutes(r fiber.Router, posts PostLister, authMiddleware fiber.Handler) {
	r.Get("/default-time", authMiddleware, func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		month := c.QueryInt("month")
		day := c.QueryInt("day")
		if year == 0 || month < 1 || month > 12 || day < 1 || day > 31 {
			return fiber.NewError(fiber.StatusBadRequest, "year, month and day required")
		}
		loc, err := locationFromQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown timezone")
		}
		at := DefaultScheduleAt(year, time.Month(month), day, time.Now().In(loc))
		return c.JSON(fiber.Map{"scheduled_at": at})
	})

	r.Get("/:year/:month", authMiddleware, func(c *fiber.Ctx) error {
		year, err := c.ParamsInt("year")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid year")
		}
		month, err := c.ParamsInt("month")
		if err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid month")
		}
		loc, err := locationFromQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown timezone")
		}

		all, err := posts.ListByOwner(c.Context(), auth.OwnerID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(Project(year, time.Month(month), loc, all))
	})
}

func locationFromQuery(c *fiber.Ctx) (*time.Location, error) {
	tz := c.Query("tz")
	if tz == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(tz)
}
