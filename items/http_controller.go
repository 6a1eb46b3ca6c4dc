package items

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

type ItemsController struct {
	Repo Items
}

func NewItemsController(repo Items) *ItemsController {
	if repo == nil {
		panic("Missing Items repository in items controller...")
	}
	return &ItemsController{Repo: repo}
}

// RegisterItemRoutes mounts the CRUD endpoints under /api/items
func RegisterItemRoutes(app fiber.Router, controller *ItemsController) {
	group := app.Group("/api/items")
	group.Get("/", controller.Index)
	group.Post("/", controller.Create)
	group.Get("/:id", controller.Show)
	group.Put("/:id", controller.Update)
	group.Delete("/:id", controller.Destroy)
}

// ItemPayload is the request body for create and update
type ItemPayload struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// Validate will run validation rules
func (r ItemPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

func (c *ItemsController) Index(ctx *fiber.Ctx) error {
	skip := ctx.QueryInt("skip", 0)
	limit := ctx.QueryInt("limit", 100)

	records, err := c.Repo.List(ctx.UserContext(), skip, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(records)
}

func (c *ItemsController) Show(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ErrItemNotFound
	}

	record, err := c.Repo.GetByID(ctx.UserContext(), int64(id))
	if err != nil {
		return err
	}

	return ctx.JSON(record)
}

func (c *ItemsController) Create(ctx *fiber.Ctx) error {
	payload := new(ItemPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithTextCode("INVALID_BODY").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithTextCode("INVALID_INPUT").
			WithCode(errors.CodeBadRequest)
	}

	record, err := c.Repo.Create(ctx.UserContext(), &Item{
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(record)
}

func (c *ItemsController) Update(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ErrItemNotFound
	}

	payload := new(ItemPayload)
	if err := ctx.BodyParser(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithTextCode("INVALID_BODY").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, err.Error()).
			WithTextCode("INVALID_INPUT").
			WithCode(errors.CodeBadRequest)
	}

	record, err := c.Repo.Update(ctx.UserContext(), int64(id), payload.Title, payload.Description)
	if err != nil {
		return err
	}

	return ctx.JSON(record)
}

func (c *ItemsController) Destroy(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ErrItemNotFound
	}

	if err := c.Repo.Delete(ctx.UserContext(), int64(id)); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"message": "Item deleted successfully",
	})
}
