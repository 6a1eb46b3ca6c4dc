package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// TokenType reported alongside issued access tokens
const TokenType = "bearer"

type AuthControllerRoutes struct {
	Register string
	Login    string
	Logout   string
	Me       string
}

// AuthController exposes the authentication endpoints as plain fiber
// handlers. Protected routes receive the resolved user via RequireAuth.
type AuthController struct {
	Logger     Logger
	Auther     Authenticator
	ContextKey string
	Routes     *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.ContextKey = key
		return c
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		Auther:     auther,
		ContextKey: "user",
		Routes: &AuthControllerRoutes{
			Register: "/authentication/register",
			Login:    "/authentication/login",
			Logout:   "/authentication/logout",
			Me:       "/users/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the authentication endpoints. The protected
// middleware guards logout and the identity lookup.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, protected fiber.Handler) {
	app.Post(controller.Routes.Register, controller.RegistrationCreate)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Logout, protected, controller.LogOut)
	app.Get(controller.Routes.Me, protected, controller.Me)
}

// CredentialsPayload is the request body for register and login
type CredentialsPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r CredentialsPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// ValidateRegistration adds the registration password policy
func (r CredentialsPayload) ValidateRegistration() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			validation.Length(3, 255),
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 100),
		),
	)
}

// TokenResponse is the response body for register and login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

func (a *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := new(CredentialsPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithTextCode("INVALID_BODY").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.ValidateRegistration(); err != nil {
		a.Logger.Debug("register user validate payload", "error", err)
		return invalidInput(err)
	}

	user, token, err := a.Auther.Register(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   TokenType,
		User:        user,
	})
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(CredentialsPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return errors.Wrap(err, errors.CategoryBadInput, "failed to parse request body").
			WithTextCode("INVALID_BODY").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("login validate payload", "error", err)
		return invalidInput(err)
	}

	token, err := a.Auther.Login(ctx.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Info("login rejected", "error", err)
		return err
	}

	return ctx.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   TokenType,
	})
}

func (a *AuthController) LogOut(ctx *fiber.Ctx) error {
	user, ok := UserFromLocals(ctx, a.ContextKey)
	if !ok {
		return ErrUnauthenticated
	}

	if err := a.Auther.Logout(ctx.UserContext(), user); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"message": "User logged out",
	})
}

// Me returns the identity resolved for the current request. The password
// hash never serializes.
func (a *AuthController) Me(ctx *fiber.Ctx) error {
	user, ok := UserFromLocals(ctx, a.ContextKey)
	if !ok {
		return ErrUnauthenticated
	}

	return ctx.JSON(user)
}

func invalidInput(err error) error {
	richErr := errors.Wrap(err, errors.CategoryValidation, err.Error()).
		WithTextCode("INVALID_INPUT").
		WithCode(errors.CodeBadRequest)

	if verrs, ok := err.(validation.Errors); ok {
		meta := map[string]any{}
		for field, ferr := range verrs {
			meta[field] = ferr.Error()
		}
		richErr = richErr.WithMetadata(meta)
	}

	return richErr
}
