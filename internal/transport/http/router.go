package http

import (
	"context"
	"errors"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"trade_monitor/internal/domain"
	"trade_monitor/internal/usecase"
)

type Router struct {
	app       *fiber.App
	auth      *usecase.AuthService
	accounts  *usecase.AccountService
	analytics *usecase.AnalyticsService
	metrics   *usecase.MetricsService
	ingest    *usecase.IngestService
}

func New(auth *usecase.AuthService, accounts *usecase.AccountService, analytics *usecase.AnalyticsService, metrics *usecase.MetricsService, ingest *usecase.IngestService) *Router {
	app := fiber.New()

	r := &Router{
		app:       app,
		auth:      auth,
		accounts:  accounts,
		analytics: analytics,
		metrics:   metrics,
		ingest:    ingest,
	}

	api := app.Group("/api")
	v1 := api.Group("/v1")

	v1.Post("/auth/register", r.register)
	v1.Post("/auth/login", r.login)

	// Ingestion authenticates by signature, not by session.
	v1.Post("/ingest/mt5/snapshot", r.ingestSnapshot)

	accountsGroup := v1.Group("/accounts", r.requireUser)
	accountsGroup.Get("", r.listAccounts)
	accountsGroup.Post("", r.createAccount)
	accountsGroup.Get("/:account_id", r.getAccount)
	accountsGroup.Delete("/:account_id", r.deleteAccount)
	accountsGroup.Post("/:account_id/connect/mt5", r.connectMT5)
	accountsGroup.Post("/:account_id/connect/ctrader", r.connectCTrader)
	accountsGroup.Get("/:account_id/trades", r.listTrades)
	accountsGroup.Get("/:account_id/daily-metrics", r.listDailyMetrics)
	accountsGroup.Get("/:account_id/equity-curve", r.equityCurve)
	accountsGroup.Get("/:account_id/stats", r.stats)

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return r
}

func (r *Router) App() *fiber.App {
	return r.app
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        domain.User `json:"user"`
}

// register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Credentials"
// @Success 201 {object} tokenResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (r *Router) register(c *fiber.Ctx) error {
	var payload registerRequest
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	user, token, err := r.auth.Register(ctx, payload.Email, payload.Password)
	if err != nil {
		return httpError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// login godoc
// @Summary Log in and obtain a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (r *Router) login(c *fiber.Ctx) error {
	var payload registerRequest
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	user, token, err := r.auth.Login(ctx, payload.Email, payload.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

type createAccountRequest struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// createAccount godoc
// @Summary Create a broker account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body createAccountRequest true "Account"
// @Success 201 {object} domain.BrokerAccount
// @Failure 400 {object} map[string]string
// @Router /accounts [post]
func (r *Router) createAccount(c *fiber.Ctx) error {
	var payload createAccountRequest
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	account, err := r.accounts.CreateAccount(ctx, currentUser(c).ID, payload.Provider, payload.Name, payload.Currency)
	if err != nil {
		return httpError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// listAccounts godoc
// @Summary List broker accounts for the current user
// @Tags accounts
// @Produce json
// @Success 200 {array} domain.BrokerAccount
// @Router /accounts [get]
func (r *Router) listAccounts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	accounts, err := r.accounts.ListAccounts(ctx, currentUser(c).ID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(accounts)
}

// getAccount godoc
// @Summary Get one broker account
// @Tags accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} domain.BrokerAccount
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id} [get]
func (r *Router) getAccount(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), 5*time.Second)
	defer cancel()

	account, err := r.accounts.GetAccount(ctx, currentUser(c).ID, accountID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(account)
}

// deleteAccount godoc
// @Summary Delete a broker account and all derived data
// @Tags accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id} [delete]
func (r *Router) deleteAccount(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), 30*time.Second)
	defer cancel()

	if err := r.accounts.DeleteAccount(ctx, currentUser(c).ID, accountID); err != nil {
		return httpError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// connectMT5 godoc
// @Summary Issue an MT5 ingest key for the account
// @Tags accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} usecase.MT5ConnectInfo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id}/connect/mt5 [post]
func (r *Router) connectMT5(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	info, err := r.accounts.ConnectMT5(ctx, currentUser(c).ID, accountID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(info)
}

// connectCTrader godoc
// @Summary Start the cTrader OAuth flow for the account
// @Tags accounts
// @Produce json
// @Param account_id path int true "Account ID"
// @Success 200 {object} usecase.CTraderConnectInfo
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /accounts/{account_id}/connect/ctrader [post]
func (r *Router) connectCTrader(c *fiber.Ctx) error {
	accountID, err := accountIDParam(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(userContext(c), 10*time.Second)
	defer cancel()

	info, err := r.accounts.ConnectCTrader(ctx, currentUser(c).ID, accountID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(info)
}

func accountIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid account_id")
	}
	return id, nil
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// httpError maps the domain failure taxonomy to HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
