package custody

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/identity"
	"github.com/custodia-pay/custodia/internal/ledger"
	"github.com/custodia-pay/custodia/internal/middleware"
	"github.com/custodia-pay/custodia/internal/registry"
)

// Handler exposes the custody HTTP surface: bootstrap, whitelist management
// and vault money movement.
type Handler struct {
	service *Service
}

// NewHandler builds a custody HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type whitelistRequest struct {
	Addresses []string `json:"addresses"`
}

type depositRequest struct {
	Amount int64 `json:"amount"`
}

type transferOutRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// Bootstrap initializes the deployment. Admin only, once.
func (h *Handler) Bootstrap(c *fiber.Ctx) error {
	deployment, err := h.service.Bootstrap(c.UserContext(), middleware.Caller(c))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"deployment_id": deployment.ID,
		"vault_account": deployment.VaultAccount,
		"strategy":      deployment.Strategy,
		"created_at":    deployment.CreatedAt.Format(time.RFC3339Nano),
	})
}

// AddToWhitelist appends a batch of addresses to the whitelist.
func (h *Handler) AddToWhitelist(c *fiber.Ctx) error {
	var req whitelistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.AddToWhitelist(c.UserContext(), middleware.Caller(c), req.Addresses); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"added": req.Addresses})
}

// RemoveFromWhitelist removes a batch of addresses from the whitelist.
func (h *Handler) RemoveFromWhitelist(c *fiber.Ctx) error {
	var req whitelistRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.RemoveFromWhitelist(c.UserContext(), middleware.Caller(c), req.Addresses); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"removed": req.Addresses})
}

// ListWhitelisted returns current membership.
func (h *Handler) ListWhitelisted(c *fiber.Ctx) error {
	addresses, err := h.service.ListWhitelisted(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	if addresses == nil {
		addresses = []string{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"addresses": addresses})
}

// IsWhitelisted reports membership for one address.
func (h *Handler) IsWhitelisted(c *fiber.Ctx) error {
	address := c.Params("address")
	ok, err := h.service.IsWhitelisted(c.UserContext(), address)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"address": address, "whitelisted": ok})
}

// Deposit moves the caller's funds into the vault.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req depositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	balance, err := h.service.Deposit(c.UserContext(), middleware.Caller(c), req.Amount)
	if err != nil {
		// A non-member depositing is an authorization failure, not a conflict.
		if errors.Is(err, registry.ErrNotWhitelisted) {
			return fiber.NewError(http.StatusForbidden, err.Error())
		}
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"vault_balance": balance})
}

// TransferOut moves vault funds to a destination account. Admin only.
func (h *Handler) TransferOut(c *fiber.Ctx) error {
	var req transferOutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	balance, err := h.service.TransferOut(c.UserContext(), middleware.Caller(c), req.To, req.Amount)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"vault_balance": balance})
}

// Balance returns the pooled custody balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.service.Balance(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"vault_balance": balance,
		"timestamp":     time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, identity.ErrNotAdmin):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, registry.ErrNotWhitelisted), errors.Is(err, registry.ErrAlreadyWhitelisted):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNotInitialized), errors.Is(err, ErrAlreadyInitialized):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
}
