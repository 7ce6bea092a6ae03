// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	businessflow "github.com/klb1963/yachtpricer/business_flow"
	"github.com/klb1963/yachtpricer/models"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "datetime":
		return err.Field() + " must be a date in format " + err.Param()
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}

// actorFromLocals reads the authenticated actor set by the auth middleware.
func actorFromLocals(c fiber.Ctx) (businessflow.Actor, bool) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return businessflow.Actor{}, false
	}
	role, ok := c.Locals("user_role").(models.UserRole)
	if !ok {
		return businessflow.Actor{}, false
	}
	return businessflow.Actor{UserID: userID, Role: role}, true
}
