package controller

import (
	"support-chat-be/internal/entity"
	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/serverutils"
	"support-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// operatorPrincipal resolves the JWT claims stashed by the middleware into
// an operator principal.
func operatorPrincipal(ctx *fiber.Ctx, guard service.IAccessGuardService) (entity.Principal, error) {
	operatorId, _ := ctx.Locals(serverutils.LocalsOperatorId).(string)
	organizationId, _ := ctx.Locals(serverutils.LocalsOrganizationId).(string)
	return guard.Operator(ctx.Context(), operatorId, organizationId)
}

// contactPrincipal resolves the widget's session id (query param or body
// field, parsed by the caller) into an end-user principal.
func contactPrincipal(ctx *fiber.Ctx, guard service.IAccessGuardService, sessionIdStr string) (entity.Principal, error) {
	sessionId, err := uuid.Parse(sessionIdStr)
	if err != nil {
		return entity.Principal{}, apperror.Unauthorized("Invalid session")
	}
	return guard.EndUser(ctx.Context(), sessionId)
}
