package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(r *gin.Engine, services *portssvc.ServiceContainer) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group. All routes are company-scoped
// and require the identity header.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1", middleware.IdentityMiddleware())

	company := v1.Group("/companies/:companyID")
	registerAccountRoutes(company, services.Account)
	registerJournalRoutes(company, services.Journal)
}

// registerCustomValidators adds binding validators that struct tags alone
// cannot express.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// "frequency" validates a recurring-frequency enum value.
	_ = v.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
		switch domain.RecurringFrequency(fl.Field().String()) {
		case domain.Daily, domain.Weekly, domain.Biweekly, domain.Monthly, domain.Quarterly, domain.Yearly:
			return true
		}
		return false
	})
}
