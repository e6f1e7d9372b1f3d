package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hrmsuite/hrms/internal/auth"
	"github.com/hrmsuite/hrms/internal/config"
)

// Service is the interface for an API handler service. Init registers its routes on an
// authenticated router.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB, gate *auth.Service)
}
