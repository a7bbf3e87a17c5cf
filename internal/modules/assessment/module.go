package assessment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tablemates/tablemates-backend/internal/config"
	"gorm.io/gorm"
)

type AssessmentModule struct {
	svc *Service
}

// New builds the assessment module around an already wired service; the
// service is shared with pairing, which reads personality answers from it.
func New(svc *Service) *AssessmentModule {
	return &AssessmentModule{svc: svc}
}

func (m *AssessmentModule) ID() string { return "assessment" }

func (m *AssessmentModule) Models() []interface{} {
	return []interface{}{
		&Progress{},
	}
}

func (m *AssessmentModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	handler := NewHandler(m.svc)

	router.Get("/assessments/progress", handler.GetProgress)
	router.Put("/assessments/progress", handler.SaveProgress)
	router.Post("/assessments/advance", handler.Advance)
	router.Post("/assessments/back", handler.Back)
	router.Post("/assessments/return-to-birthday", handler.ReturnToBirthday)
	router.Post("/assessments/submit", handler.Submit)
	router.Patch("/assessments/answers/:key", handler.UpdateAnswer)
}
