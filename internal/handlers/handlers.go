package handlers

import (
	"net/http"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/devmatch-hq/devmatch/internal/apperrors"
	"github.com/devmatch-hq/devmatch/internal/config"
	"github.com/devmatch-hq/devmatch/internal/membership"
	"github.com/devmatch-hq/devmatch/internal/services"
	"github.com/devmatch-hq/devmatch/internal/workers"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handlers struct {
	db  *gorm.DB
	cfg *config.Config
	es  *es.Client
	// Sync is used by the admin DLQ retry endpoint.
	Sync *workers.SyncWorker

	users      *services.UserService
	profiles   *services.ProfileService
	projects   *services.ProjectService
	hackathons *services.HackathonService
	engine     *membership.Engine
}

func New(db *gorm.DB, cfg *config.Config, esClient *es.Client, sync *workers.SyncWorker) *Handlers {
	return &Handlers{
		db:         db,
		cfg:        cfg,
		es:         esClient,
		Sync:       sync,
		users:      services.NewUserService(db),
		profiles:   services.NewProfileService(db),
		projects:   services.NewProjectService(db),
		hackathons: services.NewHackathonService(db),
		engine:     membership.NewEngine(db),
	}
}

// respondError translates a service error into the API's error envelope.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	body := gin.H{"error": err.Error()}
	if e := apperrors.As(err); e != nil {
		body["code"] = e.Code
		if len(e.Fields) > 0 {
			body["missing_fields"] = e.Fields
		}
	} else {
		body["error"] = "internal server error"
	}
	c.JSON(status, body)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
}
