package api

import (
	"time"

	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/services"
	"gorm.io/gorm"
)

const (
	authCookieName      = "pursue_token"
	defaultAuthTokenTTL = 7 * 24 * time.Hour

	loginFailureLimit  = 10
	loginFailureWindow = 15 * time.Minute
)

type Handler struct {
	secretKey    []byte
	cookieSecure bool

	auth        *services.AuthService
	groups      *services.GroupService
	goals       *services.GoalService
	progress    *services.ProgressService
	aggregation *services.AggregationService
	activity    *services.ActivityService

	loginLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, secretKey string, cookieSecure bool) *Handler {
	repos := db.NewRepositories(database)

	return &Handler{
		secretKey:    []byte(secretKey),
		cookieSecure: cookieSecure,
		auth:         services.NewAuthService(repos.Users),
		groups:       services.NewGroupService(repos.Groups, repos.Users),
		goals:        services.NewGoalService(repos.Goals, repos.Groups),
		progress:     services.NewProgressService(repos.Goals, repos.Groups, repos.Progress),
		aggregation:  services.NewAggregationService(repos.Goals, repos.Groups, repos.Users, repos.Progress, repos.Activity),
		activity:     services.NewActivityService(repos.Activity, repos.Groups),
		loginLimiter: newAttemptLimiter(),
	}
}
