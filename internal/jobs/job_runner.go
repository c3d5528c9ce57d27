package jobs

import (
	"nestio-backend/internal/config"
	"nestio-backend/internal/repository"
)

// JobRunner holds the dependencies the scheduled jobs need.
type JobRunner struct {
	cfg     *config.Config
	appRepo repository.ApplicationRepository
}

func NewJobRunner(cfg *config.Config, appRepo repository.ApplicationRepository) *JobRunner {
	return &JobRunner{cfg: cfg, appRepo: appRepo}
}

func (r *JobRunner) Config() *config.Config {
	return r.cfg
}
