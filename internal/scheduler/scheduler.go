package scheduler

import (
	"context"
	"time"

	"confina-backend/internal/application/intake"
	"confina-backend/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Scheduler runs the daily intake alert scan. The HTTP intake board is
// pull-based; this job surfaces the same alerts in the logs so a farm with
// nobody watching the board still leaves a trace of refusal or leftover
// anomalies.
type Scheduler struct {
	cron   *cron.Cron
	intake *intake.Service
	db     *gorm.DB
	spec   string
}

func New(db *gorm.DB, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		intake: &intake.Service{DB: db},
		db:     db,
		spec:   spec,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.scanIntakeAlerts); err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("intake alert scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("intake alert scheduler stopped")
}

// scanIntakeAlerts evaluates the previous day's intakes for every farm and
// logs each alert. Runs in the morning so the full prior day is recorded.
func (s *Scheduler) scanIntakeAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	day := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	var farms []domain.Farm
	if err := s.db.WithContext(ctx).Find(&farms).Error; err != nil {
		log.Error().Err(err).Msg("intake alert scan: load farms")
		return
	}

	total := 0
	for _, farm := range farms {
		intakes, err := s.intake.ForDate(ctx, farm.FarmID, day)
		if err != nil {
			log.Error().Err(err).Str("farm_id", farm.FarmID.String()).Msg("intake alert scan: aggregate")
			continue
		}
		for _, in := range intakes {
			for _, alert := range in.Alerts {
				total++
				log.Warn().
					Str("farm_id", farm.FarmID.String()).
					Str("pen_number", in.PenNumber).
					Str("date", day.Format("2006-01-02")).
					Str("code", alert.Code).
					Str("severity", alert.Severity).
					Msg(alert.Message)
			}
		}
	}
	log.Info().Int("alerts", total).Str("date", day.Format("2006-01-02")).Msg("intake alert scan finished")
}
