package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// NewScheduler returns a scheduler that generates the current period's
// bills at midnight on the first of every month. The caller starts and
// shuts it down.
func NewScheduler(service Service, amount float64) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.CronJob("0 0 1 * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			now := time.Now()
			result, err := service.GeneratePeriod(ctx, int(now.Month()), now.Year(), amount)
			if err != nil {
				log.Printf("scheduled bill generation for %02d/%d failed: %v", now.Month(), now.Year(), err)
				return
			}
			log.Printf("generated bills for %02d/%d: %d created, %d skipped",
				result.Month, result.Year, result.Created, result.Skipped)
		}),
	)
	if err != nil {
		return nil, err
	}

	return scheduler, nil
}
