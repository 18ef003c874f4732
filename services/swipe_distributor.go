package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"propmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// swipeIncrements maps a plan tier to its daily swipe refill. Subscriptions
// on tiers outside this table are skipped.
var swipeIncrements = map[string]int{
	"FREE":     10,
	"BRONZE":   20,
	"SILVER":   30,
	"PLATINUM": 50,
}

// SwipeDistributor periodically refills swipe counters for every active
// subscription. One instance per deployment: nothing coordinates multiple
// distributors, so running two doubles the refill.
type SwipeDistributor struct {
	Dynamo *DynamoService
	Quota  *QuotaService

	// Interval between runs. The daily default fires at UTC midnight.
	Interval time.Duration

	// Now is the clock; tests override it.
	Now func() time.Time

	stop chan struct{}
	done chan struct{}
}

// NewSwipeDistributor creates a distributor with the daily default cadence.
func NewSwipeDistributor(dynamo *DynamoService, quota *QuotaService, interval time.Duration) *SwipeDistributor {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SwipeDistributor{
		Dynamo:   dynamo,
		Quota:    quota,
		Interval: interval,
		Now:      time.Now,
	}
}

// Start launches the scheduling loop. Calling Start on a running
// distributor is a no-op.
func (sd *SwipeDistributor) Start() {
	if sd.stop != nil {
		return
	}
	sd.stop = make(chan struct{})
	sd.done = make(chan struct{})
	log.Printf("Starting swipe distributor, first run in %s", sd.FirstDelay())
	go sd.run()
}

// Stop halts the scheduling loop and waits for it to exit. A run already in
// flight finishes first.
func (sd *SwipeDistributor) Stop() {
	if sd.stop == nil {
		return
	}
	close(sd.stop)
	<-sd.done
	sd.stop = nil
	sd.done = nil
	log.Println("Swipe distributor stopped")
}

func (sd *SwipeDistributor) run() {
	defer close(sd.done)

	timer := time.NewTimer(sd.FirstDelay())
	defer timer.Stop()

	for {
		select {
		case <-sd.stop:
			return
		case <-timer.C:
			if err := sd.RunOnce(context.Background()); err != nil {
				// No retry within the tick; the next one gets a fresh attempt.
				log.Printf("Swipe distribution run failed: %v", err)
			}
			timer.Reset(sd.Interval)
		}
	}
}

// FirstDelay returns the wait before the first run: the next UTC midnight on
// the daily cadence, otherwise one full interval.
func (sd *SwipeDistributor) FirstDelay() time.Duration {
	if sd.Interval != 24*time.Hour {
		return sd.Interval
	}
	now := sd.Now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return next.Sub(now)
}

// RunOnce performs a single replenishment pass: scan active subscriptions,
// resolve each plan's tier increment, and submit every increment as one
// transactional write. A failed submission aborts the pass with no counter
// moved.
func (sd *SwipeDistributor) RunOnce(ctx context.Context) error {
	var subscriptions []models.Subscription
	err := sd.Dynamo.ScanWithFilter(ctx, models.SubscriptionsTable, map[string]string{
		"status": models.SubscriptionStatusActive,
	}, &subscriptions)
	if err != nil {
		return fmt.Errorf("failed to scan active subscriptions: %w", err)
	}

	planCache := map[string]*models.Plan{}
	var grants []SwipeGrant
	for _, subscription := range subscriptions {
		plan, ok := planCache[subscription.PlanID]
		if !ok {
			plan, err = sd.getPlan(ctx, subscription.PlanID)
			if err != nil {
				return err
			}
			planCache[subscription.PlanID] = plan
		}
		if plan == nil {
			continue
		}

		increment, ok := swipeIncrements[strings.ToUpper(plan.Title)]
		if !ok {
			continue
		}
		grants = append(grants, SwipeGrant{UserID: subscription.UserID, Increment: increment})
	}

	if len(grants) == 0 {
		log.Println("Swipe distribution: no eligible subscriptions")
		return nil
	}

	if err := sd.Quota.ReplenishSwipes(ctx, grants); err != nil {
		return err
	}
	log.Printf("Swipe distribution completed for %d subscriptions", len(grants))
	return nil
}

// getPlan returns nil without error when the plan record is missing, so the
// subscription is skipped like an unknown tier.
func (sd *SwipeDistributor) getPlan(ctx context.Context, planID string) (*models.Plan, error) {
	item, err := sd.Dynamo.GetItem(ctx, models.PlansTable, map[string]types.AttributeValue{
		"planId": &types.AttributeValueMemberS{Value: planID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load plan %s: %w", planID, err)
	}
	var plan models.Plan
	if err := attributevalue.UnmarshalMap(item, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan %s: %w", planID, err)
	}
	return &plan, nil
}
