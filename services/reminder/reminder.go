// Package remindersvc emails students about retests coming up within
// the configured lead window. Runs are scheduled with cron and fail
// open: one student's error never aborts the whole sweep.
package remindersvc

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/core/student"
)

const runTimeout = 4 * time.Minute

type Service struct {
	stdSvc  student.Service
	resSvc  result.Service
	mailSvc core.EmailService
	logger  core.Logger
	conf    *core.Config
	cron    *cron.Cron
}

func NewService(
	stdSvc student.Service,
	resSvc result.Service,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		stdSvc:  stdSvc,
		resSvc:  resSvc,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

// Start schedules the daily reminder sweep.
func (svc *Service) Start() error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(svc.conf.Reminder.Schedule, svc.runScheduled); err != nil {
		return errors.Wrap(err, "scheduling retest reminders")
	}
	c.Start()
	svc.cron = c
	svc.logger.Info(fmt.Sprintf("retest reminders scheduled (%s)", svc.conf.Reminder.Schedule))
	return nil
}

// Stop waits for a running sweep to finish.
func (svc *Service) Stop() {
	if svc.cron != nil {
		<-svc.cron.Stop().Done()
	}
}

func (svc *Service) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if err := svc.Run(ctx, core.Today()); err != nil {
		svc.logger.Error(fmt.Sprintf("retest reminder run: %v", err), err)
	}
}

// Run emails every student having a retest scheduled between today and
// today + Reminder.LeadDays, both ends inclusive. Students without an
// email address are skipped.
func (svc *Service) Run(ctx context.Context, today core.Date) error {
	horizon := today.AddDays(svc.conf.Reminder.LeadDays)

	students, err := svc.stdSvc.Query(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	msgs := make([]*core.EmailMessage, 0, len(students))
	for _, std := range students {
		if std.Email == "" {
			continue
		}
		upcoming, err := svc.resSvc.UpcomingFor(ctx, std.ID, today)
		if err != nil {
			svc.logger.Error(fmt.Sprintf("querying retests for %s: %v", std.Username, err), err)
			continue
		}
		due := dueWithin(upcoming, horizon)
		if len(due) == 0 {
			continue
		}
		msgs = append(msgs, svc.composeReminder(std, due))
	}
	if len(msgs) > 0 {
		svc.mailSvc.SendMessages(msgs...)
	}
	return nil
}

// dueWithin keeps rows whose retest date falls on or before horizon.
// rows come from UpcomingRetests so every RetestDate is set and >= today.
func dueWithin(rows []result.TestResult, horizon core.Date) []result.TestResult {
	due := make([]result.TestResult, 0, len(rows))
	for _, res := range rows {
		if res.RetestDate.Date.After(horizon) {
			continue
		}
		due = append(due, res)
	}
	return due
}

func (svc *Service) composeReminder(std student.Student, due []result.TestResult) *core.EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYou have %d retest(s) coming up:\n\n", std.Name, len(due))
	for _, res := range due {
		fmt.Fprintf(&b, "- %s on %s", res.Name, res.RetestDate.Date)
		if res.RetestReason != "" {
			fmt.Fprintf(&b, " (%s)", res.RetestReason)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nGood luck!\n")

	return &core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Upcoming retests",
		BodyStr: b.String(),
	}
}
