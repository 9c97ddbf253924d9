package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/doselog/doselog/config"
	"github.com/doselog/doselog/db"
	"github.com/doselog/doselog/dispatch"
	"github.com/doselog/doselog/engine"
)

func help() {
	fmt.Println(`usage: doselog <command>

commands:
  run                                     run the reminder daemon
  subject add|list                        manage subjects
  medication add|list|toggle|remove       manage medication reminders
  taken                                   mark a dose taken
  pending                                 show today's pending doses
  notification add|list|complete|toggle|remove
                                          manage medical notifications
  stats                                   show notification stats
  cleanup                                 prune old adherence and completed notifications`)
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	return log
}

type prompter struct {
	scanner *bufio.Scanner
}

func (p *prompter) ask(label string) string {
	fmt.Print(label + ": ")
	p.scanner.Scan()

	return string(bytes.TrimSpace(p.scanner.Bytes()))
}

func (p *prompter) askRequired(label string) (string, error) {
	val := p.ask(label)
	if val == "" {
		return "", fmt.Errorf("failed to get %s from STDIN prompt: %w", label, p.scanner.Err())
	}

	return val, nil
}

func (p *prompter) askUUID(label string) (uuid.UUID, error) {
	val, err := p.askRequired(label)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid id: %w", val, err)
	}

	return id, nil
}

func (p *prompter) askDate(label string, fallback time.Time) (time.Time, error) {
	val := p.ask(label)
	if val == "" {
		return fallback, nil
	}

	date, err := time.ParseInLocation("2006-01-02", val, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s is not a valid date (want YYYY-MM-DD): %w", val, err)
	}

	return date, nil
}

func (p *prompter) askDateTime(label string) (time.Time, error) {
	val, err := p.askRequired(label)
	if err != nil {
		return time.Time{}, err
	}

	at, err := time.ParseInLocation("2006-01-02 15:04", val, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s is not a valid time (want YYYY-MM-DD HH:MM): %w", val, err)
	}

	return at, nil
}

func parseClockTimes(val string) ([]db.ClockTime, error) {
	var anchors []db.ClockTime
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		parsed, err := time.Parse("15:04", part)
		if err != nil {
			return nil, fmt.Errorf("%s is not a valid time (want HH:MM): %w", part, err)
		}

		anchors = append(anchors, db.ClockTime{Hour: parsed.Hour(), Minute: parsed.Minute()})
	}

	return anchors, nil
}

func findSubject(b *db.Badger, name string) (*db.Subject, error) {
	subjects, err := b.LoadSubjects()
	if err != nil {
		return nil, err
	}

	for _, subject := range subjects {
		if subject.Name == name {
			return subject, nil
		}
	}

	return nil, fmt.Errorf("subject %s does not exist", name)
}

func runDaemon(cfg config.Config, b *db.Badger, log *logrus.Logger) error {
	apiToken, err := cfg.PushoverAPIToken()
	if err != nil {
		return err
	}

	deviceToken, err := cfg.PushoverDeviceToken()
	if err != nil {
		return err
	}

	dispatcher := dispatch.NewPushover(apiToken, deviceToken, log)
	defer dispatcher.Close()

	ledger, err := engine.NewLedger(b, log)
	if err != nil {
		return err
	}

	manager, err := engine.NewManager(b, dispatcher, ledger, log)
	if err != nil {
		return err
	}

	manager.Reschedule()

	c := cron.New()
	_, err = c.AddFunc(cfg.MaintenanceSpec(), func() {
		ledger.Prune(cfg.RetentionDays())
		removed := manager.CleanupOld(cfg.CleanupDays())
		if removed > 0 {
			log.WithField("removed", removed).Info("cleaned up completed notifications")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance job: %w", err)
	}

	c.Start()
	defer c.Stop()

	log.Info("doselog daemon running")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	log.Info("doselog daemon stopping")

	return nil
}

func subjectCommand(action string, b *db.Badger, p *prompter) error {
	switch action {
	case "add":
		name, err := p.askRequired("name")
		if err != nil {
			return err
		}

		subjects, err := b.LoadSubjects()
		if err != nil {
			return err
		}

		for _, subject := range subjects {
			if subject.Name == name {
				return fmt.Errorf("subject %s already exists", name)
			}
		}

		subject := &db.Subject{
			ID:        uuid.New(),
			Name:      name,
			CreatedAt: time.Now(),
		}

		err = b.SaveSubjects(append(subjects, subject))
		if err != nil {
			return err
		}

		fmt.Println("created subject id", subject.ID)

	case "list":
		subjects, err := b.LoadSubjects()
		if err != nil {
			return err
		}

		for _, subject := range subjects {
			fmt.Printf("%s  %s\n", subject.ID, subject.Name)
		}

	default:
		return fmt.Errorf("unknown subject action %q", action)
	}

	return nil
}

func medicationCommand(action string, manager *engine.Manager, p *prompter) error {
	switch action {
	case "add":
		name, err := p.askRequired("name")
		if err != nil {
			return err
		}

		dosage, err := p.askRequired("dosage")
		if err != nil {
			return err
		}

		frequency := db.Frequency(p.ask("frequency (once_daily, twice_daily, three_times_daily, four_times_daily, as_needed)"))

		var anchors []db.ClockTime
		times := p.ask("times (HH:MM, comma separated, empty for defaults)")
		if times == "" {
			anchors = frequency.DefaultAnchors()
		} else {
			anchors, err = parseClockTimes(times)
			if err != nil {
				return err
			}
		}

		startDate, err := p.askDate("start date (YYYY-MM-DD, empty for today)", time.Now())
		if err != nil {
			return err
		}

		var endDate *time.Time
		end, err := p.askDate("end date (YYYY-MM-DD, empty for none)", time.Time{})
		if err != nil {
			return err
		}
		if !end.IsZero() {
			endDate = &end
		}

		medication := &db.Medication{
			ID:        uuid.New(),
			Name:      name,
			Dosage:    dosage,
			Frequency: frequency,
			StartDate: startDate,
			EndDate:   endDate,
			Anchors:   anchors,
			Notes:     p.ask("notes"),
			Active:    true,
			CreatedAt: time.Now(),
		}

		err = manager.AddMedication(medication)
		if err != nil {
			return err
		}

		fmt.Println("created medication id", medication.ID)

	case "list":
		for _, medication := range manager.Medications() {
			state := "inactive"
			if medication.Active {
				state = "active"
			}

			times := make([]string, 0, len(medication.Anchors))
			for _, anchor := range medication.Anchors {
				times = append(times, anchor.String())
			}

			fmt.Printf("%s  %s %s (%s) at %s [%s]\n",
				medication.ID, medication.Name, medication.Dosage,
				medication.Frequency, strings.Join(times, ", "), state)
		}

	case "toggle":
		id, err := p.askUUID("medication id")
		if err != nil {
			return err
		}

		medication := manager.Medication(id)
		if medication == nil {
			return fmt.Errorf("medication %s does not exist", id)
		}

		return manager.ToggleMedication(medication)

	case "remove":
		id, err := p.askUUID("medication id")
		if err != nil {
			return err
		}

		medication := manager.Medication(id)
		if medication == nil {
			return fmt.Errorf("medication %s does not exist", id)
		}

		manager.DeleteMedication(medication)

	default:
		return fmt.Errorf("unknown medication action %q", action)
	}

	return nil
}

func notificationCommand(action string, b *db.Badger, manager *engine.Manager, p *prompter) error {
	switch action {
	case "add":
		return notificationAdd(b, manager, p)

	case "list":
		name, err := p.askRequired("subject name")
		if err != nil {
			return err
		}

		subject, err := findSubject(b, name)
		if err != nil {
			return err
		}

		for _, notification := range manager.Notifications(subject.ID) {
			state := "scheduled"
			if notification.Completed {
				state = "completed"
			} else if !notification.Enabled {
				state = "disabled"
			}

			fmt.Printf("%s  [%s/%s] %s at %s [%s]\n",
				notification.ID, notification.Kind, notification.Priority,
				notification.Title, notification.ScheduledDate.Format("2006-01-02 15:04"), state)
		}

	case "complete", "toggle", "remove":
		id, err := p.askUUID("notification id")
		if err != nil {
			return err
		}

		notification := manager.Notification(id)
		if notification == nil {
			return fmt.Errorf("notification %s does not exist", id)
		}

		switch action {
		case "complete":
			return manager.Complete(notification)
		case "toggle":
			return manager.Toggle(notification)
		case "remove":
			manager.Delete(notification)
		}

	default:
		return fmt.Errorf("unknown notification action %q", action)
	}

	return nil
}

func notificationAdd(b *db.Badger, manager *engine.Manager, p *prompter) error {
	name, err := p.askRequired("subject name")
	if err != nil {
		return err
	}

	subject, err := findSubject(b, name)
	if err != nil {
		return err
	}

	kind := db.Kind(p.ask("kind (medication, follow_up, appointment, health_check, symptom_tracking, vaccination)"))

	var notification *db.Notification
	switch kind {
	case db.KindMedication:
		medicationName, err := p.askRequired("medication name")
		if err != nil {
			return err
		}

		dosage, err := p.askRequired("dosage")
		if err != nil {
			return err
		}

		frequency := p.ask("frequency description")

		at, err := p.askDateTime("first dose (YYYY-MM-DD HH:MM)")
		if err != nil {
			return err
		}

		notification = db.NewMedicationNotification(subject.ID, subject.Name, medicationName, dosage, frequency, at)

	case db.KindFollowUp:
		item, err := p.askRequired("checkup item")
		if err != nil {
			return err
		}

		visit, err := p.askDateTime("visit (YYYY-MM-DD HH:MM)")
		if err != nil {
			return err
		}

		hospital := p.ask("hospital")
		department := p.ask("department")
		notification = db.NewFollowUpNotification(subject.ID, item, visit, hospital, department)

	case db.KindAppointment:
		doctor, err := p.askRequired("doctor name")
		if err != nil {
			return err
		}

		visit, err := p.askDateTime("visit (YYYY-MM-DD HH:MM)")
		if err != nil {
			return err
		}

		hospital := p.ask("hospital")
		department := p.ask("department")
		notification = db.NewAppointmentNotification(subject.ID, doctor, visit, hospital, department)

	case db.KindHealthCheck:
		checkType, err := p.askRequired("check type")
		if err != nil {
			return err
		}

		at, err := p.askDateTime("scheduled (YYYY-MM-DD HH:MM)")
		if err != nil {
			return err
		}

		notification = db.NewHealthCheckNotification(subject.ID, subject.Name, checkType, at)

	case db.KindSymptomTracking:
		symptom, err := p.askRequired("symptom name")
		if err != nil {
			return err
		}

		at, err := p.askDateTime("scheduled (YYYY-MM-DD HH:MM)")
		if err != nil {
			return err
		}

		notification = db.NewSymptomTrackingNotification(subject.ID, symptom, at)

	case db.KindVaccination:
		vaccine, err := p.askRequired("vaccine name")
		if err != nil {
			return err
		}

		visit, err := p.askDateTime("visit (YYYY-MM-DD HH:MM)")
		if err != nil {
			return err
		}

		site := p.ask("vaccination site")
		notification = db.NewVaccinationNotification(subject.ID, subject.Name, vaccine, visit, site)

	default:
		return fmt.Errorf("unknown notification kind %q", kind)
	}

	err = manager.Add(notification)
	if err != nil {
		return err
	}

	fmt.Println("created notification id", notification.ID)

	return nil
}

func main() {
	lenArgs := len(os.Args)
	if lenArgs <= 1 {
		help()
		fmt.Fprintln(os.Stderr, "must supply at least one argument")
		os.Exit(1)
	}

	err := func() error {
		p := &prompter{scanner: bufio.NewScanner(os.Stdin)}

		cfg, err := config.FromEnvironment()
		if err != nil {
			return err
		}

		log := newLogger(cfg.LogLevel())

		badgerPath, err := cfg.BadgerPath()
		if err != nil {
			return err
		}

		b, err := db.NewBadger(badgerPath)
		if err != nil {
			return err
		}

		defer b.Close()

		if os.Args[1] == "run" {
			return runDaemon(cfg, b, log)
		}

		// one-shot commands leave delivery to the daemon
		ledger, err := engine.NewLedger(b, log)
		if err != nil {
			return err
		}

		manager, err := engine.NewManager(b, dispatch.NewDiscard(log), ledger, log)
		if err != nil {
			return err
		}

		switch os.Args[1] {
		case "subject", "medication", "notification":
			if lenArgs < 3 {
				return errors.New("must supply an argument to the " + os.Args[1] + " command")
			}

			switch os.Args[1] {
			case "subject":
				return subjectCommand(os.Args[2], b, p)
			case "medication":
				return medicationCommand(os.Args[2], manager, p)
			case "notification":
				return notificationCommand(os.Args[2], b, manager, p)
			}

		case "taken":
			id, err := p.askUUID("medication id")
			if err != nil {
				return err
			}

			anchors, err := parseClockTimes(p.ask("dose time (HH:MM)"))
			if err != nil {
				return err
			}

			if len(anchors) != 1 {
				return errors.New("must supply exactly one dose time")
			}

			if manager.MarkTaken(id, anchors[0].At(time.Now())) {
				fmt.Println("dose recorded")
			} else {
				fmt.Println("dose was already recorded")
			}

		case "pending":
			pending := manager.TodayPending()
			if len(pending) == 0 {
				fmt.Println("nothing pending today")
				return nil
			}

			for _, item := range pending {
				times := make([]string, 0, len(item.Times))
				for _, occurrence := range item.Times {
					times = append(times, occurrence.Format("15:04"))
				}

				fmt.Printf("%s  %s %s at %s\n",
					item.Medication.ID, item.Medication.Name,
					item.Medication.Dosage, strings.Join(times, ", "))
			}

		case "stats":
			name, err := p.askRequired("subject name")
			if err != nil {
				return err
			}

			subject, err := findSubject(b, name)
			if err != nil {
				return err
			}

			stats := manager.StatsFor(subject.ID)
			fmt.Printf("total: %d\nactive: %d\ncompleted: %d\noverdue: %d\ntoday: %d\nupcoming: %d\n",
				stats.Total, stats.Active, stats.Completed, stats.Overdue, stats.Today, stats.Upcoming)

		case "cleanup":
			pruned := ledger.Prune(cfg.RetentionDays())
			removed := manager.CleanupOld(cfg.CleanupDays())
			fmt.Printf("pruned %d adherence records, removed %d completed notifications\n", pruned, removed)

		default:
			help()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}

		return nil
	}()

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
