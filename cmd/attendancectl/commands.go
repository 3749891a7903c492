package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"attendanceclient/internal/domain"
	"attendanceclient/internal/services"
)

func newFlagSet(a *app, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	fs.Usage = func() {
		fmt.Fprintf(a.errOut, "usage: attendancectl %s\n", a.usage)
		fs.PrintDefaults()
	}
	return fs
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: -%s is required", domain.ErrInvalidInput, name)
	}
	return nil
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printOutcome(w io.Writer, outcome services.Outcome) {
	if outcome == services.OutcomeDeclined {
		fmt.Fprintln(w, "cancelled")
	}
}

func runEvents(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "events")
	st := fs.String("status", "", "status facet")
	if err := fs.Parse(args); err != nil {
		return err
	}

	screen := services.NewEventListScreen(a.deps, a.filterOptions()...)
	defer screen.Close()
	if *st != "" {
		if err := screen.SetStatus(ctx, *st); err != nil {
			return err
		}
		if err := screen.LastError(); err != nil {
			return err
		}
	} else if err := screen.Load(ctx); err != nil {
		return err
	}

	tw := table(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tSTATUS\tATTENDED\tRATE")
	for _, r := range screen.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\n", r.Event.ID, r.Event.Name, formatDate(r.Event), r.Event.Status,
			r.Event.AttendedCount, r.Event.TotalParticipants, r.RateText)
	}
	return tw.Flush()
}

func validDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return fmt.Errorf("%w: -date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return nil
}

func formatDate(e domain.Event) string {
	if e.EventDate.IsZero() {
		return "-"
	}
	return e.EventDate.Format(domain.DateLayout)
}

func runEvent(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "event")
	id := fs.String("id", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}

	screen := services.NewEventDetailScreen(a.deps, *id, a.filterOptions()...)
	defer screen.Close()
	if err := loadDetail(ctx, screen); err != nil {
		return err
	}
	printEventDetail(a.out, screen)
	return nil
}

// loadDetail fails only when the event itself could not be fetched. Camera fetch
// failures were already shown as notices.
func loadDetail(ctx context.Context, screen *services.EventDetailScreen) error {
	if err := screen.Load(ctx); err != nil {
		if _, ok := screen.Event(); !ok {
			return err
		}
	}
	return nil
}

func printEventDetail(w io.Writer, screen *services.EventDetailScreen) {
	ev, _ := screen.Event()
	stats := screen.Stats()
	fmt.Fprintf(w, "%s (%s)\n", ev.Name, ev.ID)
	fmt.Fprintf(w, "date: %s %s-%s  location: %s  status: %s\n", formatDate(ev), ev.StartTime, ev.EndTime, ev.Location, ev.Status)
	fmt.Fprintf(w, "attendance: %d/%d (%s)\n\n", stats.Attended, stats.Total, stats.RateText)

	tw := table(w)
	fmt.Fprintln(tw, "EMPLOYEE\tNAME\tDEPARTMENT\tSTATUS\tATTENDED AT")
	for _, r := range screen.ParticipantRows() {
		at := "-"
		if r.Participant.AttendedAt != nil {
			at = r.Participant.AttendedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Participant.EmployeeID, r.Participant.EmployeeName,
			r.Participant.Department, r.Participant.Status, at)
	}
	tw.Flush()

	fmt.Fprintln(w)
	printCameras(w, screen)
}

func printCameras(w io.Writer, screen *services.EventDetailScreen) {
	tw := table(w)
	fmt.Fprintln(tw, "CAMERA\tNAME\tLOCATION\tSTATUS\tPRIMARY")
	for _, r := range screen.CameraRows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", r.Camera.ID, r.Camera.Name, r.Camera.Location, r.Camera.Status, r.Camera.IsPrimary)
	}
	tw.Flush()

	if avail := screen.AvailableCameras(); len(avail) > 0 {
		names := make([]string, 0, len(avail))
		for _, c := range avail {
			names = append(names, c.ID+" ("+c.Name+")")
		}
		fmt.Fprintf(w, "available: %s\n", strings.Join(names, ", "))
	}
}

func runStats(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet(a, "stats").Parse(args); err != nil {
		return err
	}
	screen := services.NewEventListScreen(a.deps, a.filterOptions()...)
	defer screen.Close()
	stats, err := screen.LoadStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "events: %d  upcoming: %d  completed: %d  average attendance: %.1f%%\n",
		stats.TotalEvents, stats.UpcomingEvents, stats.CompletedEvents, stats.AverageAttendanceRate)
	return nil
}

func runLogs(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "logs")
	date := fs.String("date", "", "day to list (YYYY-MM-DD, default today)")
	search := fs.String("search", "", "name or employee id")
	st := fs.String("status", "", "status facet")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := validDate(*date); err != nil {
		return err
	}

	screen := services.NewAttendanceLogScreen(a.deps, *date, a.filterOptions()...)
	defer screen.Close()
	if *search != "" {
		screen.SetSearch(ctx, *search)
	}
	// both paths fetch once with the full state and drop the pending search timer
	if *st != "" {
		if err := screen.SetStatus(ctx, *st); err != nil {
			return err
		}
		if err := screen.LastError(); err != nil {
			return err
		}
	} else if err := screen.Load(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, screen.Header())
	tw := table(a.out)
	fmt.Fprintln(tw, "TIME\tEMPLOYEE\tNAME\tSTATUS\tMETHOD\tCONFIDENCE")
	for _, r := range screen.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.0f%%\n", r.Log.Timestamp.Format("15:04:05"), r.Log.EmployeeID,
			r.Log.EmployeeName, r.Log.Status, r.Log.Method, r.Log.Confidence*100)
	}
	return tw.Flush()
}

func runEmployees(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "employees")
	search := fs.String("search", "", "filter by name, employee id, department or email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	screen := services.NewEmployeeScreen(a.deps, a.filterOptions()...)
	defer screen.Close()
	if err := screen.Load(ctx); err != nil {
		return err
	}
	tw := table(a.out)
	fmt.Fprintln(tw, "EMPLOYEE\tNAME\tDEPARTMENT\tEMAIL")
	for _, e := range screen.Search(*search) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.EmployeeID, e.Name, e.Department, e.Email)
	}
	return tw.Flush()
}

func runMark(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "mark")
	eventID := fs.String("event", "", "event id")
	employeeID := fs.String("employee", "", "employee id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("event", *eventID); err != nil {
		return err
	}
	if err := required("employee", *employeeID); err != nil {
		return err
	}

	screen := services.NewEventDetailScreen(a.deps, *eventID, a.filterOptions()...)
	defer screen.Close()
	if err := loadDetail(ctx, screen); err != nil {
		return err
	}
	outcome, err := screen.MarkAttended(ctx, *employeeID)
	printOutcome(a.out, outcome)
	if err != nil {
		return err
	}
	for _, p := range screen.Participants() {
		if p.EmployeeID == *employeeID {
			fmt.Fprintf(a.out, "%s %s: %s\n", p.EmployeeID, p.EmployeeName, p.Status)
		}
	}
	return nil
}

func linkFlags(a *app, name string, args []string) (string, string, error) {
	fs := newFlagSet(a, name)
	eventID := fs.String("event", "", "event id")
	cameraID := fs.String("camera", "", "camera id")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if err := required("event", *eventID); err != nil {
		return "", "", err
	}
	if err := required("camera", *cameraID); err != nil {
		return "", "", err
	}
	return *eventID, *cameraID, nil
}

func runLink(ctx context.Context, a *app, args []string) error {
	eventID, cameraID, err := linkFlags(a, "link", args)
	if err != nil {
		return err
	}
	screen := services.NewEventDetailScreen(a.deps, eventID, a.filterOptions()...)
	defer screen.Close()
	if err := loadDetail(ctx, screen); err != nil {
		return err
	}
	if _, err := screen.LinkCamera(ctx, cameraID); err != nil {
		return err
	}
	printCameras(a.out, screen)
	return nil
}

func runUnlink(ctx context.Context, a *app, args []string) error {
	eventID, cameraID, err := linkFlags(a, "unlink", args)
	if err != nil {
		return err
	}
	screen := services.NewEventDetailScreen(a.deps, eventID, a.filterOptions()...)
	defer screen.Close()
	if err := loadDetail(ctx, screen); err != nil {
		return err
	}
	outcome, err := screen.UnlinkCamera(ctx, cameraID)
	printOutcome(a.out, outcome)
	if err != nil {
		return err
	}
	printCameras(a.out, screen)
	return nil
}

func runDeleteEvent(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "delete-event")
	id := fs.String("id", "", "event id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}
	screen := services.NewEventListScreen(a.deps, a.filterOptions()...)
	defer screen.Close()
	if err := screen.Load(ctx); err != nil {
		return err
	}
	outcome, err := screen.DeleteEvent(ctx, *id)
	printOutcome(a.out, outcome)
	return err
}

func runDeleteEmployee(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "delete-employee")
	id := fs.String("id", "", "employee id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("id", *id); err != nil {
		return err
	}
	screen := services.NewEmployeeScreen(a.deps, a.filterOptions()...)
	defer screen.Close()
	if err := screen.Load(ctx); err != nil {
		return err
	}
	outcome, err := screen.DeleteEmployee(ctx, *id)
	printOutcome(a.out, outcome)
	return err
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "export")
	format := fs.String("format", "", "pdf, excel or csv")
	date := fs.String("date", "", "day to export (YYYY-MM-DD, default today)")
	eventID := fs.String("event", "", "export one event instead of attendance logs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("format", *format); err != nil {
		return err
	}

	var (
		link services.ExportLink
		err  error
	)
	if *eventID != "" {
		screen := services.NewEventDetailScreen(a.deps, *eventID, a.filterOptions()...)
		defer screen.Close()
		if lerr := screen.Load(ctx); lerr != nil {
			if _, ok := screen.Event(); !ok {
				return lerr
			}
		}
		link, err = screen.ExportURL(*format)
	} else {
		if err := validDate(*date); err != nil {
			return err
		}
		screen := services.NewAttendanceLogScreen(a.deps, *date, a.filterOptions()...)
		defer screen.Close()
		link, err = screen.Export(*format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "url: %s\nfile: %s\n", link.URL, link.Filename)
	return nil
}

func newNotificationView(ctx context.Context, a *app) (*services.NotificationConfigView, error) {
	view := services.NewNotificationConfigView(a.deps, a.identity)
	if err := view.Load(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

func runNotifications(ctx context.Context, a *app, args []string) error {
	if err := newFlagSet(a, "notifications").Parse(args); err != nil {
		return err
	}
	view, err := newNotificationView(ctx, a)
	if err != nil {
		return err
	}
	st, _ := view.Status()
	s := st.Settings
	fmt.Fprintf(a.out, "email enabled: %t\n", st.EmailEnabled)
	fmt.Fprintf(a.out, "smtp: %s:%d (user %s)\n", s.SMTPHost, s.SMTPPort, s.SMTPUser)
	fmt.Fprintf(a.out, "from: %s <%s>\n", s.FromName, s.FromEmail)
	fmt.Fprintf(a.out, "notify late arrival: %t  check-in: %t  registration: %t\n",
		s.NotifyLateArrival, s.NotifyCheckIn, s.NotifyRegistration)
	fmt.Fprintf(a.out, "daily summary: %t at %s\n", s.DailySummaryEnabled, s.DailySummaryTime)
	if r := view.DefaultSummaryRecipient(); r != "" {
		fmt.Fprintf(a.out, "summary recipient: %s\n", r)
	}
	return nil
}

func runTestEmail(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "test-email")
	to := fs.String("to", "", "recipient address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	view, err := newNotificationView(ctx, a)
	if err != nil {
		return err
	}
	_, err = view.SendTestEmail(ctx, *to)
	return err
}

func runDailySummary(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "daily-summary")
	to := fs.String("to", "", "recipient address (default: the signed-in user)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	view, err := newNotificationView(ctx, a)
	if err != nil {
		return err
	}
	_, err = view.SendDailySummary(ctx, *to)
	return err
}
