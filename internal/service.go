package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gopkg.in/gomail.v2"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	appctx "github.com/syrilster/attendance-grid/internal/context"
	"github.com/syrilster/attendance-grid/internal/export"
	"github.com/syrilster/attendance-grid/internal/grid"
	"github.com/syrilster/attendance-grid/internal/model"
)

const (
	// defaultMaxViews bounds the number of sessions whose last dataset is remembered.
	defaultMaxViews = 1024
	// sharedFetchTimeout bounds a coalesced fetch, which no single caller owns.
	sharedFetchTimeout = 2 * time.Minute
)

var ErrReportingDisabled = errors.New("report e-mail is not configured")

// Snapshot is the dataset shown for one month: the raw records and
// everything derived from them.
type Snapshot struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Days         int             `json:"days"`
	CurrentMonth bool            `json:"currentMonth"`
	Employees    []grid.Employee `json:"employees"`
	Matrix       grid.Matrix     `json:"matrix"`
	Summary      grid.Summary    `json:"summary"`
	Records      []grid.Record   `json:"-"`
}

type view struct {
	generation uint64
	current    *Snapshot
	pending    int
	lastUsed   uint64
}

type Service struct {
	client      attendanceapi.ClientInterface
	now         func() time.Time
	location    *time.Location
	emailClient sesiface.SESAPI
	emailTo     string
	emailFrom   string

	fetches      singleflight.Group
	fetchTimeout time.Duration

	mu       sync.Mutex
	views    map[string]*view
	maxViews int
	seq      uint64
}

func NewService(c attendanceapi.ClientInterface, loc *time.Location, ec sesiface.SESAPI, emailTo string, emailFrom string) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		client:      c,
		now:         time.Now,
		location:    loc,
		emailClient: ec,
		emailTo:     emailTo,
		emailFrom:   emailFrom,

		fetchTimeout: sharedFetchTimeout,
		views:        make(map[string]*view),
		maxViews:     defaultMaxViews,
	}
}

// Today returns the current time in the service's time zone.
func (service *Service) Today() time.Time {
	return service.now().In(service.location)
}

// Show fetches month/year and makes the result the session's current
// dataset, unless a Show started later has already replaced it.
func (service *Service) Show(ctx context.Context, sess model.Session, month int, year int) (*Snapshot, error) {
	generation := service.begin(sess)

	snap, err := service.load(ctx, sess, month, year)
	if err != nil {
		service.finish(sess, generation, nil)
		return nil, err
	}

	if !service.finish(sess, generation, snap) {
		log.WithContext(ctx).Infof("Discarding stale attendance result for %d/%d", month, year)
	}
	return snap, nil
}

// Current returns the dataset of the session's latest completed Show.
func (service *Service) Current(sess model.Session) (*Snapshot, bool) {
	service.mu.Lock()
	defer service.mu.Unlock()

	v, ok := service.views[sess.Token]
	if !ok || v.current == nil {
		return nil, false
	}
	return v.current, true
}

func (service *Service) Summary(ctx context.Context, sess model.Session, month int, year int) (*grid.Summary, error) {
	snap, err := service.load(ctx, sess, month, year)
	if err != nil {
		return nil, err
	}
	return &snap.Summary, nil
}

func (service *Service) Records(ctx context.Context, sess model.Session, month int, year int) ([]grid.Record, error) {
	return service.fetch(ctx, sess, month, year)
}

// Export renders the month's matrix in format and returns the file name,
// content type and file content.
func (service *Service) Export(ctx context.Context, sess model.Session, month int, year int, format export.Format) (string, string, []byte, error) {
	snap, err := service.load(ctx, sess, month, year)
	if err != nil {
		return "", "", nil, err
	}

	data, err := encode(snap.Matrix, format)
	if err != nil {
		log.WithContext(ctx).WithError(err).Errorf("Failed to encode %s export", format)
		return "", "", nil, err
	}
	return export.FileName(month, year, format), format.ContentType(), data, nil
}

// SendReport e-mails the month's XLSX export. The e-mail is sent in the
// background and outlives the caller's request.
func (service *Service) SendReport(ctx context.Context, sess model.Session, month int, year int) error {
	if service.emailClient == nil || service.emailTo == "" || service.emailFrom == "" {
		return ErrReportingDisabled
	}

	snap, err := service.load(ctx, sess, month, year)
	if err != nil {
		return err
	}
	data, err := encode(snap.Matrix, export.XLSX)
	if err != nil {
		return err
	}

	go func(ctx context.Context) {
		if err := service.sesSendEmail(ctx, snap, export.FileName(month, year, export.XLSX), data); err != nil {
			log.WithContext(ctx).WithError(err).Error("Error when sending attendance report")
		}
	}(appctx.Detach(ctx))
	return nil
}

func (service *Service) GetUsers(ctx context.Context, sess model.Session) ([]attendanceapi.User, error) {
	return service.client.GetUsers(ctx, sess)
}

func (service *Service) AddUser(ctx context.Context, sess model.Session, user attendanceapi.NewUser) (*attendanceapi.User, error) {
	return service.client.AddUser(ctx, sess, user)
}

func (service *Service) MarkByToken(ctx context.Context, tokenCode string) (*attendanceapi.MarkResponse, error) {
	return service.client.MarkByToken(ctx, tokenCode)
}

func (service *Service) History(ctx context.Context, tokenCode string) ([]attendanceapi.HistoryEntry, error) {
	return service.client.GetHistory(ctx, tokenCode)
}

// fetch coalesces concurrent identical requests of one session. The shared
// call runs detached from any one caller, so a caller that gives up only
// abandons its own wait.
func (service *Service) fetch(ctx context.Context, sess model.Session, month int, year int) ([]grid.Record, error) {
	key := fmt.Sprintf("%s|%d|%d", sess.Token, month, year)
	ch := service.fetches.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(appctx.Detach(ctx), service.fetchTimeout)
		defer cancel()
		return service.client.GetAttendance(fetchCtx, sess, month, year)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.WithContext(ctx).Debugf("Shared in-flight attendance fetch for %d/%d", month, year)
		}
		records, _ := res.Val.([]grid.Record)
		return records, nil
	}
}

func (service *Service) load(ctx context.Context, sess model.Session, month int, year int) (*Snapshot, error) {
	records, err := service.fetch(ctx, sess, month, year)
	if err != nil {
		log.WithContext(ctx).WithError(err).Errorf("Failed to load attendance data for %d/%d", month, year)
		return nil, err
	}
	return service.build(records, month, year), nil
}

func (service *Service) build(records []grid.Record, month int, year int) *Snapshot {
	employees := grid.Roster(records)
	if employees == nil {
		employees = []grid.Employee{}
	}
	b := grid.New(grid.EventsFromRecords(records), employees, month, year,
		grid.WithClock(service.now), grid.WithLocation(service.location))

	return &Snapshot{
		Month:        month,
		Year:         year,
		Days:         b.Days(),
		CurrentMonth: b.IsCurrentMonth(),
		Employees:    employees,
		Matrix:       b.Matrix(),
		Summary:      b.Summary(),
		Records:      records,
	}
}

func (service *Service) begin(sess model.Session) uint64 {
	service.mu.Lock()
	defer service.mu.Unlock()

	v, ok := service.views[sess.Token]
	if !ok {
		if len(service.views) >= service.maxViews {
			service.evictLocked()
		}
		v = &view{}
		service.views[sess.Token] = v
	}
	service.seq++
	v.lastUsed = service.seq
	v.pending++
	v.generation++
	return v.generation
}

// finish ends a Show started by begin and publishes snap when generation is
// still the session's latest. A nil snap only ends the Show.
func (service *Service) finish(sess model.Session, generation uint64, snap *Snapshot) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	v, ok := service.views[sess.Token]
	if !ok {
		return false
	}
	v.pending--
	if snap == nil || v.generation != generation {
		return false
	}
	v.current = snap
	return true
}

// evictLocked drops the least recently used view with no Show in flight.
// When every view is busy the map is allowed to grow past maxViews.
func (service *Service) evictLocked() {
	var (
		oldest string
		found  bool
		lru    uint64
	)
	for token, v := range service.views {
		if v.pending > 0 {
			continue
		}
		if !found || v.lastUsed < lru {
			oldest, lru, found = token, v.lastUsed, true
		}
	}
	if found {
		delete(service.views, oldest)
	}
}

func encode(m grid.Matrix, format export.Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case export.CSV:
		err = export.WriteCSV(&buf, m)
	case export.XLSX:
		err = export.WriteXLSX(&buf, m)
	default:
		err = fmt.Errorf("%q: %w", format, export.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (service *Service) sesSendEmail(ctx context.Context, snap *Snapshot, attachName string, attachment []byte) error {
	contextLogger := log.WithContext(ctx)
	contextLogger.Infof("Sending attendance report %s", attachName)

	msg := gomail.NewMessage()
	msg.SetHeader("From", service.emailFrom)
	msg.SetHeader("To", populateEmailRecipients(service.emailTo)...)
	msg.SetHeader("Subject", fmt.Sprintf("Report: Attendance %s %d", time.Month(snap.Month), snap.Year))
	msg.SetBody("text/plain", reportBody(snap))
	msg.Attach(attachName, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(attachment)
		return err
	}))

	var emailRaw bytes.Buffer
	if _, err := msg.WriteTo(&emailRaw); err != nil {
		contextLogger.WithError(err).Error("Error when writing email data")
		return err
	}

	emailParams := ses.SendRawEmailInput{
		Source:     aws.String(service.emailFrom),
		RawMessage: &ses.RawMessage{Data: emailRaw.Bytes()},
	}
	emailParams.SetDestinations(aws.StringSlice(populateEmailRecipients(service.emailTo)))

	if _, err := service.emailClient.SendRawEmail(&emailParams); err != nil {
		return err
	}
	contextLogger.Infof("Finished sending attendance report %s", attachName)
	return nil
}

func reportBody(snap *Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attendance for %s %d\n\n", time.Month(snap.Month), snap.Year)
	fmt.Fprintf(&b, "Employees: %d\n", len(snap.Employees))
	fmt.Fprintf(&b, "Total days: %d\n", snap.Summary.Total)
	fmt.Fprintf(&b, "Present: %d\n", snap.Summary.Present)
	fmt.Fprintf(&b, "Absent: %d\n", snap.Summary.Absent)
	if snap.CurrentMonth {
		fmt.Fprintf(&b, "Not yet happened: %d\n", snap.Summary.Pending)
	}
	return b.String()
}

func populateEmailRecipients(emailTo string) []string {
	var recipients []string
	for _, r := range strings.Split(emailTo, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return recipients
}
