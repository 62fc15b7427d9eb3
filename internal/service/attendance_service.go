package service

import (
	"context"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vyservice/ops-api/internal/geofence"
	"github.com/vyservice/ops-api/internal/models"
	appErrors "github.com/vyservice/ops-api/pkg/errors"
)

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type attendanceRepository interface {
	Insert(ctx context.Context, record *models.Attendance) (*models.Attendance, bool, error)
	Upsert(ctx context.Context, record *models.Attendance) (*models.Attendance, error)
	DeleteByKey(ctx context.Context, employeeID, date string) (bool, error)
	MonthDays(ctx context.Context, employeeID, month string) ([]string, error)
	PresentEmployeeIDs(ctx context.Context, date string) ([]string, error)
	MonthRecords(ctx context.Context, month string) ([]models.Attendance, error)
}

type attendanceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// MarkAttendanceRequest is a presence claim from the mobile app. Any
// client-supplied date is ignored; marking always targets the server's
// current calendar day so attendance cannot be backdated.
type MarkAttendanceRequest struct {
	EmployeeID   string   `json:"employeeId" validate:"required"`
	EmployeeName string   `json:"employeeName"`
	CurrentIP    string   `json:"currentIp" validate:"required"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Accuracy     *float64 `json:"accuracy"`
}

// MarkResult is the tagged outcome of an idempotent mark.
type MarkResult struct {
	Record        *models.Attendance
	AlreadyMarked bool
}

// AdminSetRequest sets or unsets presence for any date, no geofence.
type AdminSetRequest struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date" validate:"required"`
	Present      *bool  `json:"present" validate:"required"`
}

// AdminSetResult reports which side of the override ran.
type AdminSetResult struct {
	Record  *models.Attendance
	Removed bool
}

// OfficeInfo echoes the configured geofence back to clients so a
// rejected employee can see what to fix.
type OfficeInfo struct {
	IP      string   `json:"officeIp,omitempty"`
	CIDR    string   `json:"officeCidr,omitempty"`
	Lat     *float64 `json:"officeLat,omitempty"`
	Lng     *float64 `json:"officeLng,omitempty"`
	RadiusM float64  `json:"radiusM"`
	Allowed []string `json:"allowed"`
}

// GeofenceRejection is the business outcome of a failed presence claim.
// It is an error so services can return it, but handlers unwrap it to
// report the failed dimension rather than a blanket failure.
type GeofenceRejection struct {
	Decision geofence.Decision
	Office   OfficeInfo
	IP       string
}

func (e *GeofenceRejection) Error() string {
	if !e.Decision.IPMatch {
		return "Please connect to office WiFi to mark attendance."
	}
	return "Please be at office location to mark attendance."
}

// CheckResult is the dry-run geofence evaluation.
type CheckResult struct {
	Match    bool
	Decision geofence.Decision
	Office   OfficeInfo
	IP       string
	Message  string
}

// AttendanceService implements the attendance ledger.
type AttendanceService struct {
	repo         attendanceRepository
	cache        attendanceCache
	validatorFn  *validator.Validate
	fence        *geofence.Validator
	office       OfficeInfo
	metrics      *MetricsService
	logger       *zap.Logger
	queryTimeout time.Duration
	todayTTL     time.Duration
	now          func() time.Time
}

// AttendanceConfig carries service tuning.
type AttendanceConfig struct {
	QueryTimeout  time.Duration
	TodayCountTTL time.Duration
	OfficeIP      string
	OfficeCIDR    string
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, cache attendanceCache, fence *geofence.Validator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg AttendanceConfig) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	lat, lng, radius := fence.Office()
	office := OfficeInfo{
		IP:      cfg.OfficeIP,
		CIDR:    cfg.OfficeCIDR,
		Lat:     lat,
		Lng:     lng,
		RadiusM: radius,
		Allowed: fence.Entries(),
	}
	return &AttendanceService{
		repo:         repo,
		cache:        cache,
		validatorFn:  validate,
		fence:        fence,
		office:       office,
		metrics:      metrics,
		logger:       logger,
		queryTimeout: cfg.QueryTimeout,
		todayTTL:     cfg.TodayCountTTL,
		now:          time.Now,
	}
}

func (s *AttendanceService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *AttendanceService) today() string {
	return s.now().Format(models.DateLayout)
}

func (s *AttendanceService) todayCountKey() string {
	return "attendance:today-count:" + s.today()
}

// Mark validates the claim against the geofence and performs the
// idempotent insert for today's key. A pre-existing record is success
// with AlreadyMarked set, never an error.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*MarkResult, error) {
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "employeeId and currentIp are required")
	}

	decision := s.fence.Evaluate(req.CurrentIP, req.Lat, req.Lng)
	s.metrics.RecordGeofenceDecision(decision.Allowed())
	if !decision.Allowed() {
		s.logger.Info("attendance rejected by geofence",
			zap.String("employee_id", req.EmployeeID),
			zap.String("ip", req.CurrentIP),
			zap.Bool("ip_match", decision.IPMatch),
			zap.Bool("location_match", decision.LocationMatch))
		return nil, &GeofenceRejection{Decision: decision, Office: s.office, IP: req.CurrentIP}
	}

	record := &models.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       s.today(),
		Timestamp:  s.now().UTC(),
	}
	if req.EmployeeName != "" {
		record.EmployeeName = &req.EmployeeName
	}
	if req.CurrentIP != "" {
		ip := req.CurrentIP
		record.IPAddress = &ip
	}
	record.Lat = req.Lat
	record.Lng = req.Lng
	record.Accuracy = req.Accuracy

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	stored, created, err := s.repo.Insert(ctx, record)
	if err != nil {
		return nil, wrapStorage(err, "failed to mark attendance")
	}
	if !created {
		return &MarkResult{AlreadyMarked: true}, nil
	}

	if err := s.cache.Delete(ctx, s.todayCountKey()); err != nil {
		s.logger.Warn("failed to invalidate today-count cache", zap.Error(err))
	}
	return &MarkResult{Record: stored}, nil
}

// Check evaluates the geofence without writing anything.
func (s *AttendanceService) Check(ctx context.Context, ip string, lat, lng *float64) (*CheckResult, error) {
	if ip == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ip is required")
	}
	decision := s.fence.Evaluate(ip, lat, lng)

	message := "IP and Location match office constraints"
	if !decision.IPMatch {
		message = "IP does not match office WiFi"
	} else if !decision.LocationMatch {
		message = "Location not within office radius"
	}

	return &CheckResult{
		Match:    decision.Allowed(),
		Decision: decision,
		Office:   s.office,
		IP:       ip,
		Message:  message,
	}, nil
}

// MonthDays returns the day strings marked for the employee in the
// given YYYY-MM month; anything unparsable falls back to the current
// month.
func (s *AttendanceService) MonthDays(ctx context.Context, employeeID, month string) ([]string, error) {
	if employeeID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "employee id is required")
	}
	if !monthPattern.MatchString(month) {
		month = s.now().Format(models.MonthLayout)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	days, err := s.repo.MonthDays(ctx, employeeID, month)
	if err != nil {
		return nil, wrapStorage(err, "failed to fetch attendance")
	}
	return days, nil
}

// TodayCount returns the distinct employees present today, served from
// cache when fresh.
func (s *AttendanceService) TodayCount(ctx context.Context) (*models.TodayPresence, error) {
	key := s.todayCountKey()

	var cached models.TodayPresence
	start := time.Now()
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheOperation(true, time.Since(start))
		return &cached, nil
	}
	s.metrics.RecordCacheOperation(false, time.Since(start))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ids, err := s.repo.PresentEmployeeIDs(ctx, s.today())
	if err != nil {
		return nil, wrapStorage(err, "failed to fetch today count")
	}
	presence := &models.TodayPresence{Count: len(ids), EmployeeIDs: ids}

	if err := s.cache.Set(ctx, key, presence, s.todayTTL); err != nil {
		s.logger.Warn("failed to cache today count", zap.Error(err))
	}
	return presence, nil
}

// AdminSet bypasses the geofence entirely. Present upserts the record
// for the key (refreshing name and timestamp); absent deletes it. The
// ledger deliberately allows any date, past or future.
func (s *AttendanceService) AdminSet(ctx context.Context, req AdminSetRequest) (*AdminSetResult, error) {
	if err := s.validatorFn.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "employeeId, date and present are required")
	}
	date := req.Date
	if len(date) > 10 {
		date = date[:10]
	}
	if !datePattern.MatchString(date) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	defer func() {
		if err := s.cache.Delete(ctx, s.todayCountKey()); err != nil {
			s.logger.Warn("failed to invalidate today-count cache", zap.Error(err))
		}
	}()

	if *req.Present {
		record := &models.Attendance{EmployeeID: req.EmployeeID, Date: date}
		if req.EmployeeName != "" {
			record.EmployeeName = &req.EmployeeName
		}
		stored, err := s.repo.Upsert(ctx, record)
		if err != nil {
			return nil, wrapStorage(err, "failed to set attendance")
		}
		return &AdminSetResult{Record: stored}, nil
	}

	if _, err := s.repo.DeleteByKey(ctx, req.EmployeeID, date); err != nil {
		return nil, wrapStorage(err, "failed to unset attendance")
	}
	return &AdminSetResult{Removed: true}, nil
}

// MonthExportRows flattens a month of records for the CSV export.
func (s *AttendanceService) MonthExportRows(ctx context.Context, month string) ([]map[string]string, error) {
	if !monthPattern.MatchString(month) {
		month = s.now().Format(models.MonthLayout)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	records, err := s.repo.MonthRecords(ctx, month)
	if err != nil {
		return nil, wrapStorage(err, "failed to export attendance")
	}

	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		name := ""
		if rec.EmployeeName != nil {
			name = *rec.EmployeeName
		}
		ip := ""
		if rec.IPAddress != nil {
			ip = *rec.IPAddress
		}
		rows = append(rows, map[string]string{
			"Date":        rec.Date,
			"Employee ID": rec.EmployeeID,
			"Employee":    name,
			"IP Address":  ip,
			"Marked At":   rec.Timestamp.Format(time.RFC3339),
		})
	}
	return rows, nil
}

// Office returns the configured office info for client display.
func (s *AttendanceService) Office() OfficeInfo {
	return s.office
}
