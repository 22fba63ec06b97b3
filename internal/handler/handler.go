package handler

import (
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"faceattend/internal/attendance"
	"faceattend/internal/facerec"
	"faceattend/internal/metrics"
	"faceattend/internal/report"
)

// Handler carries the wired collaborators for the REST surface.
type Handler struct {
	repo       *attendance.Repository
	svc        *attendance.Service
	gallery    *facerec.Gallery
	recognizer *facerec.Recognizer
}

// New creates a handler.
func New(repo *attendance.Repository, svc *attendance.Service, gallery *facerec.Gallery, recognizer *facerec.Recognizer) *Handler {
	return &Handler{repo: repo, svc: svc, gallery: gallery, recognizer: recognizer}
}

type addUserRequest struct {
	EmpID      string `form:"emp_id" binding:"required"`
	Name       string `form:"name" binding:"required"`
	Role       string `form:"role" binding:"required"`
	Department string `form:"department"`
}

// AddUser registers an employee: stores the reference photo (overwriting any
// previous one for the id), reloads the gallery and upserts the employee row.
func (h *Handler) AddUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Department == "" {
		req.Department = "Not Specified"
	}

	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read photo"})
		return
	}

	path, err := h.gallery.Register(req.EmpID, photo)
	if err != nil {
		log.Printf("register face for %s failed: %v", req.EmpID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.GallerySize.Set(float64(h.gallery.Size()))

	emp := attendance.Employee{
		EmpID:      req.EmpID,
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		PhotoPath:  path,
	}
	if err := h.repo.UpsertEmployee(c.Request.Context(), emp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User added successfully", "file_path": path})
}

// MarkAttendance recognizes the uploaded frame and submits the event to the
// state machine. Unrecognized faces and policy rejections are soft outcomes,
// not errors.
func (h *Handler) MarkAttendance(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()
	img, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}

	empID, found, err := h.recognizer.Recognize(img)
	if err != nil {
		metrics.Recognitions.WithLabelValues("error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image format"})
		return
	}
	if !found {
		metrics.Recognitions.WithLabelValues("unknown").Inc()
		c.JSON(http.StatusOK, gin.H{"message": "No face recognized"})
		return
	}
	metrics.Recognitions.WithLabelValues("matched").Inc()

	decision, err := h.svc.Submit(c.Request.Context(), empID, time.Now())
	if err != nil {
		metrics.Submissions.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !decision.Accepted {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusOK, gin.H{"message": decision.Message})
		return
	}

	rec := decision.Record
	if rec.Status == attendance.StatusCheckIn {
		metrics.Submissions.WithLabelValues("check_in").Inc()
	} else {
		metrics.Submissions.WithLabelValues("check_out").Inc()
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       decision.Message,
		"timestamp":     rec.Timestamp,
		"status":        rec.Status,
		"timing_status": rec.TimingStatus,
		"recorded_time": rec.RecordedTime,
	})
}

// GetAttendance lists every attendance record.
func (h *Handler) GetAttendance(c *gin.Context) {
	records, err := h.repo.ListRecords(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": records})
}

// GetWeeklyAttendance lists one employee's records since Monday.
func (h *Handler) GetWeeklyAttendance(c *gin.Context) {
	empID := c.Query("emp_id")
	if empID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emp_id is required"})
		return
	}
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := midnight.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))

	records, err := h.repo.ListRecordsInRange(c.Request.Context(), empID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"weekly_attendance": records})
}

// GetMonthlyAttendance lists one employee's records for a month (defaults to
// the current one).
func (h *Handler) GetMonthlyAttendance(c *gin.Context) {
	empID := c.Query("emp_id")
	if empID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emp_id is required"})
		return
	}
	now := time.Now()
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
	records, err := h.repo.ListRecordsInRange(c.Request.Context(), empID, start, start.AddDate(0, 1, 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"monthly_attendance": records})
}

// GetYearlyAttendance lists one employee's records for a year (defaults to
// the current one).
func (h *Handler) GetYearlyAttendance(c *gin.Context) {
	empID := c.Query("emp_id")
	if empID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emp_id is required"})
		return
	}
	now := time.Now()
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	start := time.Date(year, 1, 1, 0, 0, 0, 0, now.Location())
	records, err := h.repo.ListRecordsInRange(c.Request.Context(), empID, start, start.AddDate(1, 0, 0))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"yearly_attendance": records})
}

// GetTotalHours reports worked hours for a period.
func (h *Handler) GetTotalHours(c *gin.Context) {
	empID := c.Query("emp_id")
	if empID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "emp_id is required"})
		return
	}
	period, err := attendance.ParsePeriod(c.DefaultQuery("period", "daily"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.svc.ComputeHours(c.Request.Context(), empID, period, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListEmployees returns the employee roster.
func (h *Handler) ListEmployees(c *gin.Context) {
	employees, err := h.repo.ListEmployees(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if employees == nil {
		employees = []attendance.Employee{}
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// ExportAttendance streams attendance records as an xlsx workbook, filtered
// by emp_id and month/year when given.
func (h *Handler) ExportAttendance(c *gin.Context) {
	ctx := c.Request.Context()
	empID := c.Query("emp_id")

	var records []attendance.Record
	var err error
	switch {
	case empID != "" && c.Query("month") != "":
		now := time.Now()
		month, merr := intQuery(c, "month", int(now.Month()))
		if merr != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		year, yerr := intQuery(c, "year", now.Year())
		if yerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, now.Location())
		records, err = h.repo.ListRecordsInRange(ctx, empID, start, start.AddDate(0, 1, 0))
	case empID != "":
		records, err = h.repo.ListRecordsInRange(ctx, empID, time.Time{}, time.Now().AddDate(0, 0, 1))
	default:
		records, err = h.repo.ListRecords(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	wb, err := report.AttendanceWorkbook(records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer wb.Close()

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(empID)+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := wb.Write(c.Writer); err != nil {
		log.Printf("export write failed: %v", err)
	}
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
