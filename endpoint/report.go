package endpoint

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/model"
	"github.com/fieldops/opsreport/store"
	"github.com/fieldops/opsreport/util"
)

type ReportRequest struct {
	Level       string            `json:"level" example:"2"`
	Operation   string            `json:"operation" example:"patrol"`
	Location    string            `json:"location" example:"sector 7"`
	Description string            `json:"description" example:"movement observed near the ridge"`
	Extras      map[string]string `json:"extras"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
}

// CreateReport godoc
// @Summary      Submit a field report
// @Description  Validates required fields and appends an immutable report bound to the caller
// @Tags         Report
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ReportRequest true "Report fields"
// @Success      201 {object} util.APIResponse{data=model.Report} "Report created"
// @Failure      400 {object} util.APIResponse "Missing field or invalid coordinate"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/reports [post]
func CreateReport(c *gin.Context) {
	var req ReportRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	caller, ok := getCallerOrRespond(c)
	if !ok {
		return
	}
	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	rep, err := st.Reports.Submit(
		model.Submitter{Email: caller.Email, Name: caller.Name},
		store.ReportDraft{
			Level:       req.Level,
			Operation:   req.Operation,
			Location:    req.Location,
			Description: req.Description,
			Extras:      req.Extras,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		},
	)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid report", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Report created", Data: rep})
}

// ListReports godoc
// @Summary      List reports
// @Description  Administrators see all reports; standard operators only their own. Newest first.
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Limit number of results"
// @Param        from query string false "RFC 3339 lower bound on timestamp"
// @Param        to query string false "RFC 3339 upper bound on timestamp"
// @Success      200 {object} util.APIResponse{data=[]model.Report} "Reports retrieved"
// @Failure      400 {object} util.APIResponse "Bad date range"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/reports [get]
func ListReports(c *gin.Context) {
	caller, ok := getCallerOrRespond(c)
	if !ok {
		return
	}
	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	q, ok := parseReportQuery(c)
	if !ok {
		return
	}

	reports := st.Reports.List(caller.IsAdmin, caller.Email, q)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reports retrieved", Data: reports})
}

// ListAlerts godoc
// @Summary      Admin view of all reports
// @Description  Returns every report, newest first, capped for response size
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.Report} "Alerts retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Administrator role required"
// @Router       /api/admin/alerts [get]
func ListAlerts(c *gin.Context) {
	caller, ok := getCallerOrRespond(c)
	if !ok {
		return
	}
	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	reports := st.Reports.List(caller.IsAdmin, caller.Email, store.ReportQuery{})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Alerts retrieved", Data: reports})
}

// ExportReports godoc
// @Summary      Export reports as CSV
// @Description  Streams the caller-visible reports for a date range as a CSV download. Visibility scoping stays in the ledger.
// @Tags         Report
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from query string false "RFC 3339 lower bound on timestamp"
// @Param        to query string false "RFC 3339 upper bound on timestamp"
// @Success      200 {string} string "CSV document"
// @Failure      400 {object} util.APIResponse "Bad date range"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/reports/export [get]
func ExportReports(c *gin.Context) {
	caller, ok := getCallerOrRespond(c)
	if !ok {
		return
	}
	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	q, ok := parseReportQuery(c)
	if !ok {
		return
	}

	reports := st.Reports.List(caller.IsAdmin, caller.Email, q)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="reports.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"timestamp", "level", "operation", "location", "description", "email", "name", "latitude", "longitude"})
	for _, r := range reports {
		lat, lng := "", ""
		if r.Latitude != nil && r.Longitude != nil {
			lat = strconv.FormatFloat(*r.Latitude, 'f', -1, 64)
			lng = strconv.FormatFloat(*r.Longitude, 'f', -1, 64)
		}
		_ = w.Write([]string{
			r.Timestamp.Format(time.RFC3339),
			r.Level,
			r.Operation,
			r.Location,
			r.Description,
			r.Submitter.Email,
			r.Submitter.Name,
			lat,
			lng,
		})
	}
	w.Flush()
}

// parseReportQuery reads limit/from/to query parameters. Responds with a 400
// and returns false on a malformed date.
func parseReportQuery(c *gin.Context) (store.ReportQuery, bool) {
	var q store.ReportQuery

	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid 'from' date", Err: fmt.Errorf("parse from: %w", err)})
			return store.ReportQuery{}, false
		}
		q.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid 'to' date", Err: fmt.Errorf("parse to: %w", err)})
			return store.ReportQuery{}, false
		}
		q.To = t
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid date range", Err: errors.New("'to' precedes 'from'")})
		return store.ReportQuery{}, false
	}
	return q, true
}
