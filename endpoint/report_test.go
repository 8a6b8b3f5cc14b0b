package endpoint_test

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldops/opsreport/model"
)

func TestSubmitAndListScoping(t *testing.T) {
	r, _ := newTestServer(t)
	registerOperator(t, r, "admin@x.mil", "pw1", "First Admin")
	registerOperator(t, r, "a@x.mil", "pw", "Alpha")
	registerOperator(t, r, "b@x.mil", "pw", "Bravo")

	adminToken := loginOperator(t, r, "admin@x.mil", "pw1")
	aToken := loginOperator(t, r, "a@x.mil", "pw")
	bToken := loginOperator(t, r, "b@x.mil", "pw")

	for _, tc := range []struct{ token, desc string }{
		{aToken, "alpha report"},
		{bToken, "bravo report"},
	} {
		w := doRequest(r, "POST", "/api/reports", map[string]interface{}{
			"level": "2", "operation": "patrol", "location": "sector 7", "description": tc.desc,
		}, tc.token)
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	// Admin sees both, newest first.
	w := doRequest(r, "GET", "/api/reports", nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	var reports []model.Report
	assert.NoError(t, json.Unmarshal(decodeResp(t, w).Data, &reports))
	assert.Len(t, reports, 2)
	assert.Equal(t, "bravo report", reports[0].Description)

	// A standard operator never observes another operator's report.
	w = doRequest(r, "GET", "/api/reports", nil, aToken)
	assert.NoError(t, json.Unmarshal(decodeResp(t, w).Data, &reports))
	assert.Len(t, reports, 1)
	assert.Equal(t, "a@x.mil", reports[0].Submitter.Email)
}

func TestSubmitValidation(t *testing.T) {
	r, st := newTestServer(t)
	registerOperator(t, r, "op@x.mil", "pw", "Operator")
	token := loginOperator(t, r, "op@x.mil", "pw")

	// Missing description.
	w := doRequest(r, "POST", "/api/reports", map[string]interface{}{
		"level": "2", "operation": "patrol", "location": "sector 7",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeResp(t, w).Error, "description")

	// Latitude without longitude.
	w = doRequest(r, "POST", "/api/reports", map[string]interface{}{
		"level": "2", "operation": "patrol", "location": "sector 7",
		"description": "coords", "latitude": 40.5,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, st.Reports.Count())
}

func TestSubmitWithExtrasAndCoordinates(t *testing.T) {
	r, _ := newTestServer(t)
	registerOperator(t, r, "op@x.mil", "pw", "Operator")
	token := loginOperator(t, r, "op@x.mil", "pw")

	w := doRequest(r, "POST", "/api/reports", map[string]interface{}{
		"level": "3", "operation": "recon", "location": "grid 12", "description": "vehicle column",
		"latitude": 40.5, "longitude": -3.7,
		"extras": map[string]string{"equipment": "optics", "transport": "truck"},
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	var rep model.Report
	assert.NoError(t, json.Unmarshal(decodeResp(t, w).Data, &rep))
	assert.Equal(t, "op@x.mil", rep.Submitter.Email)
	assert.Equal(t, "optics", rep.Extras["equipment"])
	assert.Equal(t, 40.5, *rep.Latitude)
	assert.False(t, rep.Timestamp.IsZero())
}

func TestAdminAlerts(t *testing.T) {
	r, _ := newTestServer(t)
	registerOperator(t, r, "admin@x.mil", "pw1", "First Admin")
	registerOperator(t, r, "user@x.mil", "pw2", "Operator")
	adminToken := loginOperator(t, r, "admin@x.mil", "pw1")
	userToken := loginOperator(t, r, "user@x.mil", "pw2")

	w := doRequest(r, "POST", "/api/reports", map[string]interface{}{
		"level": "1", "operation": "watch", "location": "post 3", "description": "quiet",
	}, userToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, "GET", "/api/admin/alerts", nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	var reports []model.Report
	assert.NoError(t, json.Unmarshal(decodeResp(t, w).Data, &reports))
	assert.Len(t, reports, 1)
}

func TestExportReportsCSV(t *testing.T) {
	r, _ := newTestServer(t)
	registerOperator(t, r, "admin@x.mil", "pw1", "First Admin")
	registerOperator(t, r, "user@x.mil", "pw2", "Operator")
	adminToken := loginOperator(t, r, "admin@x.mil", "pw1")
	userToken := loginOperator(t, r, "user@x.mil", "pw2")

	w := doRequest(r, "POST", "/api/reports", map[string]interface{}{
		"level": "2", "operation": "patrol", "location": "sector 7", "description": "own report",
	}, userToken)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(r, "POST", "/api/reports", map[string]interface{}{
		"level": "1", "operation": "watch", "location": "post 3", "description": "admin report",
	}, adminToken)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Admin export carries both rows plus the header.
	w = doRequest(r, "GET", "/api/reports/export", nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reports.csv")

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, "timestamp", rows[0][0])

	// A standard operator's export is scoped to their own rows.
	w = doRequest(r, "GET", "/api/reports/export", nil, userToken)
	rows, err = csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "user@x.mil", rows[1][5])
}

func TestListReportsBadDateRange(t *testing.T) {
	r, _ := newTestServer(t)
	registerOperator(t, r, "op@x.mil", "pw", "Operator")
	token := loginOperator(t, r, "op@x.mil", "pw")

	w := doRequest(r, "GET", "/api/reports?from=not-a-date", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, "GET", "/api/reports?from=2026-03-02T00:00:00Z&to=2026-03-01T00:00:00Z", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
