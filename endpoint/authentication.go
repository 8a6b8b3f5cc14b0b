package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/config"
	"github.com/fieldops/opsreport/middleware"
	"github.com/fieldops/opsreport/model"
	"github.com/fieldops/opsreport/store"
	"github.com/fieldops/opsreport/util"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"operator@unit.mil"`
	Password string `json:"password" binding:"required" example:"password123"`
	Name     string `json:"name" binding:"required" example:"J. Ramirez"`
	Rank     string `json:"rank" example:"W2"`
	Unit     string `json:"unit" example:"MB"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"operator@unit.mil"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type LoginResponse struct {
	Token string         `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  model.UserView `json:"user"`
}

// Register godoc
// @Summary      Register an operator
// @Description  Create a new operator identity; the first registrant may become administrator
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration details"
// @Success      201 {object} util.APIResponse{data=model.UserView} "Registered"
// @Failure      400 {object} util.APIResponse "Missing required field"
// @Failure      409 {object} util.APIResponse "Email already registered"
// @Router       /api/register [post]
func Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	id, err := st.Credentials.Register(req.Email, req.Password, util.NormalizeName(req.Name), req.Rank, req.Unit)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateIdentity) {
			util.CallUserConflict(c, util.APIErrorParams{Msg: "Email already registered", Err: err})
			return
		}
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid registration", Err: err})
		return
	}

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventRegisterSuccess,
		Email:     id.Email,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   "Operator registered",
	})

	util.CallSuccessCreated(c, util.APISuccessParams{
		Msg:  "Registered",
		Data: id.View(),
	})
}

// Login godoc
// @Summary      Operator login
// @Description  Authenticate with email and password; issues a session token and appends an access audit row
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} util.APIResponse{data=LoginResponse} "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Invalid credentials or blocked"
// @Router       /api/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	email := store.NormalizeEmail(req.Email)
	ip := c.ClientIP()
	agent := c.Request.UserAgent()

	// Best-effort display name for the audit row; empty for unknown emails.
	var name string
	if id, err := st.Credentials.Lookup(email); err == nil {
		name = id.Name
	}

	if st.Access.IsBlocked(email) {
		st.Access.Append(model.AccessEvent{
			Timestamp: time.Now(),
			Email:     email,
			Name:      name,
			SourceIP:  ip,
			Outcome:   model.AccessBlocked,
		})
		util.LogLoginBlocked(email, ip, agent)
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Access is blocked", Err: store.ErrBlocked})
		return
	}

	if !st.Credentials.VerifySecret(email, req.Password) {
		st.Access.Append(model.AccessEvent{
			Timestamp: time.Now(),
			Email:     email,
			Name:      name,
			SourceIP:  ip,
			Outcome:   model.AccessDenied,
		})
		util.LogLoginFailure(email, ip, agent, "credential mismatch")
		// Unknown email and wrong password are reported identically so the
		// endpoint cannot be used to enumerate accounts.
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid email or password", Err: store.ErrInvalidCredential})
		return
	}

	id, err := st.Credentials.Lookup(email)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to load identity", Err: err})
		return
	}

	cfg := config.LoadConfig()
	token, err := util.IssueSessionToken(id, time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		util.LogLoginFailure(email, ip, agent, "token generation failed")
		util.CallServerError(c, util.APIErrorParams{Msg: "Could not generate token", Err: err})
		return
	}

	st.Access.Append(model.AccessEvent{
		Timestamp: time.Now(),
		Email:     id.Email,
		Name:      id.Name,
		SourceIP:  ip,
		Outcome:   model.AccessOK,
	})
	util.LogLoginSuccess(id.Email, ip, agent)

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Login successful",
		Data: LoginResponse{Token: token, User: id.View()},
	})
}

// ValidateToken godoc
// @Summary      Validate session token
// @Description  Confirms the presented session is valid, unexpired and not blocked
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=model.UserView} "Valid session"
// @Failure      401 {object} util.APIResponse "Invalid, expired or blocked session"
// @Router       /api/token/validate [get]
func ValidateToken(c *gin.Context) {
	caller, ok := getCallerOrRespond(c)
	if !ok {
		return
	}

	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	// The rank and unit are not carried in the session claims, so resolve
	// the full view from the credential store.
	if id, err := st.Credentials.Lookup(caller.Email); err == nil {
		util.CallSuccessOK(c, util.APISuccessParams{Msg: "Valid session", Data: id.View()})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg: "Valid session",
		Data: model.UserView{
			Email:   caller.Email,
			Name:    caller.Name,
			IsAdmin: caller.IsAdmin,
		},
	})
}

// helper functions shared by the endpoint package

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getStoreOrRespond(c *gin.Context) (*store.Store, bool) {
	st := middleware.GetStore(c)
	if st == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Store not available", Err: fmt.Errorf("store is nil")})
		return nil, false
	}
	return st, true
}

func getCallerOrRespond(c *gin.Context) (middleware.Caller, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Credential not provided",
			Err: store.ErrMissingCredential,
		})
		return middleware.Caller{}, false
	}
	return caller, true
}
