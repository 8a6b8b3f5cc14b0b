package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/util"
)

type AccessActionRequest struct {
	Email string `json:"email" binding:"required,email" example:"operator@unit.mil"`
}

// ListAccessEvents godoc
// @Summary      List access audit events
// @Description  Administrators see every row (newest first, capped); standard operators only rows for their own email
// @Tags         Access
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.AccessEvent} "Access events retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/admin/access [get]
func ListAccessEvents(c *gin.Context) {
	caller, ok := getCallerOrRespond(c)
	if !ok {
		return
	}
	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	events := st.Access.List(caller.IsAdmin, caller.Email)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Access events retrieved", Data: events})
}

// BlockAccess godoc
// @Summary      Block an operator
// @Description  Marks every audit row for the email BLOCKED and rejects future logins and in-flight sessions immediately
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AccessActionRequest true "Email to block"
// @Success      200 {object} util.APIResponse{data=object} "Rows annotated"
// @Failure      400 {object} util.APIResponse "Email required"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Administrator role required"
// @Router       /api/admin/access/block [post]
func BlockAccess(c *gin.Context) {
	var req AccessActionRequest
	if !bindJSONOrRespond(c, &req, "Email required") {
		return
	}

	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	updated := st.Access.Block(req.Email)
	// A blocked operator should disappear from the live map as well.
	st.Presence.Remove(req.Email)

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventAccessBlocked,
		Email:     req.Email,
		IP:        c.ClientIP(),
		Message:   "Operator blocked by administrator",
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Operator blocked",
		Data: gin.H{"updated": updated},
	})
}

// UnblockAccess godoc
// @Summary      Unblock an operator
// @Description  Removes the email from the block set. Historical BLOCKED annotations are kept; purging rows is a separate operation.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AccessActionRequest true "Email to unblock"
// @Success      200 {object} util.APIResponse{data=object} "Block lifted"
// @Failure      400 {object} util.APIResponse "Email required"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Administrator role required"
// @Router       /api/admin/access/unblock [post]
func UnblockAccess(c *gin.Context) {
	var req AccessActionRequest
	if !bindJSONOrRespond(c, &req, "Email required") {
		return
	}

	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	was := st.Access.Unblock(req.Email)

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventAccessUnblocked,
		Email:     req.Email,
		IP:        c.ClientIP(),
		Message:   "Operator unblocked by administrator",
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Block lifted",
		Data: gin.H{"was_blocked": was},
	})
}

// PurgeAccessEvents godoc
// @Summary      Purge an operator's access history
// @Description  Removes every audit row for the email. Purging does NOT lift a block; use unblock for that.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AccessActionRequest true "Email whose rows to purge"
// @Success      200 {object} util.APIResponse{data=object} "Rows removed"
// @Failure      400 {object} util.APIResponse "Email required"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      403 {object} util.APIResponse "Administrator role required"
// @Router       /api/admin/access [delete]
func PurgeAccessEvents(c *gin.Context) {
	var req AccessActionRequest
	if !bindJSONOrRespond(c, &req, "Email required") {
		return
	}

	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	removed := st.Access.Purge(req.Email)

	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventAccessPurged,
		Email:     req.Email,
		IP:        c.ClientIP(),
		Message:   "Access history purged by administrator",
	})

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Access history purged",
		Data: gin.H{"removed": removed},
	})
}
