package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/util"
)

type PositionRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	ColorCode string   `json:"color_code" example:"green"`
}

// UpdatePosition godoc
// @Summary      Report the caller's position
// @Description  Upserts the caller's live map position; at most one entry per operator
// @Tags         Presence
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PositionRequest true "Coordinates and status color"
// @Success      200 {object} util.APIResponse{data=model.AgentPosition} "Position recorded"
// @Failure      400 {object} util.APIResponse "Invalid coordinate"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/positions [post]
func UpdatePosition(c *gin.Context) {
	var req PositionRequest
	if !bindJSONOrRespond(c, &req, "Latitude and longitude are required") {
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

	pos, err := st.Presence.Upsert(caller.Email, caller.Name, *req.Latitude, *req.Longitude, req.ColorCode)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid coordinate", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Position recorded", Data: pos})
}

// ListPositions godoc
// @Summary      List live positions
// @Description  Returns every non-stale position; entries past the staleness horizon are evicted on read
// @Tags         Presence
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=[]model.AgentPosition} "Positions retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /api/positions [get]
func ListPositions(c *gin.Context) {
	st, ok := getStoreOrRespond(c)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Positions retrieved",
		Data: st.Presence.List(),
	})
}
