package dto

import (
	"net/http"
	"strconv"

	"homeserve/shared/constant"
)

type SlotsRequest struct {
	ServiceID  int64  `json:"service_id"  validate:"omitempty,gt=0"`
	ProviderID int64  `json:"provider_id" validate:"omitempty,gt=0"`
	Date       string `json:"date"        validate:"required,date"`
}

// FromRequest reads the query string. Unparsable ids are left at -1 so validation rejects them.
func (r *SlotsRequest) FromRequest(req *http.Request) {
	query := req.URL.Query()

	r.ServiceID = parseID(query.Get(constant.RequestParamServiceID))
	r.ProviderID = parseID(query.Get(constant.RequestParamProviderID))
	r.Date = query.Get(constant.RequestParamDate)
}

func parseID(value string) int64 {
	if value == "" {
		return 0
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}

	return id
}

type SlotsResponse struct {
	Slots []string `json:"slots"`
}
