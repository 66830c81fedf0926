package echoapi

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tupine/lifegear/core"
)

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	// DateQuery binds the ?date=YYYY-MM-DD query parameter.
	DateQuery struct {
		Date string `query:"date" json:"date" validate:"required,ymd"`
	}
)

func (dq *DateQuery) Validate(validate *validator.Validate) error {
	dq.Date = core.CleanString(dq.Date)
	return validate.Struct(dq)
}

// Ymd splits a validated date into its numeric parts.
func (dq *DateQuery) Ymd() (year, month, day int) {
	parts := strings.SplitN(dq.Date, "-", 3)
	year, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	day, _ = strconv.Atoi(parts[2])
	return
}
