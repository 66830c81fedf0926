package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/core"
)

type feedbackApi struct {
	conf     *core.Config
	mailSvc  core.EmailService
	validate *validator.Validate
}

func registerFeedbackAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := feedbackApi{
		conf:     deps.Conf,
		mailSvc:  deps.MailSvc,
		validate: deps.Validate,
	}

	g.POST("/feedback", api.create, authed...)
}

// create forwards a student's help-page message to the support inbox.
func (api *feedbackApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data FeedbackRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FeedbackRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	msg := &core.EmailMessage{
		To:      []mail.Address{api.conf.SupportEmail},
		Subject: "Feedback: " + data.Subject,
		Body:    "From: " + claims.Username + "\r\n\r\n" + data.Message,
	}
	if data.ReplyTo != "" {
		msg.ReplyTo = &mail.Address{Name: claims.Username, Address: data.ReplyTo}
	}
	api.mailSvc.SendMessages(msg)

	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Thanks for the feedback! We will get back to you shortly."})
}

type FeedbackRequest struct {
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
	ReplyTo string `json:"reply_to" validate:"omitempty,email"`
}

func (fr *FeedbackRequest) Validate(validate *validator.Validate) error {
	fr.Subject = core.CleanString(fr.Subject)
	fr.Message = core.CleanString(fr.Message)
	fr.ReplyTo = core.CleanString(fr.ReplyTo, true /* lower */)
	return validate.Struct(fr)
}
