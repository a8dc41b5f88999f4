package emailsvc

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/enlift/backend/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// sendgridService delivers welcome notices through Sendgrid. It keeps the
// NoticeService contract: delivery failures are logged, never surfaced to
// the registration pipeline.
type sendgridService struct {
	key    string
	from   *sgmail.Email
	logger core.Logger
}

var _ core.NoticeService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) core.NoticeService {
	from := conf.FromEmail()
	return &sendgridService{
		key:    conf.SendgridApiKey,
		from:   sgmail.NewEmail(from.Name, from.Address),
		logger: logger,
	}
}

func (svc *sendgridService) SendWelcome(n core.WelcomeNotice) {
	p := sgmail.NewPersonalization()
	p.Subject = welcomeSubject
	p.AddTos(sgmail.NewEmail(n.Name, n.Email))

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", WelcomeBody(n)))

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending welcome notice: %v", err), err)
	} else if res.StatusCode >= http.StatusBadRequest {
		svc.logger.Error(fmt.Sprintf("sending welcome notice - status: %d - Body: %s", res.StatusCode, res.Body))
	}
}
