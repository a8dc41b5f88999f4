package emailsvc

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/enlift/backend/core"
	"github.com/enlift/backend/storage/filestore"
)

const welcomeSubject = "Welcome to EnLift-Institute!"

// fileService simulates sending welcome notices by writing each notice to
// a file. It always reports success: a failed write is logged and
// swallowed, so registration is never blocked on notice delivery. This is
// the deliberate demo-mode contract, not a bug.
type fileService struct {
	dir    string
	from   mail.Address
	logger core.Logger
}

var _ core.NoticeService = (*fileService)(nil)

func NewFileService(conf *core.Config, logger core.Logger) (core.NoticeService, error) {
	if err := os.MkdirAll(conf.Filestore.EmailsDir, 0o755); err != nil {
		return nil, err
	}
	return &fileService{
		dir:    conf.Filestore.EmailsDir,
		from:   conf.FromEmail(),
		logger: logger,
	}, nil
}

func (svc *fileService) SendWelcome(n core.WelcomeNotice) {
	name := filestore.SanitizeEmail(n.Email) + "_" + time.Now().UTC().Format("20060102_150405") + ".txt"
	content := fmt.Sprintf("To: %s\nFrom: %s\nSubject: %s\n\n%s", n.Email, svc.from.String(), welcomeSubject, WelcomeBody(n))

	if err := os.WriteFile(filepath.Join(svc.dir, name), []byte(content), 0o644); err != nil {
		svc.logger.Error(fmt.Sprintf("writing welcome notice: %v", err), err)
	}
}

// WelcomeBody composes the plain-text welcome notice.
func WelcomeBody(n core.WelcomeNotice) string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Dear %s,\n\n", n.Name)
	fmt.Fprint(b, "Welcome to EnLift-Institute!\n\n")
	fmt.Fprintf(b, "Thank you for registering for our %s course.\n\n", n.Course)
	fmt.Fprint(b, "Your registration has been received and is currently being processed.\n\n")
	fmt.Fprint(b, "Here's what happens next:\n")
	fmt.Fprint(b, "1. Our team will contact you within 24 hours\n")
	fmt.Fprint(b, "2. You'll receive course access details\n")
	fmt.Fprint(b, "3. Schedule your orientation session\n\n")
	fmt.Fprint(b, "If you have any questions, please contact us at:\n")
	fmt.Fprint(b, "admissions@enlift-institute.com\n")
	fmt.Fprint(b, "+91 9876543210\n\n")
	fmt.Fprint(b, "Best regards,\nEnLift-Institute Team\n")
	return b.String()
}
