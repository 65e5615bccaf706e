package mail

import (
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/dajohi/goemail"
)

// Mailer sends transactional mail to users. The SMTP client is considered
// disabled when credentials are missing from the environment; a disabled
// mailer accepts every send and does nothing, so local setups work without
// an SMTP server.
type Mailer interface {
	IsEnabled() bool
	SendPasswordReset(recipient, nickname, loginID, resetLink string) error
}

type smtpMailer struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
	disabled    bool
}

func NewSMTPMailer() (Mailer, error) {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	password := os.Getenv("SMTP_PASSWORD")
	mailAddress := os.Getenv("MAIL_FROM_ADDRESS")
	mailName := os.Getenv("MAIL_FROM_NAME")

	if host == "" || user == "" || password == "" {
		log.Println("SMTP credentials not set, mail is DISABLED")
		return &smtpMailer{disabled: true}, nil
	}

	smtpURL := url.URL{
		Scheme: "smtps",
		User:   url.UserPassword(user, password),
		Host:   host,
	}

	smtp, err := goemail.NewSMTP(smtpURL.String(), nil)
	if err != nil {
		return nil, err
	}

	return &smtpMailer{
		smtp:        smtp,
		mailName:    mailName,
		mailAddress: mailAddress,
	}, nil
}

func (m *smtpMailer) IsEnabled() bool {
	return !m.disabled
}

func (m *smtpMailer) SendPasswordReset(recipient, nickname, loginID, resetLink string) error {
	if m.disabled {
		log.Printf("Mail disabled, skipping password reset mail for %s", loginID)
		return nil
	}

	subject := "Password reset request"
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for the account %s.\n"+
			"Open the link below to choose a new password. The link expires in one hour.\n\n%s\n\n"+
			"If you did not request this, you can ignore this mail.\n",
		nickname, loginID, resetLink,
	)

	msg := goemail.NewMessage(m.mailAddress, subject, body)
	msg.SetName(m.mailName)
	msg.AddTo(recipient)

	return m.smtp.Send(msg)
}
