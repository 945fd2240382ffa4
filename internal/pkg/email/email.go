package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/tutor_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendCommentRejected 通知作者评论被下架
func (s *Service) SendCommentRejected(to, excerpt, reason string) error {
	subject := "评论已被下架 - 在线学习平台"
	if reason == "" {
		reason = "违反社区规范"
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #dc2626;">评论已被下架</h2>
        <p>您好，</p>
        <p>您发布的以下评论经审核已被下架：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0; border-left: 4px solid #dc2626;">
            %s
        </div>
        <p>下架原因：%s</p>
        <p>如有疑问，请联系平台管理员。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, excerpt, reason)

	return s.sendHTML(to, subject, body)
}

// SendCommentRestored 通知作者评论已恢复
func (s *Service) SendCommentRestored(to, excerpt string) error {
	subject := "评论已恢复 - 在线学习平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">评论已恢复</h2>
        <p>您好，</p>
        <p>您发布的以下评论经复核已恢复展示：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0; border-left: 4px solid #16a34a;">
            %s
        </div>
        <p>感谢您的理解与支持。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, excerpt)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
