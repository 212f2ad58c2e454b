package services

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"peer-review-api/config"
	"peer-review-api/models"
)

// sendMail is swappable in tests.
var sendMail = config.SendMail

// NotificationEvent describes one in-app notification and its optional
// email delivery for a single recipient.
type NotificationEvent struct {
	UserID        uint
	Title         string
	Message       string
	Type          string // info|success|warning|error
	RelatedID     *uint
	Email         string // empty = no email attempt
	RecipientName string
}

// Notifier persists notification rows and dispatches best-effort emails.
// The row write happens on the request path; email delivery runs on its own
// goroutine so a slow relay never stalls the response. Either side failing
// is logged, never surfaced to the caller.
type Notifier struct {
	db *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// Notify emits one event.
func (n *Notifier) Notify(ev NotificationEvent) {
	n.NotifyAll([]NotificationEvent{ev})
}

// NotifyAll emits one notification row per recipient, then fans the emails
// out in the background. A failure for one recipient does not block the
// others.
func (n *Notifier) NotifyAll(events []NotificationEvent) {
	pending := make([]NotificationEvent, 0, len(events))

	for _, ev := range events {
		row := models.Notification{
			UserID:    ev.UserID,
			Title:     ev.Title,
			Message:   ev.Message,
			Type:      ev.Type,
			RelatedID: ev.RelatedID,
			IsRead:    false,
			CreateAt:  time.Now(),
		}
		if err := n.db.Create(&row).Error; err != nil {
			log.Printf("notification insert failed (user=%d title=%q): %v", ev.UserID, ev.Title, err)
			continue
		}
		if ev.Email != "" {
			pending = append(pending, ev)
		}
	}

	if len(pending) == 0 {
		return
	}

	go func() {
		for _, ev := range pending {
			html := buildFormalEmailHTML(ev.Title, ev.RecipientName, ev.Message)
			sendMailSafe([]string{ev.Email}, ev.Title, html)
		}
	}()
}

func sendMailSafe(to []string, subject, html string) {
	if err := sendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func buildFormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "there"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
