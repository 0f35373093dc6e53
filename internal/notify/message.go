package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"
)

const assignmentSubject = "New Task Assigned - Action Required"

var assignmentHTML = template.Must(template.New("assignment").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; padding: 30px; border-radius: 10px;">
    <h1 style="background: #4CAF50; color: #ffffff; padding: 20px; text-align: center; border-radius: 5px;">New Task Assignment</h1>
    <h2>Hello{{if .RecipientName}} {{.RecipientName}}{{end}}!</h2>
    <p>You have been assigned a new task that requires your attention.</p>
    <div style="background: #f9f9f9; padding: 15px; border-left: 4px solid #4CAF50;">
      <p><strong>Task Title:</strong> {{.TaskTitle}}</p>
      <p><strong>Assigned by:</strong> {{.AssignerName}}</p>
      <p><strong>Date:</strong> {{.Date}}</p>
    </div>
    <p><strong>Action Required:</strong> Please log in to your dashboard to view the complete task details, deadline, and priority level.</p>
    <p style="color: #666666; font-size: 12px;">This is an automated message from the Task Management System.</p>
  </div>
</body>
</html>
`))

type messageData struct {
	Assignment
	Date string
}

// buildMessage renders the RFC 5322 message for a, as multipart/alternative text and HTML
func buildMessage(from, messageID string, a Assignment, now time.Time) ([]byte, error) {
	data := messageData{Assignment: a, Date: now.Format("2006-01-02 15:04 MST")}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := []string{
		"From: " + mime.QEncoding.Encode("utf-8", "Task Manager System") + " <" + from + ">",
		"To: " + a.RecipientEmail,
		"Subject: " + mime.QEncoding.Encode("utf-8", assignmentSubject),
		"Date: " + now.Format(time.RFC1123Z),
		"Message-ID: <" + messageID + ">",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + mw.Boundary(),
	}

	var msg bytes.Buffer
	msg.WriteString(strings.Join(header, "\r\n"))
	msg.WriteString("\r\n\r\n")

	textPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(textPart, "New Task Assignment\r\n\r\nHello!\r\n\r\nYou have been assigned a new task:\r\n\r\nTask: %s\r\nAssigned by: %s\r\nDate: %s\r\n\r\nPlease check your dashboard for complete details.\r\n\r\nBest regards,\r\nTask Management System\r\n",
		a.TaskTitle, a.AssignerName, data.Date)

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	if err := assignmentHTML.Execute(htmlPart, data); err != nil {
		return nil, fmt.Errorf("failed to render notification: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	msg.Write(buf.Bytes())
	return msg.Bytes(), nil
}
