package mailer

import (
	"bytes"
	"fmt"
	texttmpl "text/template"
)

// mailTemplate pairs a subject line with a text body template. Bodies are
// parsed once at init; Data keys come from the event payload contract.
type mailTemplate struct {
	subject string
	body    *texttmpl.Template
}

var templates = map[string]mailTemplate{
	"teacher_registered": {
		subject: "New Teacher Registration Pending Approval",
		body: mustParse("teacher_registered", `Hi {{.recipient_name}},

A new teacher has registered and is awaiting approval:

  Name:  {{.teacher_name}}
  Email: {{.teacher_email}}

Please review the application from the admin dashboard.
`),
	},
	"teacher_approved": {
		subject: "Your Teacher Account Has Been Approved",
		body: mustParse("teacher_approved", `Hi {{.recipient_name}},

Your teacher account has been approved. You can now set up your weekly
routine and start receiving bookings.
`),
	},
	"teacher_rejected": {
		subject: "Update on Your Teacher Application",
		body: mustParse("teacher_rejected", `Hi {{.recipient_name}},

Unfortunately your teacher application was not approved at this time.
Please contact the administrator for details.
`),
	},
	"booking_created": {
		subject: "New Booking Request",
		body: mustParse("booking_created", `Hi {{.recipient_name}},

You have a new booking request:

  Student: {{.student_name}}
  Course:  {{.course_name}}
  Date:    {{.booking_date}}
  Time:    {{.booking_time}}

Message from the student:
{{.description}}

Please approve or reject the request from your dashboard.
`),
	},
	"booking_approved": {
		subject: "Your Booking Has Been Approved",
		body: mustParse("booking_approved", `Hi {{.recipient_name}},

Your booking has been approved:

  Teacher: {{.teacher_name}}
  Course:  {{.course_name}}
  Date:    {{.booking_date}}
  Time:    {{.booking_time}}

See you there!
`),
	},
	"booking_rejected": {
		subject: "Your Booking Has Been Rejected",
		body: mustParse("booking_rejected", `Hi {{.recipient_name}},

Unfortunately your booking was rejected:

  Teacher: {{.teacher_name}}
  Course:  {{.course_name}}
  Date:    {{.booking_date}}
  Time:    {{.booking_time}}

You can request a different slot from the booking page.
`),
	},
	"booking_reminder": {
		subject: "Reminder: Your Session Starts Soon",
		body: mustParse("booking_reminder", `Hi {{.recipient_name}},

This is a friendly reminder that your session is starting soon:

  Teacher: {{.teacher_name}}
  Course:  {{.course_name}}
  Date:    {{.booking_date}}
  Time:    {{.booking_time}}

Please make sure you are ready and available.
`),
	},
}

func mustParse(name, body string) *texttmpl.Template {
	return texttmpl.Must(texttmpl.New(name).Option("missingkey=zero").Parse(body))
}

// Render resolves a message's template into a subject and text body.
func Render(msg Message) (subject, body string, err error) {
	tmpl, ok := templates[msg.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", msg.Template)
	}
	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, msg.Data); err != nil {
		return "", "", fmt.Errorf("render template %q: %w", msg.Template, err)
	}
	return tmpl.subject, buf.String(), nil
}
