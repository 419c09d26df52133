package event

// Type names a domain event raised by the booking workflow, the teacher
// directory, or the reminder scan. Each type maps 1:1 to a mail template.
type Type string

const (
	TypeTeacherRegistered Type = "teacher_registered"
	TypeTeacherApproved   Type = "teacher_approved"
	TypeTeacherRejected   Type = "teacher_rejected"
	TypeBookingCreated    Type = "booking_created"
	TypeBookingApproved   Type = "booking_approved"
	TypeBookingRejected   Type = "booking_rejected"
	TypeBookingReminder   Type = "booking_reminder"
)

// Event is the queue message consumed by the notification worker. The
// payload is flat and fully denormalized: the worker must be able to send
// the email without any further lookups.
type Event struct {
	Type    Type              `json:"type"`
	Payload map[string]string `json:"payload"`
}

// Payload keys shared across event types.
const (
	KeyRecipientEmail = "recipient_email"
	KeyRecipientName  = "recipient_name"
	KeyTeacherName    = "teacher_name"
	KeyTeacherEmail   = "teacher_email"
	KeyStudentName    = "student_name"
	KeyCourseName     = "course_name"
	KeyBookingDate    = "booking_date"
	KeyBookingTime    = "booking_time"
	KeyDescription    = "description"
)

// NewTeacherRegistered notifies the admin that a teacher signed up and is
// awaiting approval.
func NewTeacherRegistered(adminEmail, teacherName, teacherEmail string) Event {
	return Event{
		Type: TypeTeacherRegistered,
		Payload: map[string]string{
			KeyRecipientEmail: adminEmail,
			KeyRecipientName:  "Administrator",
			KeyTeacherName:    teacherName,
			KeyTeacherEmail:   teacherEmail,
		},
	}
}

// NewTeacherApproved notifies a teacher that their account is now active.
func NewTeacherApproved(teacherEmail, teacherName string) Event {
	return Event{
		Type: TypeTeacherApproved,
		Payload: map[string]string{
			KeyRecipientEmail: teacherEmail,
			KeyRecipientName:  teacherName,
		},
	}
}

// NewTeacherRejected notifies a teacher that their application was declined.
func NewTeacherRejected(teacherEmail, teacherName string) Event {
	return Event{
		Type: TypeTeacherRejected,
		Payload: map[string]string{
			KeyRecipientEmail: teacherEmail,
			KeyRecipientName:  teacherName,
		},
	}
}

// BookingContext carries the denormalized booking fields every
// booking-related mail template needs.
type BookingContext struct {
	StudentName  string
	StudentEmail string
	TeacherName  string
	TeacherEmail string
	CourseName   string
	BookingDate  string
	BookingTime  string
	Description  string
}

// NewBookingCreated notifies the teacher about a new pending booking.
func NewBookingCreated(bc BookingContext) Event {
	return Event{
		Type: TypeBookingCreated,
		Payload: map[string]string{
			KeyRecipientEmail: bc.TeacherEmail,
			KeyRecipientName:  bc.TeacherName,
			KeyStudentName:    bc.StudentName,
			KeyCourseName:     bc.CourseName,
			KeyBookingDate:    bc.BookingDate,
			KeyBookingTime:    bc.BookingTime,
			KeyDescription:    bc.Description,
		},
	}
}

// NewBookingDecided notifies the student about an approve/reject decision.
func NewBookingDecided(approved bool, bc BookingContext) Event {
	t := TypeBookingApproved
	if !approved {
		t = TypeBookingRejected
	}
	return Event{
		Type: t,
		Payload: map[string]string{
			KeyRecipientEmail: bc.StudentEmail,
			KeyRecipientName:  bc.StudentName,
			KeyTeacherName:    bc.TeacherName,
			KeyCourseName:     bc.CourseName,
			KeyBookingDate:    bc.BookingDate,
			KeyBookingTime:    bc.BookingTime,
		},
	}
}

// NewBookingReminder notifies the student shortly before an approved session.
func NewBookingReminder(bc BookingContext) Event {
	return Event{
		Type: TypeBookingReminder,
		Payload: map[string]string{
			KeyRecipientEmail: bc.StudentEmail,
			KeyRecipientName:  bc.StudentName,
			KeyTeacherName:    bc.TeacherName,
			KeyCourseName:     bc.CourseName,
			KeyBookingDate:    bc.BookingDate,
			KeyBookingTime:    bc.BookingTime,
		},
	}
}
