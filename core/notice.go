package core

// WelcomeNotice carries the data needed to compose a welcome notice for a
// newly registered student.
type WelcomeNotice struct {
	Email  string
	Name   string
	Course string
}

// NoticeService is any service that can deliver welcome notices.
//
// Implementations must report success to the caller even when delivery
// fails; registration is never blocked on notice delivery. Failures are
// logged on the implementation's side instead.
type NoticeService interface {
	SendWelcome(notice WelcomeNotice)
}
