package domain

// Notifier sends transactional emails. It is best-effort by contract:
// callers dispatch sends off the request path and drop failures after
// logging them. A Notifier error must never fail or roll back a write.
type Notifier interface {
	SendWelcome(toEmail, name string) error
	SendApplicationSubmitted(toEmail, firstName, lastName, jobTitle string) error
	SendStatusUpdate(toEmail, firstName, lastName, status, jobTitle string) error
	SendPasswordReset(toEmail, name, resetToken string) error
}

// FileStore persists uploaded resumes and profile photos. Filenames are
// unique by construction, so saves never conflict.
type FileStore interface {
	SaveResume(ownerEmail, originalName string, data []byte) (string, error)
	ReadResume(filename string) ([]byte, error)
	SavePhoto(ownerEmail, originalName string, data []byte) (string, error)
	ReadPhoto(filename string) ([]byte, error)
}
