package templates

import (
	"time"
)

// Brand holds the sender-side fields shared by every email.
type Brand struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

// NewBaseEmailData fills common fields from the brand, then applies options.
func NewBaseEmailData(b Brand, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        typ,
		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, Welcome, name, email, opts...))
}

func NewLoginNotificationData(b Brand, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(b, LoginNotification, name, email, opts...))
}
