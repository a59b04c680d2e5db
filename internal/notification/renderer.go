package notification

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/spec-kit/parcel-service/internal/domain"
)

//go:embed templates/*.tmpl templates/*.partial
var templateFS embed.FS

// Template names a renderable email.
type Template string

const (
	ParcelRegisteredRecipient Template = "parcel_registered_recipient"
	ParcelRegisteredSender    Template = "parcel_registered_sender"
	ParcelStatusRecipient     Template = "parcel_status_recipient"
	ParcelStatusSender        Template = "parcel_status_sender"
	SupportAdmin              Template = "support_admin"
	SupportUser               Template = "support_user"
	ContactAdmin              Template = "contact_admin"
)

const timeLayout = "Jan 02, 2006 15:04"

// Email is a rendered subject and body.
type Email struct {
	Subject string
	Body    string
}

// ParcelData feeds the parcel templates.
type ParcelData struct {
	Parcel         domain.Parcel
	OldStatus      domain.ParcelStatus
	SupportAddress string
}

// SupportData feeds the support templates.
type SupportData struct {
	Request        domain.SupportRequest
	SupportAddress string
}

// ContactData feeds the contact template.
type ContactData struct {
	Message domain.ContactMessage
}

// Renderer turns entity snapshots into plain-text emails. It has no side effects.
type Renderer struct {
	pages map[Template]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	partials, err := fs.Glob(templateFS, "templates/*.partial")
	if err != nil {
		return nil, err
	}
	pages, err := fs.Glob(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[Template]*template.Template, len(pages))}
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".tmpl")
		files := append([]string{page}, partials...)
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[Template(name)] = tmpl
	}
	return r, nil
}

// Render executes the subject and body blocks of the named template.
func (r *Renderer) Render(name Template, data any) (Email, error) {
	tmpl, ok := r.pages[name]
	if !ok {
		return Email{}, fmt.Errorf("unknown template %q", name)
	}

	var subject, body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&subject, "subject", data); err != nil {
		return Email{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tmpl.ExecuteTemplate(&body, "body", data); err != nil {
		return Email{}, fmt.Errorf("render %s body: %w", name, err)
	}
	return Email{
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	}, nil
}

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format(timeLayout)
	},
	"statusLabel": func(s domain.ParcelStatus) string {
		return s.Label()
	},
	"statusMessage": statusMessage,
	"titleCase": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	},
}

func statusMessage(s domain.ParcelStatus) string {
	switch s {
	case domain.ParcelStatusInTransit:
		return "Your parcel is now on its way! Expected delivery within 2-5 business days."
	case domain.ParcelStatusOutForDelivery:
		return "Great news! Your parcel is out for delivery and should arrive today."
	case domain.ParcelStatusDelivered:
		return "Your parcel has been delivered successfully!"
	case domain.ParcelStatusReturned:
		return "Unfortunately, the parcel has been returned."
	}
	return ""
}
