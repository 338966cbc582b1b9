package notify

import (
	"fmt"
	"strings"
	"sync"
)

// Template defines a reusable notification message.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// Built-in template ids.
const (
	TemplateCreated  = "appointment-created"
	TemplateApproved = "appointment-approved"
	TemplateRejected = "appointment-rejected"
)

// TemplateEngine manages notification templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      TemplateCreated,
			Subject: "New Appointment Request: {{patient_name}} ({{date}})",
			Body: "Dear {{provider_name}},\n\n" +
				"A patient has booked an appointment and requires your review.\n\n" +
				"Patient: {{patient_name}}\n" +
				"Date & Time: {{date}} at {{time}}\n\n" +
				"Please log in to the clinic system to check the details and update the status.\n\n" +
				"Sincerely,\nClinic Appointment System",
		},
		{
			ID:      TemplateApproved,
			Subject: "Appointment Approved: {{date}}",
			Body: "Hello {{patient_name}}, your appointment on {{date}} at {{time}} with {{provider_name}} has been APPROVED. " +
				"Please ensure you come on time and bring your ID and necessary documents. Thank you.",
		},
		{
			ID:      TemplateRejected,
			Subject: "Appointment Could Not Be Confirmed: {{date}}",
			Body: "Hello {{patient_name}}, your appointment with {{provider_name}} on {{date}} has been REJECTED.{{reason}} " +
				"Please re-book or call the clinic for assistance.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by id and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are
// left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}
