package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemplateEngine_Render(t *testing.T) {
	engine := NewTemplateEngine()

	subject, body, err := engine.Render(TemplateApproved, map[string]string{
		"patient_name":  "Kylle",
		"provider_name": "Dr. Santos",
		"date":          "2025-12-03",
		"time":          "09:00",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Appointment Approved: 2025-12-03", subject)
	assert.Contains(t, body, "Hello Kylle")
	assert.Contains(t, body, "09:00 with Dr. Santos")
	assert.Contains(t, body, "APPROVED")
}

func TestTemplateEngine_RenderUnknownTemplate(t *testing.T) {
	engine := NewTemplateEngine()

	_, _, err := engine.Render("no-such-template", nil)
	assert.Error(t, err)
}

func TestTemplateEngine_MissingKeysAreLeftAsIs(t *testing.T) {
	engine := NewTemplateEngine()

	subject, _, err := engine.Render(TemplateApproved, map[string]string{})

	assert.NoError(t, err)
	assert.Contains(t, subject, "{{date}}")
}

func TestTemplateEngine_RegisterTemplateOverrides(t *testing.T) {
	engine := NewTemplateEngine()
	engine.RegisterTemplate(Template{
		ID:      TemplateApproved,
		Subject: "Custom: {{date}}",
		Body:    "See you on {{date}}.",
	})

	subject, body, err := engine.Render(TemplateApproved, map[string]string{"date": "2025-12-03"})

	assert.NoError(t, err)
	assert.Equal(t, "Custom: 2025-12-03", subject)
	assert.Equal(t, "See you on 2025-12-03.", body)
}
