package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPersonaService_Resolve(t *testing.T) {
	svc := NewPersonaService("austin")

	assert.Equal(t, "Melody", svc.Resolve("nashville").Name)
	assert.Equal(t, "Tex", svc.Resolve("austin").Name)
	assert.Equal(t, "Tex", svc.Resolve("unknown-market").Name, "unknown market falls back to the default market")

	generic := NewPersonaService("nowhere")
	assert.Equal(t, "Sage", generic.Resolve("also-unknown").Name, "no match at all falls back to the generic persona")
}

func TestPersonaService_BuildSystemPrompt(t *testing.T) {
	svc := NewPersonaService("austin")
	persona := svc.Resolve("austin")
	loc, _ := time.LoadLocation("America/Chicago")
	now := time.Date(2026, time.August, 26, 19, 30, 0, 0, loc)

	t.Run("includes persona, date, and context", func(t *testing.T) {
		prompt := svc.BuildSystemPrompt(persona, now, "## Venues\n- [v-1] Odd Duck")

		assert.Contains(t, prompt, "Your name is Tex.")
		assert.Contains(t, prompt, "Wednesday, August 26, 2026 at 7:30 PM")
		assert.Contains(t, prompt, "Never invent places or deals")
		assert.Contains(t, prompt, "CONTEXT:\n## Venues\n- [v-1] Odd Duck")
	})

	t.Run("empty context is called out", func(t *testing.T) {
		prompt := svc.BuildSystemPrompt(persona, now, "")

		assert.Contains(t, prompt, "(no local data retrieved)")
	})
}
