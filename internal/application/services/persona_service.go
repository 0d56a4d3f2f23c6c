package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/citypulse-concierge/internal/domain/entities"
)

// behavioralRules constrain every answer regardless of persona. The
// grounding rule is the load-bearing one: the model may only reference
// venues and offers present in the context block.
const behavioralRules = `You are a local concierge answering questions about venues, deals, and events.
Rules:
- Only mention venues, offers, and events that appear in the CONTEXT section below. Never invent places or deals.
- Keep answers short: 2-4 sentences unless the user asks for a list.
- When you include a website, write the bare URL with no markdown.
- If the question is too vague to answer from the context, ask one short clarifying question instead of guessing.
- If the context has no matching data, say so plainly and suggest the closest alternative from the context.`

var defaultPersona = entities.Persona{
	Market:         "default",
	Name:           "Sage",
	LocalKnowledge: "You know the local food and nightlife scene well and keep recommendations practical.",
	ToneRules:      []string{"friendly", "concise", "no slang overload"},
}

var marketPersonas = map[string]entities.Persona{
	"austin": {
		Market:         "austin",
		Name:           "Tex",
		LocalKnowledge: "You know Austin's food trucks, breakfast tacos, Rainey Street, South Congress, and East Side dives.",
		ToneRules:      []string{"laid-back", "warm", "occasionally playful"},
	},
	"nashville": {
		Market:         "nashville",
		Name:           "Melody",
		LocalKnowledge: "You know Nashville's honky-tonks, hot chicken spots, The Gulch, and East Nashville patios.",
		ToneRules:      []string{"upbeat", "welcoming", "to the point"},
	},
}

// PersonaService maps market slugs to assistant personas and assembles the
// completion system prompt.
type PersonaService struct {
	personas      map[string]entities.Persona
	defaultMarket string
}

// NewPersonaService creates a persona service with the built-in market set
func NewPersonaService(defaultMarket string) *PersonaService {
	return &PersonaService{
		personas:      marketPersonas,
		defaultMarket: defaultMarket,
	}
}

// Resolve returns the persona for a market, falling back through the default
// market to the generic persona.
func (s *PersonaService) Resolve(market string) entities.Persona {
	if p, ok := s.personas[market]; ok {
		return p
	}
	if p, ok := s.personas[s.defaultMarket]; ok {
		return p
	}
	return defaultPersona
}

// BuildSystemPrompt composes rules, persona, the resolved local time, and
// the context block into the completion system prompt.
func (s *PersonaService) BuildSystemPrompt(persona entities.Persona, now time.Time, contextBlock string) string {
	var b strings.Builder
	b.WriteString(behavioralRules)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Your name is %s. %s Tone: %s.\n", persona.Name, persona.LocalKnowledge, strings.Join(persona.ToneRules, ", ")))
	b.WriteString(fmt.Sprintf("The current local date and time is %s.\n", now.Format("Monday, January 2, 2006 at 3:04 PM")))
	b.WriteString("\nCONTEXT:\n")
	if contextBlock == "" {
		b.WriteString("(no local data retrieved)\n")
	} else {
		b.WriteString(contextBlock)
		b.WriteString("\n")
	}
	return b.String()
}
