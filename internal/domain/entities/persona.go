package entities

// Persona is the per-market assistant identity used in prompt assembly
type Persona struct {
	Market         string   `json:"market"`
	Name           string   `json:"name"`
	LocalKnowledge string   `json:"local_knowledge"`
	ToneRules      []string `json:"tone_rules"`
}
