package generation

import "github.com/draftsmith/draftsmith-api/internal/domain"

// ToneProfile describes how a tone shapes the generated writing. The
// profiles are fed into the prompt; they are behavior, not configuration.
type ToneProfile struct {
	Personality    string
	TargetAudience string
	Voice          []string
}

// toneProfiles maps each known tone to its writing profile.
var toneProfiles = map[domain.Tone]ToneProfile{
	domain.ToneProfessional: {
		Personality:    "Professional, informative, and authoritative tone suitable for business and formal content.",
		TargetAudience: "business professionals",
		Voice: []string{
			"Formal and structured",
			"Industry-standard terminology",
			"Objective and factual",
			"Clear and concise",
		},
	},
	domain.ToneCasual: {
		Personality:    "Friendly, conversational, and approachable tone for general audiences.",
		TargetAudience: "general readers",
		Voice: []string{
			"Relaxed and friendly",
			"Easy to understand",
			"Engaging and relatable",
			"Uses everyday language",
		},
	},
	domain.ToneAcademic: {
		Personality:    "Scholarly and rigorous tone grounded in evidence and careful qualification.",
		TargetAudience: "researchers and students",
		Voice: []string{
			"Precise terminology",
			"Cites reasoning for claims",
			"Measured and objective",
		},
	},
	domain.ToneTechnical: {
		Personality:    "Precise, detail-oriented tone for practitioners who want specifics over narrative.",
		TargetAudience: "engineers and technical practitioners",
		Voice: []string{
			"Concrete and specific",
			"Prefers examples to abstractions",
			"No marketing language",
		},
	},
	domain.ToneCreative: {
		Personality:    "Imaginative, vivid tone that favors fresh angles and strong imagery.",
		TargetAudience: "readers who enjoy distinctive writing",
		Voice: []string{
			"Vivid imagery",
			"Varied sentence rhythm",
			"Unexpected but apt comparisons",
		},
	},
	domain.TonePlayful: {
		Personality:    "Light, energetic tone with quick humor that stays on topic.",
		TargetAudience: "casual readers",
		Voice: []string{
			"Conversational asides",
			"Quick and clever humor when appropriate",
			"Addresses the reader directly",
		},
	},
}

// ProfileFor returns the tone profile for the given tone, falling back to
// the professional profile for unknown tones.
func ProfileFor(tone domain.Tone) ToneProfile {
	if profile, ok := toneProfiles[tone]; ok {
		return profile
	}
	return toneProfiles[domain.ToneProfessional]
}
