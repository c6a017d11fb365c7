package deepgram

type deepgramVoice string

const (
	VoiceAuraAsteria deepgramVoice = "aura-2-asteria-en"
	VoiceAuraThalia  deepgramVoice = "aura-2-thalia-en"
	VoiceAuraOrion   deepgramVoice = "aura-2-orion-en"
	VoiceAuraArcas   deepgramVoice = "aura-2-arcas-en"
	VoiceAuraLuna    deepgramVoice = "aura-2-luna-en"

	defaultVoice = VoiceAuraAsteria
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{
		VoiceAuraAsteria,
		VoiceAuraThalia,
		VoiceAuraOrion,
		VoiceAuraArcas,
		VoiceAuraLuna,
	}
}
