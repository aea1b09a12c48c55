package dto

type TranscribeRequest struct {
	AudioBase64            string `json:"audio_base64"`
	TimeoutSeconds         int    `json:"timeout_seconds"`
	PhraseTimeLimitSeconds int    `json:"phrase_time_limit_seconds"`
}

type TranscribeResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type SynthesizeUpstreamRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}
