package provider

type ISpeechToTextProvider interface {
	Transcribe(audio []byte) (string, error)
}

type ITextToSpeechProvider interface {
	Synthesize(text string) ([]byte, error)
}
