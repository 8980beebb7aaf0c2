package domain

// TranslateRequest es el payload de POST /api/translate.
type TranslateRequest struct {
	VideoData      string `json:"video_data,omitempty"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// TranslateResponse es la respuesta simulada del servicio de traducción.
type TranslateResponse struct {
	Text           string  `json:"text"`
	AudioURL       string  `json:"audio_url,omitempty"`
	Confidence     float64 `json:"confidence"`
	SourceLanguage string  `json:"source_language"`
	TargetLanguage string  `json:"target_language"`
}
