package domain

// Emociones que el clasificador puede devolver.
const (
	EmotionHappy    = "happy"
	EmotionSad      = "sad"
	EmotionAngry    = "angry"
	EmotionFear     = "fear"
	EmotionSurprise = "surprise"
	EmotionDisgust  = "disgust"
	EmotionNeutral  = "neutral"
)

// Niveles de severidad de una deteccion de crisis.
const (
	SeverityNone     = "none"
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
)

// MoodResult es la clasificacion emocional de un texto.
type MoodResult struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// CrisisResult es la evaluacion de riesgo de crisis de un texto.
type CrisisResult struct {
	CrisisDetected bool    `json:"crisis_detected"`
	Severity       string  `json:"severity"`
	Confidence     float64 `json:"confidence"`
}

// SummaryResult es el resumen generado para un texto.
type SummaryResult struct {
	Summary string `json:"summary"`
}

var validEmotions = map[string]bool{
	EmotionHappy:    true,
	EmotionSad:      true,
	EmotionAngry:    true,
	EmotionFear:     true,
	EmotionSurprise: true,
	EmotionDisgust:  true,
	EmotionNeutral:  true,
}

var validSeverities = map[string]bool{
	SeverityNone:     true,
	SeverityLow:      true,
	SeverityModerate: true,
	SeverityHigh:     true,
}

// IsValidEmotion indica si la etiqueta pertenece al set soportado.
// Se espera la etiqueta ya normalizada en minusculas.
func IsValidEmotion(label string) bool {
	return validEmotions[label]
}

// IsValidSeverity indica si el nivel pertenece al set soportado.
func IsValidSeverity(level string) bool {
	return validSeverities[level]
}
