package service

import "fmt"

// System prompts por tarea. Mantener cortos: el detalle va en el prompt de usuario.
const (
	moodSystemPrompt    = "You are a professional emotion analysis API. Always respond with valid JSON."
	crisisSystemPrompt  = "You are a professional crisis detection API. Always respond with valid JSON. Err on the side of caution for safety."
	summarySystemPrompt = "You are a professional text summarization API. Always respond with valid JSON."
)

// buildMoodPrompt arma el prompt de clasificacion emocional con el texto crudo del usuario.
func buildMoodPrompt(text string) string {
	return fmt.Sprintf(`You are an expert emotion analyst. Analyze the emotional tone of the given text and respond with valid JSON.

Text to analyze: "%s"

Classify the emotion into one of these categories:
- happy
- sad
- angry
- fear
- surprise
- disgust
- neutral

Consider context, tone, and emotional intensity. Provide a confidence score (0.0-1.0).

Examples:
- "I'm thrilled about my promotion!" -> happy (confidence: 0.9)
- "This weather is okay I guess" -> neutral (confidence: 0.7)
- "I'm devastated by this news" -> sad (confidence: 0.95)

Respond with JSON format:
{
    "emotion": "emotion_name",
    "confidence": 0.0
}`, text)
}

// buildCrisisPrompt arma el prompt de deteccion de crisis con el texto crudo del usuario.
func buildCrisisPrompt(text string) string {
	return fmt.Sprintf(`You are a mental health crisis detection system. Analyze the text for signs of mental health crisis, self-harm, or suicidal ideation.

Text to analyze: "%s"

Crisis indicators include:
- Suicidal thoughts or plans
- Self-harm mentions
- Feeling hopeless or trapped
- Wanting to die or disappear
- Feeling like a burden
- Severe depression or despair
- Substance abuse with harmful intent

Severity levels:
- "none": No crisis indicators
- "low": Mild distress, general sadness
- "moderate": Concerning language, needs attention
- "high": Clear crisis indicators, immediate attention needed

Examples:
- "I'm having a bad day" -> crisis_detected: false, severity: "low"
- "I don't want to be here anymore" -> crisis_detected: true, severity: "high"
- "I'm feeling overwhelmed lately" -> crisis_detected: false, severity: "moderate"

Respond with JSON format:
{
    "crisis_detected": true/false,
    "severity": "severity_level",
    "confidence": 0.0
}`, text)
}

// buildSummaryPrompt arma el prompt de resumen con el texto crudo del usuario.
func buildSummaryPrompt(text string) string {
	return fmt.Sprintf(`You are a professional text summarization system. Create a concise, accurate summary of the given text.

Text to summarize: "%s"

Guidelines:
- Keep key information and main points
- Maintain the original tone and context
- Make it 20-30%% of original length
- Preserve important details
- Use clear, readable language

Respond with JSON format:
{
    "summary": "your_concise_summary_here"
}`, text)
}
