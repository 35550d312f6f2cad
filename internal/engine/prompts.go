package engine

import (
	"fmt"
	"strings"

	"github.com/luminastudio/lumina/internal/model"
)

// UpscaleLabel is the prompt text persisted for upscale artifacts, kept
// short so history stays readable instead of showing the full instruction.
const UpscaleLabel = "Upscale & Enhance"

// upscaleInstruction is the fixed, non-user-editable instruction sent to the
// model for the quick upscale action.
const upscaleInstruction = "Upscale this image to high resolution 4K. Enhance fine details, sharpen textures, improve lighting, and remove noise while maintaining the original composition exactly. Photorealistic quality."

// defaultAnalyzeQuestion is used when the caller supplies no question.
const defaultAnalyzeQuestion = "Analyze this image in detail."

// noAnalysisText is returned when the model produced no findings. Absence of
// findings is a valid outcome, not an error.
const noAnalysisText = "No analysis generated."

// promptIdeasInstruction asks for fresh prompt template categories.
const promptIdeasInstruction = `Generate a collection of 4 distinct, creative categories for AI image generation prompts.
For each category, provide 3 unique, highly detailed, and descriptive prompts.
Categories can be things like 'Cyberpunk', 'Nature Photography', 'Abstract Art', 'Fantasy', 'Architecture', etc.
Make them inspiring and diverse.`

func buildEnhancePrompt(original string) string {
	return fmt.Sprintf(`You are an expert AI prompt engineer. Rewrite the following simple prompt to be highly detailed, descriptive, and optimized for image generation models.
Focus on lighting, texture, composition, and mood.
Keep the original intent but elevate the quality.

Original Prompt: "%s"

Return ONLY the enhanced prompt text, nothing else.`, original)
}

// composePrompt builds the final generation prompt: the style preset label
// is prefixed and negative terms are appended with the "--no" convention.
func composePrompt(prompt, styleID, negativePrompt string) string {
	final := strings.TrimSpace(prompt)
	if label := model.StyleLabel(styleID); label != "" {
		final = label + " style. " + final
	}
	if neg := strings.TrimSpace(negativePrompt); neg != "" {
		final = final + " --no " + neg
	}
	return final
}
