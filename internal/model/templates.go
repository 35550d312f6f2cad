package model

// StylePreset is a selectable visual style applied to a prompt.
type StylePreset struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// StylePresets is the catalogue of selectable styles. The "none" entry
// leaves the prompt untouched.
var StylePresets = []StylePreset{
	{ID: "none", Label: "No Style"},
	{ID: "photorealistic", Label: "Photorealistic"},
	{ID: "cinematic", Label: "Cinematic"},
	{ID: "anime", Label: "Anime / Manga"},
	{ID: "digital-art", Label: "Digital Art"},
	{ID: "oil-painting", Label: "Oil Painting"},
	{ID: "watercolor", Label: "Watercolor"},
	{ID: "charcoal", Label: "Charcoal Sketch"},
	{ID: "3d-render", Label: "3D Render"},
	{ID: "cyberpunk", Label: "Cyberpunk"},
	{ID: "vintage", Label: "Vintage Photo"},
	{ID: "pixel-art", Label: "Pixel Art"},
	{ID: "neon-punk", Label: "Neon Punk"},
	{ID: "isometric", Label: "Isometric"},
	{ID: "low-poly", Label: "Low Poly"},
	{ID: "origami", Label: "Origami"},
	{ID: "line-art", Label: "Line Art"},
	{ID: "surrealism", Label: "Surrealism"},
	{ID: "pop-art", Label: "Pop Art"},
	{ID: "steampunk", Label: "Steampunk"},
	{ID: "fantasy", Label: "Fantasy RPG"},
}

// StyleLabel returns the display label for a style preset id, or "" for
// "none" and unknown ids.
func StyleLabel(id string) string {
	if id == "" || id == "none" {
		return ""
	}
	for _, p := range StylePresets {
		if p.ID == id {
			return p.Label
		}
	}
	return ""
}

// PromptTemplateSection is one category of suggested prompts. Template
// collections are ephemeral and never persisted.
type PromptTemplateSection struct {
	Category string   `json:"category"`
	Prompts  []string `json:"prompts"`
}

// SeedTemplates is the static prompt template collection shown before any
// freshly generated suggestions arrive.
var SeedTemplates = []PromptTemplateSection{
	{
		Category: "Cinematic & Realistic",
		Prompts: []string{
			"A futuristic cityscape at sunset, neon lights reflecting on wet pavement, cinematic lighting, highly detailed, 8k resolution, photorealistic.",
			"Close-up portrait of an old sailor with a white beard, weathering storm on a boat, dramatic lighting, detailed skin texture, intense eyes.",
			"A cozy cabin in a snowy forest during twilight, warm light coming from windows, smoke rising from chimney, magical atmosphere.",
		},
	},
	{
		Category: "3D & CGI",
		Prompts: []string{
			"A cute isometric living room with plants, a cat sleeping on the sofa, pastel colors, 3d render, blender style, soft lighting.",
			"A transparent glass robot with glowing internal circuits, standing in a laboratory, depth of field, octane render, ray tracing.",
			"Low poly floating island with a castle, waterfall cascading down into clouds, vibrant colors, game asset style.",
		},
	},
	{
		Category: "Artistic & Abstract",
		Prompts: []string{
			"Oil painting of a bustling market in Morocco, vibrant spices, dappled sunlight, expressive brushstrokes, impressionist style.",
			"A surreal dreamscape with melting clocks and floating elephants, dali style, desert background, vivid colors.",
			"Cyberpunk samurai standing in rain, watercolor style, dripping paint effects, neon red and blue palette.",
		},
	},
	{
		Category: "Character Design",
		Prompts: []string{
			"A fantasy elf warrior queen, wearing silver armor with intricate leaf patterns, glowing magical staff, forest background, digital art.",
			"Steampunk inventor with brass goggles, messy hair, holding a glowing gadget, workshop background, intricate details.",
			"A cute anthropomorphic fox wearing a detective coat and hat, rainy city street background, pixar style animation.",
		},
	},
}
