package gemini

import "google.golang.org/genai"

var framesSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"index":       {Type: genai.TypeInteger},
			"description": {Type: genai.TypeString},
		},
		Required: []string{"index", "description"},
	},
}

var audioSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"start":   {Type: genai.TypeNumber, Description: "seconds from clip start"},
			"end":     {Type: genai.TypeNumber, Description: "seconds from clip start"},
			"type":    {Type: genai.TypeString, Enum: []string{"speech", "music"}},
			"text":    {Type: genai.TypeString},
			"speaker": {Type: genai.TypeString},
			"emotion": {Type: genai.TypeString},
			"music": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"genre":       {Type: genai.TypeString},
					"mood":        {Type: genai.TypeString},
					"tempo":       {Type: genai.TypeInteger},
					"energy":      {Type: genai.TypeNumber},
					"instruments": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
			},
		},
		Required: []string{"start", "end", "type", "text"},
	},
}

var translateSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}
