package gemini

import "google.golang.org/genai"

var tierSchema = &genai.Schema{
	Type: genai.TypeString,
	Enum: []string{"Low", "Medium", "High"},
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"problemSummary": {Type: genai.TypeString},
		"opportunities": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":               {Type: genai.TypeString},
					"title":            {Type: genai.TypeString},
					"description":      {Type: genai.TypeString},
					"effort":           tierSchema,
					"impact":           tierSchema,
					"estimatedSavings": {Type: genai.TypeString},
				},
				Required: []string{"id", "title", "description", "effort", "impact", "estimatedSavings"},
			},
		},
		"totalSavingsMonth":  {Type: genai.TypeNumber},
		"totalSavingsYear":   {Type: genai.TypeNumber},
		"roiMultiplier":      {Type: genai.TypeNumber},
		"implementationCost": {Type: genai.TypeNumber},
		"chartData": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"month":     {Type: genai.TypeString},
					"manual":    {Type: genai.TypeNumber},
					"automated": {Type: genai.TypeNumber},
				},
				Required: []string{"month", "manual", "automated"},
			},
		},
	},
	Required: []string{"problemSummary", "opportunities", "totalSavingsMonth", "totalSavingsYear", "roiMultiplier", "implementationCost", "chartData"},
}

var draftSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"subject": {Type: genai.TypeString},
		"body":    {Type: genai.TypeString},
	},
	Required: []string{"subject", "body"},
}
