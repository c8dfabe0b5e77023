package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt embeds both inputs verbatim.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an expert HR analyst. Your task is to compare the provided resume with the job description and return a detailed analysis.

Resume Text:
---
%s
---

Job Description:
---
%s
---

Provide your analysis strictly in the following JSON format. Do not include any text or markdown formatting before or after the JSON object.

{
  "match_percentage": <A number between 0 and 100 representing the match quality>,
  "strengths": ["A list of key strengths and matching skills from the resume.", "Provide at least two points."],
  "weaknesses": ["A list of skills or requirements from the job description that are missing or not prominent in the resume.", "Provide at least two points."]
}`,
		resumeText, jobDescription)
}
