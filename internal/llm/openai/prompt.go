package openai

import (
	"encoding/json"
	"fmt"
)

// guidanceSchemaExample documents the exact JSON shape the model must return.
// Structure only; the model adapts content to the candidate.
var guidanceSchemaExample = map[string]any{
	"technical_skills": []map[string]any{
		{"name": "Python", "level": "intermediate"},
	},
	"missing_skills": []map[string]any{
		{"name": "Git", "reason": "Needed for collaboration and version control in most software roles."},
	},
	"learning_paths": []map[string]any{
		{
			"track":                "Web Development",
			"topics":               []string{"HTML, CSS basics", "JavaScript fundamentals", "Backend basics (APIs, database)"},
			"tools":                []string{"VS Code", "Git & GitHub"},
			"exercises":            []string{"Consume a public REST API"},
			"projects":             []string{"Personal portfolio website"},
			"estimated_time_weeks": 6,
		},
	},
	"project_ideas": []map[string]any{
		{"title": "Job Tracker Dashboard", "type": "portfolio", "description": "Track job applications and interview stages."},
	},
	"certificate_recommendations": []map[string]any{
		{"name": "AWS Cloud Practitioner", "value_level": "high", "recommendation": "pursue", "reason": "Good entry-level cloud certificate."},
	},
	"role_matching": []map[string]any{
		{
			"role":                       "Full Stack Developer",
			"match_percentage":           78,
			"matched_skills":             []string{"JavaScript", "React"},
			"missing_skills":             []string{"Docker"},
			"additional_skills_to_learn": []string{"CI/CD"},
		},
	},
	"weak_skills": []map[string]any{
		{"name": "MS Word", "reason": "Very generic skill; does not significantly help for tech hiring."},
	},
	"recommended_tech_stacks": []map[string]any{
		{"stack": "MERN (MongoDB, Express, React, Node.js)", "reason": "Matches current JavaScript skills."},
	},
	"career_clarity_summary": map[string]any{
		"primary_alignment": "Full Stack / Web Development",
		"aligned_roles":     []string{"Full Stack Developer"},
		"roles_to_avoid":    []string{"Hardcore Embedded Developer"},
		"reasoning":         "Most skills and projects are web-focused.",
	},
	"weekly_schedule": []map[string]any{
		{
			"week":           1,
			"focus":          "Strengthen core programming and Git",
			"topics":         []string{"Language fundamentals", "Git basics"},
			"practice_tasks": []string{"Solve 10 easy problems"},
			"checkpoints":    []string{"Understand branching and commits"},
		},
	},
}

func buildGuidancePrompt(resumeData map[string]any) ([]chatMessage, error) {
	schema, err := json.MarshalIndent(guidanceSchemaExample, "", "  ")
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(resumeData)
	if err != nil {
		return nil, fmt.Errorf("encode resume data: %w", err)
	}

	user := "You are a career guidance AI for freshers. " +
		"Given the following structured resume data, generate a DETAILED but COMPACT guidance plan.\n\n" +
		"STRICT RULES:\n" +
		"- Return ONLY valid JSON. No markdown, no commentary, no backticks.\n" +
		"- Follow EXACTLY this JSON shape (keys and types) and do not add new top-level keys.\n" +
		"- Keep explanations short and practical.\n\n" +
		"JSON SCHEMA EXAMPLE (STRUCTURE ONLY, ADAPT CONTENT TO CANDIDATE):\n" +
		string(schema) + "\n\n" +
		"Consider ALL of these when generating guidance:\n" +
		"1) Extract and normalize technical skills and remove duplicates.\n" +
		"2) Estimate skill levels (beginner/intermediate/advanced) based on projects, certificates, and wording.\n" +
		"3) Detect missing but important skills based on skills + projects + interests.\n" +
		"4) Create learning paths for suitable tracks among: Web Development, Data Science, Cloud Engineer, Machine Learning / AI, Cybersecurity.\n" +
		"5) Generate unique project ideas (mini, portfolio, capstone).\n" +
		"6) Recommend useful and low-value certificates with reasoning.\n" +
		"7) Match candidate to roles with match percentage and skills gap.\n" +
		"8) Identify redundant or weak skills.\n" +
		"9) Suggest tech stack paths (e.g. MERN, Django, Spring, ML stack).\n" +
		"10) Provide a short career clarity summary.\n" +
		"11) Build a 4-8 week weekly improvement schedule.\n\n" +
		"Now generate the JSON guidance for this specific resume data:\n" +
		"RESUME_DATA: " + string(data)

	return []chatMessage{
		{Role: "system", Content: "Return JSON only. No markdown, no commentary."},
		{Role: "user", Content: user},
	}, nil
}

func buildFixPrompt(raw json.RawMessage) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: "Return JSON only. No markdown, no commentary."},
		{Role: "user", Content: "The following output was supposed to be a single valid JSON object but is malformed. " +
			"Repair it and return ONLY the corrected JSON object:\n" + string(raw)},
	}
}
