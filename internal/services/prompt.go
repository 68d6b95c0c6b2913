package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"greentalent/matching-engine/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildJudgePrompt creates the LLM-judge prompt for one profile/opportunity
// pair. Perspective changes the framing of the question, not the scoring
// contract: both directions return a 0-1 score plus reasoning.
func (pb *PromptBuilder) BuildJudgePrompt(profileSummary, opportunitySummary string, perspective models.Perspective) string {
	if perspective == models.PerspectiveCandidate {
		return fmt.Sprintf(`You are an experienced career advisor for sustainability and ESG professionals. A candidate is considering a role and you must judge how well the role fits the candidate.

CANDIDATE PROFILE:
%s

ROLE:
%s

Judge the fit of this role FOR the candidate: growth potential, use of their strongest skills, alignment with their experience trajectory, and mission fit.

Return your response in the following JSON format:
{
  "score": <fit score as decimal 0.0-1.0>,
  "reasoning": "<3-5 sentences explaining why the role does or does not fit this candidate>"
}

Be objective. Reference specific skills and experiences from the profile to justify the score.`,
			profileSummary, opportunitySummary)
	}

	return fmt.Sprintf(`You are an expert ESG and sustainability recruiter evaluating a candidate for a role. Judge how well the candidate fits the role.

ROLE:
%s

CANDIDATE PROFILE:
%s

Judge the candidate's fit FOR the role: skill coverage, depth and recency of relevant experience, and credibility of the evidence behind their claims.

Return your response in the following JSON format:
{
  "score": <fit score as decimal 0.0-1.0>,
  "reasoning": "<3-5 sentences explaining strengths and gaps against the role>"
}

Be objective. Reference specific skills and experiences from the profile to justify the score.`,
		opportunitySummary, profileSummary)
}

// BuildProfileSummary renders a profile as judge-readable text.
func (pb *PromptBuilder) BuildProfileSummary(profile *models.Profile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Name: %s\n", profile.FullName)
	if profile.Headline != "" {
		fmt.Fprintf(&sb, "Headline: %s\n", profile.Headline)
	}
	if profile.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", profile.Location)
	}

	if len(profile.Skills) > 0 {
		sb.WriteString("Skills:\n")
		for _, skill := range profile.Skills {
			fmt.Fprintf(&sb, "- %s (%s)\n", skill.Name, skill.EvidenceLevel)
		}
	}

	if len(profile.Experiences) > 0 {
		sb.WriteString("Experience:\n")
		for _, exp := range profile.Experiences {
			period := exp.StartDate.Format("Jan 2006") + " - present"
			if exp.EndDate != nil {
				period = exp.StartDate.Format("Jan 2006") + " - " + exp.EndDate.Format("Jan 2006")
			}
			fmt.Fprintf(&sb, "- %s at %s (%s)\n", exp.Title, exp.Organization, period)
			if exp.Description != "" {
				fmt.Fprintf(&sb, "  %s\n", exp.Description)
			}
			if len(exp.Skills) > 0 {
				var names []string
				for _, usage := range exp.Skills {
					names = append(names, usage.Name)
				}
				fmt.Fprintf(&sb, "  Skills used: %s\n", strings.Join(names, ", "))
			}
		}
	}

	if profile.SummaryText != "" {
		sb.WriteString("Resume extract:\n")
		sb.WriteString(truncateText(profile.SummaryText, 4000))
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildOpportunitySummary renders an opportunity as judge-readable text.
func (pb *PromptBuilder) BuildOpportunitySummary(opportunity *models.Opportunity) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Title: %s\n", opportunity.Title)
	fmt.Fprintf(&sb, "Organization: %s\n", opportunity.Organization)
	if opportunity.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", opportunity.Location)
	}
	if opportunity.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", truncateText(opportunity.Description, 4000))
	}

	var required, preferred []string
	for _, skill := range opportunity.Skills {
		if skill.Requirement == models.RequirementPreferred {
			preferred = append(preferred, skill.Name)
		} else {
			required = append(required, skill.Name)
		}
	}
	if len(required) > 0 {
		fmt.Fprintf(&sb, "Required skills: %s\n", strings.Join(required, ", "))
	}
	if len(preferred) > 0 {
		fmt.Fprintf(&sb, "Preferred skills: %s\n", strings.Join(preferred, ", "))
	}

	if len(opportunity.Requirements) > 0 {
		sb.WriteString("Experience requirements:\n")
		for _, req := range opportunity.Requirements {
			fmt.Fprintf(&sb, "- %s\n", req.Text)
		}
	}

	return sb.String()
}

// truncateText cuts to at most limit bytes, backing up to a rune boundary
// so a multi-byte character is never split.
func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	for limit > 0 && !utf8.RuneStart(text[limit]) {
		limit--
	}
	return text[:limit]
}
