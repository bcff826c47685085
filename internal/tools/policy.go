package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agri-curator/internal/llm"
)

// FarmerDetails is the profile the policy fetcher tailors its analysis to.
type FarmerDetails struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	FarmSizeAcres float64  `json:"farm_size_acres"`
	CropTypes     []string `json:"crop_types"`
	FarmingType   string   `json:"farming_type"`
	AnnualIncome  float64  `json:"annual_income"`
	LandOwnership string   `json:"land_ownership"`
}

// PolicyFetcherTool searches for government schemes relevant to a farmer's
// profile and structures them with LLM analysis.
type PolicyFetcherTool struct {
	search *WebSearchTool
	client llm.Client
}

func NewPolicyFetcher(search *WebSearchTool, client llm.Client) *PolicyFetcherTool {
	return &PolicyFetcherTool{search: search, client: client}
}

func (t *PolicyFetcherTool) Name() string { return "PolicyFetcherTool" }

func (t *PolicyFetcherTool) Description() string {
	return "Fetch and analyze government policies and schemes for farmers based on their details. Returns relevant schemes, action plans, and benefits summary tailored to the farmer's profile. Inputs: farmer name, location, farm size, crop types, farming type, annual income, and land ownership."
}

func (t *PolicyFetcherTool) Run(ctx context.Context, args map[string]any) (string, error) {
	details := FarmerDetails{
		Name:          stringArg(args, "name"),
		Location:      stringArg(args, "location"),
		FarmSizeAcres: floatArg(args, "farm_size_acres"),
		CropTypes:     stringSliceArg(args, "crop_types"),
		FarmingType:   stringArg(args, "farming_type"),
		AnnualIncome:  floatArg(args, "annual_income"),
		LandOwnership: stringArg(args, "land_ownership"),
	}
	if details.Name == "" || details.Location == "" || details.FarmSizeAcres <= 0 ||
		len(details.CropTypes) == 0 || details.FarmingType == "" || details.LandOwnership == "" {
		return `{"error": "Missing required parameters. All fields are mandatory."}`, nil
	}

	result, err := t.FetchPolicies(ctx, details)
	if err != nil {
		return fmt.Sprintf(`{"error": "Error during policy fetching: %v"}`, err), nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal policy result: %w", err)
	}
	return string(raw), nil
}

// FetchPolicies runs the search-then-analyze pipeline for the farmer.
func (t *PolicyFetcherTool) FetchPolicies(ctx context.Context, details FarmerDetails) (map[string]any, error) {
	policies := t.searchPolicies(ctx, details)
	analyzed := t.analyzePolicies(ctx, policies, details)

	out := map[string]any{
		"farmer_profile": details,
		"analysis_date":  time.Now().Format("2006-01-02 15:04:05"),
	}
	if errMsg, ok := analyzed["error"]; ok {
		out["error"] = errMsg
		out["success"] = false
		return out, nil
	}

	out["relevant_schemes"] = analyzed["relevant_schemes"]
	out["action_plan"] = analyzed["action_plan"]
	out["benefits_summary"] = analyzed["benefits_summary"]
	out["recommendations"] = analyzed["recommendations"]
	out["contact_information"] = contactInformation(details.Location)

	sources := make([]map[string]string, 0, 5)
	for i, p := range policies {
		if i >= 5 {
			break
		}
		snippet := p.Snippet
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		sources = append(sources, map[string]string{
			"title": p.Title, "url": p.Link, "snippet": snippet,
		})
	}
	out["sources"] = sources
	out["success"] = true
	return out, nil
}

// searchPolicies runs profile-derived queries and keeps deduplicated,
// farming-relevant results.
func (t *PolicyFetcherTool) searchPolicies(ctx context.Context, details FarmerDetails) []SearchResult {
	location := strings.ToLower(details.Location)
	crops := strings.ToLower(strings.Join(details.CropTypes, " "))

	queries := []string{
		fmt.Sprintf("farmer schemes policies %s %s %d", location, crops, time.Now().Year()),
		fmt.Sprintf("%s farmer government schemes %s", strings.ToLower(details.FarmingType), location),
		fmt.Sprintf("agricultural subsidies %s %s", crops, location),
		fmt.Sprintf("PM-KISAN scheme eligibility %s", location),
	}
	if details.FarmSizeAcres <= 2 {
		queries = append(queries, fmt.Sprintf("small farmer schemes %s government", location))
	}
	if len(queries) > 4 {
		queries = queries[:4]
	}

	var all []SearchResult
	for _, q := range queries {
		results, err := t.search.Search(ctx, q, 3)
		if err != nil {
			continue
		}
		all = append(all, results...)
	}

	seen := make(map[string]bool)
	relevant := make([]SearchResult, 0, len(all))
	for _, r := range all {
		if r.Link == "" || seen[r.Link] {
			continue
		}
		if !isPolicyRelevant(r, location) {
			continue
		}
		seen[r.Link] = true
		relevant = append(relevant, r)
		if len(relevant) == 8 {
			break
		}
	}
	return relevant
}

var policyKeywords = []string{
	"farmer", "agriculture", "crop", "farming", "agricultural",
	"scheme", "subsidy", "policy", "government", "pm-kisan",
	"insurance", "loan", "msp", "procurement", "kisan",
}

func isPolicyRelevant(r SearchResult, location string) bool {
	text := strings.ToLower(r.Title + " " + r.Snippet + " " + r.Content)
	hasKeyword := false
	for _, kw := range policyKeywords {
		if strings.Contains(text, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return false
	}
	for _, word := range strings.Fields(location) {
		if strings.Contains(text, word) {
			return true
		}
	}
	return strings.Contains(text, "india")
}

func (t *PolicyFetcherTool) analyzePolicies(ctx context.Context, policies []SearchResult, details FarmerDetails) map[string]any {
	var b strings.Builder
	for i, p := range policies {
		if i >= 10 {
			break
		}
		content := p.Content
		if content == "" {
			content = p.Snippet
		}
		fmt.Fprintf(&b, "Policy %d:\nTitle: %s\nContent: %s\n\n", i+1, p.Title, content)
	}

	prompt := fmt.Sprintf(`Farmer Profile:
- Location: %s
- Farm Size: %.1f acres
- Crops: %s
- Farming Type: %s
- Annual Income: %.0f INR
- Land Ownership: %s

Available Policies and Schemes:
%s
Analyze these policies for this farmer.`,
		details.Location, details.FarmSizeAcres, strings.Join(details.CropTypes, ", "),
		details.FarmingType, details.AnnualIncome, details.LandOwnership, b.String())

	fallback := map[string]any{
		"relevant_schemes": []any{},
		"action_plan":      []any{"Contact local agriculture officer for detailed information"},
		"benefits_summary": map[string]any{"message": "Analysis completed but formatting issues occurred"},
		"recommendations":  []any{},
	}

	resp, err := t.client.Generate(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: policyAnalystPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		fallback["error"] = fmt.Sprintf("Policy analysis failed: %v", err)
		return fallback
	}

	content := stripJSONFences(resp.Content)
	var parsed map[string]any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		fallback["raw_response"] = resp.Content
		return fallback
	}
	return parsed
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

func contactInformation(location string) []map[string]string {
	return []map[string]string{
		{
			"office":         "District Collector Office",
			"purpose":        "General scheme information and applications",
			"contact_method": fmt.Sprintf("Visit local district collector office in %s", location),
		},
		{
			"office":         "Agriculture Extension Office",
			"purpose":        "Technical support and scheme guidance",
			"contact_method": "Contact local Krishi Vigyan Kendra (KVK)",
		},
		{
			"office":         "PM-KISAN Helpline",
			"purpose":        "PM-KISAN scheme queries",
			"contact_method": "Call 155261 or visit pmkisan.gov.in",
		},
		{
			"office":         "Kisan Call Centre",
			"purpose":        "24/7 farming queries and support",
			"contact_method": "Call 1800-180-1551",
		},
	}
}

const policyAnalystPrompt = `You are an expert agricultural policy analyst specializing in Indian government schemes for farmers.
Analyze the provided farmer profile and policy information to give practical, actionable advice.

Return your response as valid JSON with the following structure:
{
    "relevant_schemes": [
        {
            "scheme_name": "Name of scheme",
            "eligibility": "Eligibility criteria",
            "benefits": "Benefits and subsidies",
            "documents_required": ["doc1", "doc2"],
            "application_process": "How to apply",
            "relevance_score": 9.5,
            "deadline": "Application deadline if any"
        }
    ],
    "action_plan": [
        "Step 1: Action item",
        "Step 2: Action item"
    ],
    "benefits_summary": {
        "total_potential_benefits": "Estimated total benefits",
        "immediate_benefits": "Benefits available immediately",
        "long_term_benefits": "Long-term advantages"
    },
    "recommendations": [
        "Recommendation 1",
        "Recommendation 2"
    ]
}

Focus on:
- Most relevant and applicable schemes
- Clear eligibility criteria
- Practical application steps
- Required documentation
- Timeline for benefits`
