package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agri-curator/internal/llm"
	"agri-curator/internal/tools"
)

// maxGatherWorkers bounds the enrichment fan-out.
const maxGatherWorkers = 10

var highlightPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ElementDetails is the enrichment bundle for one highlighted element of
// a suggestion.
type ElementDetails struct {
	ElementID   string   `json:"element_id"`
	Name        string   `json:"name"`
	Thumbnail   []string `json:"thumbnail"`
	Summary     string   `json:"summary"`
	Practices   string   `json:"practices"`
	Seasonality string   `json:"seasonality"`
	Cost        string   `json:"cost"`
	Schemes     string   `json:"schemes"`
}

// ElementDetailGatherer enriches the highlighted elements of curated
// suggestions with images and structured background, fanning out over a
// single bounded worker pool.
type ElementDetailGatherer struct {
	model       llm.Client
	search      *tools.WebSearchTool
	images      *tools.ImageSearchTool
	suggestions *tools.SuggestionDataLoggerTool
	logger      *zap.Logger
}

func NewElementDetailGatherer(model llm.Client, search *tools.WebSearchTool, images *tools.ImageSearchTool, suggestions *tools.SuggestionDataLoggerTool, logger *zap.Logger) *ElementDetailGatherer {
	return &ElementDetailGatherer{model: model, search: search, images: images, suggestions: suggestions, logger: logger}
}

// elementJob is one highlighted element queued for enrichment. topic is
// the suggestion's leading highlight, used to disambiguate searches.
type elementJob struct {
	suggestionID string
	topic        string
	name         string
}

// extractElementJobs pulls the highlighted elements out of each suggestion.
// When a suggestion has several highlights, the first one names the overall
// topic and is not an element itself; a lone highlight is an element.
func extractElementJobs(suggestions []tools.Suggestion) []elementJob {
	var jobs []elementJob
	for _, s := range suggestions {
		matches := highlightPattern.FindAllStringSubmatch(s.Content, -1)
		topic := ""
		if len(matches) > 1 {
			topic = matches[0][1]
		}
		for i, m := range matches {
			if i == 0 && len(matches) > 1 {
				continue
			}
			jobs = append(jobs, elementJob{suggestionID: s.SuggestionID, topic: topic, name: m[1]})
		}
	}
	return jobs
}

// enrichedNames collects, per suggestion, the element names that already
// carry stored details, so re-runs do not repeat finished work.
func enrichedNames(stored []tools.Suggestion) map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, s := range stored {
		if len(s.ElementDetails) == 0 {
			continue
		}
		names := map[string]bool{}
		for _, v := range s.ElementDetails {
			switch d := v.(type) {
			case *ElementDetails:
				if d.Name != "" {
					names[d.Name] = true
				}
			case map[string]any:
				if n, ok := d["name"].(string); ok && n != "" {
					names[n] = true
				}
			}
		}
		out[s.SuggestionID] = names
	}
	return out
}

func filterNewJobs(jobs []elementJob, done map[string]map[string]bool) []elementJob {
	var out []elementJob
	for _, j := range jobs {
		if done[j.suggestionID][j.name] {
			continue
		}
		out = append(out, j)
	}
	return out
}

// groupBySuggestion folds positional results back onto their suggestions,
// keyed by element id. Failed elements have a nil slot and are skipped.
func groupBySuggestion(jobs []elementJob, results []*ElementDetails) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for i, j := range jobs {
		if results[i] == nil {
			continue
		}
		if out[j.suggestionID] == nil {
			out[j.suggestionID] = map[string]any{}
		}
		out[j.suggestionID][results[i].ElementID] = results[i]
	}
	return out
}

// Gather enriches the highlighted elements of the given suggestions and
// persists the details back onto the stored suggestions. Elements that
// already carry stored details are skipped, and new details merge into the
// existing map instead of replacing it. Per-element failures are logged
// and skipped.
func (g *ElementDetailGatherer) Gather(ctx context.Context, conversationID string, suggestions []tools.Suggestion) {
	jobs := extractElementJobs(suggestions)
	if len(jobs) == 0 {
		return
	}

	stored, err := g.suggestions.Retrieve(ctx, conversationID)
	if err != nil {
		g.logger.Warn("gatherer: stored suggestion lookup failed", zap.Error(err))
	}
	jobs = filterNewJobs(jobs, enrichedNames(stored))
	if len(jobs) == 0 {
		return
	}

	results := make([]*ElementDetails, len(jobs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxGatherWorkers)
	for i, j := range jobs {
		grp.Go(func() error {
			details, err := g.processElement(gctx, j.name, j.topic)
			if err != nil {
				g.logger.Warn("gatherer: element failed", zap.String("element", j.name), zap.Error(err))
				return nil
			}
			results[i] = details
			return nil
		})
	}
	_ = grp.Wait()

	existing := map[string]map[string]any{}
	for _, s := range stored {
		if len(s.ElementDetails) > 0 {
			existing[s.SuggestionID] = s.ElementDetails
		}
	}
	for suggestionID, details := range groupBySuggestion(jobs, results) {
		for id, d := range existing[suggestionID] {
			if _, ok := details[id]; !ok {
				details[id] = d
			}
		}
		err := g.suggestions.Update(ctx, conversationID, suggestionID, map[string]any{
			"element_details": details,
		})
		if err != nil {
			g.logger.Warn("gatherer: suggestion update failed",
				zap.String("suggestion_id", suggestionID), zap.Error(err))
		}
	}
}

func (g *ElementDetailGatherer) processElement(ctx context.Context, name, topic string) (*ElementDetails, error) {
	queryTypes := []string{
		"detailed information",
		"cultivation practices and seasonality",
		"cost of cultivation and market price",
		"government schemes and subsidies",
	}

	// qualify searches with the suggestion topic so generic element names
	// resolve in the right context
	subject := name
	if topic != "" && topic != name {
		subject = name + " - " + topic
	}

	var thumbnails []string
	perQuery := make([][]tools.SearchResult, len(queryTypes))

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		thumbnails = g.fetchImages(gctx, name)
		return nil
	})
	for i, queryType := range queryTypes {
		grp.Go(func() error {
			results, err := g.search.Search(gctx, subject+" "+queryType, 3)
			if err != nil {
				return nil
			}
			perQuery[i] = results
			return nil
		})
	}
	_ = grp.Wait()

	var searchResults []tools.SearchResult
	for _, results := range perQuery {
		searchResults = append(searchResults, results...)
	}

	details, err := g.structureInfo(ctx, name, searchResults)
	if err != nil {
		return nil, err
	}
	details.ElementID = randomID(10)
	details.Name = name
	details.Thumbnail = thumbnails
	return details, nil
}

func (g *ElementDetailGatherer) fetchImages(ctx context.Context, name string) []string {
	if g.images == nil {
		return nil
	}
	raw, err := g.images.Run(ctx, map[string]any{"query": name, "k": 3})
	if err != nil {
		return nil
	}
	var items []struct {
		ImageLink string `json:"Image Link"`
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	links := make([]string, 0, len(items))
	for _, item := range items {
		if item.ImageLink != "" {
			links = append(links, item.ImageLink)
		}
	}
	return links
}

func (g *ElementDetailGatherer) structureInfo(ctx context.Context, name string, results []tools.SearchResult) (*ElementDetails, error) {
	var b strings.Builder
	for _, r := range results {
		content := r.Content
		if content == "" {
			content = r.Snippet
		}
		fmt.Fprintf(&b, "Title: %s\nContent: %s\n\n", r.Title, content)
	}

	prompt := fmt.Sprintf(`Please extract the following information about "%s" from these search results:

%s

Format the response as a JSON object with these fields, with both keys and values within double quotes:
1. summary: A 2-3 sentence summary about this crop/practice/scheme
2. practices: Key cultivation or application practices, as a short string
3. seasonality: Sowing/growing season or applicable time window (else "")
4. cost: A single concise line with the typical cost or price range in INR, rounded for readability; "" if no meaningful cost information is present
5. schemes: Related government schemes or subsidies, as a short string (else "")

Return only the JSON object without any explanation or additional text.`, name, b.String())

	resp, err := g.model.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("structure element info: %w", err)
	}

	var details ElementDetails
	if err := json.Unmarshal([]byte(StripFences(resp.Content)), &details); err != nil {
		return &ElementDetails{Summary: fmt.Sprintf("Information about %s", name)}, nil
	}
	return &details, nil
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return string(b)
}
