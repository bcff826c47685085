package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agri-curator/internal/llm"
)

// confidence below this falls back to open-ended vision analysis.
const pestConfidenceThreshold = 0.75

// PestDetectionTool detects pests in images by combining a remote image
// classifier with LLM vision analysis for remedy recommendations.
type PestDetectionTool struct {
	classifierURL string
	vision        llm.VisionClient
	httpc         *http.Client
}

func NewPestDetection(classifierURL string, vision llm.VisionClient) *PestDetectionTool {
	return &PestDetectionTool{
		classifierURL: classifierURL,
		vision:        vision,
		httpc:         &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *PestDetectionTool) Name() string { return "PestDetectionTool" }

func (t *PestDetectionTool) Description() string {
	return "Detects pests in images using a machine learning model and provides remedies. Takes a public image URL as input."
}

func (t *PestDetectionTool) Run(ctx context.Context, args map[string]any) (string, error) {
	image := stringArg(args, "image")
	if image == "" {
		image = stringArg(args, "image_url")
	}
	if image == "" {
		return "Error: No image URL provided. Please provide a public image URL.", nil
	}

	imageB64, err := t.downloadImage(ctx, image)
	if err != nil {
		return "Error: Failed to download image from the provided URL. Please ensure the URL is valid and points to an image.", nil
	}

	predictedClass, confidence := t.classify(ctx, imageB64)

	lines := []string{fmt.Sprintf("Predicted Class: %d", predictedClass)}
	if predictedClass > 0 {
		lines[0] = fmt.Sprintf("Predicted Class: %d", predictedClass)
		lines = append(lines, fmt.Sprintf("Confidence: %.2f%%", confidence*100))
	} else {
		lines[0] = "Predicted Class: unknown"
		lines = append(lines, "Confidence: N/A")
	}

	var analysis string
	if predictedClass > 0 && confidence >= pestConfidenceThreshold {
		pestName, ok := pestClasses[predictedClass]
		if !ok {
			pestName = fmt.Sprintf("Unknown pest (Class %d)", predictedClass)
		}
		analysis = t.analyzeWithVision(ctx, imageB64, pestName)
	} else {
		analysis = t.analyzeWithVision(ctx, imageB64, "")
	}
	lines = append(lines, analysis)

	return strings.Join(lines, "\n"), nil
}

func (t *PestDetectionTool) downloadImage(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid image URL: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("URL does not point to an image, content-type %q", contentType)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 20<<20))
	if err != nil {
		return "", fmt.Errorf("read image body: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// classify posts the image to the classifier endpoint. Any failure returns
// (0, 0) so the caller falls through to the vision analysis.
func (t *PestDetectionTool) classify(ctx context.Context, imageB64 string) (int, float64) {
	if t.classifierURL == "" {
		return 0, 0
	}
	payload, err := json.Marshal(map[string]string{"image": imageB64})
	if err != nil {
		return 0, 0
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.classifierURL, bytes.NewReader(payload))
	if err != nil {
		return 0, 0
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpc.Do(req)
	if err != nil {
		return 0, 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, 0
	}

	var prediction struct {
		Label       string `json:"label"`
		Confidences []struct {
			Label      string  `json:"label"`
			Confidence float64 `json:"confidence"`
		} `json:"confidences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return 0, 0
	}

	// Labels come back as Class_N with zero-based N.
	classNum, err := strconv.Atoi(strings.TrimPrefix(prediction.Label, "Class_"))
	if err != nil {
		return 0, 0
	}
	class := classNum + 1

	confidence := 0.0
	for _, c := range prediction.Confidences {
		if c.Label == prediction.Label {
			confidence = c.Confidence
			break
		}
	}
	if confidence == 0 && len(prediction.Confidences) > 0 {
		confidence = prediction.Confidences[0].Confidence
	}
	return class, confidence
}

func (t *PestDetectionTool) analyzeWithVision(ctx context.Context, imageB64, pestName string) string {
	var prompt string
	if pestName != "" {
		prompt = fmt.Sprintf(`I have detected a pest in this image identified as: %s

Please provide:
1. Comprehensive treatment and control measures (Steps)
2. Prevention strategies
3. Expected timeline for treatment effectiveness

Please be specific and practical in your recommendations.`, pestName)
	} else {
		prompt = `Please analyze this image and determine:

1. Is there a pest visible in this image? (Yes/No)
2. If yes, what type of pest is it? Please be as specific as possible.
3. If it's a pest, provide:
   - Comprehensive treatment and control measures
   - Prevention strategies
   - Expected timeline for treatment effectiveness
4. If it's not a pest, say exactly "THE ENTERED IMAGE IS NOT A PEST, PLEASE ENTER IMAGE OF A PEST".

Please be thorough and practical in your analysis and recommendations.`
	}

	resp, err := t.vision.GenerateVision(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, imageB64)
	if err != nil {
		return fmt.Sprintf("Error analyzing image: %v", err)
	}
	return resp.Content
}

// pestClasses maps IP102 class numbers to pest names.
var pestClasses = map[int]string{
	1: "rice leaf roller", 2: "rice leaf caterpillar", 3: "paddy stem maggot",
	4: "asiatic rice borer", 5: "yellow rice borer", 6: "rice gall midge",
	7: "Rice Stemfly", 8: "brown plant hopper", 9: "white backed plant hopper",
	10: "small brown plant hopper", 11: "rice water weevil", 12: "rice leafhopper",
	13: "grain spreader thrips", 14: "rice shell pest", 15: "grub",
	16: "mole cricket", 17: "wireworm", 18: "white margined moth",
	19: "black cutworm", 20: "large cutworm", 21: "yellow cutworm",
	22: "red spider", 23: "corn borer", 24: "army worm",
	25: "aphids", 26: "Potosiabre vitarsis", 27: "peach borer",
	28: "english grain aphid", 29: "green bug", 30: "bird cherry-oataphid",
	31: "wheat blossom midge", 32: "penthaleus major", 33: "longlegged spider mite",
	34: "wheat phloeothrips", 35: "wheat sawfly", 36: "cerodonta denticornis",
	37: "beet fly", 38: "flea beetle", 39: "cabbage army worm",
	40: "beet army worm", 41: "Beet spot flies", 42: "meadow moth",
	43: "beet weevil", 44: "sericaorient alismots chulsky", 45: "alfalfa weevil",
	46: "flax budworm", 47: "alfalfa plant bug", 48: "tarnished plant bug",
	49: "Locustoidea", 50: "lytta polita", 51: "legume blister beetle",
	52: "blister beetle", 53: "therioaphis maculata Buckton", 54: "odontothrips loti",
	55: "Thrips", 56: "alfalfa seed chalcid", 57: "Pieris canidia",
	58: "Apolygus lucorum", 59: "Limacodidae", 60: "Viteus vitifoliae",
	61: "Colomerus vitis", 62: "Brevipoalpus lewisi McGregor", 63: "oides decempunctata",
	64: "Polyphagotars onemus latus", 65: "Pseudococcus comstocki Kuwana", 66: "parathrene regalis",
	67: "Ampelophaga", 68: "Lycorma delicatula", 69: "Xylotrechus",
	70: "Cicadella viridis", 71: "Miridae", 72: "Trialeurodes vaporariorum",
	73: "Erythroneura apicalis", 74: "Papilio xuthus", 75: "Panonchus citri McGregor",
	76: "Phyllocoptes oleiverus ashmead", 77: "Icerya purchasi Maskell", 78: "Unaspis yanonensis",
	79: "Ceroplastes rubens", 80: "Chrysomphalus aonidum", 81: "Parlatoria zizyphus Lucus",
	82: "Nipaecoccus vastalor", 83: "Aleurocanthus spiniferus", 84: "Tetradacus c Bactrocera minax",
	85: "Dacus dorsalis(Hendel)", 86: "Bactrocera tsuneonis", 87: "Prodenia litura",
	88: "Adristyrannus", 89: "Phyllocnistis citrella Stainton", 90: "Toxoptera citricidus",
	91: "Toxoptera aurantii", 92: "Aphis citricola Vander Goot", 93: "Scirtothrips dorsalis Hood",
	94: "Dasineura sp", 95: "Lawana imitata Melichar", 96: "Salurnis marginella Guerr",
	97: "Deporaus marginatus Pascoe", 98: "Chlumetia transversa", 99: "Mango flat beak leafhopper",
	100: "Rhytidodera bowrinii white", 101: "Sternochetus frigidus", 102: "Cicadellidae",
}
