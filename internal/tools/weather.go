package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WeatherAnalysisTool analyzes weather for Indian locations using the
// Open-Meteo API. Supports current conditions, a 7-day forecast, and a
// 7-day historical summary.
type WeatherAnalysisTool struct {
	geocodingAPI string
	weatherAPI   string
	httpc        *http.Client
}

func NewWeatherAnalysis() *WeatherAnalysisTool {
	return &WeatherAnalysisTool{
		geocodingAPI: "https://geocoding-api.open-meteo.com/v1/search",
		weatherAPI:   "https://api.open-meteo.com/v1/forecast",
		httpc:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *WeatherAnalysisTool) Name() string { return "WeatherAnalysisTool" }

func (t *WeatherAnalysisTool) Description() string {
	return "Analyze weather data for Indian locations: current conditions, forecast, or historical summary. Input: location (preferably an Indian city), optional analysis_type of 'current', 'forecast', or 'historical'."
}

// Common aliases for major Indian cities; geocoding handles the rest.
var indianCityAliases = map[string]string{
	"mumbai":    "Mumbai, India",
	"bombay":    "Mumbai, India",
	"delhi":     "Delhi, India",
	"new delhi": "Delhi, India",
	"bangalore": "Bangalore, India",
	"bengaluru": "Bangalore, India",
	"chennai":   "Chennai, India",
	"madras":    "Chennai, India",
	"kolkata":   "Kolkata, India",
	"calcutta":  "Kolkata, India",
	"hyderabad": "Hyderabad, India",
	"pune":      "Pune, India",
	"ahmedabad": "Ahmedabad, India",
	"lucknow":   "Lucknow, India",
	"jaipur":    "Jaipur, India",
	"patna":     "Patna, India",
	"bhopal":    "Bhopal, India",
	"nagpur":    "Nagpur, India",
}

func (t *WeatherAnalysisTool) Run(ctx context.Context, args map[string]any) (string, error) {
	location := stringArg(args, "location")
	analysisType := stringArg(args, "analysis_type")
	if analysisType == "" {
		analysisType = "current"
	}

	if query := stringArg(args, "query"); query != "" {
		extracted, extractedType := extractLocationFromQuery(query)
		if extracted == "" {
			return "Error: Could not extract location from query. Please provide a location name.", nil
		}
		location = extracted
		if extractedType != "" {
			analysisType = extractedType
		}
	}
	if location == "" {
		return "Error: No location provided. Please specify a location.", nil
	}

	if mapped, ok := indianCityAliases[strings.ToLower(location)]; ok {
		location = mapped
	}

	lat, lon, err := t.geocode(ctx, location)
	if err != nil {
		return "", err
	}

	var startDate, endDate string
	now := time.Now().UTC()
	switch analysisType {
	case "forecast":
		startDate = now.Format("2006-01-02")
		endDate = now.AddDate(0, 0, 7).Format("2006-01-02")
	case "historical":
		endDate = now.Format("2006-01-02")
		startDate = now.AddDate(0, 0, -7).Format("2006-01-02")
	}

	data, err := t.fetchWeather(ctx, lat, lon, startDate, endDate)
	if err != nil {
		return "", err
	}

	switch analysisType {
	case "current":
		return formatCurrentWeather(data, location), nil
	case "forecast":
		return formatForecastWeather(data, location), nil
	case "historical":
		return formatHistoricalWeather(data, location), nil
	default:
		return fmt.Sprintf("Unsupported analysis type: %s", analysisType), nil
	}
}

func extractLocationFromQuery(query string) (location, analysisType string) {
	lower := strings.ToLower(query)
	patterns := []string{
		"current weather in",
		"historical weather analysis for",
		"weather like in",
		"weather in",
		"forecast for",
		"temperature in",
		"weather for",
		" in ",
	}
	for _, pat := range patterns {
		if idx := strings.LastIndex(lower, pat); idx >= 0 {
			location = strings.TrimSpace(lower[idx+len(pat):])
			break
		}
	}
	if location == "" {
		words := strings.Fields(lower)
		if len(words) > 0 {
			location = words[len(words)-1]
		}
	}

	location = strings.NewReplacer("?", "", ".", "").Replace(location)
	filler := map[string]bool{
		"the": true, "for": true, "next": true, "few": true, "days": true,
		"past": true, "week": true, "current": true, "weather": true,
		"forecast": true, "historical": true, "analysis": true, "today": true, "like": true,
	}
	words := strings.Fields(location)
	for len(words) > 0 && filler[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	location = strings.Join(words, " ")

	if strings.Contains(lower, "forecast") {
		analysisType = "forecast"
	} else if strings.Contains(lower, "historical") || strings.Contains(lower, "past") {
		analysisType = "historical"
	}
	return location, analysisType
}

func (t *WeatherAnalysisTool) geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("name", location)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.geocodingAPI+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build geocoding request: %w", err)
	}
	resp, err := t.httpc.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("error accessing geocoding API: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(payload.Results) == 0 {
		return 0, 0, fmt.Errorf("location not found: %s", location)
	}
	return payload.Results[0].Latitude, payload.Results[0].Longitude, nil
}

type weatherData struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		Time        string  `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WindSpeedMax     []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

func (t *WeatherAnalysisTool) fetchWeather(ctx context.Context, lat, lon float64, startDate, endDate string) (*weatherData, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lon))
	q.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation_probability,wind_speed_10m,weather_code")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max")
	q.Set("timezone", "UTC")
	q.Set("current_weather", "true")
	if startDate != "" && endDate != "" {
		q.Set("start_date", startDate)
		q.Set("end_date", endDate)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.weatherAPI+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := t.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error accessing weather API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API status %d", resp.StatusCode)
	}
	var data weatherData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	return &data, nil
}

// weatherCodeToCondition converts a WMO weather code to a readable condition.
func weatherCodeToCondition(code int) string {
	conditions := map[int]string{
		0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
		45: "Foggy", 48: "Depositing rime fog",
		51: "Light drizzle", 53: "Moderate drizzle", 55: "Dense drizzle",
		61: "Slight rain", 63: "Moderate rain", 65: "Heavy rain",
		71: "Slight snow fall", 73: "Moderate snow fall", 75: "Heavy snow fall",
		77: "Snow grains",
		80: "Slight rain showers", 81: "Moderate rain showers", 82: "Violent rain showers",
		85: "Slight snow showers", 86: "Heavy snow showers",
		95: "Thunderstorm", 96: "Thunderstorm with slight hail", 99: "Thunderstorm with heavy hail",
	}
	if c, ok := conditions[code]; ok {
		return c
	}
	return "Unknown"
}

func formatCurrentWeather(data *weatherData, location string) string {
	cur := data.CurrentWeather
	return fmt.Sprintf(
		"Current weather in %s:\nTemperature: %.1f°C\nConditions: %s\nWind Speed: %.1f km/h\nLast Updated: %s UTC",
		location, cur.Temperature, weatherCodeToCondition(cur.WeatherCode), cur.WindSpeed, cur.Time,
	)
}

func formatForecastWeather(data *weatherData, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s:\n", location)
	for i := range data.Daily.Time {
		fmt.Fprintf(&b, "Date: %s\nTemperature: %.1f°C to %.1f°C\nPrecipitation: %.1fmm\nWind Speed (max): %.1f km/h\n---\n",
			data.Daily.Time[i], data.Daily.TemperatureMin[i], data.Daily.TemperatureMax[i],
			data.Daily.PrecipitationSum[i], data.Daily.WindSpeedMax[i])
	}
	return b.String()
}

func formatHistoricalWeather(data *weatherData, location string) string {
	d := data.Daily
	if len(d.Time) == 0 {
		return fmt.Sprintf("No historical weather data available for %s", location)
	}
	var maxSum, minSum, precip float64
	for i := range d.Time {
		maxSum += d.TemperatureMax[i]
		minSum += d.TemperatureMin[i]
		precip += d.PrecipitationSum[i]
	}
	n := float64(len(d.Time))
	return fmt.Sprintf(
		"Historical weather analysis for %s:\nDate Range: %s to %s\nAverage Temperature Range: %.1f°C to %.1f°C\nTotal Precipitation: %.1fmm\nSummary: %d days analyzed",
		location, d.Time[0], d.Time[len(d.Time)-1], minSum/n, maxSum/n, precip, len(d.Time),
	)
}
