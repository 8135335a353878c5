// Package dashboard serves the demo datasets backing the dashboard
// endpoints: the weather panel on the free tier, market prices and
// scenario analysis behind the premium gate. The figures are static
// placeholders until the ingestion pipelines land.
package dashboard

// CurrentWeather describes the conditions right now.
type CurrentWeather struct {
	Temp      int    `json:"temp"`
	Humidity  int    `json:"humidity"`
	WindSpeed int    `json:"wind_speed"`
	Condition string `json:"condition"`
	Time      string `json:"time"`
}

// HourlyTemp is a single point of the intraday temperature curve.
type HourlyTemp struct {
	Time string `json:"time"`
	Temp int    `json:"temp"`
}

// ForecastDay is one day of the weekly forecast. RainTime is nil when no
// rain is expected.
type ForecastDay struct {
	Day        string       `json:"day"`
	Temp       string       `json:"temp"`
	Condition  string       `json:"condition"`
	Rain       int          `json:"rain"`
	HourlyTemp []HourlyTemp `json:"hourly_temp"`
	RainTime   *string      `json:"rain_time"`
}

// Alert is an agronomic warning shown on the weather panel.
type Alert struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

// WeatherReport is the full payload of the free weather endpoint.
type WeatherReport struct {
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast"`
	Alerts   []Alert        `json:"alerts"`
}

// MarketQuote is a commodity price with its daily movement.
type MarketQuote struct {
	Commodity string  `json:"commodity"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	Trend     string  `json:"trend"`
}

// Scenario is one forecasted situation with its playbook.
type Scenario struct {
	Name            string   `json:"name"`
	Probability     int      `json:"probability"`
	Impact          string   `json:"impact"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
	Timeline        string   `json:"timeline"`
}

// ScenarioGroup bundles scenarios of one category.
type ScenarioGroup struct {
	Title     string     `json:"title"`
	Scenarios []Scenario `json:"scenarios"`
}

func strPtr(s string) *string { return &s }

// Weather returns the weather panel dataset.
func Weather() WeatherReport {
	return WeatherReport{
		Current: CurrentWeather{
			Temp:      28,
			Humidity:  65,
			WindSpeed: 12,
			Condition: "partly cloudy",
			Time:      "14:30",
		},
		Forecast: []ForecastDay{
			{
				Day: "today", Temp: "28°/18°", Condition: "cloudy", Rain: 20,
				HourlyTemp: []HourlyTemp{
					{"06:00", 18}, {"09:00", 22}, {"12:00", 26},
					{"15:00", 28}, {"18:00", 25}, {"21:00", 22},
				},
				RainTime: strPtr("16:00"),
			},
			{
				Day: "tomorrow", Temp: "30°/20°", Condition: "sunny", Rain: 0,
				HourlyTemp: []HourlyTemp{
					{"06:00", 20}, {"09:00", 24}, {"12:00", 28},
					{"15:00", 30}, {"18:00", 27}, {"21:00", 24},
				},
			},
			{
				Day: "tue", Temp: "26°/16°", Condition: "rain", Rain: 80,
				HourlyTemp: []HourlyTemp{
					{"06:00", 16}, {"09:00", 19}, {"12:00", 23},
					{"15:00", 26}, {"18:00", 24}, {"21:00", 20},
				},
				RainTime: strPtr("10:30"),
			},
			{
				Day: "wed", Temp: "24°/14°", Condition: "rain", Rain: 90,
				HourlyTemp: []HourlyTemp{
					{"06:00", 14}, {"09:00", 17}, {"12:00", 21},
					{"15:00", 24}, {"18:00", 22}, {"21:00", 18},
				},
				RainTime: strPtr("08:15"),
			},
			{
				Day: "thu", Temp: "27°/17°", Condition: "sunny", Rain: 10,
				HourlyTemp: []HourlyTemp{
					{"06:00", 17}, {"09:00", 21}, {"12:00", 25},
					{"15:00", 27}, {"18:00", 25}, {"21:00", 22},
				},
			},
			{
				Day: "fri", Temp: "29°/19°", Condition: "sunny", Rain: 5,
				HourlyTemp: []HourlyTemp{
					{"06:00", 19}, {"09:00", 23}, {"12:00", 27},
					{"15:00", 29}, {"18:00", 26}, {"21:00", 23},
				},
			},
			{
				Day: "sat", Temp: "31°/21°", Condition: "sunny", Rain: 0,
				HourlyTemp: []HourlyTemp{
					{"06:00", 21}, {"09:00", 25}, {"12:00", 29},
					{"15:00", 31}, {"18:00", 28}, {"21:00", 25},
				},
			},
		},
		Alerts: []Alert{
			{Type: "warning", Message: "frost risk in the next 48h - field C", Priority: "high"},
			{Type: "info", Message: "ideal window for pesticide application - field A", Priority: "medium"},
			{Type: "danger", Message: "hail expected on thursday", Priority: "critical"},
		},
	}
}

// MarketPrices returns the commodity quotes of the premium market panel.
func MarketPrices() []MarketQuote {
	return []MarketQuote{
		{Commodity: "soybean", Price: 142.50, Change: 2.3, Trend: "up"},
		{Commodity: "corn", Price: 68.20, Change: -1.2, Trend: "down"},
		{Commodity: "rice", Price: 89.40, Change: 0.8, Trend: "up"},
	}
}

// Scenarios returns the premium scenario analysis, keyed by category.
func Scenarios() map[string]ScenarioGroup {
	return map[string]ScenarioGroup{
		"weather": {
			Title: "Climate scenarios",
			Scenarios: []Scenario{
				{
					Name:        "prolonged drought",
					Probability: 35,
					Impact:      "high",
					Description: "15 days without significant rain",
					Recommendations: []string{
						"deploy emergency irrigation",
						"apply mulching to conserve moisture",
						"monitor crop water stress",
					},
					Timeline: "7-14 days",
				},
				{
					Name:        "intense rainfall",
					Probability: 60,
					Impact:      "medium",
					Description: "precipitation above 80mm in 24h",
					Recommendations: []string{
						"check the drainage system",
						"postpone scheduled applications",
						"monitor fungal diseases",
					},
					Timeline: "3-5 days",
				},
				{
					Name:        "late frost",
					Probability: 20,
					Impact:      "critical",
					Description: "temperature below 2°C after budding",
					Recommendations: []string{
						"activate thermal protection",
						"set up temporary windbreaks",
						"assess replanting in affected areas",
					},
					Timeline: "48 hours",
				},
			},
		},
		"market": {
			Title: "Market scenarios",
			Scenarios: []Scenario{
				{
					Name:        "soybean price rally",
					Probability: 70,
					Impact:      "high",
					Description: "15-20% increase over the next 3 months",
					Recommendations: []string{
						"consider partial early sales",
						"invest in storage",
						"expand soybean area next season",
					},
					Timeline: "90 days",
				},
				{
					Name:        "corn price drop",
					Probability: 45,
					Impact:      "medium",
					Description: "8-12% decrease on oversupply",
					Recommendations: []string{
						"diversify crops",
						"look for futures contracts",
						"optimize production costs",
					},
					Timeline: "60 days",
				},
			},
		},
		"production": {
			Title: "Production scenarios",
			Scenarios: []Scenario{
				{
					Name:        "above-average yield",
					Probability: 55,
					Impact:      "high",
					Description: "10-15% above the historical yield",
					Recommendations: []string{
						"prepare harvest logistics",
						"negotiate additional storage",
						"plan strategic sales",
					},
					Timeline: "30-45 days",
				},
				{
					Name:        "pest outbreak",
					Probability: 30,
					Impact:      "high",
					Description: "soybean looper infestation above the control threshold",
					Recommendations: []string{
						"intensify monitoring",
						"prepare pesticide application",
						"deploy biological control",
					},
					Timeline: "7-10 days",
				},
			},
		},
	}
}
