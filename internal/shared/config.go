package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	DBDriver   string // mysql|sqlite
	MySQLDSN   string
	SQLitePath string

	RedisAddr string
	RedisDB   int
	RedisPass string

	FeedBase string
	FeedKey  string
	FeedRPS  int

	SentimentBackend string // vader|remote
	InferenceURL     string
	InferenceToken   string

	ScrapeWorkers int
	CacheTTL      time.Duration

	Pipeline Pipeline
}

// Pipeline holds file locations and the scrape targets. It is read from a
// TOML file; missing keys keep their defaults.
type Pipeline struct {
	Paths  Paths          `toml:"paths"`
	Scrape ScrapeSettings `toml:"scrape"`
	Themes ThemeSettings  `toml:"themes"`
	Banks  []BankApp      `toml:"banks"`
}

type Paths struct {
	RawDir         string `toml:"raw_dir"`
	Cleaned        string `toml:"cleaned"`
	Sentiment      string `toml:"sentiment"`
	LanguageDist   string `toml:"language_distribution"`
	AnalysisDir    string `toml:"analysis_dir"`
	PlotsDir       string `toml:"plots_dir"`
	SaveCombined   bool   `toml:"save_combined"`
	CombinedRawCSV string `toml:"combined_raw"`
}

type ScrapeSettings struct {
	Count     int      `toml:"count"`
	Languages []string `toml:"languages"`
	Country   string   `toml:"country"`
}

type ThemeSettings struct {
	TopN        int `toml:"top_n"`
	MaxFeatures int `toml:"max_features"`
}

// BankApp is one scrape target: the display name stored in the bank column
// and the store application id.
type BankApp struct {
	Name  string `toml:"name"`
	AppID string `toml:"app_id"`
}

func DefaultPipeline() Pipeline {
	return Pipeline{
		Paths: Paths{
			RawDir:         "data/raw",
			Cleaned:        "data/processed/bank_reviews_cleaned.csv",
			Sentiment:      "data/processed/sentiment_results.csv",
			LanguageDist:   "data/processed/language_distribution.csv",
			AnalysisDir:    "data/analysis",
			PlotsDir:       "plots",
			SaveCombined:   true,
			CombinedRawCSV: "all_banks_reviews_raw.csv",
		},
		Scrape: ScrapeSettings{Count: 400, Languages: []string{"en", "am"}, Country: "et"},
		Themes: ThemeSettings{TopN: 20, MaxFeatures: 100},
		Banks: []BankApp{
			{Name: "Commercial Bank of Ethiopia", AppID: "com.combanketh.mobilebanking"},
			{Name: "Bank of Abyssinia", AppID: "com.boa.boaMobileBanking"},
			{Name: "Dashen Bank", AppID: "com.dashen.dashensuperapp"},
		},
	}
}

// RawFiles lists the per-bank raw CSVs the preprocessor merges, in bank order.
func (p Pipeline) RawFiles() []string {
	out := make([]string, 0, len(p.Banks))
	for _, b := range p.Banks {
		out = append(out, p.Paths.RawDir+"/"+Slug(b.Name)+"_reviews_raw.csv")
	}
	return out
}

// Slug turns a bank name into the file-name stem used for per-bank outputs.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// LoadPipeline decodes path over the defaults. A missing file is not an error.
func LoadPipeline(path string) (Pipeline, error) {
	p := DefaultPipeline()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("open pipeline config %s: %w", path, err)
	}
	defer f.Close()

	// keys absent from the file keep their default values
	if err := toml.NewDecoder(f).Decode(&p); err != nil {
		return DefaultPipeline(), fmt.Errorf("decode pipeline config %s: %w", path, err)
	}
	return p, nil
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		LogLevel:         env("LOG_LEVEL", "info"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		DBDriver:         env("DB_DRIVER", "mysql"),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/bank_reviews?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		SQLitePath:       env("SQLITE_PATH", "data/bank_reviews.sqlite"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisDB:          atoi("REDIS_DB", 0),
		RedisPass:        env("REDIS_PASSWORD", ""),
		FeedBase:         env("REVIEW_FEED_URL", "http://localhost:3000"),
		FeedKey:          env("REVIEW_FEED_KEY", ""),
		FeedRPS:          atoi("REVIEW_FEED_RPS", 5),
		SentimentBackend: env("SENTIMENT_BACKEND", "vader"),
		InferenceURL:     env("INFERENCE_URL", "https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english"),
		InferenceToken:   env("INFERENCE_TOKEN", ""),
		ScrapeWorkers:    atoi("SCRAPE_WORKERS", 1),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}

	path := env("PIPELINE_CONFIG", "pipeline.toml")
	p, err := LoadPipeline(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("pipeline config ignored, using defaults")
	}
	c.Pipeline = p

	if c.SentimentBackend == "remote" && c.InferenceToken == "" {
		log.Warn().Msg("INFERENCE_TOKEN is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
