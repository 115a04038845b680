package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "CORETAX_CONFIG"
	inferenceURLEnv  = "CORETAX_INFERENCE_URL"
	hfTokenEnv       = "HF_API_TOKEN"
	chatGPTAPIKeyEnv = "CHATGPT_API_KEY"
	chatGPTModelEnv  = "CHATGPT_MODEL"
	logLevelEnv      = "CORETAX_LOG_LEVEL"
	storePathEnv     = "CORETAX_STORE_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging      LoggingConfig    `yaml:"logging"`
	Sources      []SourceConfig   `yaml:"sources"`
	QuickSources []SourceConfig   `yaml:"quickSources"`
	Dictionary   DictionaryConfig `yaml:"dictionary"`
	Stopwords    StopwordsConfig  `yaml:"stopwords"`
	Preprocess   PreprocessConfig `yaml:"preprocess"`
	ML           MLConfig         `yaml:"ml"`
	Keywords     KeywordsConfig   `yaml:"keywords"`
	Topics       TopicsConfig     `yaml:"topics"`
	ChatGPT      ChatGPTConfig    `yaml:"chatgpt"`
	Output       OutputConfig     `yaml:"output"`
	Store        StoreConfig      `yaml:"store"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig points a CSV export at the schema that knows its columns.
type SourceConfig struct {
	Name   string `yaml:"name"`
	Schema string `yaml:"schema"`
	Path   string `yaml:"path"`
}

// DictionaryConfig locates the kamus baku (tidak_baku -> kata_baku).
type DictionaryConfig struct {
	Path string `yaml:"path"`
}

// StopwordsConfig extends the built-in Indonesian stopword list.
type StopwordsConfig struct {
	Extra     []string `yaml:"extra"`
	Special   []string `yaml:"special"`
	Languages []string `yaml:"languages"`
}

// PreprocessConfig tunes row filtering around the cleaning chain.
type PreprocessConfig struct {
	MinLength int  `yaml:"minLength"`
	Dedupe    bool `yaml:"dedupe"`
}

// MLConfig describes the model inference service.
type MLConfig struct {
	Backend              string            `yaml:"backend"`
	InferenceURL         string            `yaml:"inferenceUrl"`
	APIKey               string            `yaml:"apiKey"`
	ClassifierModel      string            `yaml:"classifierModel"`
	QuickClassifierModel string            `yaml:"quickClassifierModel"`
	EmbeddingModel       string            `yaml:"embeddingModel"`
	BatchSize            int               `yaml:"batchSize"`
	MaxLength            int               `yaml:"maxLength"`
	RequestsPerSecond    float64           `yaml:"requestsPerSecond"`
	Timeout              time.Duration     `yaml:"timeout"`
	Labels               map[string]string `yaml:"labels"`
}

// KeywordsConfig controls per-sentiment TF-IDF keyword extraction.
type KeywordsConfig struct {
	TopK        int      `yaml:"topK"`
	MaxFeatures int      `yaml:"maxFeatures"`
	Stopwords   []string `yaml:"stopwords"`
}

// TopicsConfig controls topic modeling over one sentiment class.
type TopicsConfig struct {
	Label        string  `yaml:"label"`
	MinTopicSize int     `yaml:"minTopicSize"`
	MinSamples   int     `yaml:"minSamples"`
	Epsilon      float64 `yaml:"epsilon"`
	TopWords     int     `yaml:"topWords"`
	NgramMax     int     `yaml:"ngramMax"`
}

// ChatGPTConfig defines how to contact the ChatGPT API for topic labels.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// OutputConfig lists every artifact path the pipeline writes.
type OutputConfig struct {
	Dir             string `yaml:"dir"`
	PreprocessedCSV string `yaml:"preprocessedCsv"`
	QuickCSV        string `yaml:"quickCsv"`
	TopicsCSV       string `yaml:"topicsCsv"`
	TopicModel      string `yaml:"topicModel"`
}

// StoreConfig locates the SQLite run history; an empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg, err := Parse(raw)
			if err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}
	if len(cfg.QuickSources) == 0 {
		cfg.QuickSources = defaultConfig().QuickSources
	}

	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(inferenceURLEnv); v != "" {
		c.ML.InferenceURL = v
	}

	if v := os.Getenv(hfTokenEnv); v != "" {
		c.ML.APIKey = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v, ok := os.LookupEnv(storePathEnv); ok {
		c.Store.Path = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}
	if len(override.QuickSources) > 0 {
		base.QuickSources = override.QuickSources
	}

	if override.Dictionary.Path != "" {
		base.Dictionary.Path = override.Dictionary.Path
	}

	if len(override.Stopwords.Extra) > 0 {
		base.Stopwords.Extra = override.Stopwords.Extra
	}
	if len(override.Stopwords.Special) > 0 {
		base.Stopwords.Special = override.Stopwords.Special
	}
	if override.Stopwords.Languages != nil {
		base.Stopwords.Languages = override.Stopwords.Languages
	}

	if override.Preprocess.MinLength > 0 {
		base.Preprocess.MinLength = override.Preprocess.MinLength
	}
	if override.Preprocess.Dedupe {
		base.Preprocess.Dedupe = true
	}

	base.ML = mergeML(base.ML, override.ML)

	if override.Keywords.TopK > 0 {
		base.Keywords.TopK = override.Keywords.TopK
	}
	if override.Keywords.MaxFeatures > 0 {
		base.Keywords.MaxFeatures = override.Keywords.MaxFeatures
	}
	if len(override.Keywords.Stopwords) > 0 {
		base.Keywords.Stopwords = override.Keywords.Stopwords
	}

	if override.Topics.Label != "" {
		base.Topics.Label = override.Topics.Label
	}
	if override.Topics.MinTopicSize > 0 {
		base.Topics.MinTopicSize = override.Topics.MinTopicSize
	}
	if override.Topics.MinSamples > 0 {
		base.Topics.MinSamples = override.Topics.MinSamples
	}
	if override.Topics.Epsilon > 0 {
		base.Topics.Epsilon = override.Topics.Epsilon
	}
	if override.Topics.TopWords > 0 {
		base.Topics.TopWords = override.Topics.TopWords
	}
	if override.Topics.NgramMax > 0 {
		base.Topics.NgramMax = override.Topics.NgramMax
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if override.Output.PreprocessedCSV != "" {
		base.Output.PreprocessedCSV = override.Output.PreprocessedCSV
	}
	if override.Output.QuickCSV != "" {
		base.Output.QuickCSV = override.Output.QuickCSV
	}
	if override.Output.TopicsCSV != "" {
		base.Output.TopicsCSV = override.Output.TopicsCSV
	}
	if override.Output.TopicModel != "" {
		base.Output.TopicModel = override.Output.TopicModel
	}

	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}

	return base
}

func mergeML(base, override MLConfig) MLConfig {
	if override.Backend != "" {
		base.Backend = override.Backend
	}
	if override.InferenceURL != "" {
		base.InferenceURL = override.InferenceURL
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.ClassifierModel != "" {
		base.ClassifierModel = override.ClassifierModel
	}
	if override.QuickClassifierModel != "" {
		base.QuickClassifierModel = override.QuickClassifierModel
	}
	if override.EmbeddingModel != "" {
		base.EmbeddingModel = override.EmbeddingModel
	}
	if override.BatchSize > 0 {
		base.BatchSize = override.BatchSize
	}
	if override.MaxLength > 0 {
		base.MaxLength = override.MaxLength
	}
	if override.RequestsPerSecond > 0 {
		base.RequestsPerSecond = override.RequestsPerSecond
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if len(override.Labels) > 0 {
		base.Labels = override.Labels
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Sources: []SourceConfig{
			{Name: "playstore", Schema: "playstore", Path: "data/Data-Scrape-PlayStore.csv"},
			{Name: "youtube", Schema: "youtube", Path: "data/Data-Scrape-YouTube.csv"},
			{Name: "twitter-tiktok", Schema: "combined", Path: "data/Data-Combined-Twitter-Tiktok.csv"},
		},
		QuickSources: []SourceConfig{
			{Name: "twitter", Schema: "twitter", Path: "data/CoreTax-Twitter-01.csv"},
			{Name: "tiktok-comment", Schema: "tiktok-comment", Path: "data/Tiktok-comment.csv"},
			{Name: "tiktok-video", Schema: "tiktok-video", Path: "data/TiktokVideo-01.csv"},
		},
		Dictionary: DictionaryConfig{Path: "data/kamuskatabaku.xlsx"},
		Stopwords: StopwordsConfig{
			Extra: []string{
				"masingmasing", "benarbenar", "dgn", "gak", "ga", "ya", "nya", "yg",
				"tolong", "gabisa", "mohon", "aja", "ngga", "banget", "udah", "nggak",
				"gimana", "ini", "gk", "sih", "dan", "saya", "karena", "di", "ke", "untuk",
			},
			Special: []string{"terima", "kasih", "terimakasih", "apk"},
		},
		Preprocess: PreprocessConfig{MinLength: 0},
		ML: MLConfig{
			Backend:              "http",
			InferenceURL:         "https://api-inference.huggingface.co",
			ClassifierModel:      "w11wo/indonesian-roberta-base-sentiment-classifier",
			QuickClassifierModel: "ayameRushia/bert-base-indonesian-1.5G-sentiment-analysis-smsa",
			EmbeddingModel:       "sentence-transformers/distiluse-base-multilingual-cased-v2",
			BatchSize:            32,
			MaxLength:            512,
			RequestsPerSecond:    5,
			Timeout:              60 * time.Second,
		},
		Keywords: KeywordsConfig{
			TopK:        15,
			MaxFeatures: 100,
			Stopwords:   append([]string(nil), keywordStopwords...),
		},
		Topics: TopicsConfig{
			Label:        "negative",
			MinTopicSize: 20,
			MinSamples:   10,
			Epsilon:      0.3,
			TopWords:     10,
			NgramMax:     2,
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "Kamu memberi label singkat (maksimal lima kata, Bahasa Indonesia) untuk topik keluhan pengguna CoreTax berdasarkan kata kuncinya.",
		},
		Output: OutputConfig{
			Dir:             "outputs",
			PreprocessedCSV: "data/processed/CoreTax Preprocessing Results.csv",
			QuickCSV:        "data/sentiment_results.csv",
			TopicsCSV:       "data/processed/BERTopic-CoreTax-data.csv",
			TopicModel:      "models/bertopic_coretax_model.json",
		},
		Store: StoreConfig{Path: "data/processed/coretax-runs.db"},
	}
}

var keywordStopwords = []string{
	"dan", "di", "ke", "dari", "yang", "ini", "itu", "untuk", "pada", "adalah",
	"saya", "aku", "kamu", "dia", "kita", "mereka", "apa", "siapa", "kapan",
	"dimana", "kenapa", "bagaimana", "bisa", "ada", "jadi", "akan", "sudah",
	"belum", "tidak", "bukan", "tapi", "tetapi", "karena", "jika", "kalau",
	"nanti", "saja", "juga", "dengan", "atau", "ya", "yuk", "yg", "gak", "gk",
	"dgn", "sdh", "blm", "kalo", "klo", "tp", "jd", "nih", "tuh", "dong", "sih",
	"kok", "kan", "deh", "lah", "pun", "mah", "biar", "pas", "lagi", "bgt",
	"banget", "aja", "doang", "cuma", "hanya", "sama", "banyak", "sedikit",
	"lebih", "kurang", "paling", "sangat", "terlalu", "cukup", "perlu", "harus",
	"mau", "ingin", "hendak", "bakal", "boleh", "dapat", "mungkin", "tentu",
	"pasti", "yakin", "tahu", "tau", "mengerti", "paham", "lihat", "dengar",
	"baca", "tulis", "bicara", "kata", "bilang", "ucap", "sebut", "tanya",
	"jawab", "minta", "beri", "kasih", "ambil", "bawa", "taruh", "simpan",
	"buang", "hapus", "ubah", "ganti", "tambah", "bagi", "kali",
	"coretax", "pajak", "djp", "kpp", "kantor", "pelayanan", "admin", "min",
	"nya", "sy", "gw", "gue", "lu", "lo", "ga", "tak", "mas", "mbak", "kak", "pak", "bu",
}
