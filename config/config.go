package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/turtletowerz/hlssort/logger"
	"github.com/turtletowerz/hlssort/m3u8"
)

// fields a kind is sorted by when no key is given for it
const (
	DefaultStreamField = m3u8.StreamBandwidth
	DefaultMediaField  = m3u8.MediaGroupID
	DefaultIFrameField = m3u8.IFrameBandwidth
)

const (
	defaultLogLevel    = "warn"
	defaultHTTPTimeout = 30 * time.Second
	defaultMaxRetries  = 3
	defaultUserAgent   = "hlssort"
)

type Config struct {
	Logging logger.Config `yaml:"logging"` // logging config
	HTTP    HTTPConfig    `yaml:"http"`    // http(s) fetch config
	Storage StorageConfig `yaml:"storage"` // cloud storage credentials
	Sort    SortConfig    `yaml:"sort"`    // default sort keys
}

type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	UserAgent  string        `yaml:"user_agent"`
}

type StorageConfig struct {
	S3    *S3Config    `yaml:"s3"`
	GCP   *GCPConfig   `yaml:"gcp"`
	Azure *AzureConfig `yaml:"azure"`
}

type S3Config struct {
	AccessKey      string `yaml:"access_key"`    // (env AWS_ACCESS_KEY_ID)
	Secret         string `yaml:"secret"`        // (env AWS_SECRET_ACCESS_KEY)
	SessionToken   string `yaml:"session_token"` // (env AWS_SESSION_TOKEN)
	Region         string `yaml:"region"`        // (env AWS_DEFAULT_REGION)
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
}

type GCPConfig struct {
	CredentialsJSON string `yaml:"credentials_json"` // (env GOOGLE_APPLICATION_CREDENTIALS)
}

type AzureConfig struct {
	AccountName string `yaml:"account_name"` // (env AZURE_STORAGE_ACCOUNT)
	AccountKey  string `yaml:"account_key"`  // (env AZURE_STORAGE_KEY)
}

// SortConfig holds the keys each kind is sorted by. Each is
// "primary[,secondary]"; a missing primary or secondary is the kind's
// default field: bandwidth, group-id and bandwidth.
type SortConfig struct {
	Stream string `yaml:"stream"`
	Media  string `yaml:"media"`
	IFrame string `yaml:"iframe"`
}

// NewConfig parses a yaml config body. An empty body yields the defaults.
func NewConfig(confString string) (*Config, error) {
	conf := &Config{
		Logging: logger.Config{
			Level: defaultLogLevel,
		},
		HTTP: HTTPConfig{
			Timeout:    defaultHTTPTimeout,
			MaxRetries: defaultMaxRetries,
			UserAgent:  defaultUserAgent,
		},
		Sort: SortConfig{
			Stream: string(DefaultStreamField),
			Media:  string(DefaultMediaField),
			IFrame: string(DefaultIFrameField),
		},
	}
	if confString != "" {
		if err := yaml.Unmarshal([]byte(confString), conf); err != nil {
			return nil, errors.Wrap(err, "could not parse config")
		}
	}

	if conf.HTTP.Timeout <= 0 {
		conf.HTTP.Timeout = defaultHTTPTimeout
	}
	if conf.HTTP.MaxRetries < 0 {
		conf.HTTP.MaxRetries = 0
	}
	if conf.HTTP.UserAgent == "" {
		conf.HTTP.UserAgent = defaultUserAgent
	}
	conf.Storage.applyEnv()

	if err := conf.Sort.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadConfig reads the config body from file, or from env HLSSORT_CONFIG_BODY
// when file is empty
func LoadConfig(file string) (*Config, error) {
	body := os.Getenv("HLSSORT_CONFIG_BODY")
	if file != "" {
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read config file %s", file)
		}
		body = string(content)
	}
	return NewConfig(body)
}

func (s *StorageConfig) applyEnv() {
	if s.S3 == nil {
		s.S3 = &S3Config{}
	}
	setFromEnv(&s.S3.AccessKey, "AWS_ACCESS_KEY_ID")
	setFromEnv(&s.S3.Secret, "AWS_SECRET_ACCESS_KEY")
	setFromEnv(&s.S3.SessionToken, "AWS_SESSION_TOKEN")
	setFromEnv(&s.S3.Region, "AWS_DEFAULT_REGION")

	if s.GCP == nil {
		s.GCP = &GCPConfig{}
	}
	if s.GCP.CredentialsJSON == "" {
		if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
			if content, err := os.ReadFile(path); err == nil {
				s.GCP.CredentialsJSON = string(content)
			}
		}
	}

	if s.Azure == nil {
		s.Azure = &AzureConfig{}
	}
	setFromEnv(&s.Azure.AccountName, "AZURE_STORAGE_ACCOUNT")
	setFromEnv(&s.Azure.AccountKey, "AZURE_STORAGE_KEY")
}

func setFromEnv(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}

// Validate checks every configured sort key
func (s *SortConfig) Validate() error {
	if _, _, err := StreamOrder(s.Stream); err != nil {
		return errors.Wrap(err, "sort.stream")
	}
	if _, _, err := MediaOrder(s.Media); err != nil {
		return errors.Wrap(err, "sort.media")
	}
	if _, _, err := IFrameOrder(s.IFrame); err != nil {
		return errors.Wrap(err, "sort.iframe")
	}
	return nil
}

// StreamOrder parses "primary[,secondary]". A missing primary or
// secondary is DefaultStreamField.
func StreamOrder(value string) (primary, secondary m3u8.StreamField, err error) {
	return parseOrder(value, m3u8.ParseStreamField, DefaultStreamField)
}

// MediaOrder is StreamOrder for EXT-X-MEDIA fields
func MediaOrder(value string) (primary, secondary m3u8.MediaField, err error) {
	return parseOrder(value, m3u8.ParseMediaField, DefaultMediaField)
}

// IFrameOrder is StreamOrder for EXT-X-I-FRAME-STREAM-INF fields
func IFrameOrder(value string) (primary, secondary m3u8.IFrameField, err error) {
	return parseOrder(value, m3u8.ParseIFrameField, DefaultIFrameField)
}

func parseOrder[F ~string](value string, parse func(string) (F, error), def F) (primary F, secondary F, err error) {
	primary, secondary = def, def
	if strings.TrimSpace(value) == "" {
		return
	}

	names := strings.Split(value, ",")
	if len(names) > 2 {
		err = errors.Errorf("expected primary[,secondary], got %q", value)
		return
	}

	if primary, err = parse(names[0]); err != nil {
		return
	}
	if len(names) == 2 {
		secondary, err = parse(names[1])
	}
	return
}
