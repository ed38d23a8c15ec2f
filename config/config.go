package config

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

type Config struct {
	MinIOBucket      string        `yaml:"minio_bucket"`
	StoragePublicURL string        `yaml:"storage_public_url"`
	App              App           `yaml:"app"`
	DB               *sql.DB       `yaml:"db"`
	Queue            *RabbitMQ     `yaml:"rabbitmq"`
	Storage          *minio.Client `yaml:"storage"`
	Server           Server        `yaml:"server"`
	Pipeline         Pipeline      `yaml:"pipeline"`
	ImageGen         ImageGen      `yaml:"imagegen"`
	Auth             Auth          `yaml:"auth"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Pipeline holds credentials for the managed transcoding service: the API
// used for upload sessions and asset retrieval, plus the shared secret its
// webhook sender signs payloads with.
type Pipeline struct {
	BaseURL       string `yaml:"base_url"`
	TokenID       string `yaml:"token_id"`
	TokenSecret   string `yaml:"token_secret"`
	WebhookSecret string `yaml:"webhook_secret"`
	ImageBaseURL  string `yaml:"image_base_url"`
}

// ImageGen holds credentials for the image-generation-from-prompt service
// used by the thumbnail workflow.
type ImageGen struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Size    string `yaml:"size"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
	if err != nil {
		return nil, err
	}

	rabbitmq := &RabbitMQ{
		Host: viper.GetString("rabbitmq_host"),
		Port: viper.GetInt("rabbitmq_port"),
		User: viper.GetString("rabbitmq_user"),
		Pass: viper.GetString("rabbitmq_pass"),
		Kind: viper.GetString("rabbitmq_kind"),
	}

	minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}

	return &Config{
		MinIOBucket:      viper.GetString("minio.bucket"),
		StoragePublicURL: viper.GetString("minio.public_url"),
		App: App{
			Environment: viper.GetString("app.environment"),
			Host:        viper.GetString("app.host"),
			Protocol:    viper.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Pipeline: Pipeline{
			BaseURL:       viper.GetString("pipeline.base_url"),
			TokenID:       viper.GetString("pipeline.token_id"),
			TokenSecret:   viper.GetString("pipeline.token_secret"),
			WebhookSecret: viper.GetString("pipeline.webhook_secret"),
			ImageBaseURL:  viper.GetString("pipeline.image_base_url"),
		},
		ImageGen: ImageGen{
			BaseURL: viper.GetString("imagegen.base_url"),
			APIKey:  viper.GetString("imagegen.api_key"),
			Model:   viper.GetString("imagegen.model"),
			Size:    viper.GetString("imagegen.size"),
		},
		Auth: Auth{
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		DB:      db,
		Queue:   rabbitmq,
		Storage: minioClient,
	}, nil
}
