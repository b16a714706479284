package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	ListenAddr  string `envconfig:"listen_addr" default:":8080"`
	DatabaseURL string `envconfig:"database_url"`

	MigrationsPath string `envconfig:"migrations_path" default:"file://migrations"`

	AMQPUser string `envconfig:"amqp_user" default:"guest"`
	AMQPPass string `envconfig:"amqp_pass" default:"guest"`
	AMQPHost string `envconfig:"amqp_host" default:"localhost"`
	AMQPPort string `envconfig:"amqp_port" default:"5672"`

	JWTSecret string `envconfig:"jwt_secret"`

	// Fonction d'envoi d'email hébergée. Si vide, on retombe sur le SMTP direct.
	MailFunctionURL string `envconfig:"mail_function_url"`
	MailFunctionKey string `envconfig:"mail_function_key"`

	SMTPHost string `envconfig:"smtp_host"`
	SMTPPort int    `envconfig:"smtp_port" default:"587"`
	SMTPUser string `envconfig:"smtp_user"`
	SMTPPass string `envconfig:"smtp_pass"`
	MailFrom string `envconfig:"mail_from" default:"ne-pas-repondre@preventia-duerp.fr"`

	S3Endpoint  string `envconfig:"s3_endpoint"`
	S3Region    string `envconfig:"s3_region" default:"eu-west-3"`
	S3Bucket    string `envconfig:"s3_bucket" default:"chat-attachments"`
	S3AccessKey string `envconfig:"s3_access_key"`
	S3SecretKey string `envconfig:"s3_secret_key"`
	S3PublicURL string `envconfig:"s3_public_url"`

	CORSOrigins []string `envconfig:"cors_origins" default:"http://localhost:5173"`
}

func NewLoadedConfig() (*Config, error) {
	godotenv.Load()

	var c Config
	if err := envconfig.Process("duerp", &c); err != nil {
		return nil, errors.WithStack(err)
	}

	if c.DatabaseURL == "" {
		return nil, errors.New("DUERP_DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return nil, errors.New("DUERP_JWT_SECRET is required")
	}

	return &c, nil
}
