package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// MaxAttachmentSize est la limite appliquée avant toute tentative d'upload.
const MaxAttachmentSize = 10 << 20 // 10 MB

var ErrAttachmentTooLarge = errors.New("pièce jointe trop volumineuse (max 10 Mo)")

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// AttachmentStore pousse les pièces jointes de chat dans le bucket
// chat-attachments, sous {conversationKey}/{nom-aléatoire}.{ext}.
type AttachmentStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewAttachmentStore(cfg Config) (*AttachmentStore, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("S3 credentials not configured")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket not configured")
	}

	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().Str("bucket", cfg.Bucket).Str("region", cfg.Region).Msg("Attachment store configured")

	return &AttachmentStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload renvoie l'URL publique de l'objet créé.
func (s *AttachmentStore) Upload(ctx context.Context, conversationKey, filename, mimeType string, data []byte) (string, error) {
	if len(data) > MaxAttachmentSize {
		return "", ErrAttachmentTooLarge
	}
	if len(data) == 0 {
		return "", errors.New("pièce jointe vide")
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("%s/%s%s", conversationKey, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", errors.Wrap(err, "upload S3")
	}

	log.Info().Str("key", key).Int("size", len(data)).Msg("Pièce jointe uploadée")
	return s.publicURL + "/" + key, nil
}
