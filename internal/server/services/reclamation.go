package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/facturio/facturio/internal/common"
	sc "github.com/facturio/facturio/internal/server/config"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/facturio/facturio/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ReclamationService manages complaints and their file attachments. Attachment
// payloads never pass through the server; clients exchange them with
// S3-compatible storage via presigned URLs.
type ReclamationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewReclamationService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *ReclamationService {
	return &ReclamationService{db: db, repomanager: m, config: config}
}

// GetRandomStorageKey returns a date-partitioned unique object key.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Create files a reclamation against an existing client. New reclamations
// always start out "ouverte".
func (s *ReclamationService) Create(ctx context.Context, reclamation *models.Reclamation) (*models.Reclamation, error) {
	if _, err := s.repomanager.Clients(s.db).GetByID(ctx, reclamation.ClientID); err != nil {
		return nil, err
	}

	reclamation.Statut = models.ReclamationOuverte
	return s.repomanager.Reclamations(s.db).Create(ctx, reclamation)
}

func (s *ReclamationService) GetByID(ctx context.Context, id int64) (*models.Reclamation, error) {
	return s.repomanager.Reclamations(s.db).GetByID(ctx, id)
}

func (s *ReclamationService) List(ctx context.Context, skip, limit int) ([]*models.Reclamation, error) {
	return s.repomanager.Reclamations(s.db).List(ctx, skip, limit)
}

func (s *ReclamationService) ListByClient(ctx context.Context, clientID int64) ([]*models.Reclamation, error) {
	if _, err := s.repomanager.Clients(s.db).GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.repomanager.Reclamations(s.db).ListByClient(ctx, clientID)
}

func (s *ReclamationService) UpdateStatut(ctx context.Context, id int64, statut models.StatutReclamation) (*models.Reclamation, error) {
	return s.repomanager.Reclamations(s.db).UpdateStatut(ctx, id, statut)
}

func (s *ReclamationService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Reclamations(s.db).Delete(ctx, id)
}

func (s *ReclamationService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *ReclamationService) getPresignedPutURL(ctx context.Context) (string, string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

func (s *ReclamationService) getPresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// AttachmentUpload describes where the client should PUT the file payload.
type AttachmentUpload struct {
	Attachment *models.Attachment
	UploadURL  string
}

// CreateAttachment registers a file attachment on a reclamation and returns a
// presigned upload URL.
func (s *ReclamationService) CreateAttachment(ctx context.Context, reclamationID int64, filename string) (*AttachmentUpload, error) {
	if _, err := s.repomanager.Reclamations(s.db).GetByID(ctx, reclamationID); err != nil {
		return nil, err
	}

	key, url, err := s.getPresignedPutURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %v", err)
	}

	a := &models.Attachment{
		ReclamationID: reclamationID,
		StorageKey:    key,
		Filename:      filename,
	}
	a, err = s.repomanager.Attachments(s.db).Create(ctx, a)
	if err != nil {
		return nil, err
	}

	return &AttachmentUpload{Attachment: a, UploadURL: url}, nil
}

// ListAttachments returns the attachments registered on a reclamation.
func (s *ReclamationService) ListAttachments(ctx context.Context, reclamationID int64) ([]*models.Attachment, error) {
	if _, err := s.repomanager.Reclamations(s.db).GetByID(ctx, reclamationID); err != nil {
		return nil, err
	}
	return s.repomanager.Attachments(s.db).ListByReclamation(ctx, reclamationID)
}

// GetAttachmentDownloadURL presigns a GET for an attachment that belongs to
// the given reclamation.
func (s *ReclamationService) GetAttachmentDownloadURL(ctx context.Context, reclamationID, attachmentID int64) (string, error) {
	a, err := s.repomanager.Attachments(s.db).GetByID(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	if a.ReclamationID != reclamationID {
		return "", common.ErrorNotFound
	}

	url, err := s.getPresignedGetURL(ctx, a.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %v", err)
	}
	return url, nil
}
