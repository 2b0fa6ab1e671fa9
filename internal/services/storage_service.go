// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/franchise-backoffice/internal/config"
)

// Upload folders.
const (
	FolderDocuments   = "documents"
	FolderAttachments = "attachments"
	FolderProofs      = "payment-proofs"
)

type StorageService struct {
	s3Client      s3iface.S3API
	bucket        string
	region        string
	cloudFrontURL string
	localBaseURL  string
}

var errStorageNotConfigured = domainError(CodeNotConfigured, "File storage is not configured")

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		bucket:        cfg.AWS.S3Bucket,
		region:        cfg.AWS.Region,
		cloudFrontURL: cfg.AWS.CloudFrontURL,
		localBaseURL:  fmt.Sprintf("http://%s:%s/uploads", cfg.Server.Host, cfg.Server.Port),
	}
	if cfg.AWS.AccessKeyID == "" {
		// Local development stores nothing and hands back a stable URL.
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	s.s3Client = s3.New(sess)
	return s, nil
}

// NewStorageServiceWithClient is used by tests to inject an S3 fake.
func NewStorageServiceWithClient(client s3iface.S3API, bucket, region string) *StorageService {
	return &StorageService{s3Client: client, bucket: bucket, region: region}
}

// Upload stores a multipart file under folder. Size and type limits are
// enforced by the validation rules before this is called.
func (s *StorageService) Upload(ctx context.Context, header *multipart.FileHeader, folder string) (*UploadResult, error) {
	if s == nil {
		return nil, errStorageNotConfigured
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := s.generateFileName(header.Filename, folder)

	result := &UploadResult{
		Key:      key,
		FileName: filepath.Base(header.Filename),
		Size:     int64(len(content)),
		MimeType: contentType,
	}

	if s.s3Client == nil {
		result.URL = fmt.Sprintf("%s/%s", s.localBaseURL, key)
		return result, nil
	}

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	result.URL = s.getS3URL(key)
	return result, nil
}

// Delete removes a stored object. Failures are logged and returned.
func (s *StorageService) Delete(ctx context.Context, key string) error {
	if s == nil || key == "" {
		return nil
	}
	if s.s3Client == nil {
		logrus.WithField("key", key).Debug("Local storage delete skipped")
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete stored file")
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) PresignedURL(key string, expiration time.Duration) (string, error) {
	if s == nil {
		return "", errStorageNotConfigured
	}
	if s.s3Client == nil {
		return fmt.Sprintf("%s/%s", s.localBaseURL, key), nil
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

func (s *StorageService) generateFileName(originalName, folder string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102"), uuid.New().String()[:8], ext)
	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.cloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.cloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// keyFromURL recovers the object key from a URL produced by Upload.
func (s *StorageService) keyFromURL(url string) string {
	for _, folder := range []string{FolderDocuments, FolderAttachments, FolderProofs} {
		if i := strings.Index(url, "/"+folder+"/"); i >= 0 {
			return url[i+1:]
		}
	}
	return ""
}
