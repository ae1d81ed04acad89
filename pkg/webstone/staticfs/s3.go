package staticfs

import (
	"context"
	"path"

	"emperror.dev/errors"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/webstone-io/webstone/pkg/webstone/config"
	"github.com/webstone-io/webstone/pkg/webstone/metrics"
)

const s3BackendLabel = "s3"

type s3Client struct {
	svcClient s3iface.S3API
	bucket    string
	prefix    string
	metricsCl metrics.Client
}

func newS3Client(cfg *config.StaticS3Config, metricsCl metrics.Client) (Client, error) {
	awsCfg := &aws.Config{
		Region:     aws.String(cfg.Region),
		DisableSSL: aws.Bool(cfg.DisableSSL),
	}

	// Load static credentials if they exist, otherwise the SDK default
	// chain applies
	if cfg.Credentials != nil && cfg.Credentials.AccessKey != nil && cfg.Credentials.SecretKey != nil {
		awsCfg.Credentials = credentials.NewStaticCredentials(
			cfg.Credentials.AccessKey.Value,
			cfg.Credentials.SecretKey.Value,
			"",
		)
	}

	// Load custom endpoint if it exists
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	// Check error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &s3Client{
		svcClient: s3.New(sess),
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		metricsCl: metricsCl,
	}, nil
}

func (c *s3Client) Get(ctx context.Context, p string) (*Resource, error) {
	obj, err := c.svcClient.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(p)),
	})
	// Metrics
	c.metricsCl.IncStorageOperations(s3BackendLabel, GetObjectOperation)
	// Check if error exists
	if err != nil {
		// Try to cast error into an AWS Error if possible
		// nolint: errorlint // Cast
		aerr, ok := err.(awserr.Error)
		if ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotFound
		}

		return nil, errors.WithStack(err)
	}

	res := &Resource{
		Body:        obj.Body,
		ContentType: contentTypeByPath(p),
	}

	if obj.ContentType != nil && *obj.ContentType != "" {
		res.ContentType = *obj.ContentType
	}

	if obj.ContentLength != nil {
		res.Size = *obj.ContentLength
	}

	if obj.LastModified != nil {
		res.ModTime = *obj.LastModified
	}

	return res, nil
}

func (c *s3Client) Stat(ctx context.Context, p string) (*Resource, error) {
	obj, err := c.svcClient.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(p)),
	})
	// Metrics
	c.metricsCl.IncStorageOperations(s3BackendLabel, GetObjectOperation)
	// Check if error exists
	if err != nil {
		// nolint: errorlint // Cast
		aerr, ok := err.(awserr.Error)
		if ok && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, ErrNotFound
		}

		return nil, errors.WithStack(err)
	}

	res := &Resource{ContentType: contentTypeByPath(p)}

	if obj.ContentType != nil && *obj.ContentType != "" {
		res.ContentType = *obj.ContentType
	}

	if obj.ContentLength != nil {
		res.Size = *obj.ContentLength
	}

	if obj.LastModified != nil {
		res.ModTime = *obj.LastModified
	}

	return res, nil
}

func (c *s3Client) key(p string) string {
	return path.Join(c.prefix, p)
}
