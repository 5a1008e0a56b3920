package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/logging"

	"github.com/turtletowerz/hlssort/config"
	"github.com/turtletowerz/hlssort/logger"
)

const (
	defaultBucketLocation = "us-east-1"
)

type s3Store struct {
	conf    *config.S3Config
	awsConf aws.Config
}

func newS3Store(ctx context.Context, conf *config.S3Config) (backend, error) {
	if conf == nil {
		conf = &config.S3Config{}
	}

	opts := func(o *awsConfig.LoadOptions) error {
		if conf.Region != "" {
			o.Region = conf.Region
		} else {
			o.Region = defaultBucketLocation
		}

		if conf.AccessKey != "" && conf.Secret != "" {
			o.Credentials = credentials.StaticCredentialsProvider{
				Value: aws.Credentials{
					AccessKeyID:     conf.AccessKey,
					SecretAccessKey: conf.Secret,
					SessionToken:    conf.SessionToken,
				},
			}
		}
		return nil
	}

	awsConf, err := awsConfig.LoadDefaultConfig(ctx, opts)
	if err != nil {
		return nil, err
	}
	if conf.Endpoint != "" {
		awsConf.BaseEndpoint = aws.String(conf.Endpoint)
	}

	return &s3Store{
		conf:    conf,
		awsConf: awsConf,
	}, nil
}

func (s *s3Store) client(l *s3Logger) *s3.Client {
	return s3.NewFromConfig(s.awsConf, func(o *s3.Options) {
		o.Logger = l
		o.UsePathStyle = s.conf.ForcePathStyle
	})
}

func (s *s3Store) get(ctx context.Context, loc *Location) (io.ReadCloser, error) {
	l := newS3Logger()
	out, err := s.client(l).GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		l.log()
		return nil, err
	}
	return out.Body, nil
}

func (s *s3Store) put(ctx context.Context, loc *Location, data []byte) error {
	l := newS3Logger()
	input := &s3.PutObjectInput{
		Body:        bytes.NewReader(data),
		Bucket:      aws.String(loc.Bucket),
		ContentType: aws.String(contentType),
		Key:         aws.String(loc.Key),
	}

	if _, err := manager.NewUploader(s.client(l)).Upload(ctx, input); err != nil {
		l.log()
		return err
	}
	return nil
}

// s3Logger only logs aws messages on failure
type s3Logger struct {
	mu   sync.Mutex
	msgs []string
	idx  int
}

func newS3Logger() *s3Logger {
	return &s3Logger{msgs: make([]string, 10)}
}

func (l *s3Logger) Logf(classification logging.Classification, format string, v ...interface{}) {
	format = "aws %s: " + format
	v = append([]interface{}{strings.ToLower(string(classification))}, v...)

	l.mu.Lock()
	l.msgs[l.idx%len(l.msgs)] = fmt.Sprintf(format, v...)
	l.idx++
	l.mu.Unlock()
}

func (l *s3Logger) log() {
	l.mu.Lock()
	size := len(l.msgs)
	for range size {
		if msg := l.msgs[l.idx%size]; msg != "" {
			logger.Debugw(msg)
		}
		l.idx++
	}
	l.mu.Unlock()
}
