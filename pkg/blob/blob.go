// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/walteh/blobmig/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Uploader pushes staged local files into blob storage
type Uploader interface {
	// 📤 Put uploads the file at localPath under the given storage key
	Put(ctx context.Context, key string, localPath string) error
}

// 🪣 S3Uploader implements Uploader against an S3-compatible bucket,
// authenticated with a pre-shared key pair rather than per-call credentials.
type S3Uploader struct {
	bucket string
	prefix string
	client *s3.S3
}

// 🏭 NewS3Uploader creates an uploader for the configured bucket
func NewS3Uploader(args config.BlobArgs) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(args.Region),
		Credentials: credentials.NewStaticCredentials(args.AccessKey, args.SecretKey, ""),
	})
	if err != nil {
		return nil, errors.Errorf("creating aws session: %w", err)
	}

	return &S3Uploader{
		bucket: args.Bucket,
		prefix: args.KeyPrefix,
		client: s3.New(sess),
	}, nil
}

// 📤 Put uploads the file at localPath under key
func (u *S3Uploader) Put(ctx context.Context, key string, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errors.Errorf("opening staged file: %w", err)
	}
	defer f.Close()

	fullKey := key
	if u.prefix != "" {
		fullKey = strings.TrimSuffix(u.prefix, "/") + "/" + key
	}

	if _, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(fullKey),
		Body:   f,
	}); err != nil {
		return errors.Errorf("s3 PutObject: %w", err)
	}

	return nil
}

// 🔑 Key derives the storage key for a staged file: its path with the staging
// root stripped and separators normalized to forward slashes.
func Key(stagingRoot, localPath string) (string, error) {
	rel, err := filepath.Rel(stagingRoot, localPath)
	if err != nil {
		return "", errors.Errorf("computing key for %s: %w", localPath, err)
	}
	return filepath.ToSlash(rel), nil
}
