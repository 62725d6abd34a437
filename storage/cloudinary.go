// Package storage uploads violation evidence images to object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/config"
)

// ObjectStore writes a blob under key and returns a URL it can be fetched from
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// imageUploader is the part of the cloudinary client we use
type imageUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// Cloudinary stores images in a cloudinary account
type Cloudinary struct {
	up imageUploader
}

// NewCloudinary builds a client from CLOUDINARY_URL when set, otherwise from
// the individual cloud name / key / secret settings.
func NewCloudinary(conf config.StorageConfig) (*Cloudinary, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if conf.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(conf.CloudinaryURL)
	} else {
		cld, err = cloudinary.NewFromParams(conf.CloudName, conf.APIKey, conf.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &Cloudinary{up: &cld.Upload}, nil
}

// Put uploads data as an image whose public id is key
func (c *Cloudinary) Put(ctx context.Context, key string, data []byte) (string, error) {
	res, err := c.up.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     key,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %w", key, errors.New(res.Error.Message))
	}
	zap.S().Debugw("uploaded image", "key", key, "url", res.SecureURL, "bytes", res.Bytes)
	return res.SecureURL, nil
}
