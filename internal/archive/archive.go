// Package archive 将生成的报表副本归档到对象存储
package archive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/irvinmora/sistema-limpieza/config"
)

// Archiver 报表归档接口
type Archiver interface {
	// Archive 上传 data，返回对象位置（如 s3://bucket/key）
	Archive(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Noop 未启用归档时使用
type Noop struct{}

// Archive 不做任何事
func (Noop) Archive(_ context.Context, _, _ string, _ []byte) (string, error) {
	return "", nil
}

// putObjectAPI s3.Client 的最小子集，便于测试替换
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver S3 兼容后端（AWS S3 / MinIO）
type S3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Archiver 按配置构建 S3 客户端
//
// 未显式提供访问密钥时沿用默认凭证链（环境变量、共享配置、实例角色）。
func NewS3Archiver(ctx context.Context, cfg *config.ArchiveConfig) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("归档 bucket 不能为空")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Archiver(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Archiver(client putObjectAPI, bucket, prefix string) *S3Archiver {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Archive 上传报表
func (a *S3Archiver) Archive(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := a.prefix + name
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("上传 %s 失败: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
