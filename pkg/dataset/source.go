package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/stats-api/pkg/awsconf"
)

// DocumentSource entrega o documento bruto de um id.
type DocumentSource interface {
	Fetch(ctx context.Context, id int) ([]byte, error)
	Describe() string
}

// S3Client interface para Mock
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// DirSource lê <Dir>/<id>.json do disco local.
type DirSource struct {
	Dir string
}

func (d DirSource) Fetch(ctx context.Context, id int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(d.Dir, docName(id)))
}

func (d DirSource) Describe() string {
	return d.Dir
}

// S3Source lê s3://<Bucket>/<Prefix>/<id>.json.
type S3Source struct {
	Client S3Client
	Bucket string
	Prefix string
}

func (s S3Source) Fetch(ctx context.Context, id int) ([]byte, error) {
	return getObject(ctx, s.Client, s.Bucket, path.Join(s.Prefix, docName(id)))
}

func (s S3Source) Describe() string {
	return "s3://" + path.Join(s.Bucket, s.Prefix)
}

// OpenDocuments resolve a origem dos documentos pelo esquema do URI:
// caminho local (file:// opcional) ou s3://bucket/prefixo.
func OpenDocuments(ctx context.Context, uri, region string) (DocumentSource, error) {
	switch {
	case strings.HasPrefix(uri, "s3://"):
		bucket, prefix, err := splitS3(uri)
		if err != nil {
			return nil, err
		}
		cfg, err := awsconf.Get(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("erro config aws: %w", err)
		}
		return S3Source{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
	case strings.Contains(uri, "://") && !strings.HasPrefix(uri, "file://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, uri)
	default:
		return DirSource{Dir: strings.TrimPrefix(uri, "file://")}, nil
	}
}

func docName(id int) string {
	return strconv.Itoa(id) + ".json"
}

func getObject(ctx context.Context, client S3Client, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao baixar do S3: %w", err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// splitS3 separa s3://bucket/key em bucket e key.
func splitS3(uri string) (string, string, error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("uri s3 inválida: %s", uri)
	}
	return bucket, key, nil
}
