package archive

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type mockPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.input = in
	m.body, _ = io.ReadAll(in.Body)
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Archiver_Archive(t *testing.T) {
	put := &mockPutter{}
	a := newS3Archiver(put, "limpieza", "reportes")

	loc, err := a.Archive(context.Background(), "semana.pdf", "application/pdf", []byte("%PDF-1.3"))
	if err != nil {
		t.Fatalf("Archive 应成功: %v", err)
	}
	if loc != "s3://limpieza/reportes/semana.pdf" {
		t.Errorf("对象位置错误: %s", loc)
	}
	if *put.input.Key != "reportes/semana.pdf" || *put.input.ContentType != "application/pdf" {
		t.Errorf("上传参数错误: key=%s type=%s", *put.input.Key, *put.input.ContentType)
	}
	if string(put.body) != "%PDF-1.3" {
		t.Errorf("上传内容错误: %q", put.body)
	}
}

func TestS3Archiver_ArchiveError(t *testing.T) {
	a := newS3Archiver(&mockPutter{err: errors.New("access denied")}, "limpieza", "")

	if _, err := a.Archive(context.Background(), "semana.pdf", "application/pdf", nil); err == nil {
		t.Error("上传失败应返回错误")
	}
}

func TestNoop(t *testing.T) {
	loc, err := Noop{}.Archive(context.Background(), "x", "y", nil)
	if err != nil || loc != "" {
		t.Errorf("Noop 应返回空结果，实际 %q %v", loc, err)
	}
}
