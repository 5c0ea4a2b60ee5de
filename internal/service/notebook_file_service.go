package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"edu_exam_backend/internal/model"
	"edu_exam_backend/internal/util"
	"edu_exam_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStorage 资料文件使用的存储能力，由 StorageService 实现
type FileStorage interface {
	ObjectOpener
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, key string, localPath string, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type NotebookFileService struct {
	FileRepo NotebookFileStore
	Storage  FileStorage
	probe    func(path string) (*util.MediaInfo, error)
}

func NewNotebookFileService(fileRepo NotebookFileStore, storage FileStorage) *NotebookFileService {
	return &NotebookFileService{FileRepo: fileRepo, Storage: storage, probe: util.ProbeMedia}
}

// Upload 嗅探类型后存储；文本类直接保存正文供出题使用，视频记录时长
func (s *NotebookFileService) Upload(ctx context.Context, ownerID, notebookID uint, fh *multipart.FileHeader) (*model.NotebookFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, util.AllowedNotebookMimeTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFileType, mimeType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	f := &model.NotebookFile{
		OwnerID:      ownerID,
		NotebookID:   notebookID,
		OriginalName: filepath.Base(fh.Filename),
		StorageKey:   fmt.Sprintf("notebooks/%d/%s%s", ownerID, uuid.New().String(), ext),
		MimeType:     mimeType,
		Size:         fh.Size,
		Status:       model.NotebookFileUploaded,
	}

	switch {
	case util.IsText(mimeType):
		err = s.storeText(ctx, f, src)
	case util.IsVideo(mimeType):
		err = s.storeVideo(ctx, f, src, ext)
	default:
		f.URL, err = s.Storage.Upload(ctx, f.StorageKey, src, fh.Size, mimeType)
	}
	if err != nil {
		return nil, err
	}

	if err := s.FileRepo.Create(ctx, f); err != nil {
		if derr := s.Storage.Delete(ctx, f.StorageKey); derr != nil {
			logger.Log.Warn("remove orphan notebook object", zap.String("key", f.StorageKey), zap.Error(derr))
		}
		return nil, err
	}
	logger.Log.Info("notebook file uploaded", zap.Uint("fileId", f.ID), zap.Uint("ownerId", ownerID),
		zap.String("mimeType", mimeType), zap.Int64("size", f.Size))
	return f, nil
}

func (s *NotebookFileService) storeText(ctx context.Context, f *model.NotebookFile, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	url, err := s.Storage.Upload(ctx, f.StorageKey, bytes.NewReader(data), int64(len(data)), f.MimeType)
	if err != nil {
		return err
	}
	f.URL = url
	f.ExtractedText = truncateRunes(strings.ToValidUTF8(string(data), ""), util.MaxExtractedTextChars)
	f.Status = model.NotebookFileReady
	return nil
}

// storeVideo ffprobe 需要本地路径，先落临时文件
func (s *NotebookFileService) storeVideo(ctx context.Context, f *model.NotebookFile, src io.Reader, ext string) error {
	tmp, err := os.CreateTemp("", "notebook-*"+ext)
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if info, err := s.probe(tmp.Name()); err != nil {
		logger.Log.Warn("probe notebook video failed", zap.String("name", f.OriginalName), zap.Error(err))
	} else {
		f.DurationSeconds = info.Duration
	}

	url, err := s.Storage.UploadFile(ctx, f.StorageKey, tmp.Name(), f.MimeType)
	if err != nil {
		return err
	}
	f.URL = url
	f.Status = model.NotebookFileReady
	return nil
}

func (s *NotebookFileService) List(ctx context.Context, ownerID, notebookID uint) ([]model.NotebookFile, error) {
	return s.FileRepo.ListByOwner(ctx, ownerID, notebookID)
}

func (s *NotebookFileService) Delete(ctx context.Context, ownerID, fileID uint) error {
	f, err := s.FileRepo.FindByID(ctx, fileID)
	if err != nil {
		return err
	}
	if f.OwnerID != ownerID {
		return fmt.Errorf("%w: file belongs to another user", util.ErrPermissionDenied)
	}
	if err := s.FileRepo.Delete(ctx, fileID); err != nil {
		return err
	}
	if err := s.Storage.Delete(ctx, f.StorageKey); err != nil {
		logger.Log.Warn("delete notebook object failed", zap.String("key", f.StorageKey), zap.Error(err))
	}
	return nil
}
