package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/remote"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// FileRemote is the part of the file server the files service needs.
type FileRemote interface {
	ListFiles(ctx context.Context, base string) ([]models.RawFileEntry, error)
	DeleteByPattern(ctx context.Context, base, pattern string) (string, error)
}

// FilesService resolves downloads and runs pattern deletes for one
// customer at a time.
type FilesService struct {
	urls   ServerURLSource
	remote FileRemote
	log    logging.Logger
}

func NewFilesService(urls ServerURLSource, r FileRemote, log logging.Logger) *FilesService {
	return &FilesService{urls: urls, remote: r, log: log.With("module", "files")}
}

const globChars = "*?[]\\/"

func validateIdentifier(id string) error {
	if utf8.RuneCountInString(id) != filenames.IdentifierWidth || strings.ContainsAny(id, globChars) {
		return fmt.Errorf("%w: identifier must be %d characters without wildcards", common.ErrorValidation, filenames.IdentifierWidth)
	}
	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" || strings.ContainsAny(category, globChars) {
		return fmt.Errorf("%w: category must be non-empty and without wildcards", common.ErrorValidation)
	}
	return nil
}

// CategoryDownloadURL points at the newest file of one category.
func (s *FilesService) CategoryDownloadURL(ctx context.Context, id, category string) (string, error) {
	if err := validateIdentifier(id); err != nil {
		return "", err
	}
	if err := validateCategory(category); err != nil {
		return "", err
	}

	base, err := s.urls.ServerURL(ctx)
	if err != nil {
		return "", err
	}
	raw, err := s.remote.ListFiles(ctx, base)
	if err != nil {
		return "", err
	}

	name, ok := remote.LatestMatching(raw, id+category)
	if !ok {
		return "", common.ErrorNotFound
	}
	return remote.FileURL(base, name), nil
}

// ArchiveDownloadURL points at the server-side bulk zip of a customer.
func (s *FilesService) ArchiveDownloadURL(ctx context.Context, id string) (string, error) {
	if err := validateIdentifier(id); err != nil {
		return "", err
	}
	base, err := s.urls.ServerURL(ctx)
	if err != nil {
		return "", err
	}
	return remote.ArchiveDownloadURL(base, id), nil
}

func (s *FilesService) DeleteCategory(ctx context.Context, id, category string) (string, error) {
	if err := validateIdentifier(id); err != nil {
		return "", err
	}
	if err := validateCategory(category); err != nil {
		return "", err
	}
	return s.deleteByPattern(ctx, id+category+"*")
}

func (s *FilesService) DeleteArchive(ctx context.Context, id string) (string, error) {
	if err := validateIdentifier(id); err != nil {
		return "", err
	}
	return s.deleteByPattern(ctx, id+filenames.ArchiveCategory+"*.zip")
}

// DeleteCustomer removes every upload of the customer.
func (s *FilesService) DeleteCustomer(ctx context.Context, id string) (string, error) {
	if err := validateIdentifier(id); err != nil {
		return "", err
	}
	return s.deleteByPattern(ctx, id+"*")
}

func (s *FilesService) deleteByPattern(ctx context.Context, pattern string) (string, error) {
	base, err := s.urls.ServerURL(ctx)
	if err != nil {
		return "", err
	}

	msg, err := s.remote.DeleteByPattern(ctx, base, pattern)
	if err != nil {
		s.log.Error(ctx, "delete failed", "pattern", pattern, "error", err)
		return "", err
	}
	s.log.Info(ctx, "files deleted", "pattern", pattern, "result", msg)
	return msg, nil
}
